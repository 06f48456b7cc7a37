package arena

import (
	"encoding/json"
	"fmt"
)

// UnitStats are the static properties of one unit type.
type UnitStats struct {
	Shorthand       string
	Cost            Cost
	MaxHealth       float64
	AttackRange     float64
	DamageMobile    float64
	DamageStructure float64
	Speed           float64

	upgrade *UnitStats
}

// Upgraded returns the stats after an upgrade. Fields the upgrade block does
// not mention keep their base values. Cost is the price of the upgrade itself.
func (s UnitStats) Upgraded() UnitStats {
	if s.upgrade == nil {
		return s
	}
	u := s
	u.upgrade = nil
	if s.upgrade.Cost != (Cost{}) {
		u.Cost = s.upgrade.Cost
	}
	if s.upgrade.MaxHealth > 0 {
		u.MaxHealth = s.upgrade.MaxHealth
	}
	if s.upgrade.AttackRange > 0 {
		u.AttackRange = s.upgrade.AttackRange
	}
	if s.upgrade.DamageMobile > 0 {
		u.DamageMobile = s.upgrade.DamageMobile
	}
	if s.upgrade.DamageStructure > 0 {
		u.DamageStructure = s.upgrade.DamageStructure
	}
	return u
}

// Upgradable reports whether the config defines an upgrade for this type.
func (s UnitStats) Upgradable() bool { return s.upgrade != nil }

// GameConfig is the unit catalogue sent by the engine at game start.
type GameConfig struct {
	units       [Upgrade + 1]UnitStats
	byShorthand map[string]UnitType
}

type rawUnitInfo struct {
	Shorthand          string       `json:"shorthand"`
	Cost1              float64      `json:"cost1"`
	Cost2              float64      `json:"cost2"`
	StartHealth        float64      `json:"startHealth"`
	AttackRange        float64      `json:"attackRange"`
	AttackDamageWalker float64      `json:"attackDamageWalker"`
	AttackDamageTower  float64      `json:"attackDamageTower"`
	Speed              float64      `json:"speed"`
	Upgrade            *rawUnitInfo `json:"upgrade"`
}

func (r rawUnitInfo) stats() UnitStats {
	s := UnitStats{
		Shorthand:       r.Shorthand,
		Cost:            Cost{r.Cost1, r.Cost2},
		MaxHealth:       r.StartHealth,
		AttackRange:     r.AttackRange,
		DamageMobile:    r.AttackDamageWalker,
		DamageStructure: r.AttackDamageTower,
		Speed:           r.Speed,
	}
	if r.Upgrade != nil {
		up := r.Upgrade.stats()
		s.upgrade = &up
	}
	return s
}

type rawConfig struct {
	UnitInformation []rawUnitInfo `json:"unitInformation"`
}

// ParseConfig decodes the game-start config message. Unit kinds are taken
// positionally: wall, support, turret, scout, demolisher, interceptor, and
// optionally the remove and upgrade pseudo-units.
func ParseConfig(data []byte) (*GameConfig, error) {
	if err := validate(configSchemaName, data); err != nil {
		return nil, err
	}
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: config: %v", ErrMalformedPayload, err)
	}
	if len(raw.UnitInformation) < int(Interceptor)+1 {
		return nil, fmt.Errorf("%w: config lists %d unit types, need at least %d",
			ErrMalformedPayload, len(raw.UnitInformation), int(Interceptor)+1)
	}

	cfg := &GameConfig{byShorthand: make(map[string]UnitType)}
	cfg.units[Remove] = UnitStats{Shorthand: "RM"}
	cfg.units[Upgrade] = UnitStats{Shorthand: "UP"}
	for i, info := range raw.UnitInformation {
		if i > int(Upgrade) {
			break
		}
		cfg.units[i] = info.stats()
	}
	for i, s := range cfg.units {
		if s.Shorthand == "" {
			return nil, fmt.Errorf("%w: unit %s has no shorthand", ErrMalformedPayload, UnitType(i))
		}
		cfg.byShorthand[s.Shorthand] = UnitType(i)
	}
	return cfg, nil
}

// DefaultConfig returns the standard season catalogue. It is used when
// replaying journals that predate config capture, and by tests.
func DefaultConfig() *GameConfig {
	cfg, err := ParseConfig([]byte(DefaultConfigJSON))
	if err != nil {
		panic(fmt.Sprintf("arena: default config: %v", err))
	}
	return cfg
}

// DefaultConfigJSON is the game-start message for the standard catalogue.
const DefaultConfigJSON = `{"unitInformation":[
{"shorthand":"FF","cost1":1,"startHealth":60,"upgrade":{"cost1":1,"startHealth":120}},
{"shorthand":"EF","cost1":4,"startHealth":30,"upgrade":{"cost1":4}},
{"shorthand":"DF","cost1":2,"startHealth":75,"attackRange":2.5,"attackDamageWalker":5,"upgrade":{"cost1":4,"attackRange":3.5,"attackDamageWalker":15}},
{"shorthand":"PI","cost2":1,"startHealth":15,"attackRange":3.5,"attackDamageWalker":2,"attackDamageTower":2,"speed":1},
{"shorthand":"EI","cost2":3,"startHealth":5,"attackRange":4.5,"attackDamageWalker":8,"attackDamageTower":8,"speed":0.5},
{"shorthand":"SI","cost2":1,"startHealth":40,"attackRange":4.5,"attackDamageWalker":20,"speed":0.25},
{"shorthand":"RM"},
{"shorthand":"UP"}
]}`

// Stats returns the base stats for t.
func (c *GameConfig) Stats(t UnitType) UnitStats {
	if t < 0 || t > Upgrade {
		return UnitStats{}
	}
	return c.units[t]
}

// TypeOf resolves a shorthand such as "FF" to its unit type.
func (c *GameConfig) TypeOf(shorthand string) (UnitType, error) {
	t, ok := c.byShorthand[shorthand]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, shorthand)
	}
	return t, nil
}
