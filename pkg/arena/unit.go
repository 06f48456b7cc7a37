package arena

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedPayload marks an engine message that could not be decoded.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUnknownUnit marks a unit reference that is not in the game config.
	ErrUnknownUnit = errors.New("unknown unit type")
)

// UnitType indexes the config's unitInformation list. The first three kinds
// are stationary structures, the next three are mobile units, and the last
// two are the pseudo-units used to request removals and upgrades.
type UnitType int

const (
	Wall UnitType = iota
	Support
	Turret
	Scout
	Demolisher
	Interceptor
	Remove
	Upgrade
)

var unitNames = [...]string{"wall", "support", "turret", "scout", "demolisher", "interceptor", "remove", "upgrade"}

func (t UnitType) String() string {
	if t < 0 || int(t) >= len(unitNames) {
		return fmt.Sprintf("unit(%d)", int(t))
	}
	return unitNames[t]
}

// IsStationary reports whether t is a structure.
func (t UnitType) IsStationary() bool { return t >= Wall && t <= Turret }

// IsMobile reports whether t is a mobile unit.
func (t UnitType) IsMobile() bool { return t >= Scout && t <= Interceptor }

// ParseUnitType maps a lowercase unit name to its type.
func ParseUnitType(name string) (UnitType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range unitNames {
		if n == name {
			return UnitType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
}

// Player is a starter-kit player index: 0 is us, 1 is the opponent.
type Player int

const (
	Self     Player = 0
	Opponent Player = 1
)

// Pool identifies one of the two resource pools.
type Pool int

const (
	// SP (structure points) pays for structures.
	SP Pool = 0
	// MP (mobility points) pays for mobile units.
	MP Pool = 1
)

func (p Pool) String() string {
	if p == SP {
		return "SP"
	}
	return "MP"
}

// Cost is a price in both pools, indexed by Pool.
type Cost [2]float64

// Unit is one unit on the board.
type Unit struct {
	ID             string
	Type           UnitType
	Player         Player
	Location       Location
	Health         float64
	MaxHealth      float64
	Upgraded       bool
	PendingRemoval bool
}

// HealthRatio is current over max health; 0 when max health is unknown.
func (u Unit) HealthRatio() float64 {
	if u.MaxHealth <= 0 {
		return 0
	}
	return u.Health / u.MaxHealth
}
