package arena

import (
	"encoding/json"
	"fmt"
)

// MessageKind classifies a line received from the engine.
type MessageKind int

const (
	KindUnknown MessageKind = iota
	KindConfig
	KindTurn
	KindFrame
	KindEnd
)

func (k MessageKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTurn:
		return "turn"
	case KindFrame:
		return "frame"
	case KindEnd:
		return "end"
	}
	return "unknown"
}

// Envelope is the cheap first decode of an engine line: enough to route it
// and, for action frames, to read breach events without touching the board.
type Envelope struct {
	UnitInformation json.RawMessage `json:"unitInformation"`
	TurnInfo        []int           `json:"turnInfo"`
	Events          struct {
		Breach []json.RawMessage `json:"breach"`
	} `json:"events"`
}

// Peek decodes the routing fields of an engine line.
func Peek(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return env, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return env, nil
}

// Kind reports what the line carries. turnInfo[0] is 0 for a turn, 1 for an
// action frame, and 2 for end of game.
func (e Envelope) Kind() MessageKind {
	if len(e.UnitInformation) > 0 {
		return KindConfig
	}
	if len(e.TurnInfo) == 0 {
		return KindUnknown
	}
	switch e.TurnInfo[0] {
	case 0:
		return KindTurn
	case 1:
		return KindFrame
	case 2:
		return KindEnd
	}
	return KindUnknown
}

// Turn is the turn number, or -1 when turnInfo is missing.
func (e Envelope) Turn() int {
	if len(e.TurnInfo) < 2 {
		return -1
	}
	return e.TurnInfo[1]
}

// PlayerStats are one player's health and resource pools.
type PlayerStats struct {
	Health float64
	SP     float64
	MP     float64
}

// Snapshot is a decoded turn message.
type Snapshot struct {
	Turn  int
	Stats [2]PlayerStats
	Units []Unit
}

type rawTurn struct {
	P1Units  [][][]any `json:"p1Units"`
	P2Units  [][][]any `json:"p2Units"`
	P1Stats  []float64 `json:"p1Stats"`
	P2Stats  []float64 `json:"p2Stats"`
	TurnInfo []int     `json:"turnInfo"`
}

// ParseSnapshot validates and decodes a turn message. A message that fails
// validation yields no snapshot at all.
func ParseSnapshot(cfg *GameConfig, data []byte) (*Snapshot, error) {
	if err := validate(turnSchemaName, data); err != nil {
		return nil, err
	}
	var raw rawTurn
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: turn: %v", ErrMalformedPayload, err)
	}

	snap := &Snapshot{
		Turn:  raw.TurnInfo[1],
		Stats: [2]PlayerStats{parseStats(raw.P1Stats), parseStats(raw.P2Stats)},
	}
	for i, groups := range [2][][][]any{raw.P1Units, raw.P2Units} {
		units, err := parseUnitGroups(cfg, Player(i), groups)
		if err != nil {
			return nil, err
		}
		snap.Units = append(snap.Units, units...)
	}
	return snap, nil
}

func parseStats(v []float64) PlayerStats {
	return PlayerStats{Health: v[0], SP: v[1], MP: v[2]}
}

// parseUnitGroups turns the per-type unit lists into units. The remove and
// upgrade groups only flag the structure already standing on that cell.
func parseUnitGroups(cfg *GameConfig, p Player, groups [][][]any) ([]Unit, error) {
	var units []Unit
	flags := make(map[Location]UnitType)
	for i, group := range groups {
		t := UnitType(i)
		for _, entry := range group {
			u, err := parseUnitEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: %s unit: %v", ErrMalformedPayload, t, err)
			}
			if t == Remove || t == Upgrade {
				flags[u.Location] = t
				continue
			}
			u.Type = t
			u.Player = p
			u.MaxHealth = cfg.Stats(t).MaxHealth
			units = append(units, u)
		}
	}
	for i := range units {
		if !units[i].Type.IsStationary() {
			continue
		}
		switch flags[units[i].Location] {
		case Remove:
			units[i].PendingRemoval = true
		case Upgrade:
			units[i].Upgraded = true
			units[i].MaxHealth = cfg.Stats(units[i].Type).Upgraded().MaxHealth
		}
	}
	return units, nil
}

func parseUnitEntry(entry []any) (Unit, error) {
	var u Unit
	if len(entry) < 3 {
		return u, fmt.Errorf("expected at least 3 fields, got %d", len(entry))
	}
	x, okX := entry[0].(float64)
	y, okY := entry[1].(float64)
	hp, okH := entry[2].(float64)
	if !okX || !okY || !okH {
		return u, fmt.Errorf("non-numeric position or health")
	}
	u.Location = Loc(int(x), int(y))
	u.Health = hp
	if len(entry) > 3 {
		switch id := entry[3].(type) {
		case string:
			u.ID = id
		case float64:
			u.ID = fmt.Sprintf("%d", int64(id))
		}
	}
	return u, nil
}
