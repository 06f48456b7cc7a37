package arena

import (
	"encoding/json"
	"fmt"
)

// Owner markers used inside raw frame events. These differ from Player:
// the engine counts players from 1.
const (
	OwnerSelf     = 1
	OwnerOpponent = 2
)

// Breach is one entry of an action frame's events.breach list:
// [location, _, _, unit kind, owner marker].
type Breach struct {
	Location Location
	Kind     UnitType
	Owner    int
}

// BySelf reports whether the breach carries our owner marker.
func (b Breach) BySelf() bool { return b.Owner == OwnerSelf }

// ActionFrame is the part of a simulation frame the decision engine reads.
type ActionFrame struct {
	Turn     int
	Frame    int
	Breaches []Breach
}

// Frame decodes the breach events of an action-frame envelope. The unit kind
// may be a config shorthand or a numeric type index.
func (e Envelope) Frame(cfg *GameConfig) (*ActionFrame, error) {
	f := &ActionFrame{Turn: e.Turn(), Frame: -1}
	if len(e.TurnInfo) > 2 {
		f.Frame = e.TurnInfo[2]
	}
	if len(e.Events.Breach) == 0 {
		return f, nil
	}
	f.Breaches = make([]Breach, 0, len(e.Events.Breach))
	for _, raw := range e.Events.Breach {
		b, err := parseBreach(cfg, raw)
		if err != nil {
			return nil, err
		}
		f.Breaches = append(f.Breaches, b)
	}
	return f, nil
}

func parseBreach(cfg *GameConfig, raw json.RawMessage) (Breach, error) {
	var b Breach
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return b, fmt.Errorf("%w: breach: %v", ErrMalformedPayload, err)
	}
	if len(fields) < 5 {
		return b, fmt.Errorf("%w: breach has %d fields, need 5", ErrMalformedPayload, len(fields))
	}
	if err := json.Unmarshal(fields[0], &b.Location); err != nil {
		return b, fmt.Errorf("%w: breach: %v", ErrMalformedPayload, err)
	}

	var shorthand string
	var index float64
	switch {
	case json.Unmarshal(fields[3], &shorthand) == nil:
		t, err := cfg.TypeOf(shorthand)
		if err != nil {
			return b, err
		}
		b.Kind = t
	case json.Unmarshal(fields[3], &index) == nil:
		b.Kind = UnitType(int(index))
	default:
		return b, fmt.Errorf("%w: breach unit kind %s", ErrMalformedPayload, fields[3])
	}

	var owner float64
	if err := json.Unmarshal(fields[4], &owner); err != nil {
		return b, fmt.Errorf("%w: breach owner: %v", ErrMalformedPayload, err)
	}
	b.Owner = int(owner)
	return b, nil
}
