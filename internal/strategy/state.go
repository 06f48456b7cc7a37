package strategy

import "github.com/freeeve/bastion/pkg/arena"

// Branch is the corner a multi-turn combo works on.
type Branch int

const (
	BranchNone  Branch = 0
	BranchLeft  Branch = 1
	BranchRight Branch = 2
)

func (b Branch) String() string {
	switch b {
	case BranchLeft:
		return "left"
	case BranchRight:
		return "right"
	}
	return "none"
}

// State is everything the engine carries from one turn to the next. It has a
// single owner: one match driver feeds it frames and planning passes in turn
// order, and each call returns the updated value.
type State struct {
	// Turn is the last planned turn, -1 before the first.
	Turn int `json:"turn"`
	// Branch is set when a Consolidate phase starts and read by the Strike
	// phase that completes the combo.
	Branch Branch `json:"branch"`
	// WallBreaches holds our walls destroyed since the last planning pass.
	WallBreaches []arena.Location `json:"wall_breaches"`
	// ScoredOn holds every cell the opponent scored on this match. It is
	// never cleared.
	ScoredOn []arena.Location `json:"scored_on"`
	// Walls and LowHealthWalls are the current turn's scan.
	Walls          []arena.Location `json:"walls"`
	LowHealthWalls []arena.Location `json:"low_health_walls"`
}

// NewState returns the state at match start.
func NewState() State {
	return State{Turn: -1}
}

// RecordBreaches folds one action frame's breach events into the state. It
// only appends, so it is safe to call for every simulation frame.
func (s State) RecordBreaches(breaches []arena.Breach) State {
	for _, b := range breaches {
		if !b.BySelf() {
			s.ScoredOn = append(s.ScoredOn, b.Location)
			continue
		}
		if b.Kind == arena.Wall {
			s.WallBreaches = append(s.WallBreaches, b.Location)
		}
	}
	return s
}
