package strategy

import "github.com/freeeve/bastion/pkg/arena"

func newField(turn int, sp, mp float64) *arena.GameState {
	return arena.NewGameState(arena.DefaultConfig(), &arena.Snapshot{
		Turn: turn,
		Stats: [2]arena.PlayerStats{
			{Health: 30, SP: sp, MP: mp},
			{Health: 30, SP: 40, MP: 10},
		},
	})
}

func place(gs *arena.GameState, t arena.UnitType, p arena.Player, locs ...arena.Location) {
	for _, loc := range locs {
		gs.PlaceUnit(arena.Unit{Type: t, Player: p, Location: loc})
	}
}

func placeLayout(gs *arena.GameState, l Layout, skip ...arena.Location) {
	keep := func(locs []arena.Location) []arena.Location {
		var out []arena.Location
		for _, loc := range locs {
			if !contains(skip, loc) {
				out = append(out, loc)
			}
		}
		return out
	}
	place(gs, arena.Turret, arena.Self, keep(l.Turrets)...)
	place(gs, arena.Wall, arena.Self, keep(l.Walls)...)
	place(gs, arena.Support, arena.Self, keep(l.Supports)...)
}

// fakeField answers path and attacker queries from fixed tables.
type fakeField struct {
	*arena.GameState
	paths     map[arena.Location][]arena.Location
	attackers map[arena.Location]int
	pathCalls int
}

func (f *fakeField) PathToEdge(start arena.Location) []arena.Location {
	f.pathCalls++
	return f.paths[start]
}

func (f *fakeField) Attackers(loc arena.Location, defender arena.Player) []arena.Unit {
	return make([]arena.Unit, f.attackers[loc])
}

func sameLocations(a, b []arena.Location) bool {
	if len(a) != len(b) {
		return false
	}
	for _, loc := range a {
		if !contains(b, loc) {
			return false
		}
	}
	return true
}
