// Package strategy is the per-turn decision engine: it tracks structure
// health and breach history across turns, repairs and upgrades the defensive
// layout, ranks mobile spawn points by path risk, and picks one posture per
// turn from a strategy profile.
package strategy

import "github.com/freeeve/bastion/pkg/arena"

// Battlefield is the engine-side query and action surface one planning pass
// runs against. Attempt calls may silently do nothing (unaffordable, cell
// occupied, invalid location); callers never rely on them succeeding unless
// they check the result.
type Battlefield interface {
	TurnNumber() int
	Stats(t arena.UnitType) arena.UnitStats
	StationaryUnit(loc arena.Location) (arena.Unit, bool)
	StationaryUnits() []arena.Unit
	Attackers(loc arena.Location, defender arena.Player) []arena.Unit
	PathToEdge(start arena.Location) []arena.Location
	EdgeLocations(edges ...arena.Edge) []arena.Location
	TypeCost(t arena.UnitType) arena.Cost
	NumberAffordable(t arena.UnitType) int
	Resource(pool arena.Pool) float64

	AttemptSpawn(t arena.UnitType, locs []arena.Location, count int) bool
	AttemptUpgrade(locs []arena.Location) bool
	AttemptRemove(locs []arena.Location) bool
}

var _ Battlefield = (*arena.GameState)(nil)

func at(loc arena.Location) []arena.Location { return []arena.Location{loc} }

func contains(locs []arena.Location, loc arena.Location) bool {
	for _, l := range locs {
		if l == loc {
			return true
		}
	}
	return false
}
