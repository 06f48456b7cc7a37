package strategy

import "github.com/freeeve/bastion/pkg/arena"

// ScanWalls walks our half of the board and returns every wall we own plus
// the subset whose health ratio is below threshold. Upgraded walls are
// measured against their upgraded maximum.
func ScanWalls(bf Battlefield, threshold float64) (walls, low []arena.Location) {
	wallMax := bf.Stats(arena.Wall).MaxHealth
	for x := 0; x < arena.ArenaSize; x++ {
		for y := 0; y < arena.HalfArena; y++ {
			loc := arena.Loc(x, y)
			u, ok := bf.StationaryUnit(loc)
			if !ok {
				continue
			}
			if u.Type != arena.Wall || u.Player != arena.Self {
				continue
			}
			walls = append(walls, loc)
			if u.MaxHealth <= 0 {
				u.MaxHealth = wallMax
			}
			if u.HealthRatio() < threshold {
				low = append(low, loc)
			}
		}
	}
	return walls, low
}

// Census counts opponent structures matching every non-empty filter.
type Census struct {
	Kinds []arena.UnitType
	Xs    []int
	Ys    []int
}

// Count runs the census against the board.
func (c Census) Count(bf Battlefield) int {
	n := 0
	for _, u := range bf.StationaryUnits() {
		if u.Player != arena.Opponent {
			continue
		}
		if len(c.Kinds) > 0 && !containsKind(c.Kinds, u.Type) {
			continue
		}
		if len(c.Xs) > 0 && !containsInt(c.Xs, u.Location.X) {
			continue
		}
		if len(c.Ys) > 0 && !containsInt(c.Ys, u.Location.Y) {
			continue
		}
		n++
	}
	return n
}

func containsKind(kinds []arena.UnitType, k arena.UnitType) bool {
	for _, v := range kinds {
		if v == k {
			return true
		}
	}
	return false
}

func containsInt(vs []int, n int) bool {
	for _, v := range vs {
		if v == n {
			return true
		}
	}
	return false
}
