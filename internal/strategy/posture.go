package strategy

import (
	"github.com/rs/zerolog/log"

	"github.com/freeeve/bastion/pkg/arena"
)

// Posture is the named plan a turn runs.
type Posture int

const (
	PostureNone Posture = iota
	Bootstrap
	Turtle
	Consolidate
	Strike
	Bombardment
	Spam
)

var postureNames = [...]string{"none", "bootstrap", "turtle", "consolidate", "strike", "bombardment", "spam"}

func (p Posture) String() string {
	if p < 0 || int(p) >= len(postureNames) {
		return "unknown"
	}
	return postureNames[p]
}

// bootstrap lays the template and sends the opening wave.
func (s *Selector) bootstrap(bf Battlefield, st State) {
	Maintain(bf, st, s.profile)
	w := s.profile.BootstrapWave
	bf.AttemptSpawn(w.Unit, at(w.Location), w.Count)
}

// stall floods our two bottom edges with interceptors at random free cells
// until MP runs out.
func (s *Selector) stall(bf Battlefield) {
	edges := bf.EdgeLocations(arena.BottomLeft, arena.BottomRight)
	var open []arena.Location
	for _, loc := range edges {
		if _, blocked := bf.StationaryUnit(loc); !blocked {
			open = append(open, loc)
		}
	}
	price := bf.TypeCost(arena.Interceptor)[arena.MP]
	if price <= 0 {
		return
	}
	for len(open) > 0 && bf.Resource(arena.MP) >= price {
		i := s.dice.Intn(len(open))
		if !bf.AttemptSpawn(arena.Interceptor, at(open[i]), 1) {
			open = append(open[:i], open[i+1:]...)
		}
	}
}

// consolidate runs maintenance, then opens a known breach at the branch's
// corner by removing its wall and turret, and parks interceptors behind it.
func (s *Selector) consolidate(bf Battlefield, st State, roll bool) State {
	if roll || st.Branch == BranchNone {
		st.Branch = s.dice.Branch()
	}
	c := s.profile.Corner(st.Branch)
	Maintain(bf, st, s.profile, c.Wall, c.Turret)
	bf.AttemptRemove([]arena.Location{c.Wall, c.Turret})
	bf.AttemptSpawn(arena.Interceptor, at(c.InterceptorPoint), s.profile.ConsolidateInterceptors)
	return st
}

// strike completes the combo started by consolidate on the same corner:
// close the breach, open the attack lane, spend SP on lane walls, place the
// escort, drop the lane walls again, and send every affordable scout.
func (s *Selector) strike(bf Battlefield, st State) {
	b := st.Branch
	if b == BranchNone {
		log.Warn().Int("turn", bf.TurnNumber()).Msg("Strike without a consolidate branch; using left corner")
		b = BranchLeft
	}
	c := s.profile.Corner(b)

	Repair(bf, st)
	bf.AttemptSpawn(arena.Wall, at(c.Wall), 1)
	bf.AttemptSpawn(arena.Turret, at(c.Turret), 1)
	bf.AttemptRemove(c.LaneGap)
	for _, loc := range c.LaneWalls {
		bf.AttemptSpawn(arena.Wall, at(loc), 1)
	}
	bf.AttemptSpawn(arena.Interceptor, at(c.InterceptorPoint), s.profile.StrikeInterceptors)
	bf.AttemptRemove(c.LaneWalls)
	bf.AttemptSpawn(arena.Scout, at(c.LaunchPoint), bf.NumberAffordable(arena.Scout))
}

// CheapestStructure returns the stationary type with the lowest SP price,
// preferring wall, then turret, then support on ties.
func CheapestStructure(bf Battlefield) arena.UnitType {
	cheapest := arena.Wall
	for _, t := range []arena.UnitType{arena.Turret, arena.Support} {
		if bf.TypeCost(t)[arena.SP] < bf.TypeCost(cheapest)[arena.SP] {
			cheapest = t
		}
	}
	return cheapest
}

// bombard builds a line of the cheapest structure so demolishers stop at
// long range, then spends all MP on demolishers at the firing point.
func (s *Selector) bombard(bf Battlefield) {
	p := s.profile
	line := CheapestStructure(bf)
	for x := p.BombardFromX; x >= p.BombardToX; x-- {
		bf.AttemptSpawn(line, at(arena.Loc(x, p.BombardRow)), 1)
	}
	bf.AttemptSpawn(arena.Demolisher, at(p.BombardPoint), bf.NumberAffordable(arena.Demolisher))
}

// spam sends every affordable scout from the least risky scout point on odd
// turns, and reinforces the support cluster every turn.
func (s *Selector) spam(bf Battlefield, turn int) {
	if turn%2 == 1 {
		if loc, ok := LeastRisky(bf, s.profile.ScoutPoints); ok {
			bf.AttemptSpawn(arena.Scout, at(loc), bf.NumberAffordable(arena.Scout))
		}
	}
	bf.AttemptSpawn(arena.Support, s.profile.SupportCluster, 1)
}
