package arena

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
)

// Deploy is one entry of a submitted turn, serialized as [shorthand, x, y].
type Deploy struct {
	Shorthand string
	Type      UnitType
	Location  Location
}

func (d Deploy) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{d.Shorthand, d.Location.X, d.Location.Y})
}

// TurnActions is the batch accumulated during one planning pass. Structures
// holds structure spawns, upgrades and removals in call order; Mobile holds
// mobile unit spawns.
type TurnActions struct {
	Structures []Deploy
	Mobile     []Deploy
}

// Count returns how many entries of type t the batch holds.
func (a TurnActions) Count(t UnitType) int {
	n := 0
	for _, list := range [2][]Deploy{a.Structures, a.Mobile} {
		for _, d := range list {
			if d.Type == t {
				n++
			}
		}
	}
	return n
}

// Locations returns, in order, the cells targeted by entries of type t.
func (a TurnActions) Locations(t UnitType) []Location {
	var locs []Location
	for _, list := range [2][]Deploy{a.Structures, a.Mobile} {
		for _, d := range list {
			if d.Type == t {
				locs = append(locs, d.Location)
			}
		}
	}
	return locs
}

// GameState is our view of one turn. Queries read the snapshot; attempt
// calls validate against it, update it locally (resources, occupancy), and
// queue the deploy for SubmitTurn. Failed attempts change nothing.
type GameState struct {
	cfg        *GameConfig
	turn       int
	stats      [2]PlayerStats
	stationary map[Location]*Unit
	mobile     []Unit
	actions    TurnActions
}

// NewGameState builds the turn view from a snapshot.
func NewGameState(cfg *GameConfig, snap *Snapshot) *GameState {
	gs := &GameState{
		cfg:        cfg,
		turn:       snap.Turn,
		stats:      snap.Stats,
		stationary: make(map[Location]*Unit),
	}
	for _, u := range snap.Units {
		gs.PlaceUnit(u)
	}
	return gs
}

// PlaceUnit puts a unit on the board without charging for it, for building
// hypothetical boards. A structure replaces whatever structure held the cell.
func (gs *GameState) PlaceUnit(u Unit) {
	if u.MaxHealth == 0 {
		st := gs.cfg.Stats(u.Type)
		if u.Upgraded {
			st = st.Upgraded()
		}
		u.MaxHealth = st.MaxHealth
	}
	if u.Health == 0 {
		u.Health = u.MaxHealth
	}
	if u.Type.IsStationary() {
		unit := u
		gs.stationary[u.Location] = &unit
		return
	}
	gs.mobile = append(gs.mobile, u)
}

// Config returns the unit catalogue.
func (gs *GameState) Config() *GameConfig { return gs.cfg }

// TurnNumber is the current turn, starting at 0.
func (gs *GameState) TurnNumber() int { return gs.turn }

// Stats returns the base stats for a unit type.
func (gs *GameState) Stats(t UnitType) UnitStats { return gs.cfg.Stats(t) }

// StationaryUnit returns the structure on loc, if any.
func (gs *GameState) StationaryUnit(loc Location) (Unit, bool) {
	u, ok := gs.stationary[loc]
	if !ok {
		return Unit{}, false
	}
	return *u, true
}

// StationaryUnits lists every structure on the board in row-major order.
func (gs *GameState) StationaryUnits() []Unit {
	units := make([]Unit, 0, len(gs.stationary))
	for _, u := range gs.stationary {
		units = append(units, *u)
	}
	sort.Slice(units, func(i, j int) bool {
		if units[i].Location.Y != units[j].Location.Y {
			return units[i].Location.Y < units[j].Location.Y
		}
		return units[i].Location.X < units[j].Location.X
	})
	return units
}

// Attackers lists the structures of defender's opponent that can hit a
// mobile unit standing on loc.
func (gs *GameState) Attackers(loc Location, defender Player) []Unit {
	var out []Unit
	for _, u := range gs.StationaryUnits() {
		if u.Player == defender {
			continue
		}
		st := gs.cfg.Stats(u.Type)
		if u.Upgraded {
			st = st.Upgraded()
		}
		if st.DamageMobile <= 0 {
			continue
		}
		if Distance(u.Location, loc) <= st.AttackRange {
			out = append(out, u)
		}
	}
	return out
}

// EdgeLocations lists the cells of the given edges, in argument order.
func (gs *GameState) EdgeLocations(edges ...Edge) []Location {
	var locs []Location
	for _, e := range edges {
		locs = append(locs, EdgeLocations(e)...)
	}
	return locs
}

// TypeCost is the price of spawning t.
func (gs *GameState) TypeCost(t UnitType) Cost { return gs.cfg.Stats(t).Cost }

// Resource returns how much of pool we hold after this turn's attempts.
func (gs *GameState) Resource(pool Pool) float64 {
	return gs.ResourceOf(pool, Self)
}

// ResourceOf returns a player's pool.
func (gs *GameState) ResourceOf(pool Pool, p Player) float64 {
	if pool == SP {
		return gs.stats[p].SP
	}
	return gs.stats[p].MP
}

// NumberAffordable is how many units of t our current resources pay for.
func (gs *GameState) NumberAffordable(t UnitType) int {
	return affordable(gs.TypeCost(t), gs.stats[Self])
}

func affordable(c Cost, have PlayerStats) int {
	n := math.MaxInt
	priced := false
	for pool, price := range c {
		if price <= 0 {
			continue
		}
		priced = true
		held := have.SP
		if Pool(pool) == MP {
			held = have.MP
		}
		n = min(n, int(math.Floor(held/price+1e-9)))
	}
	if !priced {
		return 0
	}
	return n
}

func (gs *GameState) canPay(c Cost) bool {
	return gs.stats[Self].SP+1e-9 >= c[SP] && gs.stats[Self].MP+1e-9 >= c[MP]
}

func (gs *GameState) pay(c Cost) {
	gs.stats[Self].SP -= c[SP]
	gs.stats[Self].MP -= c[MP]
}

// CanSpawn reports whether one unit of t could be placed on loc now:
// affordable, in bounds, on our side (structures) or our edges (mobile
// units), and not on a cell holding a structure.
func (gs *GameState) CanSpawn(t UnitType, loc Location) bool {
	if !t.IsStationary() && !t.IsMobile() {
		return false
	}
	if !InBounds(loc) || !gs.canPay(gs.TypeCost(t)) {
		return false
	}
	if _, occupied := gs.stationary[loc]; occupied {
		return false
	}
	if t.IsStationary() {
		return loc.Y < HalfArena
	}
	return OnEdge(loc, BottomLeft) || OnEdge(loc, BottomRight)
}

// AttemptSpawn spawns up to count units of t on each location, stopping at a
// location as soon as one spawn fails. It reports whether anything spawned.
func (gs *GameState) AttemptSpawn(t UnitType, locs []Location, count int) bool {
	spawned := false
	for _, loc := range locs {
		for i := 0; i < count; i++ {
			if !gs.CanSpawn(t, loc) {
				break
			}
			gs.pay(gs.TypeCost(t))
			d := Deploy{Shorthand: gs.cfg.Stats(t).Shorthand, Type: t, Location: loc}
			gs.PlaceUnit(Unit{Type: t, Player: Self, Location: loc})
			if t.IsStationary() {
				gs.actions.Structures = append(gs.actions.Structures, d)
			} else {
				gs.actions.Mobile = append(gs.actions.Mobile, d)
			}
			spawned = true
		}
	}
	return spawned
}

// AttemptUpgrade upgrades each of our structures on locs that is not already
// upgraded or marked for removal, while resources last.
func (gs *GameState) AttemptUpgrade(locs []Location) bool {
	upgraded := false
	for _, loc := range locs {
		u, ok := gs.stationary[loc]
		if !ok || u.Player != Self || u.Upgraded || u.PendingRemoval {
			continue
		}
		st := gs.cfg.Stats(u.Type)
		if !st.Upgradable() {
			continue
		}
		cost := st.Upgraded().Cost
		if !gs.canPay(cost) {
			continue
		}
		gs.pay(cost)
		u.Upgraded = true
		up := st.Upgraded()
		u.Health += up.MaxHealth - u.MaxHealth
		u.MaxHealth = up.MaxHealth
		gs.actions.Structures = append(gs.actions.Structures,
			Deploy{Shorthand: gs.cfg.Stats(Upgrade).Shorthand, Type: Upgrade, Location: loc})
		upgraded = true
	}
	return upgraded
}

// AttemptRemove marks our structures on locs for removal at the end of the
// turn. A marked structure keeps blocking its cell until then.
func (gs *GameState) AttemptRemove(locs []Location) bool {
	removed := false
	for _, loc := range locs {
		u, ok := gs.stationary[loc]
		if !ok || u.Player != Self || u.PendingRemoval {
			continue
		}
		u.PendingRemoval = true
		gs.actions.Structures = append(gs.actions.Structures,
			Deploy{Shorthand: gs.cfg.Stats(Remove).Shorthand, Type: Remove, Location: loc})
		removed = true
	}
	return removed
}

// Actions returns the batch queued so far.
func (gs *GameState) Actions() TurnActions { return gs.actions }

// SubmitTurn writes the batch as the two lines the engine expects:
// structure actions first, then mobile deploys.
func (gs *GameState) SubmitTurn(w io.Writer) error {
	return WriteTurn(w, gs.actions)
}

// WriteTurn encodes a batch as two JSON lines.
func WriteTurn(w io.Writer, a TurnActions) error {
	for _, list := range [2][]Deploy{a.Structures, a.Mobile} {
		if list == nil {
			list = []Deploy{}
		}
		line, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("encode turn: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("write turn: %w", err)
		}
	}
	return nil
}
