package strategy

import (
	"github.com/rs/zerolog/log"

	"github.com/freeeve/bastion/pkg/arena"
)

// Maintain is the structure maintenance pass: repair, rebuild the template,
// upgrade, and (when the profile asks for it) reactive turrets. Every call
// through bf is an attempt, so running it on a finished board changes nothing.
// Cells in skip are left alone by every phase; a consolidate turn passes the
// corner it is about to open.
func Maintain(bf Battlefield, st State, p Profile, skip ...arena.Location) {
	Repair(bf, st, skip...)
	BuildTemplate(bf, p.Layout, skip...)
	UpgradeStructures(bf, st, p.Layout, skip...)
	if p.ReactiveTurrets {
		BuildReactive(bf, st, skip...)
	}
}

// without drops the cells in skip, keeping order.
func without(locs, skip []arena.Location) []arena.Location {
	if len(skip) == 0 {
		return locs
	}
	out := make([]arena.Location, 0, len(locs))
	for _, loc := range locs {
		if !contains(skip, loc) {
			out = append(out, loc)
		}
	}
	return out
}

// Repair rebuilds walls breached since the last pass, then discards and
// rebuilds every low-health wall still standing. The engine has no partial
// heal, so a rebuild is a removal now and a fresh wall once the cell frees.
func Repair(bf Battlefield, st State, skip ...arena.Location) {
	for _, loc := range without(st.WallBreaches, skip) {
		if bf.AttemptSpawn(arena.Wall, at(loc), 1) {
			log.Debug().Stringer("loc", loc).Msg("Rebuilt breached wall")
		}
	}
	for _, loc := range without(st.LowHealthWalls, skip) {
		if _, ok := bf.StationaryUnit(loc); !ok {
			continue
		}
		bf.AttemptRemove(at(loc))
		bf.AttemptSpawn(arena.Wall, at(loc), 1)
		log.Debug().Stringer("loc", loc).Msg("Replacing low-health wall")
	}
}

// BuildTemplate spawns the fixed layout: turrets, the walls shielding them,
// then supports.
func BuildTemplate(bf Battlefield, l Layout, skip ...arena.Location) {
	bf.AttemptSpawn(arena.Turret, without(l.Turrets, skip), 1)
	bf.AttemptSpawn(arena.Wall, without(l.Walls, skip), 1)
	bf.AttemptSpawn(arena.Support, without(l.Supports, skip), 1)
}

// UpgradeStructures spends leftover SP on upgrades: first walls one row above
// a cell we were scored on, then the rest of our walls, then template turrets.
func UpgradeStructures(bf Battlefield, st State, l Layout, skip ...arena.Location) {
	priority := without(PriorityUpgrades(st), skip)
	bf.AttemptUpgrade(priority)

	var rest []arena.Location
	for _, loc := range without(st.Walls, skip) {
		if !contains(priority, loc) {
			rest = append(rest, loc)
		}
	}
	bf.AttemptUpgrade(rest)
	bf.AttemptUpgrade(without(l.Turrets, skip))
}

// PriorityUpgrades lists, without duplicates and in first-seen order, the
// tracked walls sitting one row above a scored-on cell.
func PriorityUpgrades(st State) []arena.Location {
	var out []arena.Location
	for _, scored := range st.ScoredOn {
		loc := scored.Shift(0, 1)
		if contains(st.Walls, loc) && !contains(out, loc) {
			out = append(out, loc)
		}
	}
	return out
}

// BuildReactive places a turret one row above every cell we were scored on,
// keeping the edge cell itself free for our own spawns.
func BuildReactive(bf Battlefield, st State, skip ...arena.Location) {
	for _, loc := range st.ScoredOn {
		if loc = loc.Shift(0, 1); contains(skip, loc) {
			continue
		}
		bf.AttemptSpawn(arena.Turret, at(loc), 1)
	}
}
