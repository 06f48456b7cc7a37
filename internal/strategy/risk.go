package strategy

import "github.com/freeeve/bastion/pkg/arena"

// PathRisk estimates the damage a mobile unit spawned at start would take:
// for every cell of its predicted path, the number of enemy structures that
// can hit that cell times one turret shot. reachable is false when the
// pathfinder returns no path, in which case risk is 0.
func PathRisk(bf Battlefield, start arena.Location) (risk float64, reachable bool) {
	path := bf.PathToEdge(start)
	if len(path) == 0 {
		return 0, false
	}
	shot := bf.Stats(arena.Turret).DamageMobile
	for _, loc := range path {
		risk += float64(len(bf.Attackers(loc, arena.Self))) * shot
	}
	return risk, true
}

// LeastRisky returns the candidate with the lowest PathRisk. Candidates with
// a path always beat candidates without one; remaining ties go to the
// earliest candidate. ok is false only for an empty candidate list.
func LeastRisky(bf Battlefield, candidates []arena.Location) (best arena.Location, ok bool) {
	switch len(candidates) {
	case 0:
		return arena.Location{}, false
	case 1:
		return candidates[0], true
	}

	bestIdx := 0
	bestRisk, bestReach := PathRisk(bf, candidates[0])
	for i := 1; i < len(candidates); i++ {
		risk, reach := PathRisk(bf, candidates[i])
		switch {
		case reach && !bestReach:
		case reach == bestReach && risk < bestRisk:
		default:
			continue
		}
		bestIdx, bestRisk, bestReach = i, risk, reach
	}
	return candidates[bestIdx], true
}
