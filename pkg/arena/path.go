package arena

// PathToEdge returns the breadth-first shortest route from start to the edge
// opposite its quadrant, start included. Cells holding a structure block
// movement. The result is empty when start is blocked or no route exists.
//
// This approximates the engine's pathing; it is good enough to compare
// candidate spawn points against each other.
func (gs *GameState) PathToEdge(start Location) []Location {
	if !InBounds(start) {
		return nil
	}
	if _, blocked := gs.stationary[start]; blocked {
		return nil
	}
	target := TargetEdge(start)
	if OnEdge(start, target) {
		return []Location{start}
	}

	prev := map[Location]Location{start: start}
	queue := []Location{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range neighbors(cur, target) {
			if _, seen := prev[next]; seen {
				continue
			}
			if !InBounds(next) {
				continue
			}
			if _, blocked := gs.stationary[next]; blocked {
				continue
			}
			prev[next] = cur
			if OnEdge(next, target) {
				return unwind(prev, start, next)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

// neighbors orders the four moves so the ones heading toward the target edge
// are explored first, which keeps ties deterministic and on-direction.
func neighbors(l Location, target Edge) [4]Location {
	up, down := l.Shift(0, 1), l.Shift(0, -1)
	left, right := l.Shift(-1, 0), l.Shift(1, 0)
	switch target {
	case TopRight:
		return [4]Location{up, right, left, down}
	case TopLeft:
		return [4]Location{up, left, right, down}
	case BottomLeft:
		return [4]Location{down, left, right, up}
	default:
		return [4]Location{down, right, left, up}
	}
}

func unwind(prev map[Location]Location, start, end Location) []Location {
	var rev []Location
	for cur := end; cur != start; cur = prev[cur] {
		rev = append(rev, cur)
	}
	rev = append(rev, start)
	path := make([]Location, len(rev))
	for i, l := range rev {
		path[len(rev)-1-i] = l
	}
	return path
}
