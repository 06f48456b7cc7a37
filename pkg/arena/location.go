// Package arena models the contest battlefield the way the starter kit does
// on the client side: a diamond-shaped 28x28 grid, the unit catalogue parsed
// from the game-start config, turn snapshots, action frames, and the deploy
// batch a player submits each turn.
package arena

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	// ArenaSize is the width and height of the grid.
	ArenaSize = 28
	// HalfArena is the number of rows on each player's side.
	HalfArena = ArenaSize / 2
)

// Location is an (x, y) grid cell. It serializes as [x, y].
type Location struct {
	X int
	Y int
}

// Loc is shorthand for Location{X: x, Y: y}.
func Loc(x, y int) Location { return Location{X: x, Y: y} }

func (l Location) String() string { return fmt.Sprintf("[%d,%d]", l.X, l.Y) }

// Shift returns the location offset by dx, dy.
func (l Location) Shift(dx, dy int) Location { return Location{X: l.X + dx, Y: l.Y + dy} }

func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{l.X, l.Y})
}

func (l *Location) UnmarshalJSON(data []byte) error {
	var xy []float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return fmt.Errorf("location: %w", err)
	}
	if len(xy) != 2 {
		return fmt.Errorf("location: expected 2 coordinates, got %d", len(xy))
	}
	l.X, l.Y = int(xy[0]), int(xy[1])
	return nil
}

// Distance is the euclidean distance between two cells, used for attack ranges.
func Distance(a, b Location) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// InBounds reports whether l lies inside the diamond.
func InBounds(l Location) bool {
	if l.X < 0 || l.Y < 0 || l.X >= ArenaSize || l.Y >= ArenaSize {
		return false
	}
	row := l.Y
	if row >= HalfArena {
		row = ArenaSize - 1 - row
	}
	return l.X >= HalfArena-1-row && l.X <= HalfArena+row
}

// Edge identifies one of the four diagonal borders of the diamond.
type Edge int

const (
	TopRight Edge = iota
	TopLeft
	BottomLeft
	BottomRight
)

func (e Edge) String() string {
	switch e {
	case TopRight:
		return "top_right"
	case TopLeft:
		return "top_left"
	case BottomLeft:
		return "bottom_left"
	case BottomRight:
		return "bottom_right"
	}
	return "unknown"
}

// EdgeLocations lists the cells along an edge, ordered from the arena's
// horizontal center outward.
func EdgeLocations(e Edge) []Location {
	locs := make([]Location, 0, HalfArena)
	for i := 0; i < HalfArena; i++ {
		switch e {
		case TopRight:
			locs = append(locs, Loc(HalfArena+i, ArenaSize-1-i))
		case TopLeft:
			locs = append(locs, Loc(HalfArena-1-i, ArenaSize-1-i))
		case BottomLeft:
			locs = append(locs, Loc(HalfArena-1-i, i))
		case BottomRight:
			locs = append(locs, Loc(HalfArena+i, i))
		}
	}
	return locs
}

// OnEdge reports whether l lies on edge e.
func OnEdge(l Location, e Edge) bool {
	switch e {
	case TopRight:
		return l.X >= HalfArena && l.X+l.Y == ArenaSize-1+HalfArena
	case TopLeft:
		return l.X < HalfArena && l.Y-l.X == HalfArena
	case BottomLeft:
		return l.X < HalfArena && l.X+l.Y == HalfArena-1
	case BottomRight:
		return l.X >= HalfArena && l.X-l.Y == HalfArena
	}
	return false
}

// TargetEdge returns the edge a mobile unit starting at l walks toward:
// the edge diagonally opposite the quadrant it starts in.
func TargetEdge(l Location) Edge {
	left := l.X < HalfArena
	bottom := l.Y < HalfArena
	switch {
	case left && bottom:
		return TopRight
	case left:
		return BottomRight
	case bottom:
		return TopLeft
	default:
		return BottomLeft
	}
}
