package strategy

import "math/rand"

// dice is the random source for branch rolls and stall placement. With no
// source set it delegates to the global math/rand default; seed it (or
// override intn) for reproducible matches and tests.
type dice struct {
	rng  *rand.Rand
	intn func(n int) int
}

func newDice(seed int64) *dice {
	if seed == 0 {
		return &dice{}
	}
	return &dice{rng: rand.New(rand.NewSource(seed))}
}

func (d *dice) Intn(n int) int {
	if d.intn != nil {
		return d.intn(n)
	}
	if d.rng != nil {
		return d.rng.Intn(n)
	}
	return rand.Intn(n)
}

// Branch rolls left or right with equal odds.
func (d *dice) Branch() Branch {
	return Branch(d.Intn(2) + 1)
}
