package strategy

import (
	"github.com/rs/zerolog/log"

	"github.com/freeeve/bastion/pkg/arena"
)

// Selector picks and runs one posture per turn for a profile.
type Selector struct {
	profile Profile
	dice    *dice
}

// Option configures a Selector.
type Option func(*Selector)

// WithSeed makes branch rolls and stall placement reproducible. Zero keeps
// the global source.
func WithSeed(seed int64) Option {
	return func(s *Selector) { s.dice = newDice(seed) }
}

// WithIntn replaces the random source outright.
func WithIntn(intn func(n int) int) Option {
	return func(s *Selector) { s.dice = &dice{intn: intn} }
}

// NewSelector returns a selector for p. It panics if p does not validate.
func NewSelector(p Profile, opts ...Option) *Selector {
	if p.trigger == nil {
		p = mustCompile(p)
	}
	s := &Selector{profile: p, dice: newDice(0)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Profile returns the profile the selector runs.
func (s *Selector) Profile() Profile { return s.profile }

// Decision summarizes one planning pass.
type Decision struct {
	Turn           int              `json:"turn"`
	Posture        Posture          `json:"posture"`
	Branch         Branch           `json:"branch"`
	EnemyFront     int              `json:"enemy_front"`
	WallBreaches   []arena.Location `json:"wall_breaches,omitempty"`
	LowHealthWalls []arena.Location `json:"low_health_walls,omitempty"`
	ScoredOn       int              `json:"scored_on"`
}

// PlanTurn runs one planning pass against bf and returns the updated state.
// The breaches recorded since the last pass are consumed here.
func (s *Selector) PlanTurn(bf Battlefield, st State) (State, Decision) {
	turn := bf.TurnNumber()
	st.Turn = turn
	st.Walls, st.LowHealthWalls = ScanWalls(bf, s.profile.LowHealthThreshold)

	d := Decision{
		Turn:           turn,
		WallBreaches:   st.WallBreaches,
		LowHealthWalls: st.LowHealthWalls,
		ScoredOn:       len(st.ScoredOn),
	}

	switch s.profile.Kind {
	case KindFunnel:
		st, d.Posture = s.planFunnel(bf, st, turn)
	default:
		d.Posture, d.EnemyFront = s.planTurtle(bf, st, turn)
	}
	d.Branch = st.Branch

	st.WallBreaches = nil
	log.Debug().
		Int("turn", turn).
		Stringer("posture", d.Posture).
		Stringer("branch", d.Branch).
		Int("enemyFront", d.EnemyFront).
		Int("wallBreaches", len(d.WallBreaches)).
		Int("lowHealthWalls", len(d.LowHealthWalls)).
		Int("scoredOn", d.ScoredOn).
		Msg("Planned turn")
	return st, d
}

func (s *Selector) planTurtle(bf Battlefield, st State, turn int) (Posture, int) {
	p := s.profile
	Maintain(bf, st, p)
	if turn < p.TurtleTurns {
		s.stall(bf)
		return Turtle, 0
	}

	front := Census{Ys: p.FrontRows}.Count(bf)
	env := TriggerEnv{
		Turn:           turn,
		EnemyFront:     front,
		FrontThreshold: p.FrontThreshold,
		SP:             bf.Resource(arena.SP),
		MP:             bf.Resource(arena.MP),
	}
	if p.trigger.Eval(env) {
		s.bombard(bf)
		return Bombardment, front
	}
	s.spam(bf, turn)
	return Spam, front
}

func (s *Selector) planFunnel(bf Battlefield, st State, turn int) (State, Posture) {
	if turn < s.profile.BootstrapTurns {
		s.bootstrap(bf, st)
		return st, Bootstrap
	}
	switch (turn + 1) % s.profile.CycleLength {
	case 0:
		s.strike(bf, st)
		return st, Strike
	case 1:
		return s.consolidate(bf, st, true), Consolidate
	default:
		return s.consolidate(bf, st, false), Consolidate
	}
}
