package strategy

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"
)

// DefaultBombardWhen switches to bombardment when the enemy front line is
// denser than the profile threshold.
const DefaultBombardWhen = "EnemyFront > FrontThreshold"

// TriggerEnv is what a profile's posture condition can read.
type TriggerEnv struct {
	Turn           int
	EnemyFront     int
	FrontThreshold int
	SP             float64
	MP             float64
}

// Trigger is a compiled boolean posture condition.
type Trigger struct {
	src     string
	program *vm.Program
}

// CompileTrigger compiles src against TriggerEnv.
func CompileTrigger(src string) (*Trigger, error) {
	prog, err := expr.Compile(src, expr.Env(TriggerEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile trigger %q: %w", src, err)
	}
	return &Trigger{src: src, program: prog}, nil
}

func (t *Trigger) String() string { return t.src }

// Eval runs the condition. A runtime failure counts as false.
func (t *Trigger) Eval(env TriggerEnv) bool {
	out, err := vm.Run(t.program, env)
	if err != nil {
		log.Warn().Err(err).Str("trigger", t.src).Msg("Trigger evaluation failed")
		return false
	}
	ok, _ := out.(bool)
	return ok
}
