// Package algo drives one match: it reads engine messages, keeps the unit
// catalogue and strategy state, runs a planning pass per turn and answers
// with that turn's deploys.
package algo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/freeeve/bastion/internal/logger"
	"github.com/freeeve/bastion/internal/model"
	"github.com/freeeve/bastion/internal/repository"
	"github.com/freeeve/bastion/internal/strategy"
	"github.com/freeeve/bastion/pkg/arena"
)

// Recorder receives every line crossing the engine link. *journal.Writer
// satisfies it.
type Recorder interface {
	Record(dir string, line []byte) error
}

// Journal directions.
const (
	dirIn  = "in"
	dirOut = "out"
)

// Algo is the per-match driver. It is not safe for concurrent use; one
// goroutine runs Run.
type Algo struct {
	selector *strategy.Selector
	matchID  string
	log      zerolog.Logger

	states   repository.StateStore
	turns    repository.TurnJournal
	recorder Recorder

	cfg   *arena.GameConfig
	state strategy.State
	done  bool
}

// Option configures an Algo.
type Option func(*Algo)

// WithMatchID tags logs and persisted records.
func WithMatchID(id string) Option {
	return func(a *Algo) { a.matchID = id }
}

// WithStateStore saves the strategy state after every turn and resumes from
// it at start.
func WithStateStore(s repository.StateStore) Option {
	return func(a *Algo) { a.states = s }
}

// WithTurnJournal records every planning pass.
func WithTurnJournal(j repository.TurnJournal) Option {
	return func(a *Algo) { a.turns = j }
}

// WithRecorder journals every raw line.
func WithRecorder(r Recorder) Option {
	return func(a *Algo) { a.recorder = r }
}

// WithConfig presets the unit catalogue, for engines that skip the
// game-start message.
func WithConfig(cfg *arena.GameConfig) Option {
	return func(a *Algo) { a.cfg = cfg }
}

// New creates a driver around a selector.
func New(sel *strategy.Selector, opts ...Option) *Algo {
	a := &Algo{selector: sel, state: strategy.NewState()}
	for _, o := range opts {
		o(a)
	}
	a.log = logger.ForMatch(a.matchID).With().Str("profile", sel.Profile().Name).Logger()
	return a
}

// State returns the current strategy state.
func (a *Algo) State() strategy.State { return a.state }

// Done reports whether the end-of-game message has been handled.
func (a *Algo) Done() bool { return a.done }

// Run reads messages until the game ends, the engine hangs up, or ctx is
// canceled. Only transport failures are returned; bad messages are logged.
func (a *Algo) Run(ctx context.Context, t Transport) error {
	a.resume(ctx)
	a.log.Info().Msg("Algo started")
	for !a.done {
		msg, err := t.ReadMessage(ctx)
		if errors.Is(err, io.EOF) {
			a.log.Info().Int("turn", a.state.Turn).Msg("Engine closed the link")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}
		if err := a.HandleMessage(ctx, msg, t); err != nil {
			return err
		}
	}
	a.log.Info().Int("turn", a.state.Turn).Msg("Game over")
	return nil
}

// HandleMessage routes one engine message. It returns an error only when the
// answer could not be written. Action frames without breach events are
// neither journaled nor logged; they carry nothing a replay needs.
func (a *Algo) HandleMessage(ctx context.Context, msg []byte, w LineWriter) error {
	env, err := arena.Peek(msg)
	if err == nil && env.Kind() == arena.KindFrame && len(env.Events.Breach) == 0 {
		return nil
	}
	a.record(dirIn, msg)
	logger.LogMessage(a.log, dirIn, msg)
	if err != nil {
		a.log.Error().Err(err).Msg("Dropping unreadable message")
		return nil
	}

	switch env.Kind() {
	case arena.KindConfig:
		a.handleConfig(msg)
	case arena.KindTurn:
		return a.handleTurn(ctx, env, msg, w)
	case arena.KindFrame:
		a.handleFrame(env)
	case arena.KindEnd:
		a.handleEnd(ctx, env)
	default:
		a.log.Warn().Ints("turnInfo", env.TurnInfo).Msg("Ignoring message of unknown kind")
	}
	return nil
}

func (a *Algo) handleConfig(msg []byte) {
	cfg, err := arena.ParseConfig(msg)
	if err != nil {
		a.log.Error().Err(err).Msg("Bad game config; keeping the current catalogue")
		return
	}
	a.cfg = cfg
	a.log.Info().Msg("Game config loaded")
}

func (a *Algo) config() *arena.GameConfig {
	if a.cfg == nil {
		a.log.Warn().Msg("Turn before game config; using the default catalogue")
		a.cfg = arena.DefaultConfig()
	}
	return a.cfg
}

// handleFrame only folds breach events into the state.
func (a *Algo) handleFrame(env arena.Envelope) {
	frame, err := env.Frame(a.config())
	if err != nil {
		a.log.Warn().Err(err).Int("turn", env.Turn()).Msg("Skipping malformed action frame")
		return
	}
	a.state = a.state.RecordBreaches(frame.Breaches)
	a.log.Debug().Int("turn", frame.Turn).Int("frame", frame.Frame).Int("breaches", len(frame.Breaches)).Msg("Breaches recorded")
}

func (a *Algo) handleTurn(ctx context.Context, env arena.Envelope, msg []byte, w LineWriter) error {
	cfg := a.config()
	snap, err := arena.ParseSnapshot(cfg, msg)
	if err != nil {
		a.log.Error().Err(err).Int("turn", env.Turn()).Msg("Malformed turn; submitting an empty batch")
		return a.submit(w, arena.TurnActions{})
	}

	gs := arena.NewGameState(cfg, snap)
	st, d := a.selector.PlanTurn(gs, a.state)
	a.state = st
	acts := gs.Actions()
	if err := a.submit(w, acts); err != nil {
		return err
	}

	a.log.Info().
		Int("turn", d.Turn).
		Stringer("posture", d.Posture).
		Int("structures", len(acts.Structures)).
		Int("mobile", len(acts.Mobile)).
		Msg("Turn submitted")
	a.persist(ctx, d, snap.Stats[arena.Self], acts)
	return nil
}

func (a *Algo) submit(w LineWriter, acts arena.TurnActions) error {
	var buf bytes.Buffer
	if err := arena.WriteTurn(&buf, acts); err != nil {
		return fmt.Errorf("encode turn: %w", err)
	}
	for _, line := range bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte{'\n'}) {
		if err := w.WriteLine(line); err != nil {
			return fmt.Errorf("submit turn: %w", err)
		}
		a.record(dirOut, line)
	}
	return nil
}

func (a *Algo) handleEnd(ctx context.Context, env arena.Envelope) {
	a.done = true
	a.log.Debug().Int("turn", env.Turn()).Msg("End of game")
	if a.states == nil {
		return
	}
	if err := a.states.DeleteState(ctx, a.matchID); err != nil {
		a.log.Warn().Err(err).Msg("Failed to drop match state")
	}
}

// resume loads a stored state for this match, if any.
func (a *Algo) resume(ctx context.Context) {
	if a.states == nil {
		return
	}
	raw, err := a.states.LoadState(ctx, a.matchID)
	if err != nil {
		a.log.Warn().Err(err).Msg("Failed to load match state; starting fresh")
		return
	}
	if raw == nil {
		return
	}
	var st strategy.State
	if err := json.Unmarshal(raw, &st); err != nil {
		a.log.Warn().Err(err).Msg("Stored match state unreadable; starting fresh")
		return
	}
	a.state = st
	a.log.Info().Int("turn", st.Turn).Stringer("branch", st.Branch).Msg("Resumed match state")
}

type actionsDoc struct {
	Structures []arena.Deploy `json:"structures"`
	Mobile     []arena.Deploy `json:"mobile"`
}

// persist writes the state and the turn record. Failures are logged and
// never stop the match.
func (a *Algo) persist(ctx context.Context, d strategy.Decision, self arena.PlayerStats, acts arena.TurnActions) {
	if a.states != nil {
		raw, err := json.Marshal(a.state)
		if err == nil {
			err = a.states.SaveState(ctx, a.matchID, raw)
		}
		if err != nil {
			a.log.Warn().Err(err).Int("turn", d.Turn).Msg("Failed to save match state")
		}
	}
	if a.turns == nil {
		return
	}
	doc := actionsDoc{Structures: acts.Structures, Mobile: acts.Mobile}
	if doc.Structures == nil {
		doc.Structures = []arena.Deploy{}
	}
	if doc.Mobile == nil {
		doc.Mobile = []arena.Deploy{}
	}
	actions, err := json.Marshal(doc)
	if err != nil {
		a.log.Warn().Err(err).Int("turn", d.Turn).Msg("Failed to encode turn actions")
		return
	}
	rec := &model.TurnRecord{
		MatchID:        a.matchID,
		Turn:           d.Turn,
		Profile:        a.selector.Profile().Name,
		Posture:        d.Posture.String(),
		Branch:         d.Branch.String(),
		EnemyFront:     d.EnemyFront,
		WallBreaches:   len(d.WallBreaches),
		LowHealthWalls: len(d.LowHealthWalls),
		ScoredOn:       d.ScoredOn,
		Health:         self.Health,
		SP:             self.SP,
		MP:             self.MP,
		Actions:        actions,
	}
	if err := a.turns.SaveTurn(ctx, rec); err != nil {
		a.log.Warn().Err(err).Int("turn", d.Turn).Msg("Failed to save turn record")
	}
}

func (a *Algo) record(dir string, line []byte) {
	if a.recorder == nil {
		return
	}
	if err := a.recorder.Record(dir, line); err != nil {
		a.log.Warn().Err(err).Msg("Journal write failed")
	}
}
