// Command replay feeds a recorded match journal back through the decision
// engine and prints one line per planned turn. With -diff it also reports
// turns whose answer differs from the recorded one.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/bastion/internal/algo"
	"github.com/freeeve/bastion/internal/journal"
	"github.com/freeeve/bastion/internal/model"
	"github.com/freeeve/bastion/internal/strategy"
)

func main() {
	path := flag.String("journal", "", "journal file (.jsonl.zst)")
	profileName := flag.String("profile", "turtle", "strategy profile (turtle, funnel)")
	profileFile := flag.String("profile-file", "", "YAML profile, overrides -profile")
	seed := flag.Int64("seed", 1, "random seed for branch rolls and stall placement")
	diff := flag.Bool("diff", false, "report turns whose answer differs from the recording")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: replay -journal <file> [-profile name] [-diff]")
		os.Exit(2)
	}

	var profile strategy.Profile
	var err error
	if *profileFile != "" {
		profile, err = strategy.LoadProfile(*profileFile)
	} else {
		profile, err = strategy.ProfileByName(*profileName)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Profile invalid")
	}

	r, err := journal.Open(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("Open journal failed")
	}
	defer r.Close()

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	table := &turnTable{w: tw}
	fmt.Fprintln(tw, "TURN\tPOSTURE\tBRANCH\tFRONT\tBREACHES\tLOW\tSCORED\tSP\tMP")

	src := &journalTransport{r: r}
	sel := strategy.NewSelector(profile, strategy.WithSeed(*seed))
	a := algo.New(sel, algo.WithMatchID("replay"), algo.WithTurnJournal(table))
	if err := a.Run(context.Background(), src); err != nil {
		log.Fatal().Err(err).Msg("Replay failed")
	}
	tw.Flush()

	if *diff {
		fmt.Printf("\n%d of %d answer lines differ from the recording\n", src.mismatches, src.compared)
	}
}

// journalTransport serves the recorded engine lines and compares our answers
// with the recorded ones. An answer is written before the recorded answer to
// the same turn has been read, so ours wait in pending.
type journalTransport struct {
	r          *journal.Reader
	pending    []string
	mismatches int
	compared   int
}

func (j *journalTransport) ReadMessage(ctx context.Context) ([]byte, error) {
	for {
		e, err := j.r.Next()
		if errors.Is(err, io.EOF) {
			j.mismatches += len(j.pending)
			j.pending = nil
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		if e.Dir != journal.Out {
			return []byte(e.Line), nil
		}
		j.compared++
		if len(j.pending) == 0 {
			j.mismatches++
			continue
		}
		if j.pending[0] != e.Line {
			j.mismatches++
		}
		j.pending = j.pending[1:]
	}
}

func (j *journalTransport) WriteLine(line []byte) error {
	j.pending = append(j.pending, string(line))
	return nil
}

func (j *journalTransport) Close() error { return nil }

// turnTable prints each turn record as it is saved.
type turnTable struct {
	w    io.Writer
	recs []model.TurnRecord
}

func (t *turnTable) SaveTurn(ctx context.Context, rec *model.TurnRecord) error {
	t.recs = append(t.recs, *rec)
	_, err := fmt.Fprintf(t.w, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%.1f\t%.1f\n",
		rec.Turn, rec.Posture, rec.Branch, rec.EnemyFront, rec.WallBreaches,
		rec.LowHealthWalls, rec.ScoredOn, rec.SP, rec.MP)
	return err
}

func (t *turnTable) ListTurns(ctx context.Context, matchID string) ([]model.TurnRecord, error) {
	return t.recs, nil
}
