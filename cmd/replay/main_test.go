package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/freeeve/bastion/internal/algo"
	"github.com/freeeve/bastion/internal/journal"
	"github.com/freeeve/bastion/internal/strategy"
	"github.com/freeeve/bastion/pkg/arena"
)

const emptyGroups = `[[],[],[],[],[],[],[],[]]`

func turnMsg(turn int, sp, mp float64) string {
	return fmt.Sprintf(`{"p1Units":%s,"p2Units":%s,"p1Stats":[30,%v,%v,0],"p2Stats":[30,40,5,0],"turnInfo":[0,%d,-1,0]}`,
		emptyGroups, emptyGroups, sp, mp, turn)
}

func funnel() *strategy.Selector {
	return strategy.NewSelector(strategy.FunnelProfile(), strategy.WithIntn(func(int) int { return 0 }))
}

// record plays a match through a journaling algo and returns the journal path.
func record(t *testing.T, msgs []string) string {
	t.Helper()
	dir := t.TempDir()
	jw, err := journal.Create(dir, "m")
	if err != nil {
		t.Fatalf("create journal: %v", err)
	}
	a := algo.New(funnel(), algo.WithRecorder(jw))
	var sink discard
	for _, msg := range msgs {
		if err := a.HandleMessage(context.Background(), []byte(msg), sink); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	if err := jw.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}
	return jw.Path()
}

type discard struct{}

func (discard) WriteLine([]byte) error { return nil }

func TestReplayMatchesRecording(t *testing.T) {
	path := record(t, []string{
		arena.DefaultConfigJSON,
		turnMsg(0, 48, 5),
		turnMsg(1, 3, 2),
		turnMsg(2, 4, 2),
		`{"turnInfo":[2,2,0,0]}`,
	})

	r, err := journal.Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer r.Close()

	var out bytes.Buffer
	table := &turnTable{w: &out}
	src := &journalTransport{r: r}
	if err := algo.New(funnel(), algo.WithTurnJournal(table)).Run(context.Background(), src); err != nil {
		t.Fatalf("replay: %v", err)
	}

	if len(table.recs) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(table.recs))
	}
	if table.recs[2].Posture != "consolidate" || table.recs[2].Branch != "left" {
		t.Errorf("expected turn 2 consolidate/left, got %s/%s", table.recs[2].Posture, table.recs[2].Branch)
	}
	if src.mismatches != 0 {
		t.Errorf("expected an identical replay, got %d mismatches of %d", src.mismatches, src.compared)
	}
	if !strings.Contains(out.String(), "bootstrap") {
		t.Errorf("expected printed rows, got %q", out.String())
	}
}

func TestReplayCountsDivergence(t *testing.T) {
	path := record(t, []string{turnMsg(0, 48, 5)})

	r, err := journal.Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer r.Close()

	turtle := strategy.NewSelector(strategy.TurtleProfile(), strategy.WithSeed(3))
	src := &journalTransport{r: r}
	if err := algo.New(turtle).Run(context.Background(), src); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if src.compared != 2 {
		t.Errorf("expected 2 recorded lines compared, got %d", src.compared)
	}
	if src.mismatches == 0 {
		t.Error("expected a different profile to diverge")
	}
}
