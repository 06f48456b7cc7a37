package arena

import (
	"bytes"
	"strings"
	"testing"
)

func newTestState(sp, mp float64) *GameState {
	return NewGameState(DefaultConfig(), &Snapshot{
		Turn:  1,
		Stats: [2]PlayerStats{{Health: 30, SP: sp, MP: mp}, {Health: 30, SP: sp, MP: mp}},
	})
}

func TestAttemptSpawn_Structures(t *testing.T) {
	gs := newTestState(3, 0)

	if !gs.AttemptSpawn(Wall, []Location{Loc(5, 13)}, 1) {
		t.Fatal("expected wall spawn to succeed")
	}
	if gs.AttemptSpawn(Wall, []Location{Loc(5, 13)}, 1) {
		t.Error("spawn on an occupied cell should no-op")
	}
	if gs.AttemptSpawn(Wall, []Location{Loc(5, 14)}, 1) {
		t.Error("structures cannot be built on the opponent's half")
	}
	if gs.AttemptSpawn(Wall, []Location{Loc(0, 0)}, 1) {
		t.Error("spawn out of bounds should no-op")
	}
	if !gs.AttemptSpawn(Turret, []Location{Loc(3, 12), Loc(4, 12)}, 1) {
		t.Fatal("expected first turret to spawn")
	}
	if got := gs.Resource(SP); got != 0 {
		t.Errorf("expected 0 SP left, got %v", got)
	}
	if got := gs.Actions().Count(Turret); got != 1 {
		t.Errorf("expected 1 turret queued, got %d", got)
	}
	if u, ok := gs.StationaryUnit(Loc(3, 12)); !ok || u.Type != Turret || u.Player != Self {
		t.Errorf("expected our turret on [3,12], got %+v", u)
	}
}

func TestAttemptSpawn_MobileOnEdgesOnly(t *testing.T) {
	gs := newTestState(0, 5)

	if gs.AttemptSpawn(Scout, []Location{Loc(13, 5)}, 1) {
		t.Error("mobile units must spawn on our edges")
	}
	if !gs.AttemptSpawn(Scout, []Location{Loc(13, 0)}, 1000) {
		t.Fatal("expected scouts to spawn on [13,0]")
	}
	if got := gs.Actions().Count(Scout); got != 5 {
		t.Errorf("expected 5 scouts for 5 MP, got %d", got)
	}
	if gs.NumberAffordable(Scout) != 0 {
		t.Errorf("expected nothing affordable, got %d", gs.NumberAffordable(Scout))
	}
}

func TestNumberAffordable(t *testing.T) {
	gs := newTestState(9, 7)
	tests := []struct {
		unit UnitType
		want int
	}{
		{Wall, 9},
		{Turret, 4},
		{Support, 2},
		{Scout, 7},
		{Demolisher, 2},
		{Remove, 0},
	}
	for _, tt := range tests {
		if got := gs.NumberAffordable(tt.unit); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.unit, tt.want, got)
		}
	}
}

func TestAttemptUpgradeAndRemove(t *testing.T) {
	gs := newTestState(2, 0)
	gs.PlaceUnit(Unit{Type: Wall, Player: Self, Location: Loc(5, 13), Health: 30})
	gs.PlaceUnit(Unit{Type: Wall, Player: Opponent, Location: Loc(5, 14)})

	if !gs.AttemptUpgrade([]Location{Loc(5, 13), Loc(5, 14), Loc(9, 9)}) {
		t.Fatal("expected upgrade of our wall")
	}
	u, _ := gs.StationaryUnit(Loc(5, 13))
	if !u.Upgraded || u.MaxHealth != 120 || u.Health != 90 {
		t.Errorf("unexpected upgraded wall %+v", u)
	}
	if gs.AttemptUpgrade([]Location{Loc(5, 13)}) {
		t.Error("second upgrade should no-op")
	}

	if !gs.AttemptRemove([]Location{Loc(5, 13), Loc(5, 14)}) {
		t.Fatal("expected removal of our wall")
	}
	if gs.AttemptRemove([]Location{Loc(5, 13)}) {
		t.Error("removing twice should no-op")
	}
	if gs.AttemptSpawn(Wall, []Location{Loc(5, 13)}, 1) {
		t.Error("a structure marked for removal still blocks its cell")
	}
	if got := gs.Actions().Locations(Remove); len(got) != 1 || got[0] != Loc(5, 13) {
		t.Errorf("expected one removal at [5,13], got %v", got)
	}
}

func TestAttackers(t *testing.T) {
	gs := newTestState(0, 0)
	gs.PlaceUnit(Unit{Type: Turret, Player: Opponent, Location: Loc(13, 15)})
	gs.PlaceUnit(Unit{Type: Turret, Player: Opponent, Location: Loc(20, 20), Upgraded: true})
	gs.PlaceUnit(Unit{Type: Wall, Player: Opponent, Location: Loc(13, 14)})
	gs.PlaceUnit(Unit{Type: Turret, Player: Self, Location: Loc(12, 13)})

	got := gs.Attackers(Loc(13, 13), Self)
	if len(got) != 1 || got[0].Location != Loc(13, 15) {
		t.Fatalf("expected only the turret at [13,15], got %+v", got)
	}
	if got := gs.Attackers(Loc(20, 17), Self); len(got) != 1 {
		t.Errorf("upgraded turret range should reach [20,17], got %d attackers", len(got))
	}
	if got := gs.Attackers(Loc(12, 15), Opponent); len(got) != 1 || got[0].Player != Self {
		t.Errorf("expected our turret to threaten [12,15], got %+v", got)
	}
}

func TestSubmitTurn(t *testing.T) {
	gs := newTestState(10, 2)
	gs.AttemptSpawn(Wall, []Location{Loc(0, 13)}, 1)
	gs.AttemptUpgrade([]Location{Loc(0, 13)})
	gs.AttemptSpawn(Interceptor, []Location{Loc(3, 10)}, 1)

	var buf bytes.Buffer
	if err := gs.SubmitTurn(&buf); err != nil {
		t.Fatalf("submit: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != `[["FF",0,13],["UP",0,13]]` {
		t.Errorf("unexpected structure line %s", lines[0])
	}
	if lines[1] != `[["SI",3,10]]` {
		t.Errorf("unexpected mobile line %s", lines[1])
	}
}

func TestWriteTurn_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTurn(&buf, TurnActions{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "[]\n[]\n" {
		t.Errorf("expected two empty lists, got %q", buf.String())
	}
}
