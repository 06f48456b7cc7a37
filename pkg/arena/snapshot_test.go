package arena

import (
	"errors"
	"testing"
)

const sampleTurn = `{
"p1Units":[[[0,13,60,"1"],[5,13,12,"2"]],[],[[3,12,75,"3"]],[[13,0,15,"4"]],[],[],[[5,13,12,"2"]],[[3,12,75,"3"]]],
"p2Units":[[],[],[[13,14,75,"9"]],[],[],[],[],[]],
"p1Stats":[30,40.5,5,0],
"p2Stats":[28,12,9,0],
"turnInfo":[0,3,-1,0],
"events":{"breach":[]}}`

func TestPeekKinds(t *testing.T) {
	tests := []struct {
		data string
		want MessageKind
	}{
		{DefaultConfigJSON, KindConfig},
		{sampleTurn, KindTurn},
		{`{"turnInfo":[1,3,12,40],"events":{"breach":[]}}`, KindFrame},
		{`{"turnInfo":[2,40,0,0]}`, KindEnd},
		{`{"hello":true}`, KindUnknown},
	}
	for _, tt := range tests {
		env, err := Peek([]byte(tt.data))
		if err != nil {
			t.Fatalf("peek: %v", err)
		}
		if got := env.Kind(); got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}
	if _, err := Peek([]byte("{")); !errors.Is(err, ErrMalformedPayload) {
		t.Errorf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestParseSnapshot(t *testing.T) {
	snap, err := ParseSnapshot(DefaultConfig(), []byte(sampleTurn))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if snap.Turn != 3 {
		t.Errorf("expected turn 3, got %d", snap.Turn)
	}
	if snap.Stats[Self].SP != 40.5 || snap.Stats[Self].MP != 5 {
		t.Errorf("unexpected self stats %+v", snap.Stats[Self])
	}
	if snap.Stats[Opponent].Health != 28 {
		t.Errorf("expected opponent health 28, got %v", snap.Stats[Opponent].Health)
	}
	if len(snap.Units) != 5 {
		t.Fatalf("expected 5 units, got %d", len(snap.Units))
	}

	byLoc := make(map[Location]Unit)
	for _, u := range snap.Units {
		byLoc[u.Location] = u
	}
	damaged := byLoc[Loc(5, 13)]
	if damaged.Type != Wall || !damaged.PendingRemoval {
		t.Errorf("expected wall pending removal at [5,13], got %+v", damaged)
	}
	if r := damaged.HealthRatio(); r != 0.2 {
		t.Errorf("expected health ratio 0.2, got %v", r)
	}
	if turret := byLoc[Loc(3, 12)]; turret.Type != Turret || !turret.Upgraded {
		t.Errorf("expected upgraded turret at [3,12], got %+v", turret)
	}
	if enemy := byLoc[Loc(13, 14)]; enemy.Player != Opponent {
		t.Errorf("expected opponent turret at [13,14], got %+v", enemy)
	}
	if scout := byLoc[Loc(13, 0)]; scout.Type != Scout {
		t.Errorf("expected scout at [13,0], got %+v", scout)
	}
}

func TestParseSnapshot_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"truncated", `{"p1Units":[`},
		{"missing turnInfo", `{"p1Units":[],"p2Units":[],"p1Stats":[1,2,3],"p2Stats":[1,2,3]}`},
		{"short stats", `{"p1Units":[],"p2Units":[],"p1Stats":[1],"p2Stats":[1,2,3],"turnInfo":[0,1]}`},
		{"off-grid unit", `{"p1Units":[[[40,2,60]]],"p2Units":[],"p1Stats":[1,2,3],"p2Stats":[1,2,3],"turnInfo":[0,1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSnapshot(DefaultConfig(), []byte(tt.data)); !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}
