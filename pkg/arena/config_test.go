package arena

import (
	"errors"
	"testing"
)

func TestParseConfig_Default(t *testing.T) {
	cfg := DefaultConfig()

	wall := cfg.Stats(Wall)
	if wall.Shorthand != "FF" {
		t.Errorf("expected wall shorthand FF, got %s", wall.Shorthand)
	}
	if wall.Cost[SP] != 1 || wall.Cost[MP] != 0 {
		t.Errorf("unexpected wall cost %v", wall.Cost)
	}
	if got := wall.Upgraded().MaxHealth; got != 120 {
		t.Errorf("expected upgraded wall health 120, got %v", got)
	}

	turret := cfg.Stats(Turret)
	up := turret.Upgraded()
	if up.DamageMobile != 15 || up.AttackRange != 3.5 {
		t.Errorf("unexpected upgraded turret stats %+v", up)
	}
	if up.MaxHealth != turret.MaxHealth {
		t.Errorf("upgrade without startHealth should keep %v, got %v", turret.MaxHealth, up.MaxHealth)
	}

	for shorthand, want := range map[string]UnitType{"PI": Scout, "SI": Interceptor, "RM": Remove, "UP": Upgrade} {
		got, err := cfg.TypeOf(shorthand)
		if err != nil {
			t.Fatalf("TypeOf(%s): %v", shorthand, err)
		}
		if got != want {
			t.Errorf("TypeOf(%s) = %s, expected %s", shorthand, got, want)
		}
	}
	if _, err := cfg.TypeOf("ZZ"); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
}

func TestParseConfig_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"unitInformation":`},
		{"missing units", `{"resources":{}}`},
		{"too few units", `{"unitInformation":[{"shorthand":"FF"},{"shorthand":"EF"}]}`},
		{"empty shorthand", `{"unitInformation":[{"shorthand":""},{"shorthand":"EF"},{"shorthand":"DF"},{"shorthand":"PI"},{"shorthand":"EI"},{"shorthand":"SI"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.data)); !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestParseConfig_DefaultPseudoUnits(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"unitInformation":[
		{"shorthand":"FF","cost1":1,"startHealth":60},
		{"shorthand":"EF","cost1":4},
		{"shorthand":"DF","cost1":2},
		{"shorthand":"PI","cost2":1},
		{"shorthand":"EI","cost2":3},
		{"shorthand":"SI","cost2":1}]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Stats(Remove).Shorthand != "RM" || cfg.Stats(Upgrade).Shorthand != "UP" {
		t.Errorf("expected default RM/UP shorthands, got %s/%s", cfg.Stats(Remove).Shorthand, cfg.Stats(Upgrade).Shorthand)
	}
	if cfg.Stats(Wall).Upgradable() {
		t.Error("wall without upgrade block should not be upgradable")
	}
}
