package game

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCatalogDefinitions(t *testing.T) {
	defs := CatalogDefinitions()

	// 2 progress achievements, 9 rungs below $1M, $1M itself, 99 rungs of
	// $10M, and the $1B cap.
	if len(defs) != 112 {
		t.Fatalf("catalog size = %d want 112", len(defs))
	}

	titles := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if def.Title == "" {
			t.Fatalf("empty title in catalog")
		}
		if _, dup := titles[def.Title]; dup {
			t.Fatalf("duplicate title %q", def.Title)
		}
		titles[def.Title] = struct{}{}
		if def.Points <= 0 {
			t.Fatalf("%q has non-positive points %d", def.Title, def.Points)
		}
	}
}

func TestCatalogPoints(t *testing.T) {
	byThreshold := make(map[string]AchievementDefinition)
	for _, def := range CatalogDefinitions() {
		if def.Kind == KindCashThreshold {
			byThreshold[def.Threshold.String()] = def
		}
	}

	tests := []struct {
		threshold string
		title     string
		points    int32
	}{
		{threshold: "100000", title: "First $100K", points: 10},
		{threshold: "500000", title: "Half a Million", points: 30},
		{threshold: "900000", title: "$900K in the Bank", points: 50},
		{threshold: "1000000", title: "First Million", points: 100},
		{threshold: "10000000", title: "$10M in the Bank", points: 150},
		{threshold: "500000000", title: "Half a Billion", points: 2600},
		{threshold: "990000000", title: "$990M in the Bank", points: 5050},
		{threshold: "1000000000", title: "Billionaire", points: 10000},
	}
	for _, tc := range tests {
		def, ok := byThreshold[tc.threshold]
		if !ok {
			t.Fatalf("no cash rung at %s", tc.threshold)
		}
		if def.Title != tc.title {
			t.Fatalf("rung %s title = %q want %q", tc.threshold, def.Title, tc.title)
		}
		if def.Points != tc.points {
			t.Fatalf("rung %s points = %d want %d", tc.threshold, def.Points, tc.points)
		}
	}
}

func TestEligible(t *testing.T) {
	cashRung := AchievementDefinition{
		Title: "rung", Kind: KindCashThreshold,
		Threshold: decimal.NewFromInt(100_000), Points: 10, Active: true,
	}
	turnRung := AchievementDefinition{
		Title: "stayer", Kind: KindTurnCount,
		Threshold: decimal.NewFromInt(PersistenceTurns), Points: 10, Active: true,
	}
	oneShot := AchievementDefinition{
		Title: "starter", Kind: KindOneShot, Threshold: decimal.Zero, Points: 10, Active: true,
	}
	inactive := cashRung
	inactive.Active = false
	unknownKind := AchievementDefinition{
		Title: "mystery", Kind: AchievementKind("streak"), Points: 10, Active: true,
	}

	tests := []struct {
		name string
		def  AchievementDefinition
		cash string
		turn int32
		want bool
	}{
		{name: "cash below by a cent", def: cashRung, cash: "99999.99", turn: 1, want: false},
		{name: "cash exactly at threshold", def: cashRung, cash: "100000.00", turn: 1, want: true},
		{name: "cash above threshold", def: cashRung, cash: "100000.01", turn: 1, want: true},
		{name: "turn below", def: turnRung, cash: "0.00", turn: 4, want: false},
		{name: "turn exactly at threshold", def: turnRung, cash: "0.00", turn: 5, want: true},
		{name: "turn above", def: turnRung, cash: "0.00", turn: 6, want: true},
		{name: "one-shot always", def: oneShot, cash: "0.00", turn: 1, want: true},
		{name: "inactive never", def: inactive, cash: "999999999.00", turn: 100, want: false},
		{name: "unknown kind never", def: unknownKind, cash: "999999999.00", turn: 100, want: false},
	}
	for _, tc := range tests {
		got := eligible(tc.def, decimal.RequireFromString(tc.cash), tc.turn)
		if got != tc.want {
			t.Fatalf("%s: eligible = %t want %t", tc.name, got, tc.want)
		}
	}
}

func TestEligibleRetroactiveRungs(t *testing.T) {
	// A jump straight to 1,050,000 earns every cash rung at or below the
	// balance, not only the highest one crossed.
	cash := decimal.RequireFromString("1050000.00")

	var earned []string
	for _, def := range CatalogDefinitions() {
		if def.Kind != KindCashThreshold {
			continue
		}
		if eligible(def, cash, 1) {
			earned = append(earned, def.Title)
			continue
		}
		if def.Threshold.LessThanOrEqual(cash) {
			t.Fatalf("rung %q at %s should be earned", def.Title, def.Threshold.String())
		}
	}

	// Nine $100K rungs plus First Million; the $10M ladder stays locked.
	if len(earned) != 10 {
		t.Fatalf("earned %d rungs want 10: %v", len(earned), earned)
	}
	for _, title := range []string{"First $100K", "Half a Million", "First Million"} {
		found := false
		for _, got := range earned {
			if got == title {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing rung %q in %v", title, earned)
		}
	}
}

func TestCatalogDefinitionsAllActive(t *testing.T) {
	for _, def := range CatalogDefinitions() {
		if !def.Active {
			t.Fatalf("%q seeded inactive", def.Title)
		}
	}
}

func TestCatalogProgressDefinitions(t *testing.T) {
	var first, persistent *AchievementDefinition
	for _, def := range CatalogDefinitions() {
		def := def
		switch def.Title {
		case TitleFirstSimulation:
			first = &def
		case TitlePersistent:
			persistent = &def
		}
	}
	if first == nil || persistent == nil {
		t.Fatalf("missing progress achievements")
	}
	if first.Kind != KindOneShot {
		t.Fatalf("%q kind = %q want %q", TitleFirstSimulation, first.Kind, KindOneShot)
	}
	if persistent.Kind != KindTurnCount {
		t.Fatalf("%q kind = %q want %q", TitlePersistent, persistent.Kind, KindTurnCount)
	}
	if !persistent.Threshold.Equal(decimal.NewFromInt(PersistenceTurns)) {
		t.Fatalf("%q threshold = %s want %d", TitlePersistent, persistent.Threshold.String(), PersistenceTurns)
	}
}
