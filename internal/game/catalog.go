package game

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type AchievementKind string

const (
	KindCashThreshold AchievementKind = "cash_threshold"
	KindTurnCount     AchievementKind = "turn_count"
	KindOneShot       AchievementKind = "one_shot"
)

const (
	TitleFirstSimulation = "First Simulation"
	TitlePersistent      = "Persistent"

	// PersistenceTurns is the turn count behind the Persistent achievement.
	PersistenceTurns = 5
)

// AchievementDefinition is one catalog entry. Title is the stable key;
// inserts rely on its uniqueness for idempotent seeding.
type AchievementDefinition struct {
	Title       string
	Description string
	Kind        AchievementKind
	Threshold   decimal.Decimal
	Points      int32
	Active      bool
}

// eligible reports whether one ledger snapshot earns a definition. Inactive
// definitions never unlock; already-granted unlocks are not its concern.
// Thresholds are inclusive: cash or turn exactly at the bar qualifies, and
// every cash rung at or below the balance qualifies, not just the highest.
func eligible(def AchievementDefinition, cash decimal.Decimal, turn int32) bool {
	if !def.Active {
		return false
	}
	switch def.Kind {
	case KindOneShot:
		return true
	case KindTurnCount:
		return decimal.NewFromInt32(turn).GreaterThanOrEqual(def.Threshold)
	case KindCashThreshold:
		return cash.GreaterThanOrEqual(def.Threshold)
	default:
		return false
	}
}

// CatalogDefinitions builds the full achievement catalog: the two progress
// achievements plus the cash ladder. The ladder is generated rather than
// hand-enumerated: every $100K up to $1M, then every $10M up to $1B.
func CatalogDefinitions() []AchievementDefinition {
	defs := []AchievementDefinition{
		{
			Title:       TitleFirstSimulation,
			Description: "You ran your first simulation.",
			Kind:        KindOneShot,
			Threshold:   decimal.Zero,
			Points:      10,
			Active:      true,
		},
		{
			Title:       TitlePersistent,
			Description: fmt.Sprintf("You played %d turns.", PersistenceTurns),
			Kind:        KindTurnCount,
			Threshold:   decimal.NewFromInt(PersistenceTurns),
			Points:      10,
			Active:      true,
		},
	}

	for i := 1; i <= 9; i++ {
		defs = append(defs, cashRung(int64(i)*100_000, int32(5+5*i), cashRungTitle(int64(i)*100_000)))
	}
	defs = append(defs, cashRung(1_000_000, 100, "First Million"))
	for i := 1; i <= 99; i++ {
		defs = append(defs, cashRung(int64(i)*10_000_000, int32(100+50*i), cashRungTitle(int64(i)*10_000_000)))
	}
	defs = append(defs, cashRung(1_000_000_000, 10_000, "Billionaire"))

	return defs
}

func cashRung(value int64, points int32, title string) AchievementDefinition {
	return AchievementDefinition{
		Title:       title,
		Description: fmt.Sprintf("Your cash balance reached $%s.", groupThousands(value)),
		Kind:        KindCashThreshold,
		Threshold:   decimal.NewFromInt(value),
		Points:      points,
		Active:      true,
	}
}

func cashRungTitle(value int64) string {
	switch value {
	case 100_000:
		return "First $100K"
	case 500_000:
		return "Half a Million"
	case 500_000_000:
		return "Half a Billion"
	}
	if value < 1_000_000 {
		return fmt.Sprintf("$%dK in the Bank", value/1_000)
	}
	return fmt.Sprintf("$%dM in the Bank", value/1_000_000)
}

func groupThousands(v int64) string {
	s := fmt.Sprintf("%d", v)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
