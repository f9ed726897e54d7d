package game

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type LedgerView struct {
	Cash           decimal.Decimal `json:"cash"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
	Valuation      decimal.Decimal `json:"valuation"`
	Headcount      int32           `json:"headcount"`
	CurrentTurn    int32           `json:"current_turn"`
	Active         bool            `json:"active"`
}

type SessionView struct {
	ID          int64         `json:"id"`
	CompanyName string        `json:"company_name"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
	Ledger      LedgerView    `json:"ledger"`
	Terminal    TerminalState `json:"terminal"`
}

type DecisionView struct {
	Label     string    `json:"label"`
	Turn      int32     `json:"turn"`
	DecidedAt time.Time `json:"decided_at"`
}

// TurnResult is everything one resolved decision produced.
type TurnResult struct {
	Ledger   LedgerView    `json:"ledger"`
	Terminal TerminalState `json:"terminal"`
	Decision DecisionView  `json:"decision"`
}

type AchievementView struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Kind        AchievementKind `json:"kind"`
	Threshold   decimal.Decimal `json:"threshold"`
	Points      int32           `json:"points"`
}

// UnlockView is one entry of a session's unlock history.
type UnlockView struct {
	Title      string    `json:"title"`
	Points     int32     `json:"points"`
	Turn       int32     `json:"turn"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// ProfileSummary aggregates one user's play across sessions. It only reads
// state the engines already persisted.
type ProfileSummary struct {
	TotalSessions    int64           `json:"total_sessions"`
	ActiveSessions   int64           `json:"active_sessions"`
	FinishedSessions int64           `json:"finished_sessions"`
	TotalUnlocks     int64           `json:"total_unlocks"`
	TotalPoints      int64           `json:"total_points"`
	BestCash         decimal.Decimal `json:"best_cash"`
	BestValuation    decimal.Decimal `json:"best_valuation"`
	BestTurn         int32           `json:"best_turn"`
}

func ledgerView(led Ledger) LedgerView {
	return LedgerView{
		Cash:           led.Cash,
		MonthlyRevenue: led.MonthlyRevenue,
		Valuation:      led.Valuation,
		Headcount:      led.Headcount,
		CurrentTurn:    led.CurrentTurn,
		Active:         led.Active,
	}
}
