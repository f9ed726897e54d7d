package game

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newLedger(cash, revenue, valuation string) Ledger {
	return Ledger{
		Cash:           dec(cash),
		MonthlyRevenue: dec(revenue),
		Valuation:      dec(valuation),
		Headcount:      1,
		CurrentTurn:    1,
		Active:         true,
	}
}

func assertMoney(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s want %s", name, got.String(), want)
	}
}

func TestAdvanceTurnHire(t *testing.T) {
	led := newLedger("30000.00", "0.00", "10000.00")
	next, err := advanceTurn(led, ParseDecision(LabelHireSeniorEngineer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertMoney(t, "cash", next.Cash, "22000.00")
	assertMoney(t, "valuation", next.Valuation, "35000.00")
	assertMoney(t, "revenue", next.MonthlyRevenue, "2000.00")
	if next.Headcount != 2 {
		t.Fatalf("headcount = %d want 2", next.Headcount)
	}
	if next.CurrentTurn != 2 {
		t.Fatalf("turn = %d want 2", next.CurrentTurn)
	}
}

func TestAdvanceTurnMarketingSettlesRevenueFirst(t *testing.T) {
	// Revenue lands before the cost is deducted, so a ledger that cannot
	// cover the cost from cash alone can still afford the decision.
	led := newLedger("4000.00", "3000.00", "0.00")
	next, err := advanceTurn(led, ParseDecision(LabelAggressiveMarketing))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertMoney(t, "cash", next.Cash, "2000.00")
	assertMoney(t, "revenue", next.MonthlyRevenue, "6000.00")
	if next.Headcount != 1 {
		t.Fatalf("headcount = %d want 1", next.Headcount)
	}
}

func TestAdvanceTurnDoNothing(t *testing.T) {
	led := newLedger("100.00", "250.00", "0.00")
	next, err := advanceTurn(led, ParseDecision(LabelDoNothing))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertMoney(t, "cash", next.Cash, "350.00")
	assertMoney(t, "revenue", next.MonthlyRevenue, "250.00")
	if next.CurrentTurn != 2 {
		t.Fatalf("turn = %d want 2", next.CurrentTurn)
	}
}

func TestAdvanceTurnUnrecognizedActsLikeDoNothing(t *testing.T) {
	led := newLedger("1000.00", "500.00", "0.00")
	next, err := advanceTurn(led, ParseDecision("LAUNCH_ROCKET"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertMoney(t, "cash", next.Cash, "1500.00")
	assertMoney(t, "revenue", next.MonthlyRevenue, "500.00")
	assertMoney(t, "valuation", next.Valuation, "0.00")
}

func TestAdvanceTurnInsufficientFunds(t *testing.T) {
	led := newLedger("1000.00", "500.00", "0.00")
	next, err := advanceTurn(led, ParseDecision(LabelAggressiveMarketing))

	var insufficient *InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFundsError, got %v", err)
	}
	assertMoney(t, "available", insufficient.Available, "1500.00")
	assertMoney(t, "cost", insufficient.Cost, "5000.00")

	// The ledger must come back untouched: no settlement, no turn advance.
	assertMoney(t, "cash", next.Cash, "1000.00")
	assertMoney(t, "revenue", next.MonthlyRevenue, "500.00")
	if next.CurrentTurn != 1 {
		t.Fatalf("turn = %d want 1", next.CurrentTurn)
	}
}

func TestAdvanceTurnExactAffordability(t *testing.T) {
	// available == cost is affordable and leaves exactly zero cash.
	led := newLedger("4500.00", "500.00", "0.00")
	next, err := advanceTurn(led, ParseDecision(LabelAggressiveMarketing))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertMoney(t, "cash", next.Cash, "0.00")

	if ts := terminalStateOf(next); !ts.GameOver {
		t.Fatalf("expected zero cash to read as game over")
	}
}

func TestAdvanceTurnInactive(t *testing.T) {
	led := newLedger("50000.00", "0.00", "0.00")
	led.Active = false
	next, err := advanceTurn(led, ParseDecision(LabelDoNothing))
	if !errors.Is(err, ErrSessionTerminated) {
		t.Fatalf("expected ErrSessionTerminated, got %v", err)
	}
	if next.CurrentTurn != led.CurrentTurn {
		t.Fatalf("inactive ledger must not advance")
	}
}

func TestTerminalStateOf(t *testing.T) {
	tests := []struct {
		name      string
		cash      string
		valuation string
		want      TerminalState
	}{
		{name: "healthy", cash: "100.00", valuation: "999999.99", want: TerminalState{}},
		{name: "zero cash", cash: "0.00", valuation: "0.00", want: TerminalState{GameOver: true}},
		{name: "negative cash", cash: "-0.01", valuation: "0.00", want: TerminalState{GameOver: true}},
		{name: "victory at threshold", cash: "1.00", valuation: "1000000.00", want: TerminalState{Victory: true}},
		{name: "victory above threshold", cash: "1.00", valuation: "2500000.00", want: TerminalState{Victory: true}},
		{name: "broke beats victorious", cash: "0.00", valuation: "1000000.00", want: TerminalState{GameOver: true}},
	}
	for _, tc := range tests {
		got := terminalStateOf(newLedger(tc.cash, "0.00", tc.valuation))
		if got != tc.want {
			t.Fatalf("%s: got %+v want %+v", tc.name, got, tc.want)
		}
	}
}

func TestEvaluateTerminalIdempotent(t *testing.T) {
	led := newLedger("0.00", "0.00", "0.00")

	led, ts := evaluateTerminal(led)
	if !ts.GameOver || led.Active {
		t.Fatalf("expected inactive game-over ledger, got active=%t ts=%+v", led.Active, ts)
	}

	again, ts2 := evaluateTerminal(led)
	if again != led || ts2 != ts {
		t.Fatalf("second evaluation changed state")
	}
}

func TestStaleTerminal(t *testing.T) {
	tests := []struct {
		name   string
		cash   string
		val    string
		active bool
		want   bool
		wantTS TerminalState
	}{
		{name: "healthy active", cash: "100.00", val: "0.00", active: true, want: false},
		{name: "broke but still flagged active", cash: "0.00", val: "0.00", active: true, want: true, wantTS: TerminalState{GameOver: true}},
		{name: "victorious but still flagged active", cash: "1.00", val: "1000000.00", active: true, want: true, wantTS: TerminalState{Victory: true}},
		{name: "already reconciled", cash: "0.00", val: "0.00", active: false, want: false, wantTS: TerminalState{GameOver: true}},
	}
	for _, tc := range tests {
		led := newLedger(tc.cash, "0.00", tc.val)
		led.Active = tc.active
		ts, stale := staleTerminal(led)
		if stale != tc.want {
			t.Fatalf("%s: stale = %t want %t", tc.name, stale, tc.want)
		}
		if ts != tc.wantTS {
			t.Fatalf("%s: ts = %+v want %+v", tc.name, ts, tc.wantTS)
		}
	}
}

func TestLongRunNoDrift(t *testing.T) {
	// 1000 settled turns of exact decimal revenue must land on the exact
	// sum, with no accumulation error anywhere in the run.
	led := newLedger("50000.00", "123.45", "0.00")
	wait := ParseDecision(LabelDoNothing)

	for i := 0; i < 1000; i++ {
		next, err := advanceTurn(led, wait)
		if err != nil {
			t.Fatalf("turn %d: %v", i+1, err)
		}
		if next.CurrentTurn != led.CurrentTurn+1 {
			t.Fatalf("turn %d: counter went %d -> %d", i+1, led.CurrentTurn, next.CurrentTurn)
		}
		led = next
	}

	assertMoney(t, "cash", led.Cash, "173450.00")
	assertMoney(t, "revenue", led.MonthlyRevenue, "123.45")
	if led.CurrentTurn != 1001 {
		t.Fatalf("turn = %d want 1001", led.CurrentTurn)
	}
}

func TestVictoryByHiring(t *testing.T) {
	// Hiring grows both valuation and revenue; the run must end in victory
	// once valuation crosses the bar, never earlier.
	led := newLedger("500000.00", "0.00", "0.00")
	hire := ParseDecision(LabelHireSeniorEngineer)

	for i := 0; i < 40; i++ {
		next, err := advanceTurn(led, hire)
		if err != nil {
			t.Fatalf("turn %d: %v", i+1, err)
		}
		next, ts := evaluateTerminal(next)
		led = next
		if ts.Victory {
			assertMoney(t, "valuation", led.Valuation, "1000000.00")
			if led.Active {
				t.Fatalf("victorious ledger still active")
			}
			return
		}
	}
	t.Fatalf("expected victory within 40 hires, valuation=%s", led.Valuation.String())
}
