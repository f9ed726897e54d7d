package game

import "github.com/shopspring/decimal"

// Ledger is the in-memory financial state of one game session. All money
// fields are exact decimals; arithmetic never goes through binary floats.
type Ledger struct {
	Cash           decimal.Decimal
	MonthlyRevenue decimal.Decimal
	Valuation      decimal.Decimal
	Headcount      int32
	CurrentTurn    int32
	Active         bool
}

type TerminalState struct {
	GameOver bool `json:"game_over"`
	Victory  bool `json:"victory"`
}

func (t TerminalState) Terminal() bool {
	return t.GameOver || t.Victory
}

// advanceTurn resolves one decision against a ledger and returns the new
// state. On any error the input ledger is returned unchanged, so a failed
// call never advances the turn. Order is fixed: settle monthly revenue,
// deduct the decision cost, apply its effects, then increment the turn.
func advanceTurn(led Ledger, d Decision) (Ledger, error) {
	if !led.Active {
		return led, ErrSessionTerminated
	}

	available := led.Cash.Add(led.MonthlyRevenue)
	cost := d.Cost()
	if available.LessThan(cost) {
		return led, &InsufficientFundsError{Available: available, Cost: cost}
	}

	next := led
	next.Cash = available.Sub(cost)
	switch d.Kind {
	case DecisionAggressiveMarketing:
		next.MonthlyRevenue = next.MonthlyRevenue.Add(marketingRevenueDelta)
	case DecisionHireSeniorEngineer:
		next.Valuation = next.Valuation.Add(hireValuationDelta)
		next.MonthlyRevenue = next.MonthlyRevenue.Add(hireRevenueDelta)
		next.Headcount++
	case DecisionDoNothing, DecisionUnrecognized:
		// Revenue settlement only.
	}
	next.CurrentTurn++
	return next, nil
}

// terminalStateOf inspects the numbers alone. Game over takes precedence
// when both conditions hold in the same evaluation.
func terminalStateOf(led Ledger) TerminalState {
	switch {
	case led.Cash.LessThanOrEqual(decimal.Zero):
		return TerminalState{GameOver: true}
	case led.Valuation.GreaterThanOrEqual(VictoryValuation):
		return TerminalState{Victory: true}
	default:
		return TerminalState{}
	}
}

// evaluateTerminal flips Active off once a terminal condition holds. It is
// idempotent and safe to run on every load, not only after a decision.
func evaluateTerminal(led Ledger) (Ledger, TerminalState) {
	ts := terminalStateOf(led)
	if ts.Terminal() {
		led.Active = false
	}
	return led, ts
}

// staleTerminal reports whether a ledger still flagged active already sits
// in a terminal numeric state. Such a ledger must be reconciled, never
// advanced.
func staleTerminal(led Ledger) (TerminalState, bool) {
	ts := terminalStateOf(led)
	return ts, led.Active && ts.Terminal()
}
