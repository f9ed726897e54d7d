package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Canonical decision labels. Anything else is accepted but treated as the
// zero-cost fallback and logged under its literal text.
const (
	LabelAggressiveMarketing = "AGGRESSIVE_MARKETING"
	LabelHireSeniorEngineer  = "HIRE_SENIOR_ENGINEER"
	LabelDoNothing           = "DO_NOTHING"
)

var (
	// DefaultStartingCash matches the original game's new-company default.
	DefaultStartingCash = decimal.RequireFromString("50000.00")
	MinStartingCash     = decimal.RequireFromString("0.01")

	// VictoryValuation ends the game in victory once reached.
	VictoryValuation = decimal.RequireFromString("1000000.00")

	costAggressiveMarketing = decimal.RequireFromString("5000.00")
	costHireSeniorEngineer  = decimal.RequireFromString("8000.00")

	marketingRevenueDelta = decimal.RequireFromString("3000.00")
	hireValuationDelta    = decimal.RequireFromString("25000.00")
	hireRevenueDelta      = decimal.RequireFromString("2000.00")
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionTerminated = errors.New("session already ended")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrTxConflict        = errors.New("write conflict, retry the decision")
	ErrEmailTaken        = errors.New("email already registered")
	ErrAccountNotFound   = errors.New("account not found")
)

// InsufficientFundsError carries the exact amounts so the caller can build a
// precise message. The ledger is left untouched when it is returned.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Cost      decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: have %s, need %s",
		e.Available.StringFixed(2), e.Cost.StringFixed(2))
}

// DecisionKind is the closed set of decisions the turn engine understands.
type DecisionKind int

const (
	DecisionDoNothing DecisionKind = iota
	DecisionAggressiveMarketing
	DecisionHireSeniorEngineer
	DecisionUnrecognized
)

// Decision pairs a kind with the label it is logged under. For unrecognized
// input the label keeps the submitted text verbatim.
type Decision struct {
	Kind  DecisionKind
	Label string
}

// ParseDecision maps a submitted label onto the decision catalog. Unknown
// labels fall back to DecisionUnrecognized, which behaves like DO_NOTHING
// for cost and effects.
func ParseDecision(label string) Decision {
	label = strings.TrimSpace(label)
	switch label {
	case LabelAggressiveMarketing:
		return Decision{Kind: DecisionAggressiveMarketing, Label: label}
	case LabelHireSeniorEngineer:
		return Decision{Kind: DecisionHireSeniorEngineer, Label: label}
	case LabelDoNothing, "":
		return Decision{Kind: DecisionDoNothing, Label: LabelDoNothing}
	default:
		return Decision{Kind: DecisionUnrecognized, Label: label}
	}
}

// Cost returns the cash price of the decision before side effects.
func (d Decision) Cost() decimal.Decimal {
	switch d.Kind {
	case DecisionAggressiveMarketing:
		return costAggressiveMarketing
	case DecisionHireSeniorEngineer:
		return costHireSeniorEngineer
	default:
		return decimal.Zero
	}
}

var blockedNameFragments = []string{
	"admin",
	"mod",
	"support",
	"shit",
	"fuck",
	"bitch",
	"nazi",
}

func validateCompanyName(name string) error {
	clean := strings.TrimSpace(name)
	if clean == "" {
		return fmt.Errorf("company name is required")
	}
	if len(clean) > 100 {
		return fmt.Errorf("company name too long (max 100 chars)")
	}
	lower := strings.ToLower(clean)
	for _, fragment := range blockedNameFragments {
		if strings.Contains(lower, fragment) {
			return fmt.Errorf("company name contains blocked content")
		}
	}
	return nil
}
