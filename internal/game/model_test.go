package game

import "testing"

func TestParseDecision(t *testing.T) {
	tests := []struct {
		in        string
		wantKind  DecisionKind
		wantLabel string
	}{
		{in: "AGGRESSIVE_MARKETING", wantKind: DecisionAggressiveMarketing, wantLabel: LabelAggressiveMarketing},
		{in: "HIRE_SENIOR_ENGINEER", wantKind: DecisionHireSeniorEngineer, wantLabel: LabelHireSeniorEngineer},
		{in: "DO_NOTHING", wantKind: DecisionDoNothing, wantLabel: LabelDoNothing},
		{in: "", wantKind: DecisionDoNothing, wantLabel: LabelDoNothing},
		{in: "  HIRE_SENIOR_ENGINEER  ", wantKind: DecisionHireSeniorEngineer, wantLabel: LabelHireSeniorEngineer},
		{in: "BUY_A_YACHT", wantKind: DecisionUnrecognized, wantLabel: "BUY_A_YACHT"},
		{in: "aggressive_marketing", wantKind: DecisionUnrecognized, wantLabel: "aggressive_marketing"},
	}
	for _, tc := range tests {
		got := ParseDecision(tc.in)
		if got.Kind != tc.wantKind {
			t.Fatalf("ParseDecision(%q) kind=%d want=%d", tc.in, got.Kind, tc.wantKind)
		}
		if got.Label != tc.wantLabel {
			t.Fatalf("ParseDecision(%q) label=%q want=%q", tc.in, got.Label, tc.wantLabel)
		}
	}
}

func TestDecisionCost(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{label: LabelAggressiveMarketing, want: "5000.00"},
		{label: LabelHireSeniorEngineer, want: "8000.00"},
		{label: LabelDoNothing, want: "0.00"},
		{label: "SOMETHING_ELSE", want: "0.00"},
	}
	for _, tc := range tests {
		got := ParseDecision(tc.label).Cost()
		if got.StringFixed(2) != tc.want {
			t.Fatalf("cost of %q = %s want %s", tc.label, got.StringFixed(2), tc.want)
		}
	}
}

func TestValidateCompanyName(t *testing.T) {
	if err := validateCompanyName("Acme Labs"); err != nil {
		t.Fatalf("expected valid company name: %v", err)
	}
	if err := validateCompanyName(""); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if err := validateCompanyName("admin ventures"); err == nil {
		t.Fatalf("expected blocked name to fail")
	}
}
