package main

import (
	"testing"

	"venturesim/internal/game"

	"github.com/shopspring/decimal"
)

func TestTerminalMessage(t *testing.T) {
	tests := []struct {
		ts   game.TerminalState
		want string
	}{
		{ts: game.TerminalState{GameOver: true}, want: "GAME OVER: the company ran out of cash."},
		{ts: game.TerminalState{Victory: true}, want: "VICTORY: the company reached its target valuation!"},
		{ts: game.TerminalState{}, want: ""},
	}
	for _, tc := range tests {
		got := terminalMessage(tc.ts)
		if got != tc.want {
			t.Fatalf("terminalMessage(%+v) = %q want %q", tc.ts, got, tc.want)
		}
		for _, r := range got {
			if r > 127 {
				t.Fatalf("non-ASCII rune %q in %q", r, got)
			}
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "$0.00"},
		{in: "1234.5", want: "$1,234.50"},
		{in: "1050000", want: "$1,050,000.00"},
		{in: "-22000", want: "-$22,000.00"},
	}
	for _, tc := range tests {
		got := formatMoney(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Fatalf("formatMoney(%s) = %q want %q", tc.in, got, tc.want)
		}
	}
}
