package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"venturesim/internal/game"

	"github.com/shopspring/decimal"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: ""},
		{header: "Bearer abc123", want: "abc123"},
		{header: "bearer abc123", want: "abc123"},
		{header: "Basic abc123", want: ""},
		{header: "Bearer", want: ""},
		{header: "  Bearer   spaced  ", want: "spaced"},
	}
	for _, tc := range tests {
		if got := bearerToken(tc.header); got != tc.want {
			t.Fatalf("bearerToken(%q) = %q want %q", tc.header, got, tc.want)
		}
	}
}

func TestWriteDomainErrorStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: game.ErrSessionNotFound, want: http.StatusNotFound},
		{err: game.ErrAccountNotFound, want: http.StatusNotFound},
		{err: game.ErrUnauthorized, want: http.StatusForbidden},
		{err: game.ErrSessionTerminated, want: http.StatusConflict},
		{err: game.ErrTxConflict, want: http.StatusConflict},
		{err: game.ErrEmailTaken, want: http.StatusConflict},
		{err: &game.InsufficientFundsError{Available: decimal.Zero, Cost: decimal.Zero}, want: http.StatusBadRequest},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		writeDomainError(rec, tc.err)
		if rec.Code != tc.want {
			t.Fatalf("error %v: status = %d want %d", tc.err, rec.Code, tc.want)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content type = %q", ct)
		}
	}
}
