package auth

import (
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestManagerRoundTrip(t *testing.T) {
	m, err := NewManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, expiresAt, err := m.Issue("user-42", "founder@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatalf("empty token")
	}
	if until := time.Until(expiresAt); until < 55*time.Minute || until > time.Hour {
		t.Fatalf("unexpected expiry in %s", until)
	}

	identity, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.UserID != "user-42" {
		t.Fatalf("user id = %q want user-42", identity.UserID)
	}
	if identity.Email != "founder@example.com" {
		t.Fatalf("email = %q", identity.Email)
	}
}

func TestManagerRejectsShortSecret(t *testing.T) {
	if _, err := NewManager("too-short", time.Hour); err == nil {
		t.Fatalf("expected short secret to be rejected")
	}
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	issuerA, err := NewManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	issuerB, err := NewManager("ffffffffffffffffffffffffffffffff", time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	token, _, err := issuerA.Issue("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuerB.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m, err := NewManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	for _, token := range []string{"", "not-a-token", "aaaa.bbbb.cccc"} {
		if _, err := m.Verify(token); err != ErrInvalidToken {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}
