package auth

import (
	"strings"
	"testing"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatalf("hash must not equal the password")
	}
	if !CheckPassword(hash, "correct horse battery") {
		t.Fatalf("expected password to verify")
	}
	if CheckPassword(hash, "wrong password") {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestPasswordLengthBounds(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Fatalf("expected short password to be rejected")
	}
	if _, err := HashPassword(strings.Repeat("x", 73)); err == nil {
		t.Fatalf("expected oversized password to be rejected")
	}
	if _, err := HashPassword(strings.Repeat("x", 72)); err != nil {
		t.Fatalf("72-byte password should be accepted: %v", err)
	}
}
