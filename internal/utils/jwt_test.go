package utils

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestAuthToken_RoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := NewAuthToken(testSecret, 42, time.Hour)
	if err != nil {
		t.Fatalf("NewAuthToken error: %v", err)
	}
	uid, err := VerifyToken(testSecret, tok.Token)
	if err != nil {
		t.Fatalf("VerifyToken error: %v", err)
	}
	if uid != 42 {
		t.Fatalf("VerifyToken uid = %d, want 42", uid)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := NewAuthToken(testSecret, 7, -time.Minute)
	if err != nil {
		t.Fatalf("NewAuthToken error: %v", err)
	}
	_, err = VerifyToken(testSecret, tok.Token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("VerifyToken err = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyToken_BadSignature(t *testing.T) {
	t.Parallel()

	tok, err := NewAuthToken(testSecret, 7, time.Hour)
	if err != nil {
		t.Fatalf("NewAuthToken error: %v", err)
	}
	_, err = VerifyToken("other-secret", tok.Token)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("VerifyToken with wrong secret err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyToken_TamperedPayload(t *testing.T) {
	t.Parallel()

	tok, err := NewAuthToken(testSecret, 7, time.Hour)
	if err != nil {
		t.Fatalf("NewAuthToken error: %v", err)
	}
	parts := strings.Split(tok.Token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", tok.Token)
	}
	// Swap the payload for a different one; the signature no longer matches.
	other, err := NewAuthToken(testSecret, 8, time.Hour)
	if err != nil {
		t.Fatalf("NewAuthToken error: %v", err)
	}
	tampered := parts[0] + "." + strings.Split(other.Token, ".")[1] + "." + parts[2]
	_, err = VerifyToken(testSecret, tampered)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("VerifyToken on tampered token err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyToken_Malformed(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := VerifyToken(testSecret, raw); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("VerifyToken(%q) err = %v, want ErrTokenInvalid", raw, err)
		}
	}
}
