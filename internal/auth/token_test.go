package auth_test

import (
	"testing"
	"time"

	"github.com/spec-kit/support-panel/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 30)

	token, expiresAt, err := tm.GenerateToken("operator@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expiry %v not in the future", expiresAt)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Email != "operator@example.com" {
		t.Fatalf("email = %q", claims.Email)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", 30)
	verifier := auth.NewTokenManager("secret-b", 30)

	token, _, err := issuer.GenerateToken("operator@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("expected parse failure with mismatched secret")
	}
}

func TestTokenRejectsGarbage(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 30)
	if _, err := tm.ParseToken("not.a.token"); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := auth.ComparePassword(hash, "s3cret"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := auth.ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
}
