package jwtadapter

import (
	"errors"
	"testing"
	"time"

	domainerrors "bookshelf/contexts/identity-access/auth-service/domain/errors"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	manager, err := NewManager("secret_key", "HS256")
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	now := time.Now().UTC()
	token, err := manager.Issue("admin", now, 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := manager.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "admin" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.ExpiresAt.Unix() != now.Add(30*time.Minute).Unix() {
		t.Fatalf("unexpected expiry %s", claims.ExpiresAt)
	}
}

func TestParseDetectsExpiry(t *testing.T) {
	manager, _ := NewManager("secret_key", "HS256")
	token, err := manager.Issue("admin", time.Now().Add(-time.Hour), 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := manager.Parse(token); !errors.Is(err, domainerrors.ErrTokenExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestParseRejectsForeignSignatures(t *testing.T) {
	issuer, _ := NewManager("other_secret", "HS256")
	verifier, _ := NewManager("secret_key", "HS256")
	token, _ := issuer.Issue("admin", time.Now(), time.Minute)
	if _, err := verifier.Parse(token); !errors.Is(err, domainerrors.ErrTokenInvalid) {
		t.Fatalf("expected invalid for wrong secret, got %v", err)
	}

	hs512, _ := NewManager("secret_key", "HS512")
	token, _ = hs512.Issue("admin", time.Now(), time.Minute)
	if _, err := verifier.Parse(token); !errors.Is(err, domainerrors.ErrTokenInvalid) {
		t.Fatalf("expected invalid for algorithm mismatch, got %v", err)
	}

	if _, err := verifier.Parse("not-a-token"); !errors.Is(err, domainerrors.ErrTokenInvalid) {
		t.Fatalf("expected invalid for garbage, got %v", err)
	}
}

func TestParseTreatsExpiredForgeriesAsInvalid(t *testing.T) {
	issuer, _ := NewManager("other_secret", "HS256")
	verifier, _ := NewManager("secret_key", "HS256")
	token, err := issuer.Issue("admin", time.Now().Add(-time.Hour), 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = verifier.Parse(token)
	if !errors.Is(err, domainerrors.ErrTokenInvalid) {
		t.Fatalf("expected invalid for expired token with wrong secret, got %v", err)
	}
	if errors.Is(err, domainerrors.ErrTokenExpired) {
		t.Fatalf("forged token must not be reported as expired")
	}

	hs512, _ := NewManager("secret_key", "HS512")
	token, _ = hs512.Issue("admin", time.Now().Add(-time.Hour), 30*time.Minute)
	if _, err := verifier.Parse(token); !errors.Is(err, domainerrors.ErrTokenInvalid) {
		t.Fatalf("expected invalid for expired token with mismatched algorithm, got %v", err)
	}
}

func TestManagerReportsAlgorithm(t *testing.T) {
	manager, _ := NewManager("secret_key", "hs384")
	if got := manager.Algorithm(); got != "HS384" {
		t.Fatalf("expected HS384, got %q", got)
	}
}

func TestNewManagerRejectsUnknownAlgorithm(t *testing.T) {
	if _, err := NewManager("secret_key", "RS256"); err == nil {
		t.Fatal("expected error for RS256")
	}
	if _, err := NewManager("", "HS256"); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
