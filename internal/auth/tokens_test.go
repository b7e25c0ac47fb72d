package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, time.Minute)
	userID := uuid.New()

	token, err := issuer.Issue(userID, "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != userID {
		t.Errorf("Verify returned %s, want %s", got, userID)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour, time.Minute)
	other := NewTokenIssuer("secret-b", time.Hour, time.Minute)

	token, err := issuer.Issue(uuid.New(), "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Error("Verify accepted a token signed with a different secret")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute, time.Minute)

	token, err := issuer.Issue(uuid.New(), "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issuer.Verify(token); err == nil {
		t.Error("Verify accepted an expired token")
	}
}

func TestResetTokenIsNotSessionToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, time.Hour)
	userID := uuid.New()

	reset, err := issuer.IssueReset(userID)
	if err != nil {
		t.Fatalf("IssueReset: %v", err)
	}

	if _, err := issuer.Verify(reset); err == nil {
		t.Error("Verify accepted a password-reset token as a session token")
	}

	got, err := issuer.VerifyReset(reset)
	if err != nil {
		t.Fatalf("VerifyReset: %v", err)
	}
	if got != userID {
		t.Errorf("VerifyReset returned %s, want %s", got, userID)
	}

	session, err := issuer.Issue(userID, "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := issuer.VerifyReset(session); err == nil {
		t.Error("VerifyReset accepted a session token")
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, time.Minute)
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := issuer.Verify(tok); err == nil {
			t.Errorf("Verify(%q) succeeded, want error", tok)
		}
	}
}
