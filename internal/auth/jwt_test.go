package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

func TestJWTManager_GenerateAndValidate_Success(t *testing.T) {
	manager := NewJWTManager(testSecret, "glossary-test", 15*time.Minute)

	token, err := manager.GenerateAccessToken(Identity{UserID: "dana", Name: "Dana Levi", Role: "EDITOR"})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	id, err := manager.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if id.UserID != "dana" {
		t.Errorf("expected user dana, got %q", id.UserID)
	}
	if id.Name != "Dana Levi" {
		t.Errorf("expected name 'Dana Levi', got %q", id.Name)
	}
	if id.Role != "EDITOR" {
		t.Errorf("expected role EDITOR, got %q", id.Role)
	}
}

func TestJWTManager_GenerateAccessToken_EmptyUser(t *testing.T) {
	manager := NewJWTManager(testSecret, "glossary-test", 15*time.Minute)

	if _, err := manager.GenerateAccessToken(Identity{UserID: " "}); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestJWTManager_ValidateAccessToken_Expired(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))
	manager := NewJWTManagerWithClock(testSecret, "glossary-test", time.Minute, clock)

	token, err := manager.GenerateAccessToken(Identity{UserID: "dana"})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	clock.Advance(2 * time.Minute)

	_, err = manager.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for expired token")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("expected 'expired' in error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_InvalidSignature(t *testing.T) {
	manager1 := NewJWTManager(testSecret, "glossary-test", 15*time.Minute)
	manager2 := NewJWTManager("different-secret-also-32-chars-long-xxxxx", "glossary-test", 15*time.Minute)

	token, err := manager1.GenerateAccessToken(Identity{UserID: "dana"})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := manager2.ValidateAccessToken(token); err == nil {
		t.Fatal("expected error for invalid signature")
	}
}

func TestJWTManager_ValidateAccessToken_Malformed(t *testing.T) {
	manager := NewJWTManager(testSecret, "glossary-test", 15*time.Minute)

	for _, token := range []string{"not.a.jwt", "abc", "a.b"} {
		if _, err := manager.ValidateAccessToken(token); err == nil {
			t.Errorf("expected error for malformed token %q", token)
		}
	}
}

func TestJWTManager_ValidateAccessToken_WrongIssuer(t *testing.T) {
	manager1 := NewJWTManager(testSecret, "issuer-a", 15*time.Minute)
	manager2 := NewJWTManager(testSecret, "issuer-b", 15*time.Minute)

	token, err := manager1.GenerateAccessToken(Identity{UserID: "dana"})
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	_, err = manager2.ValidateAccessToken(token)
	if err == nil {
		t.Fatal("expected error for wrong issuer")
	}
	if !strings.Contains(err.Error(), "invalid issuer") {
		t.Errorf("expected 'invalid issuer' in error, got: %v", err)
	}
}

func TestJWTManager_ValidateAccessToken_EmptyString(t *testing.T) {
	manager := NewJWTManager(testSecret, "glossary-test", 15*time.Minute)

	if _, err := manager.ValidateAccessToken(""); err == nil {
		t.Fatal("expected error for empty token")
	}
}
