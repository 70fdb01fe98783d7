package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue("artist@studio.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sub, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub != "artist@studio.com" {
		t.Fatalf("subject = %q, want artist@studio.com", sub)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)

	token, err := m.Issue("artist@studio.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m.Verify(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue("artist@studio.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewTokenManager("secret-b", time.Hour).Verify(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := NewTokenManager("test-secret", time.Hour).Verify("not.a.token"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}
}
