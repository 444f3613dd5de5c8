package token

import (
	"strings"
	"testing"
)

func TestIssueAndVerify(t *testing.T) {
	kw, err := NewKeyWord(64)
	if err != nil {
		t.Fatalf("NewKeyWord() error = %v", err)
	}
	tok, err := Issue(42, "Pero", kw)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	claims, err := Verify(tok, kw)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("Verify() UserID = %d, want 42", claims.UserID)
	}
	if claims.Nickname != "Pero" {
		t.Errorf("Verify() Nickname = %q, want %q", claims.Nickname, "Pero")
	}
}

func TestVerifyFailures(t *testing.T) {
	kw, _ := NewKeyWord(64)
	tok, err := Issue(1, "Pero", kw)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name    string
		token   string
		keyWord string
		wantErr error
	}{
		{"wrong secret", tok, "not-the-key-word", ErrTokenInvalid},
		{"empty token", "", kw, ErrTokenMalformed},
		{"garbage token", "not.a.jwt", kw, ErrTokenMalformed},
		{"truncated token", tok[:len(tok)-10], kw, ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Verify(tt.token, tt.keyWord)
			if err != tt.wantErr {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
			if claims != nil {
				t.Error("Verify() should return nil claims on failure")
			}
		})
	}
}

func TestRotationInvalidatesOldTokens(t *testing.T) {
	s1, _ := NewKeyWord(64)
	tok, err := Issue(7, "Pero", s1)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := Verify(tok, s1); err != nil {
		t.Fatalf("Verify() against current secret failed: %v", err)
	}

	// Rotate: the same token must stop verifying against the new secret.
	s2, _ := NewKeyWord(64)
	if s1 == s2 {
		t.Fatal("NewKeyWord() produced identical secrets")
	}
	if _, err := Verify(tok, s2); err != ErrTokenInvalid {
		t.Errorf("Verify() after rotation error = %v, want %v", err, ErrTokenInvalid)
	}
}

func TestNewKeyWord(t *testing.T) {
	kw, err := NewKeyWord(64)
	if err != nil {
		t.Fatalf("NewKeyWord() error = %v", err)
	}
	if len(kw) != 64 {
		t.Errorf("NewKeyWord() length = %d, want 64", len(kw))
	}
	for _, r := range kw {
		if !strings.ContainsRune(keyWordAlphabet, r) {
			t.Errorf("NewKeyWord() produced non-alphanumeric rune %q", r)
		}
	}

	other, _ := NewKeyWord(64)
	if kw == other {
		t.Error("NewKeyWord() should produce unique secrets")
	}
}
