package auth

import (
	"errors"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if err := CheckPassword(hash, "super-secret"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestAuthenticate(t *testing.T) {
	hash, err := HashPassword("day-shift")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	tests := []struct {
		name       string
		operatorID string
		password   string
		wantErr    bool
	}{
		{name: "valid", operatorID: "5419681514", password: "day-shift"},
		{name: "wrong operator", operatorID: "42", password: "day-shift", wantErr: true},
		{name: "wrong password", operatorID: "5419681514", password: "night-shift", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := Authenticate("5419681514", hash, tc.operatorID, tc.password)
			if tc.wantErr && !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected invalid credentials, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	if err := Authenticate("", hash, "", "day-shift"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected unconfigured operator to be rejected, got %v", err)
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateToken(secret, Claims{OperatorID: "5419681514"}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	parsed, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if parsed.OperatorID != "5419681514" || parsed.Subject != "5419681514" {
		t.Fatalf("claims mismatch: %+v", parsed)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestParseExpiredToken(t *testing.T) {
	token, err := GenerateToken("s", Claims{OperatorID: "op"}, -time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("s", token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
