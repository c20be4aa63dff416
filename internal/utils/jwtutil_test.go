package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	tok, exp, err := GenerateToken(secret, "u-1", "manager", "MANAGER", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry %v already passed", exp)
	}

	claims, err := ParseToken(secret, tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u-1" || claims.Subject != "u-1" || claims.Role != "MANAGER" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseTokenRejects(t *testing.T) {
	secret := []byte("test-secret")
	expired, _, err := GenerateToken(secret, "u-1", "manager", "", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	other, _, err := GenerateToken([]byte("another"), "u-1", "manager", "", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for name, tok := range map[string]string{"expired": expired, "wrong secret": other, "garbage": "abc.def.ghi"} {
		if _, err := ParseToken(secret, tok); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
