package utils

import (
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := CreateSessionToken(secret, "a@x.com", time.Hour)
	if err != nil {
		t.Fatalf("CreateSessionToken() error = %v", err)
	}

	claims, err := ParseSessionToken(secret, tok)
	if err != nil {
		t.Fatalf("ParseSessionToken() error = %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("Email = %q, want a@x.com", claims.Email)
	}
}

func TestParseSessionTokenRejects(t *testing.T) {
	secret := []byte("test-secret")
	expired, _ := CreateSessionToken(secret, "a@x.com", -time.Minute)
	valid, _ := CreateSessionToken(secret, "a@x.com", time.Hour)

	tests := []struct {
		name   string
		secret []byte
		token  string
	}{
		{name: "wrong secret", secret: []byte("other"), token: valid},
		{name: "expired", secret: secret, token: expired},
		{name: "garbage", secret: secret, token: "not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSessionToken(tt.secret, tt.token); err == nil {
				t.Error("ParseSessionToken() error = nil, want error")
			}
		})
	}

	if _, err := CreateSessionToken(nil, "a@x.com", time.Hour); err == nil {
		t.Error("CreateSessionToken(nil secret) error = nil, want error")
	}
}
