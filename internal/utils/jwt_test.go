package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	const secret = "test-secret"
	tok, err := NewAccessToken(secret, 42, "vip", 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("empty token string")
	}
	if until := time.Until(tok.Exp); until < 14*time.Minute || until > 16*time.Minute {
		t.Fatalf("expiry %v not ~15m out", until)
	}

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse issued token: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Fatalf("sub = %v, want 42", claims["sub"])
	}
	if role, _ := claims["role"].(string); role != "vip" {
		t.Fatalf("role = %v, want vip", claims["role"])
	}
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("secret-a", 1, "free", 5)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	if err == nil && parsed.Valid {
		t.Fatal("token validated with the wrong secret")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	t.Parallel()

	r, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(r.Raw) != 96 {
		t.Fatalf("raw length = %d, want 96 hex chars", len(r.Raw))
	}
	if HashRefreshRaw(r.Raw) != HashRefreshRaw(r.Raw) {
		t.Fatal("hash is not deterministic")
	}
	if HashRefreshRaw(r.Raw) == r.Raw {
		t.Fatal("hash equals raw token")
	}

	other, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if other.Raw == r.Raw {
		t.Fatal("two refresh tokens are identical")
	}
}
