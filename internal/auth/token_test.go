package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraforge-gg/terraforge/internal/config"
	"github.com/terraforge-gg/terraforge/internal/middleware"
)

func TestMintToken_RoundTrips(t *testing.T) {
	user := &User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
	}

	signed, err := mintToken(user, "secret")
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	claims := &middleware.TokenClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil {
		t.Fatalf("failed to parse minted token: %v", err)
	}
	if !token.Valid {
		t.Fatal("expected minted token to be valid")
	}

	if claims.ID != "user-1" || claims.Username != "alice" || claims.Email != "alice@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject to be the user id, got %q", claims.Subject)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 || ttl > tokenTTL {
		t.Errorf("expected expiry within %v, got %v", tokenTTL, ttl)
	}
}

func TestMintToken_RejectsWrongSecret(t *testing.T) {
	user := &User{ID: "user-1", Username: "alice"}

	signed, err := mintToken(user, "secret")
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	_, err = jwt.ParseWithClaims(signed, &middleware.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	if err == nil {
		t.Error("expected verification with the wrong secret to fail")
	}
}

func TestSessionCookie_Development(t *testing.T) {
	old := cfg
	cfg = &config.Config{Env: config.EnvDevelopment}
	defer func() { cfg = old }()

	c := sessionCookie("tok", time.Now().Add(time.Hour))

	if c.Name != middleware.SessionCookieName {
		t.Errorf("expected cookie name %q, got %q", middleware.SessionCookieName, c.Name)
	}
	if c.Domain != "localhost" {
		t.Errorf("expected localhost domain in development, got %q", c.Domain)
	}
	if !c.HttpOnly || !c.Secure {
		t.Error("expected HttpOnly and Secure set")
	}
	if c.SameSite != http.SameSiteNoneMode {
		t.Errorf("expected SameSite=None, got %v", c.SameSite)
	}
}

func TestSessionCookie_Production(t *testing.T) {
	old := cfg
	cfg = &config.Config{Env: config.EnvProduction}
	defer func() { cfg = old }()

	c := sessionCookie("tok", time.Now().Add(time.Hour))

	if c.Domain != ".terraforge.gg" {
		t.Errorf("expected production domain, got %q", c.Domain)
	}
}

func TestExpiredSessionCookie(t *testing.T) {
	old := cfg
	cfg = &config.Config{Env: config.EnvDevelopment}
	defer func() { cfg = old }()

	c := expiredSessionCookie()

	if c.MaxAge != -1 {
		t.Errorf("expected MaxAge -1, got %d", c.MaxAge)
	}
	if c.Value != "" {
		t.Errorf("expected empty value, got %q", c.Value)
	}
}
