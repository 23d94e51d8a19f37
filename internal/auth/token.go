package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraforge-gg/terraforge/internal/middleware"
)

// tokenTTL keeps bearer tokens short-lived; clients re-fetch one per
// protected call, so nothing caches them past this window.
const tokenTTL = 15 * time.Minute

func mintToken(user *User, secret string) (string, error) {
	now := time.Now()
	claims := middleware.TokenClaims{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "terraforge-auth",
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
