package auth

import (
	"net/http"
	"time"

	"github.com/terraforge-gg/terraforge/internal/middleware"
)

// sessionCookie builds the auth_token cookie. SameSite=None + Secure lets
// the frontend on a sibling subdomain send it cross-site; in development the
// domain collapses to localhost.
func sessionCookie(value string, expires time.Time) *http.Cookie {
	domain := ".terraforge.gg"
	if cfg.IsDevelopment() {
		domain = "localhost"
	}

	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		Domain:   domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func expiredSessionCookie() *http.Cookie {
	c := sessionCookie("", time.Unix(0, 0))
	c.MaxAge = -1
	return c
}
