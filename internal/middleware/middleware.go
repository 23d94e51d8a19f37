package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/terraforge-gg/terraforge/internal/utils"
)

// SessionCookieName is the auth session cookie issued by the auth service
// and read by anything that validates sessions.
const SessionCookieName = "auth_token"

type SessionFetcher interface {
	FindSessionByToken(token string) (utils.SessionData, error)
}

// SessionMiddleware authenticates requests with the auth_token session
// cookie and stores the user id in the request context.
func SessionMiddleware(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
				return
			}

			session, err := fetcher.FindSessionByToken(cookie.Value)
			if err != nil {
				http.Error(w, "Couldn't find session", http.StatusUnauthorized)
				return
			}

			if session.ExpiresAt.Before(time.Now()) {
				http.Error(w, "Session expired", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUserIDKey, session.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
