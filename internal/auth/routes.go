package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/terraforge-gg/terraforge/internal/middleware"
	"golang.org/x/time/rate"
)

// SetupRoutes mounts the /api/auth surface. Credential endpoints sit behind
// a per-IP limiter so password guessing stays expensive.
func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	limiter := middleware.NewRateLimiter(rate.Every(6*time.Second), 10)

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/sign-up/email", SignUpHandler)
		r.Post("/sign-in/email", SignInEmailHandler)
		r.Post("/sign-in/username", SignInUsernameHandler)
	})

	r.Post("/sign-out", SignOutHandler)
	r.Get("/get-session", GetSessionHandler)
	r.Get("/token", TokenHandler)

	r.Get("/sign-in/social", SocialSignInHandler)
	r.Get("/callback/discord", DiscordCallbackHandler)

	r.Get("/openapi.yml", OpenAPIHandler)

	return r
}
