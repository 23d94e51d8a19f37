package project

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/terraforge-gg/terraforge/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/projects/search", SearchProjectsHandler)

	// Reads work anonymously but see more with a bearer token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalJWTMiddleware(cfg.AuthSecret))
		r.Get("/projects/{identifier}", GetProjectHandler)
		r.Get("/projects/{identifier}/members", GetMembersHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTMiddleware(cfg.AuthSecret))
		r.Post("/projects", CreateProjectHandler)
		r.Patch("/projects/{identifier}", UpdateProjectHandler)
		r.Delete("/projects/{identifier}", DeleteProjectHandler)
	})

	return r
}
