// Package web serves the server-rendered TerraForge frontend. It owns no
// data; everything comes from the catalog API and the auth service, and every
// handler passes what a template needs explicitly through its view data.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/terraforge-gg/terraforge/internal/client"
	"github.com/terraforge-gg/terraforge/internal/config"
)

//go:embed static
var staticFS embed.FS

type Server struct {
	cfg       *config.Config
	api       *client.Client
	auth      *authClient
	templates *templateSet
}

func NewServer(cfg *config.Config) (*Server, error) {
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:       cfg,
		api:       client.New(cfg.APIURL, cfg.APIVersion, cfg.AuthURL),
		auth:      newAuthClient(cfg.AuthURL),
		templates: templates,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", s.HomeHandler)
	r.Get("/mods/{slug}", s.ProjectHandler)
	r.Get("/mods/{slug}/settings", s.SettingsHandler)
	r.Post("/mods/{slug}/settings", s.UpdateSettingsHandler)
	r.Post("/mods/{slug}/delete", s.DeleteProjectHandler)
	r.Get("/new", s.NewProjectFormHandler)
	r.Post("/new", s.NewProjectHandler)
	r.Get("/sign-in", s.SignInFormHandler)
	r.Post("/sign-in", s.SignInHandler)
	r.Get("/sign-up", s.SignUpFormHandler)
	r.Post("/sign-up", s.SignUpHandler)
	r.Post("/sign-out", s.SignOutHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderNotFound(w, r, nil)
	})

	return r
}
