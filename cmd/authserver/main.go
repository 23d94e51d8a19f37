package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/terraforge-gg/terraforge/internal/auth"
	"github.com/terraforge-gg/terraforge/internal/config"
	"github.com/terraforge-gg/terraforge/internal/db"
)

func rootHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"env":       cfg.AppEnv,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func main() {
	cfg, err := config.LoadAuth()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db.Connect(cfg.DatabaseURL)
	auth.Init(cfg)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", rootHandler(cfg))
	r.Get("/health", healthHandler)
	r.Mount("/api/auth", auth.SetupRoutes())

	log.Printf("Auth service listening on port :%s...", cfg.HostPort)
	if err := http.ListenAndServe("0.0.0.0:"+cfg.HostPort, r); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
