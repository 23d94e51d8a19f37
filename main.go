package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/terraforge-gg/terraforge/internal/config"
	"github.com/terraforge-gg/terraforge/internal/db"
	"github.com/terraforge-gg/terraforge/internal/project"
)

func rootHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"name": "terraforge-api",
			"env":  cfg.AppEnv,
		})
	}
}

func healthHandler(cfg *config.Config) http.HandlerFunc {
	httpClient := &http.Client{Timeout: 5 * time.Second}

	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK

		sqlDB, err := db.DB.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if err := project.SearchHealth(); err != nil {
			status = "degraded"
		}

		if res, err := httpClient.Get(cfg.AuthURL + "/health"); err != nil || res.StatusCode != http.StatusOK {
			status = "degraded"
			if err == nil {
				res.Body.Close()
			}
		} else {
			res.Body.Close()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	}
}

func main() {
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db.Connect(cfg.DatabaseURL)
	project.Init(cfg)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", rootHandler(cfg))
	r.Get("/health", healthHandler(cfg))
	r.Mount("/"+cfg.APIVersion, project.SetupRoutes())

	log.Printf("Catalog API listening on port :%s...", cfg.HostPort)
	if err := http.ListenAndServe("0.0.0.0:"+cfg.HostPort, r); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
