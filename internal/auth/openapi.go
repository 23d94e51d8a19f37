package auth

import (
	"log"
	"net/http"
	"sync"

	"github.com/goccy/go-yaml"
)

// openAPIDocument describes the auth surface so the catalog API and frontend
// teams can generate clients against it. Rendered lazily, once.
var openAPIOnce sync.Once
var openAPIYAML []byte

func openAPIDocument() map[string]any {
	jsonBody := func(desc string) map[string]any {
		return map[string]any{
			"description": desc,
			"content":     map[string]any{"application/json": map[string]any{}},
		}
	}

	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":   "TerraForge Auth",
			"version": "1.0",
		},
		"paths": map[string]any{
			"/api/auth/sign-up/email": map[string]any{
				"post": map[string]any{
					"summary": "Register with email, username and password",
					"responses": map[string]any{
						"201": jsonBody("User created, session cookie set"),
						"409": jsonBody("Username or email already taken"),
					},
				},
			},
			"/api/auth/sign-in/email": map[string]any{
				"post": map[string]any{
					"summary": "Sign in with email and password",
					"responses": map[string]any{
						"200": jsonBody("Signed in, session cookie set"),
						"401": jsonBody("Invalid credentials"),
					},
				},
			},
			"/api/auth/sign-in/username": map[string]any{
				"post": map[string]any{
					"summary": "Sign in with username and password",
					"responses": map[string]any{
						"200": jsonBody("Signed in, session cookie set"),
						"401": jsonBody("Invalid credentials"),
					},
				},
			},
			"/api/auth/sign-in/social": map[string]any{
				"get": map[string]any{
					"summary": "Start a social sign-in (provider=discord)",
					"responses": map[string]any{
						"302": jsonBody("Redirect to the provider authorize URL"),
					},
				},
			},
			"/api/auth/callback/discord": map[string]any{
				"get": map[string]any{
					"summary": "Discord OAuth callback",
					"responses": map[string]any{
						"302": jsonBody("Redirect to the frontend, session cookie set"),
					},
				},
			},
			"/api/auth/sign-out": map[string]any{
				"post": map[string]any{
					"summary": "Destroy the current session",
					"responses": map[string]any{
						"200": jsonBody("Session removed, cookie cleared"),
					},
				},
			},
			"/api/auth/get-session": map[string]any{
				"get": map[string]any{
					"summary": "Read the current session",
					"responses": map[string]any{
						"200": jsonBody("Session and user, or null for anonymous callers"),
					},
				},
			},
			"/api/auth/token": map[string]any{
				"get": map[string]any{
					"summary": "Mint a short-lived bearer token for the catalog API",
					"responses": map[string]any{
						"200": jsonBody("Signed JWT"),
						"401": jsonBody("No valid session"),
					},
				},
			},
		},
	}
}

func OpenAPIHandler(w http.ResponseWriter, r *http.Request) {
	openAPIOnce.Do(func() {
		out, err := yaml.Marshal(openAPIDocument())
		if err != nil {
			log.Printf("openapi: failed to render document: %v", err)
			return
		}
		openAPIYAML = out
	})

	if openAPIYAML == nil {
		http.Error(w, "OpenAPI document unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.Write(openAPIYAML)
}
