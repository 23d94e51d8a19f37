package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/terraforge-gg/terraforge/internal/client"
)

// fakeAuth is a stand-in auth service that counts token fetches.
func fakeAuth(t *testing.T, tokenFetches *int64, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/token" {
			t.Errorf("unexpected auth path %s", r.URL.Path)
		}
		atomic.AddInt64(tokenFetches, 1)
		w.WriteHeader(status)
		if status == http.StatusOK {
			json.NewEncoder(w).Encode(map[string]string{"token": "test-token"})
		}
	}))
}

func TestCreateProject_FetchesTokenAndSendsBearer(t *testing.T) {
	var tokenFetches int64
	auth := fakeAuth(t, &tokenFetches, http.StatusOK)
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer token on create, got %q", got)
		}
		if got := r.Header.Get("Cookie"); got != "" {
			t.Errorf("expected session cookie stripped from API request, got %q", got)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(client.Project{ID: "p1", Slug: "my-mod"})
	}))
	defer api.Close()

	c := client.New(api.URL, "v1", auth.URL)
	p, err := c.CreateProject(context.Background(), "auth_token=abc", client.CreateProjectRequest{
		Name: "My Mod", Slug: "my-mod", Type: "mod",
	})
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if p.Slug != "my-mod" {
		t.Errorf("unexpected project: %+v", p)
	}
	if tokenFetches != 1 {
		t.Errorf("expected exactly one token fetch, got %d", tokenFetches)
	}
}

func TestCreateProject_AbortsWhenTokenFetchFails(t *testing.T) {
	var tokenFetches int64
	auth := fakeAuth(t, &tokenFetches, http.StatusUnauthorized)
	defer auth.Close()

	var apiHits int64
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&apiHits, 1)
	}))
	defer api.Close()

	c := client.New(api.URL, "v1", auth.URL)
	_, err := c.CreateProject(context.Background(), "auth_token=stale", client.CreateProjectRequest{
		Name: "My Mod", Slug: "my-mod", Type: "mod",
	})
	if err == nil {
		t.Fatal("expected an error when the token fetch fails")
	}
	if apiHits != 0 {
		t.Errorf("expected the API never to be called, got %d hits", apiHits)
	}
}

func TestGetProject_ReadsNeverFetchTokens(t *testing.T) {
	var tokenFetches int64
	auth := fakeAuth(t, &tokenFetches, http.StatusOK)
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no authorization header, got %q", got)
		}
		json.NewEncoder(w).Encode(client.Project{ID: "p1", Slug: "my-mod"})
	}))
	defer api.Close()

	c := client.New(api.URL, "v1", auth.URL)
	if _, err := c.GetProject(context.Background(), "", "my-mod"); err != nil {
		t.Fatalf("expected anonymous get to succeed, got %v", err)
	}
	// Even with a session cookie on hand, a read goes out anonymously.
	if _, err := c.GetProject(context.Background(), "auth_token=abc", "my-mod"); err != nil {
		t.Fatalf("expected get with cookie to succeed, got %v", err)
	}
	if tokenFetches != 0 {
		t.Errorf("expected no token fetches for reads, got %d", tokenFetches)
	}
}

func TestGetProject_NotFoundReturnsNil(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"title": "Not Found", "status": 404})
	}))
	defer api.Close()

	c := client.New(api.URL, "v1", api.URL)
	p, err := c.GetProject(context.Background(), "", "ghost")
	if err != nil {
		t.Fatalf("expected nil error for 404, got %v", err)
	}
	if p != nil {
		t.Errorf("expected nil project for 404, got %+v", p)
	}
}

func TestUpdateProject_SurfacesFieldErrors(t *testing.T) {
	var tokenFetches int64
	auth := fakeAuth(t, &tokenFetches, http.StatusOK)
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"title":  "Bad Request",
			"status": 400,
			"detail": "One or more fields failed validation.",
			"errors": map[string]string{"slug": "'-bad' is not a valid slug."},
		})
	}))
	defer api.Close()

	c := client.New(api.URL, "v1", auth.URL)
	slug := "-bad"
	_, err := c.UpdateProject(context.Background(), "auth_token=abc", "my-mod", client.UpdateProjectRequest{Slug: &slug})

	apiErr, ok := err.(*client.APIError)
	if !ok {
		t.Fatalf("expected *client.APIError, got %v", err)
	}
	if apiErr.FieldErrors()["slug"] == "" {
		t.Errorf("expected a slug field error, got %+v", apiErr.FieldErrors())
	}
}

func TestSearchProjects_DegradesToEmptyOnFailure(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer api.Close()

	c := client.New(api.URL, "v1", api.URL)
	result := c.SearchProjects(context.Background(), "anything", 1, 20)

	if result.Data == nil || len(result.Data) != 0 {
		t.Errorf("expected an empty listing, got %+v", result.Data)
	}
	if result.TotalHits != 0 {
		t.Errorf("expected zero hits, got %d", result.TotalHits)
	}
}

func TestSearchProjects_TranslatesPagination(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "20" {
			t.Errorf("expected limit=20, got %q", q.Get("limit"))
		}
		if q.Get("offset") != "40" {
			t.Errorf("expected offset=40, got %q", q.Get("offset"))
		}
		json.NewEncoder(w).Encode(client.SearchResult{Data: []client.Project{}, Limit: 20, Offset: 40})
	}))
	defer api.Close()

	c := client.New(api.URL, "v1", api.URL)
	c.SearchProjects(context.Background(), "boss", 3, 20)
}
