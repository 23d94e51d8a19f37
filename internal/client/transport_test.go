package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// RoundTrippers must not modify the request they are handed. The transport
// strips the cookie and attaches the bearer header on a clone, so the
// caller's request comes back untouched.
func TestRoundTrip_DoesNotMutateCallerRequest(t *testing.T) {
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"tok-123"}`))
	}))
	defer auth.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("expected bearer header on the wire, got %q", got)
		}
		if got := r.Header.Get("Cookie"); got != "" {
			t.Errorf("expected cookie stripped on the wire, got %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer api.Close()

	rt := &bearerTransport{authURL: auth.URL, base: http.DefaultTransport}

	req, err := http.NewRequest(http.MethodPost, api.URL+"/v1/projects", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Cookie", "auth_token=abc")

	res, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	res.Body.Close()

	if got := req.Header.Get("Cookie"); got != "auth_token=abc" {
		t.Errorf("caller's cookie header changed: got %q", got)
	}
	if got := req.Header.Get("Authorization"); got != "" {
		t.Errorf("caller's request grew an Authorization header: %q", got)
	}
}

func TestRoundTrip_ReadLeavesCallerRequestAlone(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Cookie"); got != "" {
			t.Errorf("expected cookie stripped on the wire, got %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer api.Close()

	rt := &bearerTransport{authURL: "http://auth.invalid", base: http.DefaultTransport}

	req, err := http.NewRequest(http.MethodGet, api.URL+"/v1/projects/calamity", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Cookie", "auth_token=abc")

	res, err := rt.RoundTrip(req)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	res.Body.Close()

	if got := req.Header.Get("Cookie"); got != "auth_token=abc" {
		t.Errorf("caller's cookie header changed: got %q", got)
	}
}
