package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// bearerTransport injects an Authorization header on protected catalog
// requests. The short-lived token is fetched from the auth service using the
// browser's session cookie, so a token round trip only happens when a request
// actually needs one. Reads never fetch a token.
type bearerTransport struct {
	authURL string
	base    http.RoundTripper
}

// protected reports whether a request mutates the project catalog and
// therefore needs a bearer token.
func protected(req *http.Request) bool {
	switch req.Method {
	case http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
	default:
		return false
	}
	return strings.Contains(req.URL.Path, "/projects")
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cookie := req.Header.Get("Cookie")

	// RoundTrip must not modify the caller's request, so header changes go
	// on a clone. The session cookie rides along only to mint tokens, never
	// to the API.
	out := req.Clone(req.Context())
	out.Header.Del("Cookie")

	if !protected(out) {
		return t.base.RoundTrip(out)
	}

	token, err := t.fetchToken(out, cookie)
	if err != nil {
		return nil, err
	}
	out.Header.Set("Authorization", "Bearer "+token)

	return t.base.RoundTrip(out)
}

func (t *bearerTransport) fetchToken(req *http.Request, cookie string) (string, error) {
	tokenReq, err := http.NewRequestWithContext(req.Context(), http.MethodGet, t.authURL+"/api/auth/token", nil)
	if err != nil {
		return "", err
	}
	if cookie != "" {
		tokenReq.Header.Set("Cookie", cookie)
	}

	res, err := t.base.RoundTrip(tokenReq)
	if err != nil {
		return "", fmt.Errorf("failed to fetch auth token: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch auth token: status %d", res.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode auth token: %w", err)
	}
	if body.Token == "" {
		return "", fmt.Errorf("auth service returned an empty token")
	}

	return body.Token, nil
}
