package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SessionUser is the signed-in user as reported by the auth service.
type SessionUser struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Image    *string `json:"image"`
}

type sessionPayload struct {
	User SessionUser `json:"user"`
}

// authClient talks to the auth service on behalf of the browser, forwarding
// its cookies and relaying Set-Cookie headers back.
type authClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAuthClient(authURL string) *authClient {
	return &authClient{
		baseURL: strings.TrimRight(authURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// CurrentUser resolves the browser's session. Anonymous visitors get nil, nil;
// the auth service answers with a literal null body for them.
func (a *authClient) CurrentUser(ctx context.Context, cookie string) (*SessionUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/auth/get-session", nil)
	if err != nil {
		return nil, err
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	res, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth service returned status %d", res.StatusCode)
	}

	var payload *sessionPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}
	return &payload.User, nil
}

// relayResult carries an auth endpoint's response back to the form handler.
type relayResult struct {
	StatusCode int
	Body       []byte
	Cookies    []string
}

// relay posts a JSON body to an auth endpoint and captures the Set-Cookie
// headers so the handler can pass them through to the browser.
func (a *authClient) relay(ctx context.Context, path, cookie string, body any) (*relayResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	res, err := a.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	return &relayResult{
		StatusCode: res.StatusCode,
		Body:       resBody,
		Cookies:    res.Header.Values("Set-Cookie"),
	}, nil
}

// forwardCookies copies relayed Set-Cookie headers onto the browser response.
func forwardCookies(w http.ResponseWriter, result *relayResult) {
	for _, c := range result.Cookies {
		w.Header().Add("Set-Cookie", c)
	}
}
