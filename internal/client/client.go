// Package client is the typed HTTP client for the TerraForge catalog API.
// The frontend talks to the API exclusively through it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	rootURL    string
	baseURL    string
	httpClient *http.Client
}

// New builds a catalog client. apiURL points at the API server root, version
// selects the path prefix, and authURL is where bearer tokens are minted.
func New(apiURL, version, authURL string) *Client {
	return &Client{
		rootURL: strings.TrimRight(apiURL, "/"),
		baseURL: strings.TrimRight(apiURL, "/") + "/" + version,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &bearerTransport{
				authURL: strings.TrimRight(authURL, "/"),
				base:    http.DefaultTransport,
			},
		},
	}
}

// do issues a request and decodes the response into out when it is non-nil.
// Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path, cookie string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode, Title: res.Status}
		_ = json.NewDecoder(res.Body).Decode(apiErr)
		apiErr.StatusCode = res.StatusCode
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// CreateProject creates a draft project owned by the session user.
func (c *Client) CreateProject(ctx context.Context, cookie string, req CreateProjectRequest) (*Project, error) {
	var p Project
	if err := c.do(ctx, http.MethodPost, "/projects", cookie, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProject fetches a project by id or slug. A missing or invisible project
// returns nil, nil.
func (c *Client) GetProject(ctx context.Context, cookie, identifier string) (*Project, error) {
	var p Project
	err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(identifier), cookie, nil, &p)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetMembers fetches a project's member list. Missing projects return nil, nil.
func (c *Client) GetMembers(ctx context.Context, cookie, identifier string) ([]Member, error) {
	var members []Member
	err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(identifier)+"/members", cookie, nil, &members)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return members, nil
}

// UpdateProject patches the given fields of a project.
func (c *Client) UpdateProject(ctx context.Context, cookie, identifier string, req UpdateProjectRequest) (*Project, error) {
	var p Project
	if err := c.do(ctx, http.MethodPatch, "/projects/"+url.PathEscape(identifier), cookie, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes a project. The API soft-deletes; the client treats it
// as gone.
func (c *Client) DeleteProject(ctx context.Context, cookie, identifier string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(identifier), cookie, nil, nil)
}

// SearchProjects queries the catalog. Pages are 1-based; the API speaks
// limit/offset, so the translation lives here. Any failure degrades to an
// empty result so listing pages still render.
func (c *Client) SearchProjects(ctx context.Context, query string, page, perPage int64) SearchResult {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.FormatInt(perPage, 10))
	params.Set("offset", strconv.FormatInt((page-1)*perPage, 10))

	var result SearchResult
	if err := c.do(ctx, http.MethodGet, "/projects/search?"+params.Encode(), "", nil, &result); err != nil {
		return SearchResult{Data: []Project{}, Limit: perPage, Offset: (page - 1) * perPage}
	}
	if result.Data == nil {
		result.Data = []Project{}
	}
	return result
}

func isNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// Healthy reports whether the API answers its root endpoint.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rootURL, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("api returned status %d", res.StatusCode)
	}
	return nil
}
