package client

import "time"

// Project mirrors the catalog API's project payload.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Summary     *string   `json:"summary"`
	Description *string   `json:"description"`
	IconURL     *string   `json:"iconUrl"`
	Tags        []string  `json:"tags"`
	Downloads   int64     `json:"downloads"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	UserID      string    `json:"userId"`
}

type Member struct {
	UserID   string  `json:"userId"`
	Username string  `json:"username"`
	Image    *string `json:"image"`
	Role     string  `json:"role"`
}

type CreateProjectRequest struct {
	Name    string  `json:"name"`
	Slug    string  `json:"slug"`
	Summary *string `json:"summary,omitempty"`
	Type    string  `json:"type"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Summary     *string `json:"summary,omitempty"`
	Description *string `json:"description,omitempty"`
	IconURL     *string `json:"iconUrl,omitempty"`
}

type SearchResult struct {
	Data      []Project `json:"data"`
	TotalHits int64     `json:"totalHits"`
	Limit     int64     `json:"limit"`
	Offset    int64     `json:"offset"`
}

// APIError is a catalog API problem response surfaced to callers.
type APIError struct {
	Title      string            `json:"title"`
	StatusCode int               `json:"status"`
	Detail     string            `json:"detail"`
	Errors     map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// FieldErrors returns per-field validation messages, if any.
func (e *APIError) FieldErrors() map[string]string {
	return e.Errors
}
