package project

import "time"

type CreateProjectRequest struct {
	Name    string   `json:"name" validate:"required,min=3,max=100"`
	Slug    string   `json:"slug" validate:"required,max=100,url_slug"`
	Summary *string  `json:"summary" validate:"omitempty,max=120"`
	Type    string   `json:"type" validate:"project_type"`
	Tags    []string `json:"tags" validate:"omitempty,max=5,dive,min=2,max=32"`
}

// Name and Slug use omitnil rather than omitempty: omitted means unchanged,
// but an explicit empty string is invalid, never a clear.
type UpdateProjectRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitnil,min=3,max=100"`
	Slug        *string  `json:"slug,omitempty" validate:"omitnil,max=100,url_slug"`
	Summary     *string  `json:"summary,omitempty" validate:"omitempty,max=120"`
	Description *string  `json:"description,omitempty"`
	IconURL     *string  `json:"iconUrl,omitempty" validate:"omitempty,url"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=5,dive,min=2,max=32"`
}

type MemberResponse struct {
	UserID   string  `json:"userId"`
	Username string  `json:"username"`
	Image    *string `json:"image"`
	Role     string  `json:"role"`
}

type SearchResponse struct {
	Data      []Project `json:"data"`
	TotalHits int64     `json:"totalHits"`
	Limit     int64     `json:"limit"`
	Offset    int64     `json:"offset"`
}

// ProblemDetails is the API error body (RFC 7807 shape).
type ProblemDetails struct {
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}

// memberResponses joins usernames and avatars onto a member list.
func memberResponses(members []Member, users []memberUser) []MemberResponse {
	byID := make(map[string]memberUser, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]MemberResponse, len(members))
	for i, m := range members {
		u := byID[m.UserID]
		out[i] = MemberResponse{
			UserID:   m.UserID,
			Username: u.Username,
			Image:    u.Image,
			Role:     string(m.Role),
		}
	}
	return out
}

// applyUpdate copies the changed fields of a PATCH onto the project. Empty
// strings clear the optional text fields.
func applyUpdate(p *Project, req UpdateProjectRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Slug != nil {
		p.Slug = *req.Slug
	}
	if req.Summary != nil {
		p.Summary = emptyToNil(req.Summary)
	}
	if req.Description != nil {
		p.Description = emptyToNil(req.Description)
	}
	if req.IconURL != nil {
		p.IconURL = emptyToNil(req.IconURL)
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}
	p.UpdatedAt = time.Now().UTC()
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
