package project_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/terraforge-gg/terraforge/internal/project"
)

func validCreateRequest() project.CreateProjectRequest {
	return project.CreateProjectRequest{
		Name: "My Mod",
		Slug: "my-mod",
		Type: "mod",
	}
}

// fieldError validates the request and returns the message recorded for the
// given field, or "" when the field passed.
func fieldError(t *testing.T, req any, field string) string {
	t.Helper()

	err := project.Validate(req)
	if err == nil {
		return ""
	}

	var valErr *project.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	return valErr.Errors[field]
}

func TestValidate_AcceptsValidRequest(t *testing.T) {
	if err := project.Validate(validCreateRequest()); err != nil {
		t.Fatalf("expected valid request to pass, got %v", err)
	}
}

func TestValidate_SlugRules(t *testing.T) {
	valid := []string{"my-mod", "my_mod_1", "a", "7", "A-B-C", "x2"}
	for _, slug := range valid {
		req := validCreateRequest()
		req.Slug = slug
		if msg := fieldError(t, req, "slug"); msg != "" {
			t.Errorf("slug %q: expected valid, got %q", slug, msg)
		}
	}

	invalid := []string{"-bad", "bad-", "_bad", "bad_", "has space", "sneaky/slash", "", "ünïcode"}
	for _, slug := range invalid {
		req := validCreateRequest()
		req.Slug = slug
		if msg := fieldError(t, req, "slug"); msg == "" {
			t.Errorf("slug %q: expected invalid", slug)
		}
	}
}

func TestValidate_SlugLength(t *testing.T) {
	req := validCreateRequest()
	req.Slug = strings.Repeat("a", 100)
	if msg := fieldError(t, req, "slug"); msg != "" {
		t.Errorf("100-char slug: expected valid, got %q", msg)
	}

	req.Slug = strings.Repeat("a", 101)
	if msg := fieldError(t, req, "slug"); msg == "" {
		t.Error("101-char slug: expected invalid")
	}
}

func TestValidate_NameLength(t *testing.T) {
	req := validCreateRequest()
	req.Name = "ab"
	if msg := fieldError(t, req, "name"); msg == "" {
		t.Error("2-char name: expected invalid")
	}

	req.Name = "abc"
	if msg := fieldError(t, req, "name"); msg != "" {
		t.Errorf("3-char name: expected valid, got %q", msg)
	}

	req.Name = strings.Repeat("a", 101)
	if msg := fieldError(t, req, "name"); msg == "" {
		t.Error("101-char name: expected invalid")
	}
}

func TestValidate_TypeMustBeKnown(t *testing.T) {
	req := validCreateRequest()
	req.Type = "plugin"
	if msg := fieldError(t, req, "type"); msg == "" {
		t.Error("unknown type: expected invalid")
	}
}

func TestValidate_UpdateRequestSkipsAbsentFields(t *testing.T) {
	// A PATCH with no fields set has nothing to validate.
	if err := project.Validate(project.UpdateProjectRequest{}); err != nil {
		t.Fatalf("expected empty update to pass, got %v", err)
	}
}

func TestValidate_UpdateRequestChecksPresentFields(t *testing.T) {
	short := "ab"
	req := project.UpdateProjectRequest{Name: &short}
	if msg := fieldError(t, req, "name"); msg == "" {
		t.Error("short name in update: expected invalid")
	}

	badURL := "not a url"
	req = project.UpdateProjectRequest{IconURL: &badURL}
	if msg := fieldError(t, req, "iconUrl"); msg == "" {
		t.Error("bad icon url: expected invalid")
	}
}

// Name and slug cannot be cleared: a PATCH carrying an explicit empty string
// for either is invalid, unlike the optional text fields.
func TestValidate_UpdateRequestRejectsEmptyNameAndSlug(t *testing.T) {
	empty := ""

	req := project.UpdateProjectRequest{Name: &empty}
	if msg := fieldError(t, req, "name"); msg == "" {
		t.Error("empty name in update: expected invalid")
	}

	req = project.UpdateProjectRequest{Slug: &empty}
	if msg := fieldError(t, req, "slug"); msg == "" {
		t.Error("empty slug in update: expected invalid")
	}

	req = project.UpdateProjectRequest{Summary: &empty}
	if err := project.Validate(req); err != nil {
		t.Errorf("empty summary clears the field, expected valid, got %v", err)
	}
}

func TestValidate_FieldNamesAreLowerCamel(t *testing.T) {
	req := validCreateRequest()
	req.Slug = "-bad"

	err := project.Validate(req)
	var valErr *project.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if _, ok := valErr.Errors["slug"]; !ok {
		t.Errorf("expected error keyed by %q, got keys %v", "slug", valErr.Errors)
	}
}
