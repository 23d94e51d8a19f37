package project

import (
	"testing"

	"github.com/terraforge-gg/terraforge/internal/role"
)

func strPtr(s string) *string { return &s }

func TestApplyUpdate_OnlyTouchesPresentFields(t *testing.T) {
	summary := "old summary"
	p := Project{
		Name:    "Old Name",
		Slug:    "old-slug",
		Summary: &summary,
	}

	applyUpdate(&p, UpdateProjectRequest{Name: strPtr("New Name")})

	if p.Name != "New Name" {
		t.Errorf("expected name to change, got %q", p.Name)
	}
	if p.Slug != "old-slug" {
		t.Errorf("expected slug untouched, got %q", p.Slug)
	}
	if p.Summary == nil || *p.Summary != "old summary" {
		t.Errorf("expected summary untouched, got %v", p.Summary)
	}
	if p.UpdatedAt.IsZero() {
		t.Error("expected updatedAt to be set")
	}
}

func TestApplyUpdate_EmptyStringClearsOptionalFields(t *testing.T) {
	summary := "something"
	p := Project{Summary: &summary}

	applyUpdate(&p, UpdateProjectRequest{Summary: strPtr("")})

	if p.Summary != nil {
		t.Errorf("expected summary cleared to nil, got %q", *p.Summary)
	}
}

func TestMemberResponses_JoinsUsersByID(t *testing.T) {
	members := []Member{
		{UserID: "u1", Role: role.Owner},
		{UserID: "u2", Role: role.Member},
	}
	users := []memberUser{
		{ID: "u1", Username: "alice"},
		{ID: "u2", Username: "bob"},
	}

	got := memberResponses(members, users)

	if len(got) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(got))
	}
	if got[0].Username != "alice" || got[0].Role != "owner" {
		t.Errorf("unexpected first response: %+v", got[0])
	}
	if got[1].Username != "bob" || got[1].Role != "member" {
		t.Errorf("unexpected second response: %+v", got[1])
	}
}
