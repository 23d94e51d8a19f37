package project

import (
	"time"

	"github.com/lib/pq"
	"github.com/terraforge-gg/terraforge/internal/role"
)

type Type string

const TypeMod Type = "mod"

type Status string

const (
	StatusDraft    Status = "draft"
	StatusRejected Status = "rejected"
	StatusApproved Status = "approved"
	StatusBanned   Status = "banned"
)

type Project struct {
	ID             string         `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Slug           string         `gorm:"uniqueIndex;not null" json:"slug"`
	Summary        *string        `json:"summary"`
	Description    *string        `json:"description"`
	IconURL        *string        `json:"iconUrl"`
	Tags           pq.StringArray `gorm:"type:text[]" json:"tags"`
	Downloads      int64          `gorm:"not null;default:0" json:"downloads"`
	Type           Type           `gorm:"not null" json:"type"`
	Status         Status         `gorm:"not null;default:'draft'" json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      *time.Time     `gorm:"index" json:"-"`
	UserID         string         `gorm:"index;not null" json:"userId"`
	OrganisationID *string        `gorm:"index" json:"organisationId"`
}

type Member struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ProjectID string    `gorm:"index:idx_member_project_user,unique;not null" json:"projectId"`
	UserID    string    `gorm:"index:idx_member_project_user,unique;not null" json:"userId"`
	Role      role.Role `gorm:"not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// memberUser is a read-only view of the auth service's user table, used to
// join usernames and avatars onto member lists. The catalog never writes it.
type memberUser struct {
	ID       string
	Username string
	Image    *string
}

func (Project) TableName() string    { return "app_catalog.projects" }
func (Member) TableName() string     { return "app_catalog.project_members" }
func (memberUser) TableName() string { return "app_auth.users" }
