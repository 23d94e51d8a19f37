package project

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/terraforge-gg/terraforge/internal/db"
	"github.com/terraforge-gg/terraforge/internal/role"
	"github.com/terraforge-gg/terraforge/internal/utils"
	"gorm.io/gorm"
)

// pgUniqueViolation is the postgres error code for unique constraint hits.
const pgUniqueViolation = "23505"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string, fieldErrors map[string]string) {
	writeJSON(w, status, ProblemDetails{
		Title:  title,
		Status: status,
		Detail: detail,
		Errors: fieldErrors,
	})
}

func writeNotFound(w http.ResponseWriter) {
	writeProblem(w, http.StatusNotFound, "Not Found", "Project not found.", nil)
}

func writeUnauthorised(w http.ResponseWriter) {
	writeProblem(w, http.StatusUnauthorized, "Unauthorised", "You are not authorised to perform this action.", nil)
}

func callerID(r *http.Request) *string {
	if id, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return &id
	}
	return nil
}

// visibleTo scopes project lookups to what the caller may see: approved
// projects for everyone, drafts only for their owner. Soft-deleted rows are
// never visible.
func visibleTo(userID *string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("deleted_at IS NULL")
		if userID != nil {
			return tx.Where("status = ? OR (status = ? AND user_id = ?)", StatusApproved, StatusDraft, *userID)
		}
		return tx.Where("status = ?", StatusApproved)
	}
}

// findByIdentifier resolves an id-or-slug to a project the caller may see.
// Returns nil, nil when nothing matches.
func findByIdentifier(tx *gorm.DB, identifier string, userID *string) (*Project, error) {
	var p Project
	err := tx.Scopes(visibleTo(userID)).
		Where("id = ? OR slug = ?", identifier, identifier).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func findMembers(tx *gorm.DB, projectID string) ([]Member, []memberUser, error) {
	var members []Member
	if err := tx.Order("created_at").Find(&members, "project_id = ?", projectID).Error; err != nil {
		return nil, nil, err
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}

	var users []memberUser
	if len(ids) > 0 {
		if err := tx.Find(&users, "id IN ?", ids).Error; err != nil {
			return nil, nil, err
		}
	}

	return members, users, nil
}

// memberCapabilities loads the caller's membership for authorization checks.
func memberCapabilities(tx *gorm.DB, projectID, userID string) (Capabilities, error) {
	var member Member
	err := tx.First(&member, "project_id = ? AND user_id = ?", projectID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Capabilities{}, nil
	}
	if err != nil {
		return Capabilities{}, err
	}
	return member.Role.Capabilities(), nil
}

func CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthorised(w)
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "Invalid request.", nil)
		return
	}

	if err := Validate(&req); err != nil {
		var valErr *ValidationError
		if errors.As(err, &valErr) {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "One or more fields failed validation.", valErr.Errors)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "Validation failed.", nil)
		return
	}

	now := time.Now().UTC()
	p := Project{
		ID:        utils.GenerateUUID(),
		Name:      req.Name,
		Slug:      req.Slug,
		Summary:   emptyToNil(req.Summary),
		Tags:      req.Tags,
		Type:      Type(req.Type),
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
	}
	owner := Member{
		ID:        utils.GenerateUUID(),
		ProjectID: p.ID,
		UserID:    userID,
		Role:      role.Owner,
		CreatedAt: now,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		return tx.Create(&owner).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "Project slug is not available.", nil)
			return
		}
		log.Printf("project: create failed: %v", err)
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create project.", nil)
		return
	}

	go func(p Project) {
		if err := searchIndex.IndexProject(&p); err != nil {
			log.Printf("project: failed to index %s: %v", p.ID, err)
		}
	}(p)

	writeJSON(w, http.StatusCreated, p)
}

func GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	p, err := findByIdentifier(db.DB, identifier, callerID(r))
	if err != nil {
		log.Printf("project: lookup failed: %v", err)
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load project.", nil)
		return
	}
	if p == nil {
		writeNotFound(w)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func GetMembersHandler(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	userID := callerID(r)

	// Member-list visibility for drafts extends to every member, not just
	// the owner, so a membership probe widens the project lookup.
	p, err := findByIdentifier(db.DB, identifier, userID)
	if err == nil && p == nil && userID != nil {
		p, err = memberVisibleProject(db.DB, identifier, *userID)
	}
	if err != nil {
		log.Printf("project: member lookup failed: %v", err)
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load members.", nil)
		return
	}
	if p == nil {
		writeNotFound(w)
		return
	}

	members, users, err := findMembers(db.DB, p.ID)
	if err != nil {
		log.Printf("project: member lookup failed: %v", err)
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "Failed to load members.", nil)
		return
	}
	if len(members) == 0 {
		writeNotFound(w)
		return
	}

	writeJSON(w, http.StatusOK, memberResponses(members, users))
}

// memberVisibleProject finds a draft project that the caller can see by
// being any member of it.
func memberVisibleProject(tx *gorm.DB, identifier, userID string) (*Project, error) {
	var p Project
	err := tx.Where("deleted_at IS NULL").
		Where("id = ? OR slug = ?", identifier, identifier).
		Where("status = ?", StatusDraft).
		Where("EXISTS (SELECT 1 FROM app_catalog.project_members pm WHERE pm.project_id = app_catalog.projects.id AND pm.user_id = ?)", userID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthorised(w)
		return
	}

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "Invalid request.", nil)
		return
	}

	if err := Validate(&req); err != nil {
		var valErr *ValidationError
		if errors.As(err, &valErr) {
			writeProblem(w, http.StatusBadRequest, "Bad Request", "One or more fields failed validation.", valErr.Errors)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "Validation failed.", nil)
		return
	}

	var updated *Project
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		p, err := findByIdentifier(tx, identifier, &userID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrNotFound
		}

		caps, err := memberCapabilities(tx, p.ID, userID)
		if err != nil {
			return err
		}
		if !caps.CanViewSettings {
			return ErrUnauthorised
		}

		applyUpdate(p, req)
		if err := tx.Save(p).Error; err != nil {
			return err
		}

		updated = p
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeNotFound(w)
		case errors.Is(err, ErrUnauthorised):
			writeUnauthorised(w)
		default:
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				writeProblem(w, http.StatusBadRequest, "Bad Request", "Project slug is not available.", nil)
				return
			}
			log.Printf("project: update failed: %v", err)
			writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update project.", nil)
		}
		return
	}

	go func(p Project) {
		if err := searchIndex.UpdateProject(&p); err != nil {
			log.Printf("project: failed to reindex %s: %v", p.ID, err)
		}
	}(*updated)

	writeJSON(w, http.StatusOK, updated)
}

func DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeUnauthorised(w)
		return
	}

	var deletedID string
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		p, err := findByIdentifier(tx, identifier, &userID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrNotFound
		}

		caps, err := memberCapabilities(tx, p.ID, userID)
		if err != nil {
			return err
		}
		if !caps.CanDelete {
			return ErrUnauthorised
		}

		deletedID = p.ID
		now := time.Now().UTC()
		return tx.Model(p).Update("deleted_at", now).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeNotFound(w)
		case errors.Is(err, ErrUnauthorised):
			writeUnauthorised(w)
		default:
			log.Printf("project: delete failed: %v", err)
			writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete project.", nil)
		}
		return
	}

	go func(id string) {
		if err := searchIndex.DeleteProject(id); err != nil {
			log.Printf("project: failed to remove %s from index: %v", id, err)
		}
	}(deletedID)

	w.WriteHeader(http.StatusOK)
}

const (
	defaultSearchLimit int64 = 10
	maxSearchLimit     int64 = 100
)

func SearchProjectsHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	projectType := r.URL.Query().Get("type")
	if projectType == "" {
		projectType = string(TypeMod)
	}

	limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if err != nil || limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	offset, err := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)
	if err != nil || offset < 0 {
		offset = 0
	}

	projects, totalHits, err := searchIndex.Find(query, projectType, limit, offset)
	if err != nil {
		log.Printf("project: search failed: %v", err)
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", "Search is unavailable.", nil)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Data:      projects,
		TotalHits: totalHits,
		Limit:     limit,
		Offset:    offset,
	})
}
