package web

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/terraforge-gg/terraforge/internal/client"
	"github.com/terraforge-gg/terraforge/internal/project"
	"github.com/terraforge-gg/terraforge/internal/role"
)

const flashCookieName = "tf_flash"

// basePage carries what the layout needs. Every page embeds it and handlers
// fill it explicitly.
type basePage struct {
	Title string
	User  *SessionUser
	Flash string
}

func (s *Server) base(w http.ResponseWriter, r *http.Request, title string) basePage {
	user, err := s.auth.CurrentUser(r.Context(), r.Header.Get("Cookie"))
	if err != nil {
		log.Printf("web: failed to resolve session: %v", err)
	}
	return basePage{
		Title: title,
		User:  user,
		Flash: popFlash(w, r),
	}
}

func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookieName, Path: "/", MaxAge: -1, HttpOnly: true})
	message, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return message
}

func (s *Server) render(w http.ResponseWriter, page string, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.render(w, page, data); err != nil {
		log.Printf("web: failed to render %s: %v", page, err)
	}
}

type notFoundPage struct {
	basePage
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request, user *SessionUser) {
	page := notFoundPage{basePage: basePage{Title: "Not found", User: user}}
	if user == nil {
		page.basePage = s.base(w, r, "Not found")
	}
	s.render(w, "notfound", http.StatusNotFound, page)
}

type homePage struct {
	basePage
	Query    string
	Projects []client.Project
	HasMore  bool
	NextPage int64
}

const homePerPage = 20

// HomeHandler renders the mod listing. An empty query lists everything; a
// search failure degrades to an empty listing inside the client.
func (s *Server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	result := s.api.SearchProjects(r.Context(), query, page, homePerPage)

	s.render(w, "home", http.StatusOK, homePage{
		basePage: s.base(w, r, "Discover mods"),
		Query:    query,
		Projects: result.Data,
		HasMore:  result.Offset+int64(len(result.Data)) < result.TotalHits,
		NextPage: page + 1,
	})
}

type projectPage struct {
	basePage
	Project         *client.Project
	Members         []client.Member
	CanViewSettings bool
}

func (s *Server) ProjectHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	cookie := r.Header.Get("Cookie")
	base := s.base(w, r, "Mod")

	cache := client.NewRequestCache()
	defer cache.Evict()

	project, members, err := s.loadProject(r, cache, cookie, slug)
	if err != nil {
		log.Printf("web: failed to load project %s: %v", slug, err)
	}
	if project == nil {
		s.renderNotFound(w, r, base.User)
		return
	}

	caps := role.Capabilities{}
	if base.User != nil {
		caps = capabilitiesFor(members, base.User.ID)
	}

	base.Title = project.Name
	s.render(w, "project", http.StatusOK, projectPage{
		basePage:        base,
		Project:         project,
		Members:         members,
		CanViewSettings: caps.CanViewSettings,
	})
}

// loadProject fetches a project and its members through the request cache so
// repeated lookups within one page render cost a single API call each.
func (s *Server) loadProject(r *http.Request, cache *client.RequestCache, cookie, slug string) (*client.Project, []client.Member, error) {
	project, ok := cache.Project(slug)
	if !ok {
		var err error
		project, err = s.api.GetProject(r.Context(), cookie, slug)
		if err != nil {
			return nil, nil, err
		}
		cache.StoreProject(slug, project)
	}
	if project == nil {
		return nil, nil, nil
	}

	members, ok := cache.Members(slug)
	if !ok {
		var err error
		members, err = s.api.GetMembers(r.Context(), cookie, slug)
		if err != nil {
			return project, nil, err
		}
		cache.StoreMembers(slug, members)
	}

	return project, members, nil
}

// capabilitiesFor resolves the signed-in user's capabilities from a member
// list, failing closed when the user appears nowhere in it.
func capabilitiesFor(members []client.Member, userID string) role.Capabilities {
	if userID == "" {
		return role.Capabilities{}
	}
	for _, m := range members {
		if m.UserID == userID {
			return role.For(m.Role)
		}
	}
	return role.Capabilities{}
}

type settingsForm struct {
	Name        string
	Slug        string
	Summary     string
	Description string
	IconURL     string
}

type settingsPage struct {
	basePage
	Project     *client.Project
	Form        settingsForm
	FieldErrors map[string]string
	CanDelete   bool
}

// settingsAccess loads everything the settings pages need and decides whether
// the caller may see them. A missing project, missing member list, or a role
// without the settings capability all end at the same not-found page.
func (s *Server) settingsAccess(w http.ResponseWriter, r *http.Request) (*client.Project, role.Capabilities, *SessionUser, bool) {
	slug := chi.URLParam(r, "slug")
	cookie := r.Header.Get("Cookie")
	base := s.base(w, r, "Settings")

	if base.User == nil {
		s.renderNotFound(w, r, nil)
		return nil, role.Capabilities{}, nil, false
	}

	cache := client.NewRequestCache()
	defer cache.Evict()

	project, members, err := s.loadProject(r, cache, cookie, slug)
	if err != nil {
		log.Printf("web: failed to load project %s: %v", slug, err)
	}
	if project == nil || members == nil {
		s.renderNotFound(w, r, base.User)
		return nil, role.Capabilities{}, base.User, false
	}

	caps := capabilitiesFor(members, base.User.ID)
	if !caps.CanViewSettings {
		s.renderNotFound(w, r, base.User)
		return nil, role.Capabilities{}, base.User, false
	}

	return project, caps, base.User, true
}

// validateSettingsForm runs the catalog's validation rules over the submitted
// form. A form with field errors re-renders locally and never reaches the API.
func validateSettingsForm(form settingsForm) map[string]string {
	req := project.UpdateProjectRequest{
		Name:        &form.Name,
		Slug:        &form.Slug,
		Summary:     &form.Summary,
		Description: &form.Description,
		IconURL:     &form.IconURL,
	}
	return formFieldErrors(project.Validate(&req))
}

func validateNewProjectForm(form newProjectForm) map[string]string {
	req := project.CreateProjectRequest{
		Name: form.Name,
		Slug: form.Slug,
		Type: "mod",
	}
	if form.Summary != "" {
		req.Summary = &form.Summary
	}
	return formFieldErrors(project.Validate(&req))
}

func formFieldErrors(err error) map[string]string {
	var valErr *project.ValidationError
	if errors.As(err, &valErr) {
		return valErr.Errors
	}
	if err != nil {
		log.Printf("web: form validation failed: %v", err)
	}
	return nil
}

func formFromProject(p *client.Project) settingsForm {
	form := settingsForm{Name: p.Name, Slug: p.Slug}
	if p.Summary != nil {
		form.Summary = *p.Summary
	}
	if p.Description != nil {
		form.Description = *p.Description
	}
	if p.IconURL != nil {
		form.IconURL = *p.IconURL
	}
	return form
}

func (s *Server) SettingsHandler(w http.ResponseWriter, r *http.Request) {
	project, caps, user, ok := s.settingsAccess(w, r)
	if !ok {
		return
	}

	s.render(w, "settings", http.StatusOK, settingsPage{
		basePage:  basePage{Title: "Settings", User: user, Flash: popFlash(w, r)},
		Project:   project,
		Form:      formFromProject(project),
		CanDelete: caps.CanDelete,
	})
}

func (s *Server) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	project, caps, user, ok := s.settingsAccess(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := settingsForm{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Slug:        strings.TrimSpace(r.PostFormValue("slug")),
		Summary:     strings.TrimSpace(r.PostFormValue("summary")),
		Description: r.PostFormValue("description"),
		IconURL:     strings.TrimSpace(r.PostFormValue("iconUrl")),
	}

	if fieldErrors := validateSettingsForm(form); fieldErrors != nil {
		s.render(w, "settings", http.StatusBadRequest, settingsPage{
			basePage:    basePage{Title: "Settings", User: user},
			Project:     project,
			Form:        form,
			FieldErrors: fieldErrors,
			CanDelete:   caps.CanDelete,
		})
		return
	}

	submitted := client.UpdateProjectRequest{
		Name:        &form.Name,
		Slug:        &form.Slug,
		Summary:     &form.Summary,
		Description: &form.Description,
		IconURL:     &form.IconURL,
	}

	diff, changed := client.DiffProject(project, submitted)
	if !changed {
		setFlash(w, "Nothing to save.")
		http.Redirect(w, r, "/mods/"+url.PathEscape(project.Slug)+"/settings", http.StatusSeeOther)
		return
	}

	updated, err := s.api.UpdateProject(r.Context(), r.Header.Get("Cookie"), project.Slug, diff)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && len(apiErr.FieldErrors()) > 0 {
			s.render(w, "settings", http.StatusBadRequest, settingsPage{
				basePage:    basePage{Title: "Settings", User: user},
				Project:     project,
				Form:        form,
				FieldErrors: apiErr.FieldErrors(),
				CanDelete:   caps.CanDelete,
			})
			return
		}
		log.Printf("web: failed to update project %s: %v", project.Slug, err)
		setFlash(w, "Something went wrong saving your changes.")
		http.Redirect(w, r, "/mods/"+url.PathEscape(project.Slug)+"/settings", http.StatusSeeOther)
		return
	}

	setFlash(w, "Changes saved.")
	http.Redirect(w, r, "/mods/"+url.PathEscape(updated.Slug)+"/settings", http.StatusSeeOther)
}

func (s *Server) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	project, caps, _, ok := s.settingsAccess(w, r)
	if !ok {
		return
	}
	if !caps.CanDelete {
		s.renderNotFound(w, r, nil)
		return
	}

	if err := s.api.DeleteProject(r.Context(), r.Header.Get("Cookie"), project.Slug); err != nil {
		log.Printf("web: failed to delete project %s: %v", project.Slug, err)
		setFlash(w, "Something went wrong deleting the project.")
		http.Redirect(w, r, "/mods/"+url.PathEscape(project.Slug)+"/settings", http.StatusSeeOther)
		return
	}

	setFlash(w, "Project deleted.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type newProjectForm struct {
	Name    string
	Slug    string
	Summary string
}

type newProjectPage struct {
	basePage
	Form        newProjectForm
	FieldErrors map[string]string
}

func (s *Server) NewProjectFormHandler(w http.ResponseWriter, r *http.Request) {
	base := s.base(w, r, "Upload a mod")
	if base.User == nil {
		http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
		return
	}
	s.render(w, "new", http.StatusOK, newProjectPage{basePage: base})
}

func (s *Server) NewProjectHandler(w http.ResponseWriter, r *http.Request) {
	base := s.base(w, r, "Upload a mod")
	if base.User == nil {
		http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := newProjectForm{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Slug:    strings.TrimSpace(r.PostFormValue("slug")),
		Summary: strings.TrimSpace(r.PostFormValue("summary")),
	}

	if fieldErrors := validateNewProjectForm(form); fieldErrors != nil {
		s.render(w, "new", http.StatusBadRequest, newProjectPage{
			basePage:    base,
			Form:        form,
			FieldErrors: fieldErrors,
		})
		return
	}

	req := client.CreateProjectRequest{
		Name: form.Name,
		Slug: form.Slug,
		Type: "mod",
	}
	if form.Summary != "" {
		req.Summary = &form.Summary
	}

	project, err := s.api.CreateProject(r.Context(), r.Header.Get("Cookie"), req)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			fieldErrors := apiErr.FieldErrors()
			if fieldErrors == nil {
				fieldErrors = map[string]string{"slug": apiErr.Detail}
			}
			s.render(w, "new", http.StatusBadRequest, newProjectPage{
				basePage:    base,
				Form:        form,
				FieldErrors: fieldErrors,
			})
			return
		}
		log.Printf("web: failed to create project: %v", err)
		setFlash(w, "Something went wrong creating the project.")
		http.Redirect(w, r, "/new", http.StatusSeeOther)
		return
	}

	setFlash(w, "Project created.")
	http.Redirect(w, r, "/mods/"+url.PathEscape(project.Slug), http.StatusSeeOther)
}

type signInForm struct {
	Identifier string
}

type signInPage struct {
	basePage
	Form           signInForm
	FormError      string
	DiscordEnabled bool
	AuthURL        string
}

func (s *Server) SignInFormHandler(w http.ResponseWriter, r *http.Request) {
	base := s.base(w, r, "Sign in")
	if base.User != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, "signin", http.StatusOK, signInPage{
		basePage:       base,
		DiscordEnabled: s.cfg.DiscordClientID != "",
		AuthURL:        s.cfg.AuthURL,
	})
}

// SignInHandler relays credentials to the auth service and forwards its
// session cookie to the browser. An identifier containing "@" signs in by
// email, anything else by username.
func (s *Server) SignInHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	identifier := strings.TrimSpace(r.PostFormValue("identifier"))
	password := r.PostFormValue("password")

	path := "/api/auth/sign-in/username"
	body := map[string]string{"username": identifier, "password": password}
	if strings.Contains(identifier, "@") {
		path = "/api/auth/sign-in/email"
		body = map[string]string{"email": identifier, "password": password}
	}

	result, err := s.auth.relay(r.Context(), path, "", body)
	if err != nil || result.StatusCode != http.StatusOK {
		if err != nil {
			log.Printf("web: sign-in relay failed: %v", err)
		}
		s.render(w, "signin", http.StatusUnauthorized, signInPage{
			basePage:       basePage{Title: "Sign in"},
			Form:           signInForm{Identifier: identifier},
			FormError:      "Invalid credentials.",
			DiscordEnabled: s.cfg.DiscordClientID != "",
			AuthURL:        s.cfg.AuthURL,
		})
		return
	}

	forwardCookies(w, result)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type signUpForm struct {
	Username string
	Email    string
}

type signUpPage struct {
	basePage
	Form      signUpForm
	FormError string
}

func (s *Server) SignUpFormHandler(w http.ResponseWriter, r *http.Request) {
	base := s.base(w, r, "Sign up")
	if base.User != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, "signup", http.StatusOK, signUpPage{basePage: base})
}

func (s *Server) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := signUpForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
	}
	password := r.PostFormValue("password")

	result, err := s.auth.relay(r.Context(), "/api/auth/sign-up/email", "", map[string]string{
		"name":     form.Username,
		"username": form.Username,
		"email":    form.Email,
		"password": password,
	})
	if err != nil || result.StatusCode != http.StatusCreated {
		formError := "Could not create your account."
		if err != nil {
			log.Printf("web: sign-up relay failed: %v", err)
		} else if result.StatusCode == http.StatusConflict {
			formError = "That username or email is already taken."
		}
		s.render(w, "signup", http.StatusBadRequest, signUpPage{
			basePage:  basePage{Title: "Sign up"},
			Form:      form,
			FormError: formError,
		})
		return
	}

	forwardCookies(w, result)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) SignOutHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.auth.relay(r.Context(), "/api/auth/sign-out", r.Header.Get("Cookie"), struct{}{})
	if err != nil {
		log.Printf("web: sign-out relay failed: %v", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	forwardCookies(w, result)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
