package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/terraforge-gg/terraforge/internal/db"
	"github.com/terraforge-gg/terraforge/internal/middleware"
	"github.com/terraforge-gg/terraforge/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionTTL = 7 * 24 * time.Hour

func newSessionToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// createSession persists a session row and sets the auth_token cookie.
func createSession(w http.ResponseWriter, r *http.Request, userID string) (*Session, error) {
	session := Session{
		ID:        utils.GenerateUUID(),
		Token:     newSessionToken(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(sessionTTL),
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}

	if err := db.DB.Create(&session).Error; err != nil {
		return nil, err
	}

	http.SetCookie(w, sessionCookie(session.Token, session.ExpiresAt))
	return &session, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func SignUpHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	username := utils.NormalizeUsername(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" || input.Password == "" {
		http.Error(w, "Username, email and password are required", http.StatusBadRequest)
		return
	}

	var existing User
	if err := db.DB.First(&existing, "username = ?", username).Error; err == nil {
		http.Error(w, "Username already taken", http.StatusConflict)
		return
	}
	if err := db.DB.First(&existing, "email = ?", email).Error; err == nil {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	user := User{
		ID:              utils.GenerateUUID(),
		Name:            input.Name,
		Username:        username,
		DisplayUsername: strings.TrimSpace(input.Username),
		Email:           email,
	}
	account := Account{
		ID:         utils.GenerateUUID(),
		UserID:     user.ID,
		ProviderID: ProviderCredential,
		AccountID:  user.ID,
		Password:   string(hashed),
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	if _, err := createSession(w, r, user.ID); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// signIn finds the credential account for the resolved user and verifies the
// password. Lookup failures and bad passwords are indistinguishable to the
// caller.
func signIn(w http.ResponseWriter, r *http.Request, user *User, findErr error, password string) {
	if findErr != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	var account Account
	err := db.DB.First(&account, "user_id = ? AND provider_id = ?", user.ID, ProviderCredential).Error
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)) != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if _, err := createSession(w, r, user.ID); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func SignInEmailHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	var user User
	err := db.DB.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(input.Email))).Error
	signIn(w, r, &user, err, input.Password)
}

func SignInUsernameHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	var user User
	err := db.DB.First(&user, "username = ?", utils.NormalizeUsername(input.Username)).Error
	signIn(w, r, &user, err, input.Password)
}

func SignOutHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil {
		http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
		return
	}

	db.DB.Delete(&Session{}, "token = ?", cookie.Value)
	http.SetCookie(w, expiredSessionCookie())

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// currentSession resolves the cookie to a live session, or nil for anonymous.
func currentSession(r *http.Request) (*Session, *User) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil {
		return nil, nil
	}

	var session Session
	if err := db.DB.First(&session, "token = ?", cookie.Value).Error; err != nil {
		return nil, nil
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}

	var user User
	if err := db.DB.First(&user, "id = ?", session.UserID).Error; err != nil {
		return nil, nil
	}

	return &session, &user
}

// GetSessionHandler returns {session,user}, or a literal JSON null for
// anonymous callers. Consumers key off the null body, not the status code.
func GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, user := currentSession(r)
	if session == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("null"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session": session,
		"user":    user,
	})
}

func TokenHandler(w http.ResponseWriter, r *http.Request) {
	session, user := currentSession(r)
	if session == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := mintToken(user, cfg.AuthSecret)
	if err != nil {
		http.Error(w, "Failed to sign token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// findUserByID is shared with the Discord callback.
func findUserByID(id string) (*User, error) {
	var user User
	if err := db.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
