package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/terraforge-gg/terraforge/internal/config"
	"github.com/terraforge-gg/terraforge/internal/db"
	"github.com/terraforge-gg/terraforge/internal/utils"
	"gorm.io/gorm"
)

const (
	discordAuthorizeURL = "https://discord.com/oauth2/authorize"
	discordTokenURL     = "https://discord.com/api/oauth2/token"
	discordUserURL      = "https://discord.com/api/users/@me"
)

// DiscordClient wraps the Discord OAuth2 endpoints.
type DiscordClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

// NewDiscordClient returns nil when the client credentials are not set
// (graceful degradation, social sign-in simply stays off).
func NewDiscordClient(c *config.Config) *DiscordClient {
	if c.DiscordClientID == "" || c.DiscordClientSecret == "" {
		return nil
	}
	return &DiscordClient{
		clientID:     c.DiscordClientID,
		clientSecret: c.DiscordClientSecret,
		redirectURI:  c.AuthURL + "/api/auth/callback/discord",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *DiscordClient) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("redirect_uri", c.redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", "identify email")
	q.Set("state", state)
	return discordAuthorizeURL + "?" + q.Encode()
}

// Exchange trades an authorization code for an access token.
func (c *DiscordClient) Exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, discordTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange returned HTTP %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	return body.AccessToken, nil
}

// DiscordProfile is the subset of /users/@me this service reads.
type DiscordProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

func (c *DiscordClient) FetchProfile(ctx context.Context, accessToken string) (*DiscordProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discordUserURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile request returned HTTP %d", resp.StatusCode)
	}

	var profile DiscordProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	return &profile, nil
}

func (p *DiscordProfile) avatarURL() *string {
	if p.Avatar == "" {
		return nil
	}
	u := fmt.Sprintf("https://cdn.discordapp.com/avatars/%s/%s.png", p.ID, p.Avatar)
	return &u
}

const stateCookieName = "oauth_state"

func SocialSignInHandler(w http.ResponseWriter, r *http.Request) {
	if discord == nil || r.URL.Query().Get("provider") != ProviderDiscord {
		http.Error(w, "Unknown provider", http.StatusNotFound)
		return
	}

	state := newSessionToken()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/api/auth",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, discord.AuthorizeURL(state), http.StatusFound)
}

func DiscordCallbackHandler(w http.ResponseWriter, r *http.Request) {
	if discord == nil {
		http.Error(w, "Unknown provider", http.StatusNotFound)
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	accessToken, err := discord.Exchange(ctx, code)
	if err != nil {
		http.Error(w, "Discord sign-in failed", http.StatusBadGateway)
		return
	}

	profile, err := discord.FetchProfile(ctx, accessToken)
	if err != nil {
		http.Error(w, "Discord sign-in failed", http.StatusBadGateway)
		return
	}

	user, err := userForDiscordProfile(profile)
	if err != nil {
		http.Error(w, "Failed to sign in user", http.StatusInternalServerError)
		return
	}

	if _, err := createSession(w, r, user.ID); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, cfg.FrontendURL, http.StatusFound)
}

// userForDiscordProfile finds the linked user or provisions one. Only the
// username field of the provider profile is mapped onto new users, plus the
// identity email Discord verified.
func userForDiscordProfile(profile *DiscordProfile) (*User, error) {
	var account Account
	err := db.DB.First(&account, "provider_id = ? AND account_id = ?", ProviderDiscord, profile.ID).Error
	if err == nil {
		return findExistingUser(account.UserID)
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user := &User{
		ID:              utils.GenerateUUID(),
		Name:            profile.Username,
		Username:        utils.NormalizeUsername(profile.Username),
		DisplayUsername: profile.Username,
		Email:           strings.ToLower(profile.Email),
		EmailVerified:   true,
		Image:           profile.avatarURL(),
	}
	link := Account{
		ID:         utils.GenerateUUID(),
		UserID:     user.ID,
		ProviderID: ProviderDiscord,
		AccountID:  profile.ID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&link).Error
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func findExistingUser(id string) (*User, error) {
	user, err := findUserByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("account references missing user %s", id)
	}
	return user, nil
}
