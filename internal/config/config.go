package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds settings for all three TerraForge processes. Each process
// validates only the variables it actually needs via the Load* helpers.
type Config struct {
	Env      string // "development" or "production"
	AppEnv   string // deployment tag surfaced on the root endpoint
	HostPort string

	DatabaseURL string

	AuthSecret  string
	AuthURL     string
	FrontendURL string

	DiscordClientID     string
	DiscordClientSecret string

	MeiliHostURL   string
	MeiliMasterKey string

	AppURL     string
	APIURL     string
	APIVersion string
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

func load() *Config {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	env := strings.TrimSpace(os.Getenv("ENV"))
	if env == "" {
		env = EnvDevelopment
	}

	port := os.Getenv("HOST_PORT")
	if port == "" {
		port = "5050"
	}

	version := os.Getenv("API_VERSION")
	if version == "" {
		version = "v1"
	}

	return &Config{
		Env:                 env,
		AppEnv:              os.Getenv("APP_ENV"),
		HostPort:            port,
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		AuthSecret:          os.Getenv("AUTH_SECRET"),
		AuthURL:             os.Getenv("AUTH_URL"),
		FrontendURL:         os.Getenv("FRONTEND_URL"),
		DiscordClientID:     os.Getenv("DISCORD_CLIENT_ID"),
		DiscordClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
		MeiliHostURL:        os.Getenv("MEILISEARCH_HOST_URL"),
		MeiliMasterKey:      os.Getenv("MEILISEARCH_MASTER_KEY"),
		AppURL:              os.Getenv("APP_URL"),
		APIURL:              os.Getenv("API_URL"),
		APIVersion:          version,
	}
}

// require reports every missing variable at once instead of failing on the
// first one.
func require(c *Config, keys map[string]string) error {
	var missing []string
	for key, value := range keys {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// LoadAuth loads configuration for the auth service.
func LoadAuth() (*Config, error) {
	c := load()
	err := require(c, map[string]string{
		"DATABASE_URL": c.DatabaseURL,
		"AUTH_SECRET":  c.AuthSecret,
		"AUTH_URL":     c.AuthURL,
		"FRONTEND_URL": c.FrontendURL,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadAPI loads configuration for the catalog API server.
func LoadAPI() (*Config, error) {
	c := load()
	err := require(c, map[string]string{
		"DATABASE_URL": c.DatabaseURL,
		"AUTH_SECRET":  c.AuthSecret,
		"AUTH_URL":     c.AuthURL,
		"FRONTEND_URL": c.FrontendURL,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadWeb loads configuration for the server-rendered frontend.
func LoadWeb() (*Config, error) {
	c := load()
	err := require(c, map[string]string{
		"API_URL":  c.APIURL,
		"AUTH_URL": c.AuthURL,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ErrNotConfigured is returned by optional integrations (e.g. Discord) when
// their credentials are absent.
var ErrNotConfigured = errors.New("integration not configured")
