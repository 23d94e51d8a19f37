package auth

import (
	"log"

	"github.com/terraforge-gg/terraforge/internal/config"
	"github.com/terraforge-gg/terraforge/internal/db"
)

var cfg *config.Config

// discord is nil when DISCORD_CLIENT_ID/SECRET are absent; the social
// endpoints then answer 404.
var discord *DiscordClient

func Init(c *config.Config) {
	cfg = c

	if err := db.EnsureSchema(db.DB, "app_auth"); err != nil {
		log.Fatal("Failed to ensure schema app_auth: ", err)
	}

	if err := db.DB.AutoMigrate(&User{}, &Session{}, &Account{}); err != nil {
		log.Fatal("Failed to auto-migrate auth tables: ", err)
	}

	discord = NewDiscordClient(c)
	if discord == nil {
		log.Println("Discord sign-in disabled (no client credentials)")
	}
}
