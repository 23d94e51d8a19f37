package project

import (
	"log"

	"github.com/terraforge-gg/terraforge/internal/config"
	"github.com/terraforge-gg/terraforge/internal/db"
)

var (
	cfg         *config.Config
	searchIndex *SearchIndex
)

// Init prepares the catalog schema and the search index. Call after
// db.Connect.
func Init(c *config.Config) {
	cfg = c

	if err := db.EnsureSchema(db.DB, "app_catalog"); err != nil {
		log.Fatalf("Failed to ensure app_catalog schema: %v", err)
	}

	if err := db.DB.AutoMigrate(&Project{}, &Member{}); err != nil {
		log.Fatalf("Failed to migrate catalog tables: %v", err)
	}

	searchIndex = NewSearchIndex(c.MeiliHostURL, c.MeiliMasterKey)
}

// SearchHealth reports whether the search engine answers.
func SearchHealth() error {
	return searchIndex.Health()
}
