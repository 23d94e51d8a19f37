// Command seed loads demo data for local development: a handful of users and
// approved projects so the listing, search, and settings pages have something
// to show. Destructive by default on the demo rows, so it refuses to run
// without --confirm.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

var (
	dsn      = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	dryRun   = flag.Bool("dry-run", false, "Print the plan; no DB writes")
	confirm  = flag.Bool("confirm", false, "Required to write demo data")
	password = flag.String("password", "terraforge-demo", "Password for the demo accounts")
)

type demoUser struct {
	Username string
	Email    string
}

type demoProject struct {
	Name    string
	Slug    string
	Summary string
	Tags    []string
	Owner   string // username
}

var demoUsers = []demoUser{
	{Username: "redigit", Email: "redigit@example.com"},
	{Username: "cenx", Email: "cenx@example.com"},
	{Username: "loki", Email: "loki@example.com"},
}

var demoProjects = []demoProject{
	{
		Name:    "Calamity",
		Slug:    "calamity",
		Summary: "Five new bosses and a rework of the endgame progression.",
		Tags:    []string{"bosses", "overhaul"},
		Owner:   "redigit",
	},
	{
		Name:    "Thorium",
		Slug:    "thorium",
		Summary: "New classes, ores, and over two thousand items.",
		Tags:    []string{"content", "classes"},
		Owner:   "cenx",
	},
	{
		Name:    "Magic Storage",
		Slug:    "magic-storage",
		Summary: "A single searchable storage heart for all your chests.",
		Tags:    []string{"quality-of-life"},
		Owner:   "loki",
	},
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	if *dryRun {
		fmt.Printf("Would seed %d users and %d projects\n", len(demoUsers), len(demoProjects))
		for _, p := range demoProjects {
			fmt.Printf("  %s (%s) owned by %s\n", p.Name, p.Slug, p.Owner)
		}
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	conn, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seed(ctx, conn); err != nil {
		fatalf("Seeding failed: %v", err)
	}

	fmt.Println("Demo data seeded.")
}

func seed(ctx context.Context, conn *sql.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	userIDs := make(map[string]string, len(demoUsers))

	for _, u := range demoUsers {
		id := mustUUID()
		userIDs[u.Username] = id

		_, err := tx.ExecContext(ctx, `
			INSERT INTO app_auth.users (id, name, username, display_username, email, email_verified, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, true, $6, $6)
			ON CONFLICT (username) DO NOTHING`,
			id, u.Username, u.Username, u.Username, u.Email, now)
		if err != nil {
			return fmt.Errorf("failed to insert user %s: %w", u.Username, err)
		}

		// ON CONFLICT may have kept an existing row; read the real id back.
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM app_auth.users WHERE username = $1`, u.Username,
		).Scan(&id); err != nil {
			return fmt.Errorf("failed to resolve user %s: %w", u.Username, err)
		}
		userIDs[u.Username] = id

		_, err = tx.ExecContext(ctx, `
			INSERT INTO app_auth.accounts (id, user_id, provider_id, account_id, password, created_at, updated_at)
			VALUES ($1, $2, 'credential', $2, $3, $4, $4)
			ON CONFLICT DO NOTHING`,
			mustUUID(), id, string(hash), now)
		if err != nil {
			return fmt.Errorf("failed to insert account for %s: %w", u.Username, err)
		}
	}

	for _, p := range demoProjects {
		ownerID := userIDs[p.Owner]
		projectID := mustUUID()

		_, err := tx.ExecContext(ctx, `
			INSERT INTO app_catalog.projects (id, name, slug, summary, tags, downloads, type, status, created_at, updated_at, user_id)
			VALUES ($1, $2, $3, $4, $5, 0, 'mod', 'approved', $6, $6, $7)
			ON CONFLICT (slug) DO NOTHING`,
			projectID, p.Name, p.Slug, p.Summary, pq.Array(p.Tags), now, ownerID)
		if err != nil {
			return fmt.Errorf("failed to insert project %s: %w", p.Slug, err)
		}

		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM app_catalog.projects WHERE slug = $1`, p.Slug,
		).Scan(&projectID); err != nil {
			return fmt.Errorf("failed to resolve project %s: %w", p.Slug, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO app_catalog.project_members (id, project_id, user_id, role, created_at)
			VALUES ($1, $2, $3, 'owner', $4)
			ON CONFLICT DO NOTHING`,
			mustUUID(), projectID, ownerID, now)
		if err != nil {
			return fmt.Errorf("failed to insert owner member for %s: %w", p.Slug, err)
		}
	}

	return tx.Commit()
}

func mustUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return id.String()
}
