package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/hisabkhata/ledger-backend/internal/infrastructure/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file")
		dir        = flag.String("dir", "migrations", "Directory holding migration files")
		action     = flag.String("action", "up", "Migration action: up, down, version, force")
		steps      = flag.Int("steps", 0, "Number of migrations to apply (0 = all)")
		version    = flag.Int("version", -1, "Target version (for force action)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	m, err := migrate.New("file://"+*dir, pgxURL(cfg.Database.URL))
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	defer m.Close()

	switch *action {
	case "up":
		if *steps > 0 {
			err = m.Steps(*steps)
		} else {
			err = m.Up()
		}
	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil {
			log.Fatalf("Failed to read version: %v", verr)
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return
	case "force":
		if *version < 0 {
			log.Fatal("force requires -version")
		}
		err = m.Force(*version)
	default:
		log.Fatalf("Unknown action %q", *action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations up to date")
}

// pgxURL rewrites a postgres:// URL for the pgx/v5 migrate driver.
func pgxURL(url string) string {
	if rest, ok := strings.CutPrefix(url, "postgresql://"); ok {
		return "pgx5://" + rest
	}
	if rest, ok := strings.CutPrefix(url, "postgres://"); ok {
		return "pgx5://" + rest
	}
	return url
}
