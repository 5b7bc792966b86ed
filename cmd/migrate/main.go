// Command migrate applies the SQL schema migrations. Usage:
//
//	migrate up
//	migrate down
//	migrate steps -n 2
//	migrate version
//	migrate force -v 3
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/infrastructure/config"
	"github.com/schoolhub/backend/internal/infrastructure/logger"
	"github.com/schoolhub/backend/internal/infrastructure/migration"
)

func main() {
	path := flag.String("path", "migrations", "directory holding the migration files")
	steps := flag.Int("n", 1, "number of migrations for the steps command")
	forceVersion := flag.Int("v", -1, "version for the force command")
	flag.Parse()

	if err := run(flag.Arg(0), *path, *steps, *forceVersion); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(command, path string, steps, forceVersion int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	migrator, err := migration.New(db, path, log)
	if err != nil {
		return err
	}
	defer func() { _ = migrator.Close() }()

	switch command {
	case "up", "":
		return migrator.Up()
	case "down":
		return migrator.Down()
	case "steps":
		return migrator.Steps(steps)
	case "version":
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	case "force":
		if forceVersion < 0 {
			return fmt.Errorf("force requires -v <version>")
		}
		return migrator.Force(forceVersion)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
