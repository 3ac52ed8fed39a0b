// Package main implements the entry point for the rota API server, which
// manages personal and business tasks: recurring definitions that spawn
// instances on schedule, and monthly templates expanded on demand.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/rota-api/internal/config"
	"github.com/phrazzld/rota-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// run loads configuration, wires the application together, and either runs
// migrations or starts the HTTP server.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("generation_disabled", cfg.Generation.Disabled))

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	if migrateCmd != "" {
		defer func() {
			if err := db.Close(); err != nil {
				appLogger.Error("Error closing database connection", "error", err)
			}
		}()
		return runMigrations(db, migrateCmd, appLogger)
	}

	// Apply pending migrations on normal startup so a fresh deployment
	// comes up with its schema in place.
	if err := runMigrations(db, "up", appLogger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	ctx := context.Background()
	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
