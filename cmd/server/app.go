package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/rota-api/internal/config"
	"github.com/phrazzld/rota-api/internal/platform/postgres"
	"github.com/phrazzld/rota-api/internal/scheduler"
	"github.com/phrazzld/rota-api/internal/service/generation"
	"github.com/phrazzld/rota-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	taskStore     store.TaskStore
	templateStore store.TemplateStore
	markStore     store.MarkStore

	// Service interfaces
	generationService generation.Service

	// Background generation
	scheduler *scheduler.Scheduler
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.taskStore = postgres.NewPostgresTaskStore(db)
	app.templateStore = postgres.NewPostgresTemplateStore(db)
	app.markStore = postgres.NewPostgresMarkStore(db)

	// Initialize the generation service over the postgres stores
	app.generationService = generation.NewService(
		app.taskStore,
		app.templateStore,
		app.markStore,
		db,
		logger,
	)

	// Initialize the background scheduler
	app.scheduler = scheduler.New(cfg.Generation, app.generationService, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the background scheduler and the HTTP server, handling
// lifecycle and cleanup. It returns an error if the server fails to start or
// encounters problems.
func (app *application) Run(ctx context.Context) error {
	if err := app.scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop background generation first so no cycle is mid-flight when the
	// database goes away.
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
