package generation

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/rota-api/internal/domain"
	"github.com/phrazzld/rota-api/internal/domain/recur"
	"github.com/phrazzld/rota-api/internal/platform/logger"
	"github.com/phrazzld/rota-api/internal/store"
)

// Verify interface implementation at compile time.
var _ Service = (*serviceImpl)(nil)

// serviceImpl implements the Service interface.
type serviceImpl struct {
	taskStore     store.TaskStore
	templateStore store.TemplateStore
	markStore     store.MarkStore

	// db is the transaction root. When nil (in-memory stores, tests) the
	// service runs each persistence step directly instead.
	db *sql.DB

	logger *slog.Logger

	// now is the cycle clock, overridable in tests.
	now func() time.Time
}

// NewService creates a new generation service.
// Panics if any required dependency is nil; db may be nil for stores that
// do not support transactions.
func NewService(
	taskStore store.TaskStore,
	templateStore store.TemplateStore,
	markStore store.MarkStore,
	db *sql.DB,
	log *slog.Logger,
) Service {
	if taskStore == nil {
		panic("taskStore cannot be nil") // ALLOW-PANIC
	}
	if templateStore == nil {
		panic("templateStore cannot be nil") // ALLOW-PANIC
	}
	if markStore == nil {
		panic("markStore cannot be nil") // ALLOW-PANIC
	}
	if log == nil {
		panic("logger cannot be nil") // ALLOW-PANIC
	}

	return &serviceImpl{
		taskStore:     taskStore,
		templateStore: templateStore,
		markStore:     markStore,
		db:            db,
		logger:        log.With(slog.String("component", "generation_service")),
		now:           time.Now,
	}
}

// RunCycle implements Service.RunCycle.
func (s *serviceImpl) RunCycle(ctx context.Context) (*CycleResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	definitions, err := s.taskStore.ListRecurring(ctx)
	if err != nil {
		log.Error("failed to load recurring definitions",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load recurring definitions: %w", err)
	}

	result := recur.ProcessAll(definitions, now)

	// Definitions come back as fresh copies only when they advanced; the
	// untouched ones keep their original pointers and need no write.
	var advanced []*domain.Task
	for i, task := range result.Tasks {
		if task != definitions[i] {
			advanced = append(advanced, task)
		}
	}

	err = s.persist(ctx, func(ctx context.Context, tasks store.TaskStore, _ store.TemplateStore, _ store.MarkStore) error {
		for _, instance := range result.Generated {
			if err := tasks.Create(ctx, instance); err != nil {
				return fmt.Errorf("failed to create generated instance: %w", err)
			}
		}
		for _, definition := range advanced {
			if err := tasks.Update(ctx, definition); err != nil {
				return fmt.Errorf("failed to advance definition: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("generation cycle failed to persist",
			slog.String("error", err.Error()),
			slog.Int("generated", len(result.Generated)))
		return nil, err
	}

	if len(result.Generated) > 0 {
		log.Info("generation cycle complete",
			slog.Int("checked", len(definitions)),
			slog.Int("generated", len(result.Generated)))
	} else {
		log.Debug("generation cycle complete, nothing due",
			slog.Int("checked", len(definitions)))
	}

	return &CycleResult{
		Checked:   len(definitions),
		Generated: result.Generated,
	}, nil
}

// ExpandMonth implements Service.ExpandMonth.
func (s *serviceImpl) ExpandMonth(ctx context.Context, category domain.Category, month domain.YearMonth) (*ExpandResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	if err := category.Validate(); err != nil {
		return nil, err
	}
	if !category.SupportsTemplates() {
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotTemplated, category)
	}

	alreadyGenerated := false
	mark, err := s.markStore.Get(ctx, category)
	switch {
	case err == nil:
		alreadyGenerated = mark.Month == month
	case store.IsNotFoundError(err):
		// First expansion for this category.
	default:
		log.Error("failed to load generation mark",
			slog.String("error", err.Error()),
			slog.String("category", string(category)))
		return nil, fmt.Errorf("failed to load generation mark: %w", err)
	}

	templates, err := s.templateStore.ListByCategory(ctx, category)
	if err != nil {
		log.Error("failed to load templates",
			slog.String("error", err.Error()),
			slog.String("category", string(category)))
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	created := recur.ExpandTemplates(templates, category, month, now)

	err = s.persist(ctx, func(ctx context.Context, tasks store.TaskStore, _ store.TemplateStore, marks store.MarkStore) error {
		for _, task := range created {
			if err := tasks.Create(ctx, task); err != nil {
				return fmt.Errorf("failed to create expanded task: %w", err)
			}
		}
		return marks.Put(ctx, &store.GenerationMark{
			Category:      category,
			Month:         month,
			LastGenerated: now.UTC(),
		})
	})
	if err != nil {
		log.Error("template expansion failed to persist",
			slog.String("error", err.Error()),
			slog.String("category", string(category)),
			slog.String("month", month.String()))
		return nil, err
	}

	log.Info("templates expanded",
		slog.String("category", string(category)),
		slog.String("month", month.String()),
		slog.Int("created", len(created)),
		slog.Bool("repeat", alreadyGenerated))

	return &ExpandResult{
		Created:          created,
		AlreadyGenerated: alreadyGenerated,
	}, nil
}

// persistFn receives the stores a persistence step should write through.
type persistFn func(ctx context.Context, tasks store.TaskStore, templates store.TemplateStore, marks store.MarkStore) error

// persist runs fn atomically when a transaction root is available, and
// directly against the configured stores otherwise.
func (s *serviceImpl) persist(ctx context.Context, fn persistFn) error {
	if s.db == nil {
		return fn(ctx, s.taskStore, s.templateStore, s.markStore)
	}
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.taskStore.WithTx(tx), s.templateStore.WithTx(tx), s.markStore.WithTx(tx))
	})
}
