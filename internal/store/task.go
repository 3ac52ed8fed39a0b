package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rota-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity (wrapping the validation error) if the task
	// data is invalid, or ErrDuplicate if a task with the ID already exists.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	// The returned task has its Recurrence decoded from its stored envelope.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves all tasks, newest first.
	List(ctx context.Context) ([]*domain.Task, error)

	// ListByCategory retrieves all tasks filed under the category, newest first.
	ListByCategory(ctx context.Context, category domain.Category) ([]*domain.Task, error)

	// ListRecurring retrieves every task that carries a recurrence rule.
	// This is the working set of a generation cycle.
	ListRecurring(ctx context.Context) ([]*domain.Task, error)

	// Update overwrites an existing task's row.
	// Returns ErrTaskNotFound if the task does not exist, or
	// ErrInvalidEntity if the updated data fails validation.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID. Instances generated
	// from a recurring definition survive the definition's deletion; the
	// parent link is simply left dangling by design.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TaskStore whose operations run on the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through RunInTransaction. A generation cycle uses this to
	// persist updated definitions and new instances atomically.
	WithTx(tx *sql.Tx) TaskStore
}

// TemplateStore defines the interface for task template persistence.
type TemplateStore interface {
	// Create saves a new template to the store.
	// Returns ErrInvalidEntity if the template data is invalid.
	Create(ctx context.Context, tpl *domain.TaskTemplate) error

	// GetByID retrieves a template by its unique ID.
	// Returns ErrTemplateNotFound if the template does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskTemplate, error)

	// List retrieves all templates, newest first.
	List(ctx context.Context) ([]*domain.TaskTemplate, error)

	// ListByCategory retrieves the templates filed under the category,
	// newest first.
	ListByCategory(ctx context.Context, category domain.Category) ([]*domain.TaskTemplate, error)

	// Update overwrites an existing template's row.
	// Returns ErrTemplateNotFound if the template does not exist.
	Update(ctx context.Context, tpl *domain.TaskTemplate) error

	// Delete removes a template by its ID. Tasks previously expanded from
	// the template are unaffected; they carry no link back to it.
	// Returns ErrTemplateNotFound if the template does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TemplateStore whose operations run on the provided
	// transaction.
	WithTx(tx *sql.Tx) TemplateStore
}

// GenerationMark records the last month a category's templates were
// expanded. It is informational: expansion is deliberately not idempotent,
// and the mark only drives the "already generated this month" hint.
type GenerationMark struct {
	Category      domain.Category
	Month         domain.YearMonth
	LastGenerated time.Time
}

// MarkStore persists per-category generation marks.
type MarkStore interface {
	// Get retrieves the mark for a category.
	// Returns ErrNotFound when the category has never been expanded.
	Get(ctx context.Context, category domain.Category) (*GenerationMark, error)

	// Put inserts or replaces the mark for a category.
	Put(ctx context.Context, mark *GenerationMark) error

	// WithTx returns a MarkStore whose operations run on the provided
	// transaction.
	WithTx(tx *sql.Tx) MarkStore
}
