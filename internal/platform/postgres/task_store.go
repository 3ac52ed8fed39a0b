package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rota-api/internal/domain"
	"github.com/phrazzld/rota-api/internal/platform/logger"
	"github.com/phrazzld/rota-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db store.DBTX
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	return &PostgresTaskStore{db: db}
}

// Ensure PostgresTaskStore implements store.TaskStore
var _ store.TaskStore = (*PostgresTaskStore)(nil)

const taskColumns = `id, title, description, category, priority, completed,
	due_date, recurrence, last_generated, parent_recurring_id, created_at, updated_at`

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	recurrence, err := domain.MarshalRecurrence(task.Recurrence)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Category,
		task.Priority,
		task.Completed,
		dueDateValue(task.DueDate),
		recurrence,
		task.LastGenerated,
		task.ParentRecurringID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			"task_id", task.ID,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return task, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC`
	return s.queryTasks(ctx, query)
}

// ListByCategory implements store.TaskStore.ListByCategory
func (s *PostgresTaskStore) ListByCategory(ctx context.Context, category domain.Category) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE category = $1 ORDER BY created_at DESC`
	return s.queryTasks(ctx, query, category)
}

// ListRecurring implements store.TaskStore.ListRecurring
// It returns every task carrying a recurrence rule, oldest first, so a
// generation cycle processes definitions in creation order.
func (s *PostgresTaskStore) ListRecurring(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE recurrence IS NOT NULL ORDER BY created_at ASC`
	return s.queryTasks(ctx, query)
}

// Update implements store.TaskStore.Update
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	recurrence, err := domain.MarshalRecurrence(task.Recurrence)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $2, description = $3, category = $4, priority = $5,
			completed = $6, due_date = $7, recurrence = $8, last_generated = $9,
			parent_recurring_id = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Category,
		task.Priority,
		task.Completed,
		dueDateValue(task.DueDate),
		recurrence,
		task.LastGenerated,
		task.ParentRecurringID,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update task",
			"task_id", task.ID,
			"error", err)
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}
	return nil
}

// Delete implements store.TaskStore.Delete
// Returns store.ErrTaskNotFound if the task does not exist. Generated
// instances keep their parent_recurring_id; there is no cascade.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			"task_id", id,
			"error", err)
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}
	return nil
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx}
}

func (s *PostgresTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContext(ctx)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask maps one tasks row to a domain.Task, decoding the recurrence
// envelope and converting nullable columns.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task          domain.Task
		dueDate       sql.NullTime
		recurrence    []byte
		lastGenerated sql.NullTime
		parentID      uuid.NullUUID
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Category,
		&task.Priority,
		&task.Completed,
		&dueDate,
		&recurrence,
		&lastGenerated,
		&parentID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueDate.Valid {
		d := domain.DateOf(dueDate.Time)
		task.DueDate = &d
	}
	if lastGenerated.Valid {
		t := lastGenerated.Time.UTC()
		task.LastGenerated = &t
	}
	if parentID.Valid {
		id := parentID.UUID
		task.ParentRecurringID = &id
	}

	task.Recurrence, err = domain.UnmarshalRecurrence(recurrence)
	if err != nil {
		return nil, fmt.Errorf("failed to decode recurrence for task %s: %w", task.ID, err)
	}

	return &task, nil
}

// dueDateValue converts an optional calendar date to the driver value for
// the DATE column.
func dueDateValue(d *domain.Date) any {
	if d == nil {
		return nil
	}
	return d.Time(time.UTC)
}
