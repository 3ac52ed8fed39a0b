package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/rota-api/internal/domain"
	"github.com/phrazzld/rota-api/internal/platform/logger"
	"github.com/phrazzld/rota-api/internal/store"
)

// PostgresTemplateStore implements the store.TemplateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTemplateStore struct {
	db store.DBTX
}

// NewPostgresTemplateStore creates a new PostgreSQL implementation of the
// TemplateStore interface.
func NewPostgresTemplateStore(db store.DBTX) *PostgresTemplateStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	return &PostgresTemplateStore{db: db}
}

// Ensure PostgresTemplateStore implements store.TemplateStore
var _ store.TemplateStore = (*PostgresTemplateStore)(nil)

const templateColumns = `id, title, description, category, priority, due_day_of_month, created_at, updated_at`

// Create implements store.TemplateStore.Create
func (s *PostgresTemplateStore) Create(ctx context.Context, tpl *domain.TaskTemplate) error {
	log := logger.FromContext(ctx)

	if err := tpl.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO task_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		tpl.ID,
		tpl.Title,
		tpl.Description,
		tpl.Category,
		tpl.Priority,
		dueDayValue(tpl.DueDayOfMonth),
		tpl.CreatedAt,
		tpl.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create template",
			"template_id", tpl.ID,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID implements store.TemplateStore.GetByID
// Returns store.ErrTemplateNotFound if the template does not exist.
func (s *PostgresTemplateStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM task_templates WHERE id = $1`

	tpl, err := scanTemplate(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrTemplateNotFound
		}
		return nil, MapError(err)
	}
	return tpl, nil
}

// List implements store.TemplateStore.List
func (s *PostgresTemplateStore) List(ctx context.Context) ([]*domain.TaskTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM task_templates ORDER BY created_at DESC`
	return s.queryTemplates(ctx, query)
}

// ListByCategory implements store.TemplateStore.ListByCategory
func (s *PostgresTemplateStore) ListByCategory(ctx context.Context, category domain.Category) ([]*domain.TaskTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM task_templates WHERE category = $1 ORDER BY created_at DESC`
	return s.queryTemplates(ctx, query, category)
}

// Update implements store.TemplateStore.Update
// Returns store.ErrTemplateNotFound if the template does not exist.
func (s *PostgresTemplateStore) Update(ctx context.Context, tpl *domain.TaskTemplate) error {
	log := logger.FromContext(ctx)

	if err := tpl.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE task_templates
		SET title = $2, description = $3, category = $4, priority = $5,
			due_day_of_month = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		tpl.ID,
		tpl.Title,
		tpl.Description,
		tpl.Category,
		tpl.Priority,
		dueDayValue(tpl.DueDayOfMonth),
		tpl.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update template",
			"template_id", tpl.ID,
			"error", err)
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "template"); err != nil {
		return store.ErrTemplateNotFound
	}
	return nil
}

// Delete implements store.TemplateStore.Delete
// Returns store.ErrTemplateNotFound if the template does not exist.
// Previously expanded tasks are untouched; they carry no template link.
func (s *PostgresTemplateStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(ctx, `DELETE FROM task_templates WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete template",
			"template_id", id,
			"error", err)
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "template"); err != nil {
		return store.ErrTemplateNotFound
	}
	return nil
}

// WithTx implements store.TemplateStore.WithTx
func (s *PostgresTemplateStore) WithTx(tx *sql.Tx) store.TemplateStore {
	return &PostgresTemplateStore{db: tx}
}

func (s *PostgresTemplateStore) queryTemplates(ctx context.Context, query string, args ...any) ([]*domain.TaskTemplate, error) {
	log := logger.FromContext(ctx)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query templates", "error", err)
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var templates []*domain.TaskTemplate
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return templates, nil
}

// scanTemplate maps one task_templates row to a domain.TaskTemplate.
func scanTemplate(row rowScanner) (*domain.TaskTemplate, error) {
	var (
		tpl    domain.TaskTemplate
		dueDay sql.NullInt64
	)

	err := row.Scan(
		&tpl.ID,
		&tpl.Title,
		&tpl.Description,
		&tpl.Category,
		&tpl.Priority,
		&dueDay,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueDay.Valid {
		tpl.DueDayOfMonth = int(dueDay.Int64)
	}

	return &tpl, nil
}

// dueDayValue converts the 0-means-unset due day to the driver value for
// the nullable column.
func dueDayValue(day int) any {
	if day == 0 {
		return nil
	}
	return day
}
