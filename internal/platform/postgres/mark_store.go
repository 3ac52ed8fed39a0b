package postgres

import (
	"context"
	"database/sql"

	"github.com/phrazzld/rota-api/internal/domain"
	"github.com/phrazzld/rota-api/internal/platform/logger"
	"github.com/phrazzld/rota-api/internal/store"
)

// PostgresMarkStore implements the store.MarkStore interface, persisting
// per-category template generation marks.
type PostgresMarkStore struct {
	db store.DBTX
}

// NewPostgresMarkStore creates a new PostgreSQL implementation of the
// MarkStore interface.
func NewPostgresMarkStore(db store.DBTX) *PostgresMarkStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	return &PostgresMarkStore{db: db}
}

// Ensure PostgresMarkStore implements store.MarkStore
var _ store.MarkStore = (*PostgresMarkStore)(nil)

// Get implements store.MarkStore.Get
// Returns store.ErrNotFound when the category has never been expanded.
func (s *PostgresMarkStore) Get(ctx context.Context, category domain.Category) (*store.GenerationMark, error) {
	query := `SELECT category, month, last_generated FROM generation_marks WHERE category = $1`

	var (
		mark  store.GenerationMark
		month string
	)
	err := s.db.QueryRowContext(ctx, query, category).Scan(&mark.Category, &month, &mark.LastGenerated)
	if err != nil {
		return nil, MapError(err)
	}

	mark.Month, err = domain.ParseYearMonth(month)
	if err != nil {
		return nil, err
	}
	mark.LastGenerated = mark.LastGenerated.UTC()

	return &mark, nil
}

// Put implements store.MarkStore.Put
// It inserts or replaces the category's mark.
func (s *PostgresMarkStore) Put(ctx context.Context, mark *store.GenerationMark) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO generation_marks (category, month, last_generated)
		VALUES ($1, $2, $3)
		ON CONFLICT (category) DO UPDATE
		SET month = EXCLUDED.month, last_generated = EXCLUDED.last_generated
	`

	_, err := s.db.ExecContext(ctx, query, mark.Category, mark.Month.String(), mark.LastGenerated)
	if err != nil {
		log.Error("failed to put generation mark",
			"category", mark.Category,
			"error", err)
		return MapError(err)
	}

	return nil
}

// WithTx implements store.MarkStore.WithTx
func (s *PostgresMarkStore) WithTx(tx *sql.Tx) store.MarkStore {
	return &PostgresMarkStore{db: tx}
}
