// Package generation orchestrates the recurring-task engine against the
// persistence layer: periodic generation cycles for recurring definitions
// and on-demand monthly template expansion.
package generation

import (
	"context"
	"errors"

	"github.com/phrazzld/rota-api/internal/domain"
)

// Service-specific errors
var (
	// ErrCategoryNotTemplated is returned when template expansion is
	// requested for a category that does not participate in monthly
	// templates.
	ErrCategoryNotTemplated = errors.New("category does not support templates")
)

// CycleResult summarizes one generation cycle.
type CycleResult struct {
	// Checked is the number of recurring definitions examined.
	Checked int `json:"checked"`

	// Generated holds the task instances created this cycle, in the order
	// their definitions were processed.
	Generated []*domain.Task `json:"generated"`
}

// ExpandResult summarizes one template expansion.
type ExpandResult struct {
	// Created holds the tasks produced from the category's templates.
	Created []*domain.Task `json:"created"`

	// AlreadyGenerated reports whether the category had previously been
	// expanded for the same month. Expansion is not idempotent and the new
	// tasks exist either way, so this is a hint for the caller, not a
	// guard.
	AlreadyGenerated bool `json:"already_generated"`
}

// Service runs generation cycles and template expansions and persists
// their results.
type Service interface {
	// RunCycle loads every recurring definition, generates one instance for
	// each definition that is due, and persists the new instances together
	// with the definitions' advanced LastGenerated stamps. The cycle is
	// atomic when the backing store supports transactions.
	//
	// Definitions whose rules cannot produce an occurrence are skipped,
	// never failed: an incomplete rule is an expected condition.
	RunCycle(ctx context.Context) (*CycleResult, error)

	// ExpandMonth materializes one task per template filed under category
	// for the target month, persists them, and records the generation mark.
	//
	// Returns ErrCategoryNotTemplated if the category does not participate
	// in monthly templates.
	ExpandMonth(ctx context.Context, category domain.Category, month domain.YearMonth) (*ExpandResult, error)
}
