package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskRecurringInstance is returned when a generated instance
	// carries a recurrence rule of its own.
	ErrTaskRecurringInstance = errors.New("generated task instance cannot itself recur")
)

// Priority is a task's urgency level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Validate checks that the priority is one of the known levels.
func (p Priority) Validate() error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPriority, p)
	}
}

// Category is the workstream a task belongs to. The set is fixed; tasks and
// templates are always filed under one of these slugs.
type Category string

const (
	CategoryMonthEndPhorest Category = "month-end-phorest"
	CategoryPhorestMonthly  Category = "phorest-monthly"
	CategoryPhorestAdhoc    Category = "phorest-adhoc"
	CategoryPnPMarketing    Category = "pnp-marketing"
	CategoryPnPPrinting     Category = "pnp-printing"
	CategoryPersonal        Category = "personal"
)

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryMonthEndPhorest,
		CategoryPhorestMonthly,
		CategoryPhorestAdhoc,
		CategoryPnPMarketing,
		CategoryPnPPrinting,
		CategoryPersonal,
	}
}

// Validate checks that the category is one of the known slugs.
func (c Category) Validate() error {
	switch c {
	case CategoryMonthEndPhorest, CategoryPhorestMonthly, CategoryPhorestAdhoc,
		CategoryPnPMarketing, CategoryPnPPrinting, CategoryPersonal:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
}

// SupportsTemplates reports whether the category participates in monthly
// template expansion. Only the month-anchored Phorest workstreams do.
func (c Category) SupportsTemplates() bool {
	return c == CategoryMonthEndPhorest || c == CategoryPhorestMonthly
}

// Task is a single to-do item. A task with a non-nil Recurrence is a
// recurring definition: it is never completed directly, it spawns plain
// instances. An instance generated from a recurring task carries its
// origin in ParentRecurringID and no recurrence state of its own.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    Category  `json:"category"`
	Priority    Priority  `json:"priority"`
	Completed   bool      `json:"completed"`
	DueDate     *Date     `json:"due_date,omitempty"`

	// Recurrence is nil for ordinary one-shot tasks and instances.
	Recurrence Recurrence `json:"-"`

	// LastGenerated records when this recurring definition last produced an
	// instance. Nil until the first generation; the due check falls back to
	// CreatedAt. Only ever advances.
	LastGenerated *time.Time `json:"last_generated,omitempty"`

	// ParentRecurringID links a generated instance back to the recurring
	// definition that produced it.
	ParentRecurringID *uuid.UUID `json:"parent_recurring_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTask creates a new one-shot task. It generates a new UUID and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewTask(title, description string, category Category, priority Priority, dueDate *Date) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// NewRecurringTask creates a new recurring task definition with the given
// rule. Returns an error if the rule or any other field fails validation.
func NewRecurringTask(title, description string, category Category, priority Priority, rec Recurrence) (*Task, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: recurring task needs a rule", ErrInvalidRecurrence)
	}
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Recurrence:  rec,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// IsRecurring reports whether the task is a recurring definition.
func (t *Task) IsRecurring() bool {
	return t.Recurrence != nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}
	if t.Title == "" {
		return ErrTaskTitleEmpty
	}
	if err := t.Category.Validate(); err != nil {
		return err
	}
	if err := t.Priority.Validate(); err != nil {
		return err
	}
	if t.Recurrence != nil {
		if t.ParentRecurringID != nil {
			return ErrTaskRecurringInstance
		}
		if err := t.Recurrence.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Complete marks the task done and touches the update timestamp.
func (t *Task) Complete(now time.Time) {
	t.Completed = true
	t.UpdatedAt = now.UTC()
}
