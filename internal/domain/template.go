package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Template-specific validation errors
var (
	// ErrTemplateIDEmpty is returned when a template ID is empty or nil.
	ErrTemplateIDEmpty = errors.New("template ID cannot be empty")

	// ErrTemplateTitleEmpty is returned when a template's title is empty.
	ErrTemplateTitleEmpty = errors.New("template title cannot be empty")

	// ErrTemplateDayOutOfRange is returned when a template's due day of
	// month is outside 1-31.
	ErrTemplateDayOutOfRange = errors.New("template due day of month out of range 1-31")
)

// TaskTemplate is a month-anchored task pattern scoped to a category.
// Templates are not tasks: they are expanded on demand into one concrete
// task per template for a chosen target month, and the produced tasks carry
// no link back to the template. Expansion is not idempotent; expanding the
// same month twice produces duplicate tasks.
type TaskTemplate struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    Category  `json:"category"`
	Priority    Priority  `json:"priority"`

	// DueDayOfMonth anchors the produced task's due date within the target
	// month, 1-31. Zero means the template produces tasks with no due date.
	DueDayOfMonth int `json:"due_day_of_month,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTaskTemplate creates a new template. dueDayOfMonth of zero means no
// due date anchor. Returns an error if validation fails.
func NewTaskTemplate(title, description string, category Category, priority Priority, dueDayOfMonth int) (*TaskTemplate, error) {
	now := time.Now().UTC()
	tpl := &TaskTemplate{
		ID:            uuid.New(),
		Title:         title,
		Description:   description,
		Category:      category,
		Priority:      priority,
		DueDayOfMonth: dueDayOfMonth,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return tpl, nil
}

// Validate checks if the TaskTemplate has valid data.
// Returns an error if any field fails validation.
func (t *TaskTemplate) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTemplateIDEmpty
	}
	if t.Title == "" {
		return ErrTemplateTitleEmpty
	}
	if err := t.Category.Validate(); err != nil {
		return err
	}
	if err := t.Priority.Validate(); err != nil {
		return err
	}
	if t.DueDayOfMonth != 0 && (t.DueDayOfMonth < 1 || t.DueDayOfMonth > 31) {
		return fmt.Errorf("%w: got %d", ErrTemplateDayOutOfRange, t.DueDayOfMonth)
	}
	return nil
}
