package recur

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rota-api/internal/domain"
)

// Materialize produces a concrete task instance from a recurring
// definition. The instance gets a fresh ID, the definition's descriptive
// fields, the computed due date, and a parent link back to the definition.
// It is always incomplete and never carries recurrence state of its own.
// Materialize only constructs the value; persisting it is the caller's job.
func Materialize(task *domain.Task, dueDate domain.Date, now time.Time) *domain.Task {
	parentID := task.ID
	due := dueDate
	stamp := now.UTC()

	return &domain.Task{
		ID:                uuid.New(),
		Title:             task.Title,
		Description:       task.Description,
		Category:          task.Category,
		Priority:          task.Priority,
		Completed:         false,
		DueDate:           &due,
		Recurrence:        nil,
		LastGenerated:     nil,
		ParentRecurringID: &parentID,
		CreatedAt:         stamp,
		UpdatedAt:         stamp,
	}
}
