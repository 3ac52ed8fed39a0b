package recur

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rota-api/internal/domain"
)

// ExpandTemplates materializes one task per template filed under category,
// anchored to the target month. A template with a due day gets a due date
// on that day of the month, clamped to the month's length, the same
// clamping policy as the monthly recurrence rule. A template without a due
// day produces a task with no due date.
//
// Produced tasks carry no link back to their template, and there is no
// idempotence guard: expanding the same category and month twice produces a
// second, independent set of tasks. The generation mark kept by the service
// layer is informational only.
func ExpandTemplates(templates []*domain.TaskTemplate, category domain.Category, month domain.YearMonth, now time.Time) []*domain.Task {
	stamp := now.UTC()
	var tasks []*domain.Task

	for _, tpl := range templates {
		if tpl.Category != category {
			continue
		}

		var due *domain.Date
		if tpl.DueDayOfMonth > 0 {
			d := month.DateOn(tpl.DueDayOfMonth)
			due = &d
		}

		tasks = append(tasks, &domain.Task{
			ID:          uuid.New(),
			Title:       tpl.Title,
			Description: tpl.Description,
			Category:    tpl.Category,
			Priority:    tpl.Priority,
			Completed:   false,
			DueDate:     due,
			CreatedAt:   stamp,
			UpdatedAt:   stamp,
		})
	}

	return tasks
}
