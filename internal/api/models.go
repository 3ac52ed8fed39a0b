package api

import (
	"encoding/json"
	"time"

	"github.com/phrazzld/rota-api/internal/domain"
)

// CreateTaskRequest represents the request body for creating a task.
// Recurrence, when present, is the rule envelope: {"kind": "daily"},
// {"kind": "weekly", "days": [1,3]}, {"kind": "monthly", "day_of_month": 15}
// or {"kind": "custom", "interval": 5}.
type CreateTaskRequest struct {
	Title       string          `json:"title"       validate:"required,min=1,max=500"`
	Description string          `json:"description" validate:"max=5000"`
	Category    string          `json:"category"    validate:"required"`
	Priority    string          `json:"priority"    validate:"required"`
	DueDate     *domain.Date    `json:"due_date,omitempty"`
	Recurrence  json.RawMessage `json:"recurrence,omitempty"`
}

// UpdateTaskRequest represents the request body for updating a task.
// The update is a full replacement of the mutable fields.
type UpdateTaskRequest struct {
	Title       string          `json:"title"       validate:"required,min=1,max=500"`
	Description string          `json:"description" validate:"max=5000"`
	Category    string          `json:"category"    validate:"required"`
	Priority    string          `json:"priority"    validate:"required"`
	Completed   bool            `json:"completed"`
	DueDate     *domain.Date    `json:"due_date,omitempty"`
	Recurrence  json.RawMessage `json:"recurrence,omitempty"`
}

// TaskResponse represents the response data for a task.
type TaskResponse struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description,omitempty"`
	Category          string          `json:"category"`
	Priority          string          `json:"priority"`
	Completed         bool            `json:"completed"`
	DueDate           *domain.Date    `json:"due_date,omitempty"`
	Recurrence        json.RawMessage `json:"recurrence,omitempty"`
	LastGenerated     *time.Time      `json:"last_generated,omitempty"`
	ParentRecurringID string          `json:"parent_recurring_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// taskToResponse converts a domain.Task to a TaskResponse.
func taskToResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:            task.ID.String(),
		Title:         task.Title,
		Description:   task.Description,
		Category:      string(task.Category),
		Priority:      string(task.Priority),
		Completed:     task.Completed,
		DueDate:       task.DueDate,
		LastGenerated: task.LastGenerated,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}

	if task.Recurrence != nil {
		// The envelope of a validated rule always marshals.
		if data, err := domain.MarshalRecurrence(task.Recurrence); err == nil {
			resp.Recurrence = data
		}
	}
	if task.ParentRecurringID != nil {
		resp.ParentRecurringID = task.ParentRecurringID.String()
	}

	return resp
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}

// ProcessResponse summarizes a generation cycle triggered over the API.
type ProcessResponse struct {
	Checked   int            `json:"checked"`
	Generated []TaskResponse `json:"generated"`
}

// CreateTemplateRequest represents the request body for creating a template.
type CreateTemplateRequest struct {
	Title         string `json:"title"            validate:"required,min=1,max=500"`
	Description   string `json:"description"      validate:"max=5000"`
	Category      string `json:"category"         validate:"required"`
	Priority      string `json:"priority"         validate:"required"`
	DueDayOfMonth int    `json:"due_day_of_month" validate:"gte=0,lte=31"`
}

// UpdateTemplateRequest represents the request body for updating a template.
type UpdateTemplateRequest struct {
	Title         string `json:"title"            validate:"required,min=1,max=500"`
	Description   string `json:"description"      validate:"max=5000"`
	Category      string `json:"category"         validate:"required"`
	Priority      string `json:"priority"         validate:"required"`
	DueDayOfMonth int    `json:"due_day_of_month" validate:"gte=0,lte=31"`
}

// TemplateResponse represents the response data for a task template.
type TemplateResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category"`
	Priority      string    `json:"priority"`
	DueDayOfMonth int       `json:"due_day_of_month,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// templateToResponse converts a domain.TaskTemplate to a TemplateResponse.
func templateToResponse(tpl *domain.TaskTemplate) TemplateResponse {
	return TemplateResponse{
		ID:            tpl.ID.String(),
		Title:         tpl.Title,
		Description:   tpl.Description,
		Category:      string(tpl.Category),
		Priority:      string(tpl.Priority),
		DueDayOfMonth: tpl.DueDayOfMonth,
		CreatedAt:     tpl.CreatedAt,
		UpdatedAt:     tpl.UpdatedAt,
	}
}

// GenerateTemplatesRequest represents the request body for expanding a
// category's templates into a target month.
type GenerateTemplatesRequest struct {
	Category string `json:"category" validate:"required"`
	Month    string `json:"month"    validate:"required"` // YYYY-MM
}

// GenerateTemplatesResponse summarizes one template expansion.
type GenerateTemplatesResponse struct {
	Created          []TaskResponse `json:"created"`
	AlreadyGenerated bool           `json:"already_generated"`
}

// SeedTemplatesResponse summarizes one seeding pass over the built-in
// business template set.
type SeedTemplatesResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}
