// Package api provides HTTP handlers for the API.
package api

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/rota-api/internal/api/shared"
	"github.com/phrazzld/rota-api/internal/domain"
	"github.com/phrazzld/rota-api/internal/platform/logger"
	"github.com/phrazzld/rota-api/internal/redact"
	"github.com/phrazzld/rota-api/internal/service/generation"
	"github.com/phrazzld/rota-api/internal/store"
)

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskStore  store.TaskStore
	generation generation.Service
	logger     *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(
	taskStore store.TaskStore,
	generationService generation.Service,
	logger *slog.Logger,
) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskStore:  taskStore,
		generation: generationService,
		logger:     logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /tasks requests. An optional ?category= query
// parameter narrows the listing to one category.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var (
		tasks []*domain.Task
		err   error
	)

	if raw := r.URL.Query().Get("category"); raw != "" {
		category := domain.Category(raw)
		if err := category.Validate(); err != nil {
			log.Debug("rejected listing for unknown category", slog.String("category", raw))
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
			return
		}
		tasks, err = h.taskStore.ListByCategory(r.Context(), category)
	} else {
		tasks, err = h.taskStore.List(r.Context())
	}

	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /tasks/{id} requests
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// CreateTask handles POST /tasks requests
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	rec, ok := decodeRecurrence(w, r, req.Recurrence)
	if !ok {
		return
	}

	var (
		task *domain.Task
		err  error
	)
	if rec != nil {
		task, err = domain.NewRecurringTask(
			req.Title, req.Description,
			domain.Category(req.Category), domain.Priority(req.Priority), rec)
	} else {
		task, err = domain.NewTask(
			req.Title, req.Description,
			domain.Category(req.Category), domain.Priority(req.Priority), req.DueDate)
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if rec != nil {
		// A recurring definition may still carry an explicit first due date.
		task.DueDate = req.DueDate
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("category", string(task.Category)),
		slog.Bool("recurring", task.IsRecurring()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// UpdateTask handles PUT /tasks/{id} requests. The body replaces the task's
// mutable fields; LastGenerated and the parent link are owned by the
// generation engine and not touched here.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	rec, ok := decodeRecurrence(w, r, req.Recurrence)
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	task.Title = req.Title
	task.Description = req.Description
	task.Category = domain.Category(req.Category)
	task.Priority = domain.Priority(req.Priority)
	task.Completed = req.Completed
	task.DueDate = req.DueDate
	task.Recurrence = rec

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{id} requests
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskStore.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ProcessTasks handles POST /tasks/process requests. It runs one generation
// cycle immediately instead of waiting for the background schedule.
func (h *TaskHandler) ProcessTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	result, err := h.generation.RunCycle(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to process recurring tasks", err)
		return
	}

	log.Debug("on-demand generation cycle complete",
		slog.Int("checked", result.Checked),
		slog.Int("generated", len(result.Generated)))
	shared.RespondWithJSON(w, r, http.StatusOK, ProcessResponse{
		Checked:   result.Checked,
		Generated: tasksToResponse(result.Generated),
	})
}

// pathUUID extracts and parses the named UUID path parameter, writing a 400
// response on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing "+param+" path parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+param+" format")
		return uuid.Nil, false
	}

	return id, true
}

// decodeRecurrence parses an optional recurrence envelope from a request
// body, writing a 400 response on failure. A missing or null envelope
// decodes to nil.
func decodeRecurrence(w http.ResponseWriter, r *http.Request, raw []byte) (domain.Recurrence, bool) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, true
	}

	rec, err := domain.UnmarshalRecurrence(raw)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid recurrence rule", err)
		return nil, false
	}
	return rec, true
}
