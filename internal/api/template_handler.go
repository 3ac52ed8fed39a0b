package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/rota-api/internal/api/shared"
	"github.com/phrazzld/rota-api/internal/domain"
	"github.com/phrazzld/rota-api/internal/platform/logger"
	"github.com/phrazzld/rota-api/internal/redact"
	"github.com/phrazzld/rota-api/internal/service/generation"
	"github.com/phrazzld/rota-api/internal/store"
)

// TemplateHandler handles task-template HTTP requests
type TemplateHandler struct {
	templateStore store.TemplateStore
	generation    generation.Service
	logger        *slog.Logger
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(
	templateStore store.TemplateStore,
	generationService generation.Service,
	logger *slog.Logger,
) *TemplateHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TemplateHandler")
	}

	return &TemplateHandler{
		templateStore: templateStore,
		generation:    generationService,
		logger:        logger.With(slog.String("component", "template_handler")),
	}
}

// ListTemplates handles GET /templates requests. An optional ?category=
// query parameter narrows the listing to one category.
func (h *TemplateHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	var (
		templates []*domain.TaskTemplate
		err       error
	)

	if raw := r.URL.Query().Get("category"); raw != "" {
		category := domain.Category(raw)
		if err := category.Validate(); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
			return
		}
		templates, err = h.templateStore.ListByCategory(r.Context(), category)
	} else {
		templates, err = h.templateStore.List(r.Context())
	}

	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list templates", err)
		return
	}

	out := make([]TemplateResponse, 0, len(templates))
	for _, tpl := range templates {
		out = append(out, templateToResponse(tpl))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// GetTemplate handles GET /templates/{id} requests
func (h *TemplateHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	tpl, err := h.templateStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, templateToResponse(tpl))
}

// CreateTemplate handles POST /templates requests
func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTemplateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	tpl, err := domain.NewTaskTemplate(
		req.Title, req.Description,
		domain.Category(req.Category), domain.Priority(req.Priority), req.DueDayOfMonth)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if err := h.templateStore.Create(r.Context(), tpl); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("template created",
		slog.String("template_id", tpl.ID.String()),
		slog.String("category", string(tpl.Category)))
	shared.RespondWithJSON(w, r, http.StatusCreated, templateToResponse(tpl))
}

// UpdateTemplate handles PUT /templates/{id} requests
func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTemplateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	tpl, err := h.templateStore.GetByID(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	tpl.Title = req.Title
	tpl.Description = req.Description
	tpl.Category = domain.Category(req.Category)
	tpl.Priority = domain.Priority(req.Priority)
	tpl.DueDayOfMonth = req.DueDayOfMonth

	if err := h.templateStore.Update(r.Context(), tpl); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, templateToResponse(tpl))
}

// DeleteTemplate handles DELETE /templates/{id} requests
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.templateStore.Delete(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SeedTemplates handles POST /templates/seed requests. It populates the
// store with the built-in business template set, skipping any entry whose
// title already exists in its category so repeated calls do not duplicate.
func (h *TemplateHandler) SeedTemplates(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	existing, err := h.templateStore.List(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to seed templates", err)
		return
	}

	type templateKey struct {
		category domain.Category
		title    string
	}
	seen := make(map[templateKey]bool, len(existing))
	for _, tpl := range existing {
		seen[templateKey{tpl.Category, tpl.Title}] = true
	}

	created, skipped := 0, 0
	for _, tpl := range domain.DefaultTemplates() {
		if seen[templateKey{tpl.Category, tpl.Title}] {
			skipped++
			continue
		}
		if err := h.templateStore.Create(r.Context(), tpl); err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		created++
	}

	log.Info("default templates seeded",
		slog.Int("created", created),
		slog.Int("skipped", skipped))
	shared.RespondWithJSON(w, r, http.StatusOK, SeedTemplatesResponse{
		Created: created,
		Skipped: skipped,
	})
}

// GenerateTasks handles POST /templates/generate requests. It expands a
// category's templates into concrete tasks for the requested month.
// Expansion is not idempotent; repeating the call creates duplicates, and
// the response's already_generated flag warns when that is happening.
func (h *TemplateHandler) GenerateTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req GenerateTemplatesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	month, err := domain.ParseYearMonth(req.Month)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid month, expected YYYY-MM", err)
		return
	}

	result, err := h.generation.ExpandMonth(r.Context(), domain.Category(req.Category), month)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to generate tasks from templates"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("templates expanded",
		slog.String("category", req.Category),
		slog.String("month", month.String()),
		slog.Int("created", len(result.Created)))
	shared.RespondWithJSON(w, r, http.StatusCreated, GenerateTemplatesResponse{
		Created:          tasksToResponse(result.Created),
		AlreadyGenerated: result.AlreadyGenerated,
	})
}
