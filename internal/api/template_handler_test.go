package api_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/rota-api/internal/api"
	"github.com/phrazzld/rota-api/internal/domain"
)

func TestCreateTemplate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/templates", map[string]interface{}{
		"title":            "reconcile ledger",
		"category":         "month-end-phorest",
		"priority":         "high",
		"due_day_of_month": 31,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeBody[api.TemplateResponse](t, rec)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 31, resp.DueDayOfMonth)
}

func TestCreateTemplate_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "missing title",
			body: map[string]interface{}{
				"category": "month-end-phorest",
				"priority": "high",
			},
		},
		{
			name: "day out of range",
			body: map[string]interface{}{
				"title":            "x",
				"category":         "month-end-phorest",
				"priority":         "high",
				"due_day_of_month": 32,
			},
		},
		{
			name: "unknown category",
			body: map[string]interface{}{
				"title":    "x",
				"category": "errands",
				"priority": "high",
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			rec := env.do(t, http.MethodPost, "/api/templates", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestTemplateCRUD(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	created := decodeBody[api.TemplateResponse](t, env.do(t, http.MethodPost, "/api/templates", map[string]interface{}{
		"title":            "export payroll",
		"category":         "phorest-monthly",
		"priority":         "medium",
		"due_day_of_month": 5,
	}))

	got := decodeBody[api.TemplateResponse](t, env.do(t, http.MethodGet, "/api/templates/"+created.ID, nil))
	assert.Equal(t, created.ID, got.ID)

	rec := env.do(t, http.MethodPut, "/api/templates/"+created.ID, map[string]interface{}{
		"title":            "export payroll",
		"category":         "phorest-monthly",
		"priority":         "urgent",
		"due_day_of_month": 3,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[api.TemplateResponse](t, rec)
	assert.Equal(t, "urgent", updated.Priority)
	assert.Equal(t, 3, updated.DueDayOfMonth)

	rec = env.do(t, http.MethodDelete, "/api/templates/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/templates/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTemplates_CategoryFilter(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	for _, body := range []map[string]interface{}{
		{"title": "reconcile ledger", "category": "month-end-phorest", "priority": "high"},
		{"title": "archive reports", "category": "month-end-phorest", "priority": "low"},
		{"title": "send newsletter", "category": "phorest-monthly", "priority": "medium"},
	} {
		rec := env.do(t, http.MethodPost, "/api/templates", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	all := decodeBody[[]api.TemplateResponse](t, env.do(t, http.MethodGet, "/api/templates", nil))
	assert.Len(t, all, 3)

	monthEnd := decodeBody[[]api.TemplateResponse](t, env.do(t, http.MethodGet, "/api/templates?category=month-end-phorest", nil))
	assert.Len(t, monthEnd, 2)
}

func TestGenerateTasks(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/templates", map[string]interface{}{
		"title":            "reconcile ledger",
		"category":         "month-end-phorest",
		"priority":         "high",
		"due_day_of_month": 31,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/templates/generate", map[string]interface{}{
		"category": "month-end-phorest",
		"month":    "2024-02",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeBody[api.GenerateTemplatesResponse](t, rec)
	assert.False(t, resp.AlreadyGenerated)
	require.Len(t, resp.Created, 1)
	require.NotNil(t, resp.Created[0].DueDate)
	assert.Equal(t, domain.Date{Year: 2024, Month: time.February, Day: 29}, *resp.Created[0].DueDate)

	// The expanded tasks are persisted and visible over the listing.
	tasks := decodeBody[[]api.TaskResponse](t, env.do(t, http.MethodGet, "/api/tasks?category=month-end-phorest", nil))
	assert.Len(t, tasks, 1)

	// Repeating the expansion duplicates and says so.
	again := decodeBody[api.GenerateTemplatesResponse](t, env.do(t, http.MethodPost, "/api/templates/generate", map[string]interface{}{
		"category": "month-end-phorest",
		"month":    "2024-02",
	}))
	assert.True(t, again.AlreadyGenerated)
	assert.Len(t, again.Created, 1)
}

func TestGenerateTasks_Rejections(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// Non-templated category.
	rec := env.do(t, http.MethodPost, "/api/templates/generate", map[string]interface{}{
		"category": "personal",
		"month":    "2024-02",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed month.
	rec = env.do(t, http.MethodPost, "/api/templates/generate", map[string]interface{}{
		"category": "month-end-phorest",
		"month":    "February 2024",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing body.
	rec = env.do(t, http.MethodPost, "/api/templates/generate", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeedTemplates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/templates/seed", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[api.SeedTemplatesResponse](t, rec)
	assert.Equal(t, 20, resp.Created)
	assert.Equal(t, 0, resp.Skipped)

	monthEnd := decodeBody[[]api.TemplateResponse](t,
		env.do(t, http.MethodGet, "/api/templates?category=month-end-phorest", nil))
	assert.Len(t, monthEnd, 14)

	monthly := decodeBody[[]api.TemplateResponse](t,
		env.do(t, http.MethodGet, "/api/templates?category=phorest-monthly", nil))
	assert.Len(t, monthly, 6)

	var germanVAT *api.TemplateResponse
	for i := range monthly {
		if monthly[i].Title == "German VAT Submission" {
			germanVAT = &monthly[i]
		}
	}
	require.NotNil(t, germanVAT)
	assert.Equal(t, "urgent", germanVAT.Priority)
	assert.Equal(t, 7, germanVAT.DueDayOfMonth)
}

func TestSeedTemplates_RepeatSkipsExisting(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	first := decodeBody[api.SeedTemplatesResponse](t,
		env.do(t, http.MethodPost, "/api/templates/seed", nil))
	require.Equal(t, 20, first.Created)

	again := decodeBody[api.SeedTemplatesResponse](t,
		env.do(t, http.MethodPost, "/api/templates/seed", nil))
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 20, again.Skipped)

	all := decodeBody[[]api.TemplateResponse](t,
		env.do(t, http.MethodGet, "/api/templates", nil))
	assert.Len(t, all, 20)
}

func TestSeedTemplates_SkipsMatchingUserTemplates(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// A template whose category and title collide with a built-in entry
	// keeps the user's version; seeding fills in only the rest.
	rec := env.do(t, http.MethodPost, "/api/templates", map[string]interface{}{
		"title":            "Fixed Assets",
		"category":         "month-end-phorest",
		"priority":         "low",
		"due_day_of_month": 28,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeBody[api.SeedTemplatesResponse](t,
		env.do(t, http.MethodPost, "/api/templates/seed", nil))
	assert.Equal(t, 19, resp.Created)
	assert.Equal(t, 1, resp.Skipped)

	monthEnd := decodeBody[[]api.TemplateResponse](t,
		env.do(t, http.MethodGet, "/api/templates?category=month-end-phorest", nil))
	for _, tpl := range monthEnd {
		if tpl.Title == "Fixed Assets" {
			assert.Equal(t, "low", tpl.Priority)
			assert.Equal(t, 28, tpl.DueDayOfMonth)
		}
	}
}
