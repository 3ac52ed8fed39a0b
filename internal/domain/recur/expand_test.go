package recur

import (
	"testing"
	"time"

	"github.com/phrazzld/rota-api/internal/domain"
)

func newTemplate(t *testing.T, title string, category domain.Category, day int) *domain.TaskTemplate {
	t.Helper()
	tpl, err := domain.NewTaskTemplate(title, "", category, domain.PriorityMedium, day)
	if err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	return tpl
}

func TestExpandTemplates(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	month := domain.YearMonth{Year: 2024, Month: time.April}

	templates := []*domain.TaskTemplate{
		newTemplate(t, "reconcile revenue", domain.CategoryMonthEndPhorest, 5),
		newTemplate(t, "send newsletter", domain.CategoryPnPMarketing, 10),
		newTemplate(t, "review rosters", domain.CategoryMonthEndPhorest, 0),
	}

	tasks := ExpandTemplates(templates, domain.CategoryMonthEndPhorest, month, now)

	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks for category, got %d", len(tasks))
	}

	first := tasks[0]
	if first.Title != "reconcile revenue" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if first.DueDate == nil || *first.DueDate != (domain.Date{Year: 2024, Month: time.April, Day: 5}) {
		t.Errorf("expected due date 2024-04-05, got %v", first.DueDate)
	}
	if first.ParentRecurringID != nil {
		t.Error("template-produced tasks carry no parent link")
	}
	if first.IsRecurring() {
		t.Error("template-produced tasks do not recur")
	}
	if first.Completed {
		t.Error("template-produced tasks start incomplete")
	}

	if tasks[1].DueDate != nil {
		t.Error("template without a due day should produce a task without one")
	}
}

func TestExpandTemplatesClampsShortMonths(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.January, 31, 8, 0, 0, 0, time.UTC)
	templates := []*domain.TaskTemplate{
		newTemplate(t, "close the books", domain.CategoryMonthEndPhorest, 31),
	}

	testCases := []struct {
		name     string
		month    domain.YearMonth
		expected domain.Date
	}{
		{
			name:     "leap february",
			month:    domain.YearMonth{Year: 2024, Month: time.February},
			expected: domain.Date{Year: 2024, Month: time.February, Day: 29},
		},
		{
			name:     "non-leap february",
			month:    domain.YearMonth{Year: 2023, Month: time.February},
			expected: domain.Date{Year: 2023, Month: time.February, Day: 28},
		},
		{
			name:     "thirty day month",
			month:    domain.YearMonth{Year: 2024, Month: time.June},
			expected: domain.Date{Year: 2024, Month: time.June, Day: 30},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tasks := ExpandTemplates(templates, domain.CategoryMonthEndPhorest, tc.month, now)
			if len(tasks) != 1 {
				t.Fatalf("expected 1 task, got %d", len(tasks))
			}
			if *tasks[0].DueDate != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, *tasks[0].DueDate)
			}
		})
	}
}

func TestExpandTemplatesIsNotIdempotent(t *testing.T) {
	t.Parallel()

	// Repeat expansion deliberately duplicates: there is no guard, and the
	// duplicate set is documented behavior, not a bug.
	now := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	month := domain.YearMonth{Year: 2024, Month: time.March}
	templates := []*domain.TaskTemplate{
		newTemplate(t, "reconcile revenue", domain.CategoryMonthEndPhorest, 5),
	}

	first := ExpandTemplates(templates, domain.CategoryMonthEndPhorest, month, now)
	second := ExpandTemplates(templates, domain.CategoryMonthEndPhorest, month, now)

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected 1 task per expansion, got %d and %d", len(first), len(second))
	}
	if first[0].ID == second[0].ID {
		t.Error("each expansion should produce freshly identified tasks")
	}
	if first[0].Title != second[0].Title || *first[0].DueDate != *second[0].DueDate {
		t.Error("expansions should be structurally identical apart from IDs")
	}
}
