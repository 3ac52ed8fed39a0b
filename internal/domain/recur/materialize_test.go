package recur

import (
	"testing"
	"time"

	"github.com/phrazzld/rota-api/internal/domain"
)

func TestMaterialize(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 14, 9, 30, 0, 0, time.UTC)
	generated := now.AddDate(0, 0, -7)

	definition, err := domain.NewRecurringTask(
		"water plants",
		"the ones on the balcony",
		domain.CategoryPersonal,
		domain.PriorityHigh,
		domain.Weekly{Days: domain.NewWeekdaySet(time.Monday)},
	)
	if err != nil {
		t.Fatalf("failed to create definition: %v", err)
	}
	definition.LastGenerated = &generated

	due := domain.Date{Year: 2024, Month: time.March, Day: 18}
	instance := Materialize(definition, due, now)

	if instance.ID == definition.ID {
		t.Error("instance should get a fresh ID")
	}
	if instance.Title != definition.Title || instance.Description != definition.Description {
		t.Error("descriptive fields should be copied verbatim")
	}
	if instance.Category != definition.Category || instance.Priority != definition.Priority {
		t.Error("category and priority should be copied verbatim")
	}
	if instance.Completed {
		t.Error("instance should start incomplete")
	}
	if instance.DueDate == nil || *instance.DueDate != due {
		t.Errorf("expected due date %v, got %v", due, instance.DueDate)
	}
	if instance.IsRecurring() {
		t.Error("instance must never carry a recurrence rule")
	}
	if instance.LastGenerated != nil {
		t.Error("instance must not inherit the generation stamp")
	}
	if instance.ParentRecurringID == nil || *instance.ParentRecurringID != definition.ID {
		t.Error("instance should link back to its definition")
	}
	if !instance.CreatedAt.Equal(now) || !instance.UpdatedAt.Equal(now) {
		t.Error("instance timestamps should be the materialization time")
	}
	if err := instance.Validate(); err != nil {
		t.Errorf("materialized instance should be valid: %v", err)
	}
}
