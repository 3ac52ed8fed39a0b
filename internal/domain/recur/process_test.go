package recur

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/rota-api/internal/domain"
)

func newDailyTask(t *testing.T, createdAt time.Time) *domain.Task {
	t.Helper()
	task, err := domain.NewRecurringTask("standup notes", "", domain.CategoryPersonal, domain.PriorityMedium, domain.Daily{})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	task.CreatedAt = createdAt
	task.UpdatedAt = createdAt
	return task
}

func TestProcessAllGeneratesOneInstancePerDueTask(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	recurring := newDailyTask(t, now.AddDate(0, 0, -3))

	result := ProcessAll([]*domain.Task{recurring}, now)

	if len(result.Generated) != 1 {
		t.Fatalf("expected 1 generated instance, got %d", len(result.Generated))
	}
	if len(result.Tasks) != 1 {
		t.Fatalf("expected 1 original task, got %d", len(result.Tasks))
	}

	instance := result.Generated[0]
	if instance.IsRecurring() {
		t.Error("generated instance must not itself recur")
	}
	if instance.ParentRecurringID == nil || *instance.ParentRecurringID != recurring.ID {
		t.Error("generated instance should link back to its definition")
	}
	if instance.Completed {
		t.Error("generated instance should start incomplete")
	}
	if instance.DueDate == nil {
		t.Fatal("generated instance should have a due date")
	}

	// The definition's stamp records when generation happened, not the
	// computed due date.
	updated := result.Tasks[0]
	if updated.LastGenerated == nil || !updated.LastGenerated.Equal(now) {
		t.Errorf("expected LastGenerated %v, got %v", now, updated.LastGenerated)
	}
}

func TestProcessAllSecondPassGeneratesNothing(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	tasks := []*domain.Task{
		newDailyTask(t, now.AddDate(0, 0, -10)),
		newDailyTask(t, now.AddDate(0, 0, -2)),
	}

	first := ProcessAll(tasks, now)
	if len(first.Generated) != 2 {
		t.Fatalf("expected 2 instances on first pass, got %d", len(first.Generated))
	}

	// Re-running on the first pass's own output without the clock advancing
	// must be a no-op: every stamp was just advanced to now.
	second := ProcessAll(first.All(), now)
	if len(second.Generated) != 0 {
		t.Fatalf("expected no instances on second pass, got %d", len(second.Generated))
	}
}

func TestProcessAllOrdering(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)

	plain, err := domain.NewTask("one off", "", domain.CategoryPersonal, domain.PriorityLow, nil)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	first := newDailyTask(t, now.AddDate(0, 0, -2))
	second := newDailyTask(t, now.AddDate(0, 0, -2))

	result := ProcessAll([]*domain.Task{first, plain, second}, now)
	all := result.All()

	if len(all) != 5 {
		t.Fatalf("expected 5 tasks, got %d", len(all))
	}

	// Originals first, in input order, then instances in processing order.
	wantOrder := []uuid.UUID{first.ID, plain.ID, second.ID}
	for i, want := range wantOrder {
		if all[i].ID != want {
			t.Errorf("position %d: expected original %v, got %v", i, want, all[i].ID)
		}
	}
	if *all[3].ParentRecurringID != first.ID {
		t.Error("first instance should belong to the first definition")
	}
	if *all[4].ParentRecurringID != second.ID {
		t.Error("second instance should belong to the second definition")
	}
}

func TestProcessAllPassesThroughUntouched(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)

	plain, err := domain.NewTask("one off", "", domain.CategoryPersonal, domain.PriorityLow, nil)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	notDue := newDailyTask(t, now.AddDate(0, 0, -2))
	stamp := now
	notDue.LastGenerated = &stamp

	// A weekly definition with an empty day set is due-checkable but not
	// computable; it must pass through rather than fail the cycle.
	broken := newDailyTask(t, now.AddDate(0, 0, -2))
	broken.Recurrence = domain.Weekly{}

	result := ProcessAll([]*domain.Task{plain, notDue, broken}, now)

	if len(result.Generated) != 0 {
		t.Fatalf("expected no instances, got %d", len(result.Generated))
	}
	for i, original := range []*domain.Task{plain, notDue, broken} {
		if result.Tasks[i] != original {
			t.Errorf("task %d should pass through as the same value", i)
		}
	}
}

func TestProcessAllDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	recurring := newDailyTask(t, now.AddDate(0, 0, -3))

	ProcessAll([]*domain.Task{recurring}, now)

	if recurring.LastGenerated != nil {
		t.Error("input task should not be mutated; updates are copies")
	}
}
