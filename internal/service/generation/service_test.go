package generation

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/rota-api/internal/domain"
	"github.com/phrazzld/rota-api/internal/platform/logger"
	"github.com/phrazzld/rota-api/internal/platform/memory"
)

func newTestService(t *testing.T, now time.Time) (*serviceImpl, *memory.TaskStore, *memory.TemplateStore, *memory.MarkStore) {
	t.Helper()

	tasks := memory.NewTaskStore()
	templates := memory.NewTemplateStore()
	marks := memory.NewMarkStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewService(tasks, templates, marks, nil, log).(*serviceImpl)
	svc.now = func() time.Time { return now }
	return svc, tasks, templates, marks
}

func mustRecurring(t *testing.T, title string, rec domain.Recurrence, createdAt time.Time) *domain.Task {
	t.Helper()
	task, err := domain.NewRecurringTask(title, "", domain.CategoryPersonal, domain.PriorityMedium, rec)
	require.NoError(t, err)
	task.CreatedAt = createdAt
	task.UpdatedAt = createdAt
	return task
}

func TestNewService_NilDependenciesPanic(t *testing.T) {
	t.Parallel()

	tasks := memory.NewTaskStore()
	templates := memory.NewTemplateStore()
	marks := memory.NewMarkStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Panics(t, func() { NewService(nil, templates, marks, nil, log) })
	assert.Panics(t, func() { NewService(tasks, nil, marks, nil, log) })
	assert.Panics(t, func() { NewService(tasks, templates, nil, nil, log) })
	assert.Panics(t, func() { NewService(tasks, templates, marks, nil, nil) })
}

func TestRunCycle_GeneratesDueInstances(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	svc, tasks, _, _ := newTestService(t, now)
	ctx := context.Background()

	due := mustRecurring(t, "water plants", domain.Daily{}, now.AddDate(0, 0, -3))
	notDue := mustRecurring(t, "monthly report", domain.MonthlyOn{Day: 25}, now.AddDate(0, 0, -1))
	oneShot, err := domain.NewTask("buy stamps", "", domain.CategoryPersonal, domain.PriorityLow, nil)
	require.NoError(t, err)

	require.NoError(t, tasks.Create(ctx, due))
	require.NoError(t, tasks.Create(ctx, notDue))
	require.NoError(t, tasks.Create(ctx, oneShot))

	result, err := svc.RunCycle(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Checked, "only recurring definitions are checked")
	require.Len(t, result.Generated, 1)

	instance := result.Generated[0]
	assert.Equal(t, "water plants", instance.Title)
	require.NotNil(t, instance.ParentRecurringID)
	assert.Equal(t, due.ID, *instance.ParentRecurringID)
	assert.Nil(t, instance.Recurrence)

	// Instance and definition stamp were persisted.
	stored, err := tasks.GetByID(ctx, instance.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DueDate)

	storedDef, err := tasks.GetByID(ctx, due.ID)
	require.NoError(t, err)
	require.NotNil(t, storedDef.LastGenerated)
	assert.Equal(t, now, storedDef.LastGenerated.UTC())

	// The untouched definition was not rewritten.
	storedNotDue, err := tasks.GetByID(ctx, notDue.ID)
	require.NoError(t, err)
	assert.Nil(t, storedNotDue.LastGenerated)
}

func TestRunCycle_SecondRunIsQuiet(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	svc, tasks, _, _ := newTestService(t, now)
	ctx := context.Background()

	def := mustRecurring(t, "stand-up notes", domain.Daily{}, now.AddDate(0, 0, -1))
	require.NoError(t, tasks.Create(ctx, def))

	first, err := svc.RunCycle(ctx)
	require.NoError(t, err)
	require.Len(t, first.Generated, 1)

	// Same clock: the definition just generated, so nothing is due.
	second, err := svc.RunCycle(ctx)
	require.NoError(t, err)
	assert.Empty(t, second.Generated)
	assert.Equal(t, 1, second.Checked)
}

func TestRunCycle_EmptyStore(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService(t, time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))

	result, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Checked)
	assert.Empty(t, result.Generated)
}

func TestExpandMonth_CreatesTasksAndMark(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC)
	svc, tasks, templates, marks := newTestService(t, now)
	ctx := context.Background()

	reconcile, err := domain.NewTaskTemplate("reconcile ledger", "", domain.CategoryMonthEndPhorest, domain.PriorityHigh, 31)
	require.NoError(t, err)
	anyDay, err := domain.NewTaskTemplate("archive reports", "", domain.CategoryMonthEndPhorest, domain.PriorityLow, 0)
	require.NoError(t, err)
	otherCategory, err := domain.NewTaskTemplate("send newsletter", "", domain.CategoryPhorestMonthly, domain.PriorityMedium, 5)
	require.NoError(t, err)

	require.NoError(t, templates.Create(ctx, reconcile))
	require.NoError(t, templates.Create(ctx, anyDay))
	require.NoError(t, templates.Create(ctx, otherCategory))

	month := domain.YearMonth{Year: 2024, Month: time.February}
	result, err := svc.ExpandMonth(ctx, domain.CategoryMonthEndPhorest, month)
	require.NoError(t, err)

	assert.False(t, result.AlreadyGenerated)
	require.Len(t, result.Created, 2)

	byTitle := map[string]*domain.Task{}
	for _, task := range result.Created {
		byTitle[task.Title] = task

		stored, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.CategoryMonthEndPhorest, stored.Category)
	}

	// Day 31 clamps to the leap-February 29th.
	require.NotNil(t, byTitle["reconcile ledger"].DueDate)
	assert.Equal(t, domain.Date{Year: 2024, Month: time.February, Day: 29}, *byTitle["reconcile ledger"].DueDate)
	assert.Nil(t, byTitle["archive reports"].DueDate)

	mark, err := marks.Get(ctx, domain.CategoryMonthEndPhorest)
	require.NoError(t, err)
	assert.Equal(t, month, mark.Month)
	assert.Equal(t, now, mark.LastGenerated)
}

func TestExpandMonth_RepeatReportsAlreadyGenerated(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 3, 10, 0, 0, 0, time.UTC)
	svc, tasks, templates, _ := newTestService(t, now)
	ctx := context.Background()

	tpl, err := domain.NewTaskTemplate("close books", "", domain.CategoryMonthEndPhorest, domain.PriorityHigh, 28)
	require.NoError(t, err)
	require.NoError(t, templates.Create(ctx, tpl))

	month := domain.YearMonth{Year: 2024, Month: time.June}

	first, err := svc.ExpandMonth(ctx, domain.CategoryMonthEndPhorest, month)
	require.NoError(t, err)
	assert.False(t, first.AlreadyGenerated)

	// A repeat still creates tasks; the flag is informational only.
	second, err := svc.ExpandMonth(ctx, domain.CategoryMonthEndPhorest, month)
	require.NoError(t, err)
	assert.True(t, second.AlreadyGenerated)
	assert.Len(t, second.Created, 1)

	all, err := tasks.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "expansion is not idempotent")

	// A new month resets the flag.
	third, err := svc.ExpandMonth(ctx, domain.CategoryMonthEndPhorest, domain.YearMonth{Year: 2024, Month: time.July})
	require.NoError(t, err)
	assert.False(t, third.AlreadyGenerated)
}

func TestExpandMonth_RejectsNonTemplatedCategory(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newTestService(t, time.Now())
	month := domain.YearMonth{Year: 2024, Month: time.June}

	_, err := svc.ExpandMonth(context.Background(), domain.CategoryPersonal, month)
	assert.ErrorIs(t, err, ErrCategoryNotTemplated)

	_, err = svc.ExpandMonth(context.Background(), domain.Category("bogus"), month)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestExpandMonth_NoTemplates(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 3, 10, 0, 0, 0, time.UTC)
	svc, _, _, marks := newTestService(t, now)
	ctx := context.Background()

	month := domain.YearMonth{Year: 2024, Month: time.June}
	result, err := svc.ExpandMonth(ctx, domain.CategoryPhorestMonthly, month)
	require.NoError(t, err)
	assert.Empty(t, result.Created)

	// The mark is recorded even for an empty expansion.
	mark, err := marks.Get(ctx, domain.CategoryPhorestMonthly)
	require.NoError(t, err)
	assert.Equal(t, month, mark.Month)
}

func TestRunCycle_LogsOutcome(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	svc, tasks, _, _ := newTestService(t, now)
	ctx, logBuf := logger.NewLogCaptureContext(t)

	due := mustRecurring(t, "water plants", domain.Daily{}, now.AddDate(0, 0, -3))
	require.NoError(t, tasks.Create(ctx, due))

	_, err := svc.RunCycle(ctx)
	require.NoError(t, err)

	logger.AssertLogContains(t, logBuf, "generation cycle complete")
	logger.AssertLogField(t, logBuf, "checked", float64(1))
	logger.AssertLogField(t, logBuf, "generated", float64(1))

	// A quiet follow-up cycle reports at debug level, not info.
	logBuf.Reset()
	_, err = svc.RunCycle(ctx)
	require.NoError(t, err)

	entries, parseErr := logBuf.GetLogEntries()
	require.NoError(t, parseErr)
	for _, entry := range entries {
		assert.NotEqual(t, "INFO", entry["level"], "quiet cycles should not log at info")
	}
}
