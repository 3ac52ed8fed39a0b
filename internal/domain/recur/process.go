package recur

import (
	"time"

	"github.com/phrazzld/rota-api/internal/domain"
)

// Result is the outcome of one processing cycle. Tasks holds every input
// task in input order, with due recurring definitions updated in place of
// their originals; Generated holds the new instances in the order their
// definitions were processed. Tasks then Generated is the full collection
// the caller should persist.
type Result struct {
	Tasks     []*domain.Task
	Generated []*domain.Task
}

// All returns the updated originals followed by the generated instances.
func (r Result) All() []*domain.Task {
	out := make([]*domain.Task, 0, len(r.Tasks)+len(r.Generated))
	out = append(out, r.Tasks...)
	out = append(out, r.Generated...)
	return out
}

// ProcessAll runs one generation cycle over a task snapshot. For each due
// recurring definition it materializes one instance and advances the
// definition's LastGenerated to the processing time, not to the computed
// due date. The stamp records when generation happened, and becomes the
// reference for the following cycle, so running ProcessAll again on its own
// output without the clock advancing generates nothing new.
//
// Input tasks are not mutated; updated definitions are copies. Tasks that
// are not recurring, not due, or whose rule cannot produce an occurrence
// pass through unchanged.
func ProcessAll(tasks []*domain.Task, now time.Time) Result {
	result := Result{Tasks: make([]*domain.Task, 0, len(tasks))}
	stamp := now.UTC()

	for _, task := range tasks {
		if !task.IsRecurring() || !IsDue(task, now) {
			result.Tasks = append(result.Tasks, task)
			continue
		}

		next, ok := NextOccurrence(task.Recurrence, referenceDate(task))
		if !ok {
			result.Tasks = append(result.Tasks, task)
			continue
		}

		result.Generated = append(result.Generated, Materialize(task, next, now))

		updated := *task
		updated.LastGenerated = &stamp
		updated.UpdatedAt = stamp
		result.Tasks = append(result.Tasks, &updated)
	}

	return result
}
