// Package recur implements the recurring-task generation engine: computing
// a rule's next occurrence, deciding whether a recurring definition is due,
// materializing new task instances, and expanding monthly templates.
//
// Everything in this package is a pure function over domain values. The
// engine performs no I/O and holds no state; callers supply a consistent
// task snapshot and the current time, and persist whatever comes back.
// Because nothing here guards the backing store, two callers processing the
// same snapshot concurrently can each generate an instance for the same due
// task. Callers that allow concurrent cycles must serialize them.
package recur
