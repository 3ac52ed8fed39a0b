package recur

import (
	"time"

	"github.com/phrazzld/rota-api/internal/domain"
)

// NextOccurrence computes the next due date for a recurrence rule after
// from. The second return value is false when the rule cannot produce an
// occurrence: a nil rule, an empty weekly set, or a custom interval below
// one day. Callers treat "no occurrence" as "skip this task this cycle";
// it is an expected outcome, not an error.
//
// All arithmetic is on local calendar-date components, so results are
// stable across DST transitions.
func NextOccurrence(rec domain.Recurrence, from domain.Date) (domain.Date, bool) {
	switch r := rec.(type) {
	case domain.Daily:
		return from.AddDays(1), true

	case domain.Weekly:
		return nextWeekday(from, r.Days)

	case domain.MonthlyOn:
		if r.Day < 1 || r.Day > 31 {
			return domain.Date{}, false
		}
		return nextMonthly(from, r.Day), true

	case domain.EveryNDays:
		if r.N < 1 {
			return domain.Date{}, false
		}
		return from.AddDays(r.N), true

	default:
		// Nil or unknown rule: not computable.
		return domain.Date{}, false
	}
}

// nextWeekday scans the 7 days after from (exclusive) for the earliest date
// whose weekday is in the set. A full week covers every weekday, so a
// non-empty set always matches.
func nextWeekday(from domain.Date, days domain.WeekdaySet) (domain.Date, bool) {
	if days.IsEmpty() {
		return domain.Date{}, false
	}
	for i := 1; i <= 7; i++ {
		candidate := from.AddDays(i)
		if days.Contains(candidate.Weekday()) {
			return candidate, true
		}
	}
	return domain.Date{}, false
}

// nextMonthly returns the rule's day in the month after from, clamped to
// that month's length: a day-31 rule lands on Feb 29 in a leap year, Feb 28
// otherwise. Constructing day 0 of the month after the target normalizes to
// the target month's last day.
func nextMonthly(from domain.Date, day int) domain.Date {
	target := domain.YearMonth{Year: from.Year, Month: from.Month}
	target.Month++
	if target.Month > time.December {
		target.Month = time.January
		target.Year++
	}
	return target.DateOn(day)
}

// IsDue reports whether a recurring task should produce a new instance as
// of now. The reference point is the task's last generation time, falling
// back to its creation time for a definition that has never generated. The
// task is due when the next occurrence computed from that reference falls
// today or earlier.
//
// A task that has fallen many periods behind still answers "due" exactly
// like one a single period behind; the batch processor generates one
// instance per cycle, never a backfill.
func IsDue(task *domain.Task, now time.Time) bool {
	if !task.IsRecurring() {
		return false
	}

	next, ok := NextOccurrence(task.Recurrence, referenceDate(task))
	if !ok {
		return false
	}
	return !next.After(domain.DateOf(now))
}

// referenceDate returns the date generation is measured from:
// LastGenerated when set, otherwise CreatedAt.
func referenceDate(task *domain.Task) domain.Date {
	if task.LastGenerated != nil {
		return domain.DateOf(*task.LastGenerated)
	}
	return domain.DateOf(task.CreatedAt)
}
