package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// RecurrenceKind discriminates the supported recurrence rule variants.
type RecurrenceKind string

const (
	RecurrenceDaily   RecurrenceKind = "daily"
	RecurrenceWeekly  RecurrenceKind = "weekly"
	RecurrenceMonthly RecurrenceKind = "monthly"
	RecurrenceCustom  RecurrenceKind = "custom"
)

// Recurrence is a tagged union of the supported recurrence rules. Each
// variant carries exactly the fields its schedule needs, so a rule can
// never be in the "field present but irrelevant" state.
type Recurrence interface {
	// Kind identifies the rule variant.
	Kind() RecurrenceKind

	// Validate checks the variant's fields against their allowed ranges.
	Validate() error

	// Describe returns a short human-readable summary of the schedule,
	// e.g. "Repeats weekly on Mon, Wed".
	Describe() string
}

// Daily repeats every day.
type Daily struct{}

func (Daily) Kind() RecurrenceKind { return RecurrenceDaily }
func (Daily) Validate() error      { return nil }
func (Daily) Describe() string     { return "Repeats daily" }

// Weekly repeats on a fixed set of weekdays.
type Weekly struct {
	Days WeekdaySet
}

func (Weekly) Kind() RecurrenceKind { return RecurrenceWeekly }

func (w Weekly) Validate() error {
	if w.Days.IsEmpty() {
		return fmt.Errorf("%w: weekly rule needs at least one weekday", ErrInvalidRecurrence)
	}
	return nil
}

func (w Weekly) Describe() string {
	if w.Days.IsEmpty() {
		return "Repeats weekly"
	}
	names := ""
	for _, day := range w.Days.Weekdays() {
		if names != "" {
			names += ", "
		}
		names += day.String()[:3]
	}
	return "Repeats weekly on " + names
}

// MonthlyOn repeats on a fixed day of each month. Days past the end of a
// short month land on that month's last day.
type MonthlyOn struct {
	Day int
}

func (MonthlyOn) Kind() RecurrenceKind { return RecurrenceMonthly }

func (m MonthlyOn) Validate() error {
	if m.Day < 1 || m.Day > 31 {
		return fmt.Errorf("%w: day of month %d out of range 1-31", ErrInvalidRecurrence, m.Day)
	}
	return nil
}

func (m MonthlyOn) Describe() string {
	return fmt.Sprintf("Repeats monthly on the %d%s", m.Day, ordinalSuffix(m.Day))
}

// EveryNDays repeats on a fixed interval of days.
type EveryNDays struct {
	N int
}

func (EveryNDays) Kind() RecurrenceKind { return RecurrenceCustom }

func (e EveryNDays) Validate() error {
	if e.N < 1 {
		return fmt.Errorf("%w: interval must be at least 1 day, got %d", ErrInvalidRecurrence, e.N)
	}
	return nil
}

func (e EveryNDays) Describe() string {
	if e.N == 1 {
		return "Repeats every 1 day"
	}
	return fmt.Sprintf("Repeats every %d days", e.N)
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// WeekdaySet is a set of days of the week, stored as a bitmask indexed by
// time.Weekday (Sunday = 0).
type WeekdaySet uint8

// NewWeekdaySet builds a set from the given weekdays.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

// Contains reports whether the set includes the given weekday.
func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// IsEmpty reports whether the set contains no weekdays.
func (s WeekdaySet) IsEmpty() bool {
	return s&0x7f == 0
}

// Weekdays returns the set's members in Sunday-first order.
func (s WeekdaySet) Weekdays() []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

// MarshalJSON encodes the set as an array of weekday numbers (0 = Sunday).
func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	nums := make([]int, 0, 7)
	for _, d := range s.Weekdays() {
		nums = append(nums, int(d))
	}
	return json.Marshal(nums)
}

// UnmarshalJSON decodes an array of weekday numbers (0 = Sunday).
func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return fmt.Errorf("%w: weekdays must be an array of numbers", ErrInvalidRecurrence)
	}
	var set WeekdaySet
	for _, n := range nums {
		if n < 0 || n > 6 {
			return fmt.Errorf("%w: weekday %d out of range 0-6", ErrInvalidRecurrence, n)
		}
		set |= 1 << uint(n)
	}
	*s = set
	return nil
}

// recurrenceEnvelope is the serialized form of a Recurrence: the kind tag
// plus the union of the variant fields. It is the JSONB representation in
// postgres and the wire form in API payloads.
type recurrenceEnvelope struct {
	Kind       RecurrenceKind `json:"kind"`
	Days       *WeekdaySet    `json:"days,omitempty"`
	DayOfMonth *int           `json:"day_of_month,omitempty"`
	Interval   *int           `json:"interval,omitempty"`
}

// MarshalRecurrence serializes a recurrence rule to its JSON envelope.
// A nil rule serializes to JSON null.
func MarshalRecurrence(r Recurrence) ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	env := recurrenceEnvelope{Kind: r.Kind()}
	switch v := r.(type) {
	case Daily:
	case Weekly:
		env.Days = &v.Days
	case MonthlyOn:
		env.DayOfMonth = &v.Day
	case EveryNDays:
		env.Interval = &v.N
	default:
		return nil, fmt.Errorf("%w: unknown recurrence type %T", ErrInvalidRecurrence, r)
	}
	return json.Marshal(env)
}

// UnmarshalRecurrence deserializes a recurrence rule from its JSON
// envelope. JSON null yields a nil rule. The decoded rule is validated, so
// a malformed envelope (unknown kind, missing or out-of-range fields) is
// rejected here rather than surfacing later as a rule that never fires.
func UnmarshalRecurrence(data []byte) (Recurrence, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var env recurrenceEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}

	var r Recurrence
	switch env.Kind {
	case RecurrenceDaily:
		r = Daily{}
	case RecurrenceWeekly:
		if env.Days == nil {
			return nil, fmt.Errorf("%w: weekly rule missing days", ErrInvalidRecurrence)
		}
		r = Weekly{Days: *env.Days}
	case RecurrenceMonthly:
		if env.DayOfMonth == nil {
			return nil, fmt.Errorf("%w: monthly rule missing day_of_month", ErrInvalidRecurrence)
		}
		r = MonthlyOn{Day: *env.DayOfMonth}
	case RecurrenceCustom:
		if env.Interval == nil {
			return nil, fmt.Errorf("%w: custom rule missing interval", ErrInvalidRecurrence)
		}
		r = EveryNDays{N: *env.Interval}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidRecurrence, env.Kind)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
