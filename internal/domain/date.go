package domain

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day component. Task due dates are
// calendar dates: a task is due on a day, not at an instant. Arithmetic on
// dates goes through time.Date component normalization rather than epoch
// math so that results are stable across DST transitions.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO-8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

// Time returns the date at midnight in the given location.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days after d. Day overflow is normalized by
// time.Date, so adding across month and year boundaries works as expected.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Weekday returns the day of the week d falls on.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// String returns the ISO-8601 form, YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes the date as an ISO-8601 string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes an ISO-8601 date string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("%w: date must be a JSON string", ErrInvalidDate)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// YearMonth identifies a calendar month, the target of template expansion.
// Its string form is YYYY-MM.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) YearMonth {
	y, m, _ := t.Date()
	return YearMonth{Year: y, Month: m}
}

// ParseYearMonth parses a YYYY-MM month string.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q is not a YYYY-MM month", ErrInvalidDate, s)
	}
	y, m, _ := t.Date()
	return YearMonth{Year: y, Month: m}, nil
}

// Days returns the number of days in the month. Day 0 of the following
// month normalizes to the last day of this one.
func (ym YearMonth) Days() int {
	return time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateOn returns the date for the given day of this month, clamped to the
// month's length. A day-31 rule lands on Feb 29 in a leap year and Feb 28
// otherwise.
func (ym YearMonth) DateOn(day int) Date {
	if max := ym.Days(); day > max {
		day = max
	}
	return Date{Year: ym.Year, Month: ym.Month, Day: day}
}

// String returns the YYYY-MM form.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
