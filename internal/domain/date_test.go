package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if d != (Date{Year: 2024, Month: time.February, Day: 29}) {
		t.Errorf("Unexpected date %v", d)
	}

	for _, bad := range []string{"", "2024-2-9", "2023-02-29", "20240229", "2024-02-29T00:00:00Z"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("Expected ErrInvalidDate for %q, got %v", bad, err)
		}
	}
}

func TestDateAddDaysNormalizes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		from     Date
		n        int
		expected Date
	}{
		{
			name:     "within month",
			from:     Date{2024, time.March, 10},
			n:        4,
			expected: Date{2024, time.March, 14},
		},
		{
			name:     "across month boundary",
			from:     Date{2024, time.January, 30},
			n:        3,
			expected: Date{2024, time.February, 2},
		},
		{
			name:     "across year boundary",
			from:     Date{2023, time.December, 30},
			n:        5,
			expected: Date{2024, time.January, 4},
		},
		{
			name:     "negative days",
			from:     Date{2024, time.March, 1},
			n:        -1,
			expected: Date{2024, time.February, 29},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.from.AddDays(tc.n); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestDateJSON(t *testing.T) {
	t.Parallel()

	d := Date{Year: 2024, Month: time.April, Day: 5}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(data) != `"2024-04-05"` {
		t.Errorf("Unexpected JSON %s", data)
	}

	var decoded Date
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if decoded != d {
		t.Errorf("Round trip changed date: %v != %v", decoded, d)
	}

	if err := json.Unmarshal([]byte(`42`), &decoded); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Expected ErrInvalidDate, got %v", err)
	}
}

func TestYearMonth(t *testing.T) {
	t.Parallel()

	ym, err := ParseYearMonth("2024-02")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ym.Days() != 29 {
		t.Errorf("Expected 29 days in 2024-02, got %d", ym.Days())
	}
	if ym.String() != "2024-02" {
		t.Errorf("Unexpected string form %q", ym.String())
	}

	if got := ym.DateOn(31); got != (Date{2024, time.February, 29}) {
		t.Errorf("Expected clamp to 2024-02-29, got %v", got)
	}
	if got := ym.DateOn(10); got != (Date{2024, time.February, 10}) {
		t.Errorf("Expected 2024-02-10, got %v", got)
	}

	if _, err := ParseYearMonth("2024-2"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Expected ErrInvalidDate, got %v", err)
	}

	if got := MonthOf(time.Date(2024, time.July, 9, 23, 0, 0, 0, time.UTC)); got != (YearMonth{2024, time.July}) {
		t.Errorf("Unexpected MonthOf result %v", got)
	}
}
