package availability

import (
	"fmt"
	"time"
)

const isoDate = "2006-01-02"

// WeekDates returns the seven ISO dates, Monday through Sunday, of the week
// containing pivot.
func WeekDates(pivot string) ([]string, error) {
	t, err := time.Parse(isoDate, pivot)
	if err != nil {
		return nil, fmt.Errorf("invalid pivot date %q: %w", pivot, err)
	}
	monday := t.AddDate(0, 0, -mondayOffset(t.Weekday()))
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(isoDate)
	}
	return dates, nil
}

// MonthDates returns a fixed 6x7 Monday-start grid for the month containing
// pivot: 42 consecutive ISO dates starting at the Monday on or before the
// 1st. The grid size never varies with month length, so leading and
// trailing dates from the adjacent months are always included.
func MonthDates(pivot string) ([]string, error) {
	t, err := time.Parse(isoDate, pivot)
	if err != nil {
		return nil, fmt.Errorf("invalid pivot date %q: %w", pivot, err)
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -mondayOffset(first.Weekday()))
	dates := make([]string, 42)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(isoDate)
	}
	return dates, nil
}

// mondayOffset is the number of days back from d to the preceding Monday.
// Sunday counts as 6 so the week always starts on Monday.
func mondayOffset(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}
