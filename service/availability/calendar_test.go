package availability

import (
	"reflect"
	"testing"
	"time"
)

func TestWeekDatesMidweekPivot(t *testing.T) {
	// 2024-06-12 is a Wednesday.
	dates, err := WeekDates("2024-06-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"2024-06-10", "2024-06-11", "2024-06-12", "2024-06-13",
		"2024-06-14", "2024-06-15", "2024-06-16",
	}
	if !reflect.DeepEqual(dates, want) {
		t.Errorf("expected %v, got %v", want, dates)
	}
}

func TestWeekDatesSundayPivot(t *testing.T) {
	// 2024-06-16 is a Sunday; its week still starts the preceding Monday.
	dates, err := WeekDates("2024-06-16")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dates[0] != "2024-06-10" {
		t.Errorf("expected week to start 2024-06-10, got %s", dates[0])
	}
	if dates[6] != "2024-06-16" {
		t.Errorf("expected week to end on the pivot, got %s", dates[6])
	}
}

func TestWeekDatesMondayPivot(t *testing.T) {
	dates, err := WeekDates("2024-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dates[0] != "2024-06-10" {
		t.Errorf("a Monday pivot should start its own week, got %s", dates[0])
	}
}

func TestMonthDatesGrid(t *testing.T) {
	// June 2024 starts on a Saturday; the grid backs up to Monday 2024-05-27.
	dates, err := MonthDates("2024-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dates) != 42 {
		t.Fatalf("expected 42 cells, got %d", len(dates))
	}
	if dates[0] != "2024-05-27" {
		t.Errorf("expected grid to start 2024-05-27, got %s", dates[0])
	}

	// Cells must be consecutive days.
	for i := 1; i < len(dates); i++ {
		prev, _ := time.Parse(isoDate, dates[i-1])
		cur, _ := time.Parse(isoDate, dates[i])
		if cur.Sub(prev) != 24*time.Hour {
			t.Fatalf("dates not consecutive at index %d: %s -> %s", i, dates[i-1], dates[i])
		}
	}
}

func TestMonthDatesSundayFirst(t *testing.T) {
	// September 2024 starts on a Sunday, the special case of the Monday
	// offset: the grid backs up six days to 2024-08-26.
	dates, err := MonthDates("2024-09-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dates[0] != "2024-08-26" {
		t.Errorf("expected grid to start 2024-08-26, got %s", dates[0])
	}
}

func TestMonthDatesMondayFirst(t *testing.T) {
	// July 2024 starts on a Monday; no leading days from June.
	dates, err := MonthDates("2024-07-20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dates[0] != "2024-07-01" {
		t.Errorf("expected grid to start 2024-07-01, got %s", dates[0])
	}
}

func TestGeneratorsRejectBadPivot(t *testing.T) {
	if _, err := WeekDates("12-06-2024"); err == nil {
		t.Error("WeekDates should reject non-ISO pivots")
	}
	if _, err := MonthDates("2024-6-15"); err == nil {
		t.Error("MonthDates should reject non-ISO pivots")
	}
}

func TestGeneratorsAreDeterministic(t *testing.T) {
	a, _ := MonthDates("2024-06-15")
	b, _ := MonthDates("2024-06-15")
	if !reflect.DeepEqual(a, b) {
		t.Error("same pivot must always yield the same sequence")
	}
}
