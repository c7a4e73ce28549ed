package availability

import (
	"errors"
	"reflect"
	"testing"

	"github.com/viamonte/tourops-server/cmd/models"
)

func TestToggleAvailabilityOn(t *testing.T) {
	day := ToggleAvailability(models.DayAvailability{Available: false, Slots: []string{}})

	if !day.Available {
		t.Error("toggling an unavailable day should make it available")
	}
	if !reflect.DeepEqual(day.Slots, []string{DefaultSlot}) {
		t.Errorf("expected seeded default slot, got %v", day.Slots)
	}
}

func TestToggleAvailabilityOff(t *testing.T) {
	day := ToggleAvailability(models.DayAvailability{
		Available: true,
		Slots:     []string{"08:00-10:00", "11:00-13:00"},
	})

	if day.Available {
		t.Error("toggling an available day should make it unavailable")
	}
	if len(day.Slots) != 0 {
		t.Errorf("toggling off should clear slots, got %v", day.Slots)
	}
}

func TestDoubleToggleReseedsSlots(t *testing.T) {
	start := models.DayAvailability{Available: false, Slots: []string{}}
	end := ToggleAvailability(ToggleAvailability(start))

	if end.Available != start.Available {
		t.Error("double toggle should restore the availability flag")
	}
	if len(end.Slots) != 0 {
		t.Errorf("double toggle from unavailable should end with no slots, got %v", end.Slots)
	}

	// From an edited available day the flag comes back but the edits do not.
	edited := models.DayAvailability{Available: true, Slots: []string{"07:00-08:00", "14:00-20:00"}}
	back := ToggleAvailability(ToggleAvailability(edited))
	if !back.Available {
		t.Error("double toggle should restore availability")
	}
	if !reflect.DeepEqual(back.Slots, []string{DefaultSlot}) {
		t.Errorf("double toggle should reseed the default slot, got %v", back.Slots)
	}
}

func TestAddTimeSlotAppends(t *testing.T) {
	current := models.DayAvailability{Available: true, Slots: []string{"08:00-09:00"}}

	day, err := AddTimeSlot(current, "09:00-13:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"08:00-09:00", "09:00-13:00"}
	if !reflect.DeepEqual(day.Slots, want) {
		t.Errorf("expected %v, got %v", want, day.Slots)
	}
	if !day.Available {
		t.Error("adding a slot should force the day available")
	}
}

func TestAddTimeSlotRejectsMalformed(t *testing.T) {
	current := models.DayAvailability{Available: true, Slots: []string{"08:00-09:00"}}

	for _, slot := range []string{"9:00-17:00", "09:00 - 17:00", "0900-1700", "", "09:00"} {
		day, err := AddTimeSlot(current, slot)
		if !errors.Is(err, ErrInvalidTimeRange) {
			t.Errorf("%q: expected ErrInvalidTimeRange, got %v", slot, err)
		}
		if !reflect.DeepEqual(day.Slots, current.Slots) {
			t.Errorf("%q: rejected slot must not mutate the record", slot)
		}
	}
}

func TestAddTimeSlotAllowsDuplicatesAndOverlaps(t *testing.T) {
	current := models.DayAvailability{Available: true, Slots: []string{"08:00-12:00"}}

	day, err := AddTimeSlot(current, "08:00-12:00")
	if err != nil {
		t.Fatalf("duplicate range should be accepted: %v", err)
	}
	day, err = AddTimeSlot(day, "10:00-11:00")
	if err != nil {
		t.Fatalf("overlapping range should be accepted: %v", err)
	}
	if len(day.Slots) != 3 {
		t.Errorf("expected 3 slots, got %v", day.Slots)
	}
}

func TestRemoveLastSlotForcesUnavailable(t *testing.T) {
	current := models.DayAvailability{Available: true, Slots: []string{"09:00-17:00"}}

	day, err := RemoveTimeSlot(current, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Available {
		t.Error("removing the last slot should force the day unavailable")
	}
	if len(day.Slots) != 0 {
		t.Errorf("expected no slots, got %v", day.Slots)
	}
}

func TestRemoveSlotKeepsAvailability(t *testing.T) {
	current := models.DayAvailability{
		Available: true,
		Slots:     []string{"08:00-09:00", "10:00-12:00", "14:00-16:00"},
	}

	day, err := RemoveTimeSlot(current, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"10:00-12:00", "14:00-16:00"}
	if !reflect.DeepEqual(day.Slots, want) {
		t.Errorf("index 0 should remove the first-added slot, got %v", day.Slots)
	}
	if !day.Available {
		t.Error("removing a non-last slot should leave the day available")
	}
}

func TestRemoveSlotOutOfRange(t *testing.T) {
	current := models.DayAvailability{Available: true, Slots: []string{"09:00-17:00"}}

	for _, index := range []int{-1, 1, 5} {
		day, err := RemoveTimeSlot(current, index)
		if !errors.Is(err, ErrSlotIndexOutOfRange) {
			t.Errorf("index %d: expected ErrSlotIndexOutOfRange, got %v", index, err)
		}
		if !reflect.DeepEqual(day.Slots, current.Slots) {
			t.Errorf("index %d: failed removal must not mutate the record", index)
		}
	}
}
