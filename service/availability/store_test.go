package availability

import (
	"reflect"
	"testing"

	"github.com/viamonte/tourops-server/cmd/models"
)

func TestMemoryStoreDefaultsUnwrittenDates(t *testing.T) {
	store := NewMemoryAgendaStore()

	day, err := store.GetAgenda(1, "2024-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day.Available {
		t.Error("unwritten date should read as unavailable")
	}
	if len(day.Slots) != 0 {
		t.Errorf("unwritten date should have no slots, got %v", day.Slots)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryAgendaStore()
	want := models.DayAvailability{Available: true, Slots: []string{"09:00-13:00", "15:00-18:00"}}

	if err := store.SetAgenda(7, "2024-06-10", want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetAgenda(7, "2024-06-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch: want %v, got %v", want, got)
	}

	// Other guides and dates are unaffected.
	other, _ := store.GetAgenda(8, "2024-06-10")
	if other.Available {
		t.Error("write must not leak to another guide")
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryAgendaStore()
	store.SetAgenda(1, "2024-06-10", models.DayAvailability{Available: true, Slots: []string{"09:00-17:00"}})

	day, _ := store.GetAgenda(1, "2024-06-10")
	day.Slots[0] = "00:00-00:00"

	again, _ := store.GetAgenda(1, "2024-06-10")
	if again.Slots[0] != "09:00-17:00" {
		t.Error("mutating a returned record must not touch the stored one")
	}
}

func TestMemoryStoreGetRange(t *testing.T) {
	store := NewMemoryAgendaStore()
	store.SetAgenda(1, "2024-06-11", models.DayAvailability{Available: true, Slots: []string{"09:00-17:00"}})

	days, err := store.GetRange(1, []string{"2024-06-10", "2024-06-11", "2024-06-12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected an entry per requested date, got %d", len(days))
	}
	if !days["2024-06-11"].Available {
		t.Error("written date missing from range")
	}
	if days["2024-06-10"].Available || days["2024-06-12"].Available {
		t.Error("unwritten dates should default to unavailable")
	}
}
