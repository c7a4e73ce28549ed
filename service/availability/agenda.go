package availability

import (
	"errors"
	"regexp"

	"github.com/viamonte/tourops-server/cmd/models"
)

// DefaultSlot seeds a day that is switched to available before any slots
// have been entered.
const DefaultSlot = "09:00-17:00"

var timeRangePattern = regexp.MustCompile(`^\d{2}:\d{2}-\d{2}:\d{2}$`)

var (
	ErrInvalidTimeRange    = errors.New("time range must match HH:MM-HH:MM")
	ErrSlotIndexOutOfRange = errors.New("slot index out of range")
)

// ValidTimeRange reports whether s is an HH:MM-HH:MM token. Only the shape
// is checked: start/end ordering and overlap between ranges are not
// enforced anywhere in the agenda.
func ValidTimeRange(s string) bool {
	return timeRangePattern.MatchString(s)
}

// ToggleAvailability flips a day between available and unavailable.
// Turning a day on seeds the default working slot; turning it off clears
// all slots, so the record can never end up available-but-empty or
// unavailable-with-slots through this path.
func ToggleAvailability(cur models.DayAvailability) models.DayAvailability {
	if cur.Available {
		return models.DayAvailability{Available: false, Slots: []string{}}
	}
	return models.DayAvailability{Available: true, Slots: []string{DefaultSlot}}
}

// AddTimeSlot appends slot to the day and marks it available. Slots keep
// insertion order; duplicates and overlaps are accepted silently.
func AddTimeSlot(cur models.DayAvailability, slot string) (models.DayAvailability, error) {
	if !ValidTimeRange(slot) {
		return cur, ErrInvalidTimeRange
	}
	slots := make([]string, 0, len(cur.Slots)+1)
	slots = append(slots, cur.Slots...)
	slots = append(slots, slot)
	return models.DayAvailability{Available: true, Slots: slots}, nil
}

// RemoveTimeSlot drops the slot at index, counting in insertion order.
// Removing the last remaining slot turns the whole day unavailable;
// otherwise the availability flag is left as it was.
func RemoveTimeSlot(cur models.DayAvailability, index int) (models.DayAvailability, error) {
	if index < 0 || index >= len(cur.Slots) {
		return cur, ErrSlotIndexOutOfRange
	}
	slots := make([]string, 0, len(cur.Slots)-1)
	slots = append(slots, cur.Slots[:index]...)
	slots = append(slots, cur.Slots[index+1:]...)
	return models.DayAvailability{Available: len(slots) > 0 && cur.Available, Slots: slots}, nil
}
