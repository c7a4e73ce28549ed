package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DayAvailability is one guide's schedule for a single date. Slots keep
// insertion order; an empty slot list means the guide is not available.
type DayAvailability struct {
	Available bool     `json:"available"`
	Slots     []string `json:"slots"`
}

// AgendaEntry is the persisted form of a DayAvailability. Entries are
// created lazily on first write; dates without an entry read back as
// {available:false, slots:[]}.
type AgendaEntry struct {
	gorm.Model
	GuideID   uint           `gorm:"column:guide_id;not null;uniqueIndex:idx_guide_date" json:"guide_id"`
	Date      string         `gorm:"column:date;size:10;not null;uniqueIndex:idx_guide_date" json:"date"`
	Available bool           `gorm:"column:available;default:false" json:"available"`
	Slots     pq.StringArray `gorm:"column:slots;type:text[]" json:"slots"`

	Guide *Guide `gorm:"foreignKey:GuideID" json:"-"`
}

func (AgendaEntry) TableName() string {
	return "agenda_entries"
}

func (e *AgendaEntry) Day() DayAvailability {
	slots := make([]string, len(e.Slots))
	copy(slots, e.Slots)
	return DayAvailability{Available: e.Available, Slots: slots}
}
