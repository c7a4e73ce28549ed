package availability

import (
	"errors"
	"sync"

	"github.com/lib/pq"
	"github.com/viamonte/tourops-server/cmd/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AgendaStore owns the per-guide day records. Reads never fail on unknown
// guides or unwritten dates: they come back as the unavailable default.
// Writes for unknown guide IDs are accepted as-is; guide existence is the
// HTTP layer's concern.
type AgendaStore interface {
	GetAgenda(guideID uint, date string) (models.DayAvailability, error)
	SetAgenda(guideID uint, date string, day models.DayAvailability) error
	GetRange(guideID uint, dates []string) (map[string]models.DayAvailability, error)
}

func defaultDay() models.DayAvailability {
	return models.DayAvailability{Available: false, Slots: []string{}}
}

type GormAgendaStore struct {
	db *gorm.DB
}

func NewGormAgendaStore(db *gorm.DB) *GormAgendaStore {
	return &GormAgendaStore{db: db}
}

func (s *GormAgendaStore) GetAgenda(guideID uint, date string) (models.DayAvailability, error) {
	var entry models.AgendaEntry
	err := s.db.Where("guide_id = ? AND date = ?", guideID, date).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultDay(), nil
	}
	if err != nil {
		return defaultDay(), err
	}
	return entry.Day(), nil
}

func (s *GormAgendaStore) SetAgenda(guideID uint, date string, day models.DayAvailability) error {
	entry := models.AgendaEntry{
		GuideID:   guideID,
		Date:      date,
		Available: day.Available,
		Slots:     pq.StringArray(day.Slots),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guide_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"available", "slots", "updated_at"}),
	}).Create(&entry).Error
}

func (s *GormAgendaStore) GetRange(guideID uint, dates []string) (map[string]models.DayAvailability, error) {
	var entries []models.AgendaEntry
	if err := s.db.Where("guide_id = ? AND date IN ?", guideID, dates).Find(&entries).Error; err != nil {
		return nil, err
	}
	days := make(map[string]models.DayAvailability, len(dates))
	for _, d := range dates {
		days[d] = defaultDay()
	}
	for i := range entries {
		days[entries[i].Date] = entries[i].Day()
	}
	return days, nil
}

// MemoryAgendaStore keeps agendas in process memory. It backs tests and
// database-less demo runs.
type MemoryAgendaStore struct {
	mu     sync.RWMutex
	guides map[uint]map[string]models.DayAvailability
}

func NewMemoryAgendaStore() *MemoryAgendaStore {
	return &MemoryAgendaStore{guides: make(map[uint]map[string]models.DayAvailability)}
}

func (s *MemoryAgendaStore) GetAgenda(guideID uint, date string) (models.DayAvailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if day, ok := s.guides[guideID][date]; ok {
		return copyDay(day), nil
	}
	return defaultDay(), nil
}

func (s *MemoryAgendaStore) SetAgenda(guideID uint, date string, day models.DayAvailability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	agenda, ok := s.guides[guideID]
	if !ok {
		agenda = make(map[string]models.DayAvailability)
		s.guides[guideID] = agenda
	}
	agenda[date] = copyDay(day)
	return nil
}

func (s *MemoryAgendaStore) GetRange(guideID uint, dates []string) (map[string]models.DayAvailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	days := make(map[string]models.DayAvailability, len(dates))
	for _, d := range dates {
		if day, ok := s.guides[guideID][d]; ok {
			days[d] = copyDay(day)
		} else {
			days[d] = defaultDay()
		}
	}
	return days, nil
}

func copyDay(day models.DayAvailability) models.DayAvailability {
	slots := make([]string, len(day.Slots))
	copy(slots, day.Slots)
	return models.DayAvailability{Available: day.Available, Slots: slots}
}
