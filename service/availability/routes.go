package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/viamonte/tourops-server/cmd/models"
	"github.com/viamonte/tourops-server/service/live"
	"gorm.io/gorm"
)

type AvailabilityHandler struct {
	db    *gorm.DB
	store AgendaStore
	hub   *live.Hub
}

func NewAvailabilityHandler(db *gorm.DB, store AgendaStore, hub *live.Hub) *AvailabilityHandler {
	return &AvailabilityHandler{db: db, store: store, hub: hub}
}

func (h *AvailabilityHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/guides/{guideId}/agenda/week/{date}", h.WeekView).Methods("GET")
	router.HandleFunc("/guides/{guideId}/agenda/month/{date}", h.MonthView).Methods("GET")
	router.HandleFunc("/guides/{guideId}/agenda/{date}", h.GetDay).Methods("GET")
	router.HandleFunc("/guides/{guideId}/agenda/{date}", h.PutDay).Methods("PUT")
	router.HandleFunc("/guides/{guideId}/agenda/{date}/toggle", h.ToggleDay).Methods("POST")
	router.HandleFunc("/guides/{guideId}/agenda/{date}/slots", h.AddSlot).Methods("POST")
	router.HandleFunc("/guides/{guideId}/agenda/{date}/slots/{index}", h.RemoveSlot).Methods("DELETE")
	router.HandleFunc("/agenda/daily/{date}", h.DailySummary).Methods("GET")
}

func parseGuideAndDate(r *http.Request) (uint, string, error) {
	vars := mux.Vars(r)
	guideID, err := strconv.ParseUint(vars["guideId"], 10, 64)
	if err != nil {
		return 0, "", errors.New("invalid guide ID")
	}
	date := vars["date"]
	if _, err := time.Parse(isoDate, date); err != nil {
		return 0, "", errors.New("invalid date format, use YYYY-MM-DD")
	}
	return uint(guideID), date, nil
}

// updateDay is the single mutation funnel: every agenda write lands here,
// so persistence and the live broadcast can never get out of step.
func (h *AvailabilityHandler) updateDay(guideID uint, date string, day models.DayAvailability) error {
	if err := h.store.SetAgenda(guideID, date, day); err != nil {
		return err
	}
	if h.hub != nil {
		h.hub.BroadcastAgendaUpdate(guideID, date, day)
	}
	return nil
}

func (h *AvailabilityHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	guideID, date, err := parseGuideAndDate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	day, err := h.store.GetAgenda(guideID, date)
	if err != nil {
		http.Error(w, "Error retrieving agenda", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(day)
}

func (h *AvailabilityHandler) PutDay(w http.ResponseWriter, r *http.Request) {
	guideID, date, err := parseGuideAndDate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var day models.DayAvailability
	if err := json.NewDecoder(r.Body).Decode(&day); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	for _, slot := range day.Slots {
		if !ValidTimeRange(slot) {
			http.Error(w, ErrInvalidTimeRange.Error(), http.StatusUnprocessableEntity)
			return
		}
	}
	if day.Slots == nil {
		day.Slots = []string{}
	}

	if err := h.updateDay(guideID, date, day); err != nil {
		http.Error(w, "Error saving agenda", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(day)
}

func (h *AvailabilityHandler) ToggleDay(w http.ResponseWriter, r *http.Request) {
	guideID, date, err := parseGuideAndDate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	current, err := h.store.GetAgenda(guideID, date)
	if err != nil {
		http.Error(w, "Error retrieving agenda", http.StatusInternalServerError)
		return
	}

	day := ToggleAvailability(current)
	if err := h.updateDay(guideID, date, day); err != nil {
		http.Error(w, "Error saving agenda", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(day)
}

func (h *AvailabilityHandler) AddSlot(w http.ResponseWriter, r *http.Request) {
	guideID, date, err := parseGuideAndDate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var body struct {
		Slot string `json:"slot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	current, err := h.store.GetAgenda(guideID, date)
	if err != nil {
		http.Error(w, "Error retrieving agenda", http.StatusInternalServerError)
		return
	}

	day, err := AddTimeSlot(current, body.Slot)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := h.updateDay(guideID, date, day); err != nil {
		http.Error(w, "Error saving agenda", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(day)
}

func (h *AvailabilityHandler) RemoveSlot(w http.ResponseWriter, r *http.Request) {
	guideID, date, err := parseGuideAndDate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "Invalid slot index", http.StatusBadRequest)
		return
	}

	current, err := h.store.GetAgenda(guideID, date)
	if err != nil {
		http.Error(w, "Error retrieving agenda", http.StatusInternalServerError)
		return
	}

	day, err := RemoveTimeSlot(current, index)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err := h.updateDay(guideID, date, day); err != nil {
		http.Error(w, "Error saving agenda", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(day)
}

func (h *AvailabilityHandler) WeekView(w http.ResponseWriter, r *http.Request) {
	h.rangeView(w, r, WeekDates)
}

func (h *AvailabilityHandler) MonthView(w http.ResponseWriter, r *http.Request) {
	h.rangeView(w, r, MonthDates)
}

func (h *AvailabilityHandler) rangeView(w http.ResponseWriter, r *http.Request, gen func(string) ([]string, error)) {
	guideID, date, err := parseGuideAndDate(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dates, err := gen(date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	days, err := h.store.GetRange(guideID, dates)
	if err != nil {
		http.Error(w, "Error retrieving agenda", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"dates": dates,
		"days":  days,
	})
}

// GuideDailySummary is one row of the freelance day-board: who could work a
// given date, what they speak, and how long they are already committed.
type GuideDailySummary struct {
	GuideID        uint     `json:"guide_id"`
	Name           string   `json:"name"`
	Tags           []string `json:"tags"`
	Available      bool     `json:"available"`
	AvailableSlots int      `json:"available_slots"`
	BusyUntil      string   `json:"busy_until,omitempty"`
}

func (h *AvailabilityHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if _, err := time.Parse(isoDate, date); err != nil {
		http.Error(w, "Invalid date format, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	var guides []models.Guide
	if err := h.db.Where("type = ? AND active = ?", models.GuideTypeFreelance, true).
		Order("name ASC").Find(&guides).Error; err != nil {
		http.Error(w, "Error retrieving guides", http.StatusInternalServerError)
		return
	}

	summaries := make([]GuideDailySummary, 0, len(guides))
	for _, guide := range guides {
		day, err := h.store.GetAgenda(guide.ID, date)
		if err != nil {
			http.Error(w, "Error retrieving agenda", http.StatusInternalServerError)
			return
		}

		tags := make([]string, 0, len(guide.Languages)+2)
		tags = append(tags, guide.Languages...)
		for i, museum := range guide.Museums {
			if i == 2 {
				break
			}
			tags = append(tags, museum)
		}

		summaries = append(summaries, GuideDailySummary{
			GuideID:        guide.ID,
			Name:           guide.Name,
			Tags:           tags,
			Available:      day.Available,
			AvailableSlots: len(day.Slots),
			BusyUntil:      h.busyUntil(guide.ID, date),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"date":   date,
		"guides": summaries,
	})
}

// busyUntil reports the end of the guide's first commitment of the day, or
// "" when the guide has no live reservation on that date.
func (h *AvailabilityHandler) busyUntil(guideID uint, date string) string {
	var reservation models.Reservation
	err := h.db.Where("guide_id = ? AND date = ? AND status NOT IN ?",
		guideID, date, []string{models.ReservationCancelled}).
		Order("time_range ASC").First(&reservation).Error
	if err != nil {
		return ""
	}
	parts := strings.SplitN(reservation.TimeRange, "-", 2)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
