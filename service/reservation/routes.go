package reservation

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/viamonte/tourops-server/cmd/models"
	"github.com/viamonte/tourops-server/service/availability"
	"gorm.io/gorm"
)

type ReservationHandler struct {
	db *gorm.DB
}

func NewReservationHandler(db *gorm.DB) *ReservationHandler {
	return &ReservationHandler{db: db}
}

func (h *ReservationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reservations", h.CreateReservation).Methods("POST")
	router.HandleFunc("/reservations", h.GetReservations).Methods("GET")
	router.HandleFunc("/reservations/{id}", h.GetReservation).Methods("GET")
	router.HandleFunc("/reservations/{id}", h.UpdateReservation).Methods("PUT")
	router.HandleFunc("/reservations/{id}/status", h.UpdateStatus).Methods("PATCH")
	router.HandleFunc("/reservations/{id}/assign", h.AssignResources).Methods("PATCH")
	router.HandleFunc("/reservations/guide/{guideId}", h.GetGuideReservations).Methods("GET")
}

func validReservationStatus(status string) bool {
	switch status {
	case models.ReservationPending, models.ReservationConfirmed,
		models.ReservationCancelled, models.ReservationCompleted:
		return true
	}
	return false
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var reservation models.Reservation
	if err := json.NewDecoder(r.Body).Decode(&reservation); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if reservation.ClientName == "" {
		http.Error(w, "Client name is required", http.StatusBadRequest)
		return
	}
	if !availability.ValidTimeRange(reservation.TimeRange) {
		http.Error(w, "Time range must match HH:MM-HH:MM", http.StatusBadRequest)
		return
	}
	if reservation.PartySize < 1 {
		reservation.PartySize = 1
	}

	tx := h.db.Begin()

	var service models.TourService
	if err := tx.First(&service, reservation.TourServiceID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Tour service not found", http.StatusNotFound)
		return
	}

	if reservation.GuideID != nil {
		var guide models.Guide
		if err := tx.First(&guide, *reservation.GuideID).Error; err != nil {
			tx.Rollback()
			http.Error(w, "Guide not found", http.StatusNotFound)
			return
		}
	}
	if reservation.VehicleID != nil {
		var vehicle models.Vehicle
		if err := tx.First(&vehicle, *reservation.VehicleID).Error; err != nil {
			tx.Rollback()
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
	}

	reservation.Reference = uuid.New().String()
	if reservation.Status == "" {
		reservation.Status = models.ReservationPending
	}
	if reservation.Price == 0 {
		reservation.Price = service.BasePrice
	}

	if err := tx.Create(&reservation).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error creating reservation", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error completing reservation", http.StatusInternalServerError)
		return
	}

	h.db.Preload("TourService").Preload("Guide").Preload("Vehicle").First(&reservation, reservation.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(reservation)
}

func (h *ReservationHandler) GetReservations(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 50

	query := h.db.Model(&models.Reservation{}).
		Preload("TourService").Preload("Guide").Preload("Vehicle")

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := r.URL.Query().Get("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if from := r.URL.Query().Get("start_date"); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := r.URL.Query().Get("end_date"); to != "" {
		query = query.Where("date <= ?", to)
	}
	if reference := r.URL.Query().Get("reference"); reference != "" {
		query = query.Where("reference = ?", reference)
	}

	var total int64
	query.Count(&total)

	var reservations []models.Reservation
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("date DESC, time_range DESC").Find(&reservations).Error; err != nil {
		http.Error(w, "Error retrieving reservations", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reservations": reservations,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
		"total_pages":  (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid reservation ID", http.StatusBadRequest)
		return
	}

	var reservation models.Reservation
	if err := h.db.Preload("TourService").Preload("Guide").Preload("Vehicle").
		First(&reservation, id).Error; err != nil {
		http.Error(w, "Reservation not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reservation)
}

func (h *ReservationHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid reservation ID", http.StatusBadRequest)
		return
	}

	var updateData models.Reservation
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var reservation models.Reservation
	if err := h.db.First(&reservation, id).Error; err != nil {
		http.Error(w, "Reservation not found", http.StatusNotFound)
		return
	}

	if updateData.TimeRange != "" && !availability.ValidTimeRange(updateData.TimeRange) {
		http.Error(w, "Time range must match HH:MM-HH:MM", http.StatusBadRequest)
		return
	}

	reservation.ClientName = updateData.ClientName
	reservation.ClientEmail = updateData.ClientEmail
	reservation.ClientPhone = updateData.ClientPhone
	reservation.Date = updateData.Date
	if updateData.TimeRange != "" {
		reservation.TimeRange = updateData.TimeRange
	}
	reservation.PartySize = updateData.PartySize
	reservation.Price = updateData.Price
	reservation.Notes = updateData.Notes

	if err := h.db.Save(&reservation).Error; err != nil {
		http.Error(w, "Error updating reservation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reservation)
}

func (h *ReservationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid reservation ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !validReservationStatus(body.Status) {
		http.Error(w, "Invalid reservation status", http.StatusBadRequest)
		return
	}

	var reservation models.Reservation
	if err := h.db.First(&reservation, id).Error; err != nil {
		http.Error(w, "Reservation not found", http.StatusNotFound)
		return
	}

	// Completed and cancelled are terminal.
	if reservation.Status == models.ReservationCompleted ||
		reservation.Status == models.ReservationCancelled {
		http.Error(w, "Reservation is already closed", http.StatusConflict)
		return
	}

	reservation.Status = body.Status
	if err := h.db.Save(&reservation).Error; err != nil {
		http.Error(w, "Error updating reservation status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reservation)
}

// AssignResources sets or replaces the guide and vehicle for a reservation.
func (h *ReservationHandler) AssignResources(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid reservation ID", http.StatusBadRequest)
		return
	}

	var body struct {
		GuideID   *uint `json:"guide_id"`
		VehicleID *uint `json:"vehicle_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var reservation models.Reservation
	if err := h.db.First(&reservation, id).Error; err != nil {
		http.Error(w, "Reservation not found", http.StatusNotFound)
		return
	}

	if body.GuideID != nil {
		var guide models.Guide
		if err := h.db.First(&guide, *body.GuideID).Error; err != nil {
			http.Error(w, "Guide not found", http.StatusNotFound)
			return
		}
		reservation.GuideID = body.GuideID
	}
	if body.VehicleID != nil {
		var vehicle models.Vehicle
		if err := h.db.First(&vehicle, *body.VehicleID).Error; err != nil {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
		if vehicle.Status != models.VehicleStatusActive {
			http.Error(w, "Vehicle is not in service", http.StatusConflict)
			return
		}
		reservation.VehicleID = body.VehicleID
	}

	if err := h.db.Save(&reservation).Error; err != nil {
		http.Error(w, "Error assigning resources", http.StatusInternalServerError)
		return
	}

	h.db.Preload("TourService").Preload("Guide").Preload("Vehicle").First(&reservation, reservation.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reservation)
}

func (h *ReservationHandler) GetGuideReservations(w http.ResponseWriter, r *http.Request) {
	guideID, err := strconv.ParseUint(mux.Vars(r)["guideId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid guide ID", http.StatusBadRequest)
		return
	}

	query := h.db.Model(&models.Reservation{}).Preload("TourService").
		Where("guide_id = ?", guideID)

	if date := r.URL.Query().Get("date"); date != "" {
		query = query.Where("date = ?", date)
	}

	var reservations []models.Reservation
	if err := query.Order("date ASC, time_range ASC").Find(&reservations).Error; err != nil {
		http.Error(w, "Error retrieving reservations", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reservations)
}
