package vehicle

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/viamonte/tourops-server/cmd/models"
	"gorm.io/gorm"
)

type VehicleHandler struct {
	db *gorm.DB
}

func NewVehicleHandler(db *gorm.DB) *VehicleHandler {
	return &VehicleHandler{db: db}
}

func (h *VehicleHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/vehicles", h.CreateVehicle).Methods("POST")
	router.HandleFunc("/vehicles", h.GetVehicles).Methods("GET")
	router.HandleFunc("/vehicles/{id}", h.GetVehicle).Methods("GET")
	router.HandleFunc("/vehicles/{id}", h.UpdateVehicle).Methods("PUT")
	router.HandleFunc("/vehicles/{id}", h.DeleteVehicle).Methods("DELETE")
	router.HandleFunc("/vehicles/{id}/status", h.UpdateStatus).Methods("PATCH")
}

func validStatus(status string) bool {
	switch status {
	case models.VehicleStatusActive, models.VehicleStatusMaintenance, models.VehicleStatusRetired:
		return true
	}
	return false
}

func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var vehicle models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if vehicle.Plate == "" {
		http.Error(w, "Vehicle plate is required", http.StatusBadRequest)
		return
	}
	if vehicle.Seats <= 0 {
		http.Error(w, "Vehicle seats must be positive", http.StatusBadRequest)
		return
	}
	if vehicle.Status == "" {
		vehicle.Status = models.VehicleStatusActive
	}
	if !validStatus(vehicle.Status) {
		http.Error(w, "Invalid vehicle status", http.StatusBadRequest)
		return
	}

	if err := h.db.Create(&vehicle).Error; err != nil {
		http.Error(w, "Error creating vehicle", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(vehicle)
}

func (h *VehicleHandler) GetVehicles(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 20

	query := h.db.Model(&models.Vehicle{})

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if minSeats := r.URL.Query().Get("min_seats"); minSeats != "" {
		query = query.Where("seats >= ?", minSeats)
	}

	var total int64
	query.Count(&total)

	var vehicles []models.Vehicle
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("plate ASC").Find(&vehicles).Error; err != nil {
		http.Error(w, "Error retrieving vehicles", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"vehicles":    vehicles,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	if err := h.db.First(&vehicle, id).Error; err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}

	var updateData models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	if err := h.db.First(&vehicle, id).Error; err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	if updateData.Status != "" && !validStatus(updateData.Status) {
		http.Error(w, "Invalid vehicle status", http.StatusBadRequest)
		return
	}

	vehicle.Plate = updateData.Plate
	vehicle.Make = updateData.Make
	vehicle.VehicleModel = updateData.VehicleModel
	vehicle.Seats = updateData.Seats
	if updateData.Status != "" {
		vehicle.Status = updateData.Status
	}
	vehicle.InsuranceExpiry = updateData.InsuranceExpiry
	vehicle.Notes = updateData.Notes

	if err := h.db.Save(&vehicle).Error; err != nil {
		http.Error(w, "Error updating vehicle", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

func (h *VehicleHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !validStatus(body.Status) {
		http.Error(w, "Invalid vehicle status", http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	if err := h.db.First(&vehicle, id).Error; err != nil {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	vehicle.Status = body.Status
	if err := h.db.Save(&vehicle).Error; err != nil {
		http.Error(w, "Error updating vehicle status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicle)
}

func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid vehicle ID", http.StatusBadRequest)
		return
	}

	result := h.db.Delete(&models.Vehicle{}, id)
	if result.Error != nil {
		http.Error(w, "Error deleting vehicle", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Vehicle deleted successfully",
	})
}
