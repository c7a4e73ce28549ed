package tour

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/viamonte/tourops-server/cmd/models"
	"gorm.io/gorm"
)

type TourHandler struct {
	db *gorm.DB
}

func NewTourHandler(db *gorm.DB) *TourHandler {
	return &TourHandler{db: db}
}

func (h *TourHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/services", h.CreateService).Methods("POST")
	router.HandleFunc("/services", h.GetServices).Methods("GET")
	router.HandleFunc("/services/{id}", h.GetService).Methods("GET")
	router.HandleFunc("/services/{id}", h.UpdateService).Methods("PUT")
	router.HandleFunc("/services/{id}", h.DeleteService).Methods("DELETE")
}

func (h *TourHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var service models.TourService
	if err := json.NewDecoder(r.Body).Decode(&service); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if service.Name == "" {
		http.Error(w, "Service name is required", http.StatusBadRequest)
		return
	}
	if service.DurationMinutes <= 0 {
		http.Error(w, "Service duration must be positive", http.StatusBadRequest)
		return
	}
	if service.BasePrice < 0 {
		http.Error(w, "Service price cannot be negative", http.StatusBadRequest)
		return
	}

	if err := h.db.Create(&service).Error; err != nil {
		http.Error(w, "Error creating service", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(service)
}

func (h *TourHandler) GetServices(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 20

	query := h.db.Model(&models.TourService{})

	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if active := r.URL.Query().Get("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}
	if search := r.URL.Query().Get("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var services []models.TourService
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("name ASC").Find(&services).Error; err != nil {
		http.Error(w, "Error retrieving services", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"services":    services,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func (h *TourHandler) GetService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid service ID", http.StatusBadRequest)
		return
	}

	var service models.TourService
	if err := h.db.First(&service, id).Error; err != nil {
		http.Error(w, "Service not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(service)
}

func (h *TourHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid service ID", http.StatusBadRequest)
		return
	}

	var updateData models.TourService
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var service models.TourService
	if err := h.db.First(&service, id).Error; err != nil {
		http.Error(w, "Service not found", http.StatusNotFound)
		return
	}

	service.Name = updateData.Name
	service.Description = updateData.Description
	service.Category = updateData.Category
	service.DurationMinutes = updateData.DurationMinutes
	service.BasePrice = updateData.BasePrice
	service.Museums = updateData.Museums
	service.Active = updateData.Active

	if err := h.db.Save(&service).Error; err != nil {
		http.Error(w, "Error updating service", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(service)
}

func (h *TourHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid service ID", http.StatusBadRequest)
		return
	}

	result := h.db.Delete(&models.TourService{}, id)
	if result.Error != nil {
		http.Error(w, "Error deleting service", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Service not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Service deleted successfully",
	})
}
