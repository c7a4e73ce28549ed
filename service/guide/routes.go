package guide

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/viamonte/tourops-server/cmd/models"
	"gorm.io/gorm"
)

type GuideHandler struct {
	db *gorm.DB
}

func NewGuideHandler(db *gorm.DB) *GuideHandler {
	return &GuideHandler{db: db}
}

func (h *GuideHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/guides", h.CreateGuide).Methods("POST")
	router.HandleFunc("/guides", h.GetGuides).Methods("GET")
	router.HandleFunc("/guides/{id}", h.GetGuide).Methods("GET")
	router.HandleFunc("/guides/{id}", h.UpdateGuide).Methods("PUT")
	router.HandleFunc("/guides/{id}", h.DeleteGuide).Methods("DELETE")
}

func (h *GuideHandler) CreateGuide(w http.ResponseWriter, r *http.Request) {
	var guide models.Guide
	if err := json.NewDecoder(r.Body).Decode(&guide); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if guide.Name == "" {
		http.Error(w, "Guide name is required", http.StatusBadRequest)
		return
	}
	if guide.Type != models.GuideTypeStaff && guide.Type != models.GuideTypeFreelance {
		http.Error(w, "Guide type must be staff or freelance", http.StatusBadRequest)
		return
	}

	if err := h.db.Create(&guide).Error; err != nil {
		http.Error(w, "Error creating guide", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(guide)
}

func (h *GuideHandler) GetGuides(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 20

	query := h.db.Model(&models.Guide{})

	if guideType := r.URL.Query().Get("type"); guideType != "" {
		query = query.Where("type = ?", guideType)
	}
	if language := r.URL.Query().Get("language"); language != "" {
		query = query.Where("? = ANY(languages)", language)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if active := r.URL.Query().Get("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	var total int64
	query.Count(&total)

	var guides []models.Guide
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("name ASC").Find(&guides).Error; err != nil {
		http.Error(w, "Error retrieving guides", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"guides":      guides,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func (h *GuideHandler) GetGuide(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid guide ID", http.StatusBadRequest)
		return
	}

	var guide models.Guide
	if err := h.db.First(&guide, id).Error; err != nil {
		http.Error(w, "Guide not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(guide)
}

func (h *GuideHandler) UpdateGuide(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid guide ID", http.StatusBadRequest)
		return
	}

	var updateData models.Guide
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var guide models.Guide
	if err := h.db.First(&guide, id).Error; err != nil {
		http.Error(w, "Guide not found", http.StatusNotFound)
		return
	}

	if updateData.Type != "" &&
		updateData.Type != models.GuideTypeStaff && updateData.Type != models.GuideTypeFreelance {
		http.Error(w, "Guide type must be staff or freelance", http.StatusBadRequest)
		return
	}

	guide.Name = updateData.Name
	guide.Email = updateData.Email
	guide.Phone = updateData.Phone
	if updateData.Type != "" {
		guide.Type = updateData.Type
	}
	guide.Languages = updateData.Languages
	guide.Museums = updateData.Museums
	guide.Notes = updateData.Notes
	guide.Active = updateData.Active

	if err := h.db.Save(&guide).Error; err != nil {
		http.Error(w, "Error updating guide", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(guide)
}

func (h *GuideHandler) DeleteGuide(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid guide ID", http.StatusBadRequest)
		return
	}

	result := h.db.Delete(&models.Guide{}, id)
	if result.Error != nil {
		http.Error(w, "Error deleting guide", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Guide not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Guide deleted successfully",
	})
}
