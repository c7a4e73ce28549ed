package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/viamonte/tourops-server/cmd/models"
	"github.com/viamonte/tourops-server/cmd/utils"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

type DashboardStats struct {
	StaffGuides       int64 `json:"staff_guides"`
	FreelanceGuides   int64 `json:"freelance_guides"`
	ActiveVehicles    int64 `json:"active_vehicles"`
	ActiveServices    int64 `json:"active_services"`
	ReservationsToday int64 `json:"reservations_today"`
	PendingConfirm    int64 `json:"pending_reservations"`
	ActiveProtocols   int64 `json:"active_protocols"`
}

func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	dashboardRouter := router.PathPrefix("/dashboard").Subrouter()
	dashboardRouter.HandleFunc("/stats", utils.AuthMiddleware(h.GetDashboardStats)).Methods("GET")
}

func (h *DashboardHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats
	today := time.Now().Format("2006-01-02")

	h.db.Model(&models.Guide{}).Where("type = ? AND active = ?", models.GuideTypeStaff, true).Count(&stats.StaffGuides)
	h.db.Model(&models.Guide{}).Where("type = ? AND active = ?", models.GuideTypeFreelance, true).Count(&stats.FreelanceGuides)
	h.db.Model(&models.Vehicle{}).Where("status = ?", models.VehicleStatusActive).Count(&stats.ActiveVehicles)
	h.db.Model(&models.TourService{}).Where("active = ?", true).Count(&stats.ActiveServices)
	h.db.Model(&models.Reservation{}).
		Where("date = ? AND status NOT IN ?", today, []string{models.ReservationCancelled}).
		Count(&stats.ReservationsToday)
	h.db.Model(&models.Reservation{}).Where("status = ?", models.ReservationPending).Count(&stats.PendingConfirm)
	h.db.Model(&models.EmergencyProtocol{}).Where("active = ?", true).Count(&stats.ActiveProtocols)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
