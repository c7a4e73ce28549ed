package api

import (
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/viamonte/tourops-server/service/availability"
	"github.com/viamonte/tourops-server/service/dashboard"
	"github.com/viamonte/tourops-server/service/emergency"
	"github.com/viamonte/tourops-server/service/guide"
	"github.com/viamonte/tourops-server/service/live"
	"github.com/viamonte/tourops-server/service/notification"
	"github.com/viamonte/tourops-server/service/reservation"
	"github.com/viamonte/tourops-server/service/tour"
	"github.com/viamonte/tourops-server/service/user"
	"github.com/viamonte/tourops-server/service/vehicle"
	"gorm.io/gorm"
)

type APIServer struct {
	address string
	db      *gorm.DB
}

func NewApiServer(address string, db *gorm.DB) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
	}
}

func (s *APIServer) Run() error {
	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api/v1").Subrouter()

	hub := live.NewHub()
	agendaStore := availability.NewGormAgendaStore(s.db)

	userHandler := user.NewHandler(s.db)
	userHandler.RegisterRoutes(subrouter)

	guideHandler := guide.NewGuideHandler(s.db)
	guideHandler.RegisterRoutes(subrouter)

	availabilityHandler := availability.NewAvailabilityHandler(s.db, agendaStore, hub)
	availabilityHandler.RegisterRoutes(subrouter)

	vehicleHandler := vehicle.NewVehicleHandler(s.db)
	vehicleHandler.RegisterRoutes(subrouter)

	tourHandler := tour.NewTourHandler(s.db)
	tourHandler.RegisterRoutes(subrouter)

	reservationHandler := reservation.NewReservationHandler(s.db)
	reservationHandler.RegisterRoutes(subrouter)

	notificationHandler := notification.NewNotificationHandler(s.db)
	notificationHandler.RegisterRoutes(subrouter)

	emergencyHandler := emergency.NewEmergencyHandler(s.db, notificationHandler)
	emergencyHandler.RegisterRoutes(subrouter)

	dashboardHandler := dashboard.NewDashboardHandler(s.db)
	dashboardHandler.RegisterRoutes(subrouter)

	liveHandler := live.NewHandler(hub)
	liveHandler.RegisterRoutes(router)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Println("Server running at", s.address)
	return http.ListenAndServe(s.address, cors(router))
}
