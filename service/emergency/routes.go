package emergency

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/viamonte/tourops-server/cmd/models"
	"github.com/viamonte/tourops-server/cmd/utils"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// Broadcaster pushes an alert to registered back-office devices.
type Broadcaster interface {
	Broadcast(title, body string, data map[string]interface{}) (int, error)
}

type EmergencyHandler struct {
	db     *gorm.DB
	pusher Broadcaster
}

func NewEmergencyHandler(db *gorm.DB, pusher Broadcaster) *EmergencyHandler {
	return &EmergencyHandler{db: db, pusher: pusher}
}

func (h *EmergencyHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/emergency/protocols", h.CreateProtocol).Methods("POST")
	router.HandleFunc("/emergency/protocols", h.GetProtocols).Methods("GET")
	router.HandleFunc("/emergency/protocols/{id}", h.GetProtocol).Methods("GET")
	router.HandleFunc("/emergency/protocols/{id}", h.UpdateProtocol).Methods("PUT")
	router.HandleFunc("/emergency/protocols/{id}", h.DeleteProtocol).Methods("DELETE")
	router.HandleFunc("/emergency/protocols/{id}/activate", utils.AuthMiddleware(h.ActivateProtocol)).Methods("POST")
	router.HandleFunc("/emergency/activations", h.GetActivations).Methods("GET")
}

func validSeverity(severity string) bool {
	switch severity {
	case "low", "medium", "high", "critical":
		return true
	}
	return false
}

func (h *EmergencyHandler) CreateProtocol(w http.ResponseWriter, r *http.Request) {
	var protocol models.EmergencyProtocol
	if err := json.NewDecoder(r.Body).Decode(&protocol); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if protocol.Title == "" || protocol.Category == "" {
		http.Error(w, "Title and category are required", http.StatusBadRequest)
		return
	}
	if len(protocol.Steps) == 0 {
		http.Error(w, "At least one step is required", http.StatusBadRequest)
		return
	}
	if protocol.Severity == "" {
		protocol.Severity = "medium"
	}
	if !validSeverity(protocol.Severity) {
		http.Error(w, "Severity must be low, medium, high or critical", http.StatusBadRequest)
		return
	}

	if err := h.db.Create(&protocol).Error; err != nil {
		http.Error(w, "Error creating protocol", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(protocol)
}

func (h *EmergencyHandler) GetProtocols(w http.ResponseWriter, r *http.Request) {
	query := h.db.Model(&models.EmergencyProtocol{})

	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if severity := r.URL.Query().Get("severity"); severity != "" {
		query = query.Where("severity = ?", severity)
	}
	if active := r.URL.Query().Get("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	var protocols []models.EmergencyProtocol
	if err := query.Order("severity DESC, title ASC").Find(&protocols).Error; err != nil {
		http.Error(w, "Error retrieving protocols", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(protocols)
}

func (h *EmergencyHandler) GetProtocol(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid protocol ID", http.StatusBadRequest)
		return
	}

	var protocol models.EmergencyProtocol
	if err := h.db.First(&protocol, id).Error; err != nil {
		http.Error(w, "Protocol not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(protocol)
}

func (h *EmergencyHandler) UpdateProtocol(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid protocol ID", http.StatusBadRequest)
		return
	}

	var updateData models.EmergencyProtocol
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var protocol models.EmergencyProtocol
	if err := h.db.First(&protocol, id).Error; err != nil {
		http.Error(w, "Protocol not found", http.StatusNotFound)
		return
	}

	if updateData.Severity != "" && !validSeverity(updateData.Severity) {
		http.Error(w, "Severity must be low, medium, high or critical", http.StatusBadRequest)
		return
	}

	protocol.Title = updateData.Title
	protocol.Category = updateData.Category
	if updateData.Severity != "" {
		protocol.Severity = updateData.Severity
	}
	protocol.Steps = updateData.Steps
	protocol.ContactName = updateData.ContactName
	protocol.ContactPhone = updateData.ContactPhone
	protocol.ContactEmail = updateData.ContactEmail
	protocol.Active = updateData.Active

	if err := h.db.Save(&protocol).Error; err != nil {
		http.Error(w, "Error updating protocol", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(protocol)
}

func (h *EmergencyHandler) DeleteProtocol(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid protocol ID", http.StatusBadRequest)
		return
	}

	result := h.db.Delete(&models.EmergencyProtocol{}, id)
	if result.Error != nil {
		http.Error(w, "Error deleting protocol", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Protocol not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Protocol deleted successfully",
	})
}

// ActivateProtocol logs an incident and fans the alert out: a push to all
// registered devices and, when the protocol carries a contact address, an
// email with the steps.
func (h *EmergencyHandler) ActivateProtocol(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid protocol ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Note string `json:"note"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}

	var protocol models.EmergencyProtocol
	if err := h.db.First(&protocol, id).Error; err != nil {
		http.Error(w, "Protocol not found", http.StatusNotFound)
		return
	}
	if !protocol.Active {
		http.Error(w, "Protocol is inactive", http.StatusConflict)
		return
	}

	userID, _ := utils.GetUserIDFromContext(r)

	activation := models.ProtocolActivation{
		ProtocolID:  protocol.ID,
		ActivatedBy: userID,
		Note:        body.Note,
		ActivatedAt: time.Now(),
	}
	if err := h.db.Create(&activation).Error; err != nil {
		http.Error(w, "Error recording activation", http.StatusInternalServerError)
		return
	}

	pushTitle := fmt.Sprintf("EMERGENCY: %s", protocol.Title)
	pushBody := fmt.Sprintf("Severity %s. %s", protocol.Severity, body.Note)
	sent := 0
	if h.pusher != nil {
		sent, err = h.pusher.Broadcast(pushTitle, pushBody, map[string]interface{}{
			"protocol_id":   protocol.ID,
			"activation_id": activation.ID,
		})
		if err != nil {
			log.Printf("Error broadcasting emergency push: %v", err)
		}
	}

	if protocol.ContactEmail != "" {
		go func() {
			if err := sendProtocolEmail(protocol, body.Note); err != nil {
				log.Printf("Error sending protocol email: %v", err)
			}
		}()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"activation":   activation,
		"devices_sent": sent,
	})
}

func (h *EmergencyHandler) GetActivations(w http.ResponseWriter, r *http.Request) {
	query := h.db.Model(&models.ProtocolActivation{}).Preload("Protocol")

	if protocolID := r.URL.Query().Get("protocol_id"); protocolID != "" {
		query = query.Where("protocol_id = ?", protocolID)
	}

	var activations []models.ProtocolActivation
	if err := query.Order("activated_at DESC").Limit(100).Find(&activations).Error; err != nil {
		http.Error(w, "Error retrieving activations", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(activations)
}

func sendProtocolEmail(protocol models.EmergencyProtocol, note string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Protocol %q has been activated (severity: %s).\n\n", protocol.Title, protocol.Severity)
	if note != "" {
		fmt.Fprintf(&sb, "Operator note: %s\n\n", note)
	}
	sb.WriteString("Steps:\n")
	for i, step := range protocol.Steps {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", protocol.ContactEmail)
	m.SetHeader("Subject", fmt.Sprintf("Emergency protocol activated: %s", protocol.Title))
	m.SetBody("text/plain", sb.String())

	port, err := strconv.Atoi(smtpPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP port: %v", err)
	}
	d := gomail.NewDialer(smtpHost, port, smtpUser, smtpPass)

	return d.DialAndSend(m)
}
