package notification

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"github.com/viamonte/tourops-server/cmd/models"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	db         *gorm.DB
	expoClient *expo.PushClient
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{
		db:         db,
		expoClient: expo.NewPushClient(nil),
	}
}

func (h *NotificationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/devices", h.RegisterDevice).Methods("POST")
	router.HandleFunc("/devices/{id}", h.DeleteDevice).Methods("DELETE")
	router.HandleFunc("/users/{userId}/devices", h.GetUserDevices).Methods("GET")
	router.HandleFunc("/users/{userId}/history", h.GetUserNotificationHistory).Methods("GET")
	router.HandleFunc("/notifications/broadcast", h.BroadcastNotification).Methods("POST")
}

// RegisterDevice registers a device for push notifications.
func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var device models.Device
	if err := json.NewDecoder(r.Body).Decode(&device); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if device.UserID == "" || device.Token == "" {
		http.Error(w, "UserID and token are required", http.StatusBadRequest)
		return
	}

	if _, err := expo.NewExponentPushToken(device.Token); err != nil {
		http.Error(w, "Invalid Expo push token format", http.StatusBadRequest)
		return
	}

	// Same token + user pair is idempotent.
	var existing models.Device
	if err := h.db.Where("token = ? AND user_id = ?", device.Token, device.UserID).First(&existing).Error; err == nil {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(existing)
		return
	}

	if err := h.db.Create(&device).Error; err != nil {
		http.Error(w, "Error registering device", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(device)
}

func (h *NotificationHandler) GetUserDevices(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	var devices []models.Device
	if err := h.db.Where("user_id = ?", userID).Find(&devices).Error; err != nil {
		http.Error(w, "Error retrieving devices", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(devices)
}

func (h *NotificationHandler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	deviceID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid device ID", http.StatusBadRequest)
		return
	}

	result := h.db.Delete(&models.Device{}, deviceID)
	if result.Error != nil {
		http.Error(w, "Error deleting device", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Device not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Device deleted successfully",
	})
}

// BroadcastNotification pushes a message to every registered device, or to
// the users named in the request.
func (h *NotificationHandler) BroadcastNotification(w http.ResponseWriter, r *http.Request) {
	var req models.BroadcastRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Title == "" || req.Body == "" {
		http.Error(w, "Title and body are required", http.StatusBadRequest)
		return
	}

	sent, err := h.BroadcastTo(req.UserIDs, req.Title, req.Body, req.Data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Broadcast sent to %d devices", sent),
	})
}

// Broadcast pushes to every registered device. Other services (emergency
// activation in particular) call this directly.
func (h *NotificationHandler) Broadcast(title, body string, data map[string]interface{}) (int, error) {
	return h.BroadcastTo(nil, title, body, data)
}

// BroadcastTo pushes to the devices of the given users, or to all devices
// when userIDs is empty. Returns the number of devices targeted.
func (h *NotificationHandler) BroadcastTo(userIDs []string, title, body string, data map[string]interface{}) (int, error) {
	var devices []models.Device
	query := h.db
	if len(userIDs) > 0 {
		query = query.Where("user_id IN ?", userIDs)
	}
	if err := query.Find(&devices).Error; err != nil {
		return 0, fmt.Errorf("error retrieving devices: %w", err)
	}
	if len(devices) == 0 {
		return 0, nil
	}

	var tokens []string
	userMap := make(map[string]bool)
	for _, device := range devices {
		tokens = append(tokens, device.Token)
		userMap[device.UserID] = true
	}

	success, sendErr := h.sendExpoNotification(tokens, title, body, data)

	status := "sent"
	if !success || sendErr != nil {
		status = "failed"
	}
	dataJSON, _ := json.Marshal(data)

	for userID := range userMap {
		history := models.NotificationHistory{
			UserID: userID,
			Title:  title,
			Body:   body,
			Data:   string(dataJSON),
			Status: status,
			SentAt: time.Now(),
		}
		if err := h.db.Create(&history).Error; err != nil {
			log.Printf("Error creating notification history for user %s: %v", userID, err)
		}
	}

	if sendErr != nil {
		return 0, sendErr
	}
	return len(tokens), nil
}

func (h *NotificationHandler) GetUserNotificationHistory(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		http.Error(w, "User ID is required", http.StatusBadRequest)
		return
	}

	limit := 20
	page := 1
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if parsedLimit, err := strconv.Atoi(limitParam); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}
	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		if parsedPage, err := strconv.Atoi(pageParam); err == nil && parsedPage > 0 {
			page = parsedPage
		}
	}

	var history []models.NotificationHistory
	var count int64

	h.db.Model(&models.NotificationHistory{}).Where("user_id = ?", userID).Count(&count)
	if err := h.db.Where("user_id = ?", userID).
		Order("sent_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&history).Error; err != nil {
		http.Error(w, "Error retrieving notification history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"total":   count,
		"page":    page,
		"limit":   limit,
		"history": history,
	})
}

func (h *NotificationHandler) sendExpoNotification(tokenStrings []string, title, body string, data map[string]interface{}) (bool, error) {
	var validTokens []expo.ExponentPushToken
	var invalidTokens []string

	for _, tokenString := range tokenStrings {
		pushToken, err := expo.NewExponentPushToken(tokenString)
		if err != nil {
			log.Printf("Invalid push token format %s: %v", tokenString, err)
			invalidTokens = append(invalidTokens, tokenString)
			continue
		}
		validTokens = append(validTokens, pushToken)
	}

	if len(validTokens) == 0 {
		return false, fmt.Errorf("no valid push tokens found")
	}

	var stringData map[string]string
	if data != nil {
		stringData = make(map[string]string)
		for key, value := range data {
			stringData[key] = fmt.Sprintf("%v", value)
		}
	}

	pushMessage := &expo.PushMessage{
		To:       validTokens,
		Body:     body,
		Title:    title,
		Sound:    "default",
		Priority: expo.DefaultPriority,
		Data:     stringData,
	}

	response, err := h.expoClient.Publish(pushMessage)
	if err != nil {
		return false, fmt.Errorf("failed to publish notification: %v", err)
	}

	if validationErr := response.ValidateResponse(); validationErr != nil {
		log.Printf("Push notification validation error: %v", validationErr)
		h.cleanupInvalidTokens(invalidTokens)
		return false, fmt.Errorf("notification validation failed: %v", validationErr)
	}

	if len(invalidTokens) > 0 {
		h.cleanupInvalidTokens(invalidTokens)
	}

	return true, nil
}

func (h *NotificationHandler) cleanupInvalidTokens(tokens []string) {
	for _, token := range tokens {
		if err := h.db.Where("token = ?", token).Delete(&models.Device{}).Error; err != nil {
			log.Printf("Error cleaning up invalid token %s: %v", token, err)
		}
	}
}
