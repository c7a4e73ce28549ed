package live

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/viamonte/tourops-server/cmd/models"
)

// Event is the envelope pushed to every connected back-office client.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to every connected client. Slow clients are dropped
// rather than allowed to block the broadcast.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Broadcast sends an event to all connected clients.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	msg, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}

	h.mu.RLock()
	var dropped []*Client
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			dropped = append(dropped, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range dropped {
		h.unregister(client)
	}
}

// BroadcastAgendaUpdate notifies clients that a guide's day record changed,
// so open calendar views can refresh without polling.
func (h *Hub) BroadcastAgendaUpdate(guideID uint, date string, day models.DayAvailability) {
	h.Broadcast("agenda_updated", map[string]interface{}{
		"guide_id": guideID,
		"date":     date,
		"day":      day,
	})
}
