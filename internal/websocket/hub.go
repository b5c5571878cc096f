package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client represents a gallery page holding a WebSocket connection.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
}

// Hub maintains the set of connected gallery pages and broadcasts asset
// events to them.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan *Event
	Register   chan *Client
	Unregister chan *Client
	Mu         sync.RWMutex
}

// Event notifies gallery pages that the asset set changed.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	FileName  string    `json:"fileName,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EVENT_ASSET_UPLOADED = "asset.uploaded"
	EVENT_ASSET_DELETED  = "asset.deleted"
)

// NewEvent builds an event with a fresh ID and timestamp.
func NewEvent(eventType, fileName string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		FileName:  fileName,
		Timestamp: time.Now(),
	}
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan *Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Mu.Lock()
			h.Clients[client] = true
			h.Mu.Unlock()

		case client := <-h.Unregister:
			h.Mu.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
			h.Mu.Unlock()

		case event := <-h.Broadcast:
			payload := mustMarshal(event)
			h.Mu.Lock()
			for client := range h.Clients {
				select {
				case client.Send <- payload:
				default:
					close(client.Send)
					delete(h.Clients, client)
				}
			}
			h.Mu.Unlock()
		}
	}
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal: %v", err)
		return []byte("{}")
	}
	return b
}
