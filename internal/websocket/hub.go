package websocket

import (
	"encoding/json"
	"log"

	"vestiaire/internal/vtypes"
)

// Hub maintains the set of connected clients and routes relation events to
// them. One connection per user id; a new connection replaces the old one.
type Hub struct {
	clients map[uint]*Client

	register   chan *Client
	unregister chan *Client

	// Events aimed at a specific user.
	direct chan *vtypes.RelationEvent
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan *vtypes.RelationEvent, 256),
	}
}

// Deliver hands an event to the hub for delivery to its target user. The
// send is non-blocking so a full hub never stalls the caller; events are
// advisory and a dropped one only delays the client's next poll.
func (h *Hub) Deliver(event *vtypes.RelationEvent) {
	select {
	case h.direct <- event:
	default:
		log.Printf("Hub direct channel full, dropping event for user %d", event.TargetUserID)
	}
}

// Run starts the hub loop. It owns the clients map; all access goes through
// the channels.
func (h *Hub) Run() {
	log.Println("WebSocket hub started.")
	for {
		select {
		case client := <-h.register:
			if existing, ok := h.clients[client.UserID]; ok {
				log.Printf("User %d reconnected, replacing previous connection.", client.UserID)
				close(existing.send)
			}
			h.clients[client.UserID] = client
			log.Printf("Client registered: user %d", client.UserID)

		case client := <-h.unregister:
			// Only drop the stored client if it is the one unregistering; a
			// replaced connection must not evict its successor.
			if stored, ok := h.clients[client.UserID]; ok && stored == client {
				delete(h.clients, client.UserID)
				close(client.send)
				log.Printf("Client unregistered: user %d", client.UserID)
			}

		case event := <-h.direct:
			client, ok := h.clients[event.TargetUserID]
			if !ok {
				continue
			}
			payload, err := json.Marshal(event)
			if err != nil {
				log.Printf("Failed to marshal event for user %d: %v", event.TargetUserID, err)
				continue
			}
			select {
			case client.send <- payload:
			default:
				// A full send buffer means a slow or dead client.
				log.Printf("Send buffer full for user %d, dropping connection.", event.TargetUserID)
				close(client.send)
				delete(h.clients, event.TargetUserID)
			}
		}
	}
}
