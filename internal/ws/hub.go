package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/dhaba-pos/console/internal/backend"
	"github.com/dhaba-pos/console/internal/enum"
	"github.com/dhaba-pos/console/internal/queue"
)

// Event is a message broadcast to connected operator UIs.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// queuePayload is the body of a queue.updated event.
type queuePayload struct {
	Filter enum.Filter           `json:"filter"`
	Orders []backend.OrderRecord `json:"orders"`
}

// Hub maintains the set of connected operator clients and broadcasts
// events to all of them. Every operator sees the same queue.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan Event

	mu sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 256),
	}
}

// Run starts the hub's main loop.
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				continue
			}

			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(event Event) {
	h.broadcast <- event
}

// QueueUpdated pushes a fresh FIFO-ordered queue snapshot to every client.
// Called by the poller whenever a fetch result was applied to the store, and
// by handlers after a locally reconciled mutation.
func (h *Hub) QueueUpdated(filter enum.Filter, orders []backend.OrderRecord) {
	payload, err := json.Marshal(queuePayload{Filter: filter, Orders: queue.FIFO(orders)})
	if err != nil {
		log.Printf("ERROR: marshal queue payload: %v", err)
		return
	}
	h.Broadcast(Event{Type: "queue.updated", Payload: payload})
}
