package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dhaba-pos/console/internal/backend"
	"github.com/dhaba-pos/console/internal/enum"
)

// mockHubClient creates a client for testing without a real WebSocket connection
func mockHubClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		send: make(chan []byte, 256),
	}
}

func TestHubRegistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockHubClient(hub)

	// Register client
	hub.register <- client

	// Give hub time to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if !hub.clients[client] {
		t.Fatal("client not registered")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockHubClient(hub)

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.clients[client] {
		t.Fatal("client still registered after unregister")
	}

	// The send channel must be closed so WritePump terminates
	select {
	case _, ok := <-client.send:
		if ok {
			t.Fatal("expected closed send channel")
		}
	default:
		t.Fatal("send channel not closed")
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client1 := mockHubClient(hub)
	client2 := mockHubClient(hub)

	hub.register <- client1
	hub.register <- client2
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(Event{
		Type:    "queue.updated",
		Payload: json.RawMessage(`{"filter":"ALL","orders":[]}`),
	})

	for i, client := range []*Client{client1, client2} {
		select {
		case msg := <-client.send:
			var received Event
			if err := json.Unmarshal(msg, &received); err != nil {
				t.Fatalf("client %d: failed to unmarshal message: %v", i+1, err)
			}
			if received.Type != "queue.updated" {
				t.Errorf("client %d: expected type 'queue.updated', got '%s'", i+1, received.Type)
			}
		case <-time.After(time.Second):
			t.Fatalf("client %d did not receive the broadcast", i+1)
		}
	}
}

func TestQueueUpdatedPayloadIsFIFO(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockHubClient(hub)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	// Out of order on purpose; the payload must come out oldest-first.
	hub.QueueUpdated(enum.Filter(enum.OrderStatusPending), []backend.OrderRecord{
		{ID: "late", CreatedAt: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC), TotalPrice: decimal.Zero},
		{ID: "early", CreatedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), TotalPrice: decimal.Zero},
	})

	select {
	case msg := <-client.send:
		var received Event
		if err := json.Unmarshal(msg, &received); err != nil {
			t.Fatalf("failed to unmarshal message: %v", err)
		}
		if received.Type != "queue.updated" {
			t.Fatalf("expected type 'queue.updated', got '%s'", received.Type)
		}

		var payload struct {
			Filter string `json:"filter"`
			Orders []struct {
				ID string `json:"id"`
			} `json:"orders"`
		}
		if err := json.Unmarshal(received.Payload, &payload); err != nil {
			t.Fatalf("failed to unmarshal payload: %v", err)
		}
		if payload.Filter != "PENDING" {
			t.Errorf("expected filter PENDING, got %s", payload.Filter)
		}
		if len(payload.Orders) != 2 || payload.Orders[0].ID != "early" || payload.Orders[1].ID != "late" {
			t.Errorf("orders not FIFO ordered: %+v", payload.Orders)
		}
	case <-time.After(time.Second):
		t.Fatal("client did not receive the queue snapshot")
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	slow := &Client{hub: hub, send: make(chan []byte)} // no buffer, never drained
	hub.register <- slow
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(Event{Type: "queue.updated", Payload: json.RawMessage(`{}`)})
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.clients[slow] {
		t.Fatal("client with a full send buffer must be dropped")
	}
}
