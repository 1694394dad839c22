// internal/websocket/hub.go
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	portalsvc "loyaltyhub-service/internal/service/portal"

	"go.uber.org/zap"
)

// Event is the wire format pushed to dashboard feeds.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	EventTypeConnected       = "connected"
	EventTypePointAssignment = "points:assigned"
)

// Hub fans committed point assignments out to dashboards watching a
// branch. Losing an event is acceptable; the feed is decoration on top of
// the authoritative ledger.
type Hub struct {
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *branchEvent

	logger *zap.Logger
}

type branchEvent struct {
	branchID int64
	event    Event
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *branchEvent, 256),
		logger:     logger,
	}
}

// BroadcastAssignment implements the portal service's activity feed.
// Non-blocking: if the hub is saturated the event is dropped.
func (h *Hub) BroadcastAssignment(ev portalsvc.AssignmentEvent) {
	msg := &branchEvent{
		branchID: ev.BranchID,
		event: Event{
			Type:      EventTypePointAssignment,
			Data:      ev,
			Timestamp: time.Now(),
		},
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("activity feed saturated, dropping event",
			zap.Int64("branch_id", ev.BranchID),
		)
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.branchID] == nil {
		h.clients[client.branchID] = make(map[*Client]bool)
	}
	h.clients[client.branchID][client] = true

	h.logger.Info("feed client connected",
		zap.Int64("branch_id", client.branchID),
		zap.String("session", client.sessionID),
	)

	client.SendEvent(Event{
		Type:      EventTypeConnected,
		Data:      map[string]interface{}{"branch_id": client.branchID},
		Timestamp: time.Now(),
	})
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.branchID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()
			if len(clients) == 0 {
				delete(h.clients, client.branchID)
			}
		}
	}
}

func (h *Hub) deliver(msg *branchEvent) {
	data, err := json.Marshal(msg.event)
	if err != nil {
		h.logger.Error("failed to marshal feed event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[msg.branchID] {
		select {
		case client.send <- data:
		default:
			// Slow consumer; skip rather than block the hub.
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for branchID, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
		delete(h.clients, branchID)
	}
}
