package websocket

import (
	"context"
	"sync"
	"time"

	"SensorHubAPI/internal/events"
	"SensorHubAPI/internal/logger"
	"SensorHubAPI/internal/metrics"
)

const broadcastBuffer = 256

// Hub fans tenant events out to connected clients. A client bound to an empty
// tenant (platform administrators) receives every tenant's events.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan events.Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	log        *logger.Logger
	mu         sync.RWMutex
}

var _ events.Bus = (*Hub)(nil)

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan events.Event, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		log:        log.WithComponent("websocket"),
	}
}

// Run starts the hub logic in a goroutine. It listens for context cancellation for clean shutdown.
// Once Run returns, join and leave no longer wait for it.
func (h *Hub) Run(ctx context.Context) {
	h.log.Info("WebSocket Hub started")
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.log.Info("WebSocket Hub shutting down...")
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			metrics.WebsocketClients.Set(0)
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			metrics.WebsocketClients.Set(float64(total))
			h.log.Info("New WS client connected (tenant=%q). Total: %d", client.tenantID, total)
		case client := <-h.unregister:
			h.remove(client)
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) deliver(event events.Event) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		if client.tenantID != "" && client.tenantID != event.TenantID {
			continue
		}
		if !client.wants(event.Type) {
			continue
		}
		select {
		case client.send <- event:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.log.Warn("Dropping slow WS client (tenant=%q)", client.tenantID)
		h.remove(client)
	}
}

// join registers client with the running hub. It reports false once the hub
// has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WebsocketClients.Set(float64(total))
}

// Publish queues an event for tenantID's clients. It never blocks; when the
// hub is saturated the event is dropped.
func (h *Hub) Publish(tenantID, eventType string, payload interface{}) {
	event := events.Event{
		Type:      eventType,
		TenantID:  tenantID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	select {
	case h.broadcast <- event:
	default:
		h.log.Warn("Realtime queue full, dropping %s event for tenant %s", eventType, tenantID)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
