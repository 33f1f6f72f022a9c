package ws

import (
	"log/slog"
	"sync"

	"github.com/lucasmnd/duodle/internal/model"
	"github.com/lucasmnd/duodle/internal/services/directory"
)

// Hub tracks connected clients and delivers outbound events to them. It
// is the directory's event sink.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.ConnID]*Client
	logger  *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ConnID]*Client),
		logger:  logger,
	}
}

// Ensure Hub implements the directory's sink
var _ directory.Sink = (*Hub)(nil)

// Send delivers an event to one connection. Events for connections that
// have already gone away are dropped silently; Send never blocks.
func (h *Hub) Send(conn model.ConnID, event model.Event) {
	h.mu.RLock()
	client, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return
	}
	client.enqueue(event)
}

// register adds a client to the hub.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

// unregister removes a client and closes its send channel, which stops
// the write pump.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[c.id]; ok && current == c {
		delete(h.clients, c.id)
		close(c.send)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
