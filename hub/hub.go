package hub

import (
	"log/slog"
	"sync"

	"github.com/viha-saxena/Movie-sync/domain"
)

// Hub is the broadcast set of the single implicit room every connection joins.
type Hub struct {
	clients map[string]domain.Connection
	mu      sync.RWMutex
}

func New() *Hub {
	return &Hub{
		clients: make(map[string]domain.Connection),
	}
}

func (h *Hub) Register(conn domain.Connection) {
	h.mu.Lock()
	h.clients[conn.ID()] = conn
	count := len(h.clients)
	h.mu.Unlock()

	slog.Info("client connected", "clientId", conn.ID(), "clients", count)
}

func (h *Hub) Unregister(conn domain.Connection) {
	h.mu.Lock()
	if _, ok := h.clients[conn.ID()]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, conn.ID())
	count := len(h.clients)
	h.mu.Unlock()

	slog.Info("client disconnected", "clientId", conn.ID(), "clients", count)
}

func (h *Hub) Broadcast(sender domain.Connection, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, conn := range h.clients {
		if sender != nil && id == sender.ID() {
			continue
		}
		if err := conn.Send(data); err != nil {
			slog.Warn("dropping slow client", "clientId", id, "error", err)
			go func(c domain.Connection) {
				h.Unregister(c)
				c.Close()
			}(conn)
		}
	}
}

func (h *Hub) Stats() (clients int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
