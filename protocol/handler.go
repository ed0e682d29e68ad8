package protocol

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/viha-saxena/Movie-sync/domain"
)

// Publisher carries relayed frames to other relay instances.
type Publisher interface {
	Publish(data []byte) error
}

// Handler relays every frame it receives to all other connections, untouched.
type Handler struct {
	broadcaster domain.Broadcaster
	publisher   Publisher
}

func NewHandler(b domain.Broadcaster, p Publisher) *Handler {
	return &Handler{broadcaster: b, publisher: p}
}

func (h *Handler) Handle(conn domain.Connection, data []byte) {
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		logFrame(conn, data)
	}

	h.broadcaster.Broadcast(conn, data)

	if h.publisher != nil {
		if err := h.publisher.Publish(data); err != nil {
			slog.Warn("cluster publish failed", "clientId", conn.ID(), "error", err)
		}
	}
}

func logFrame(conn domain.Connection, data []byte) {
	var env domain.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.Debug("relaying opaque frame", "clientId", conn.ID(), "bytes", len(data))
		return
	}
	slog.Debug("relaying frame",
		"clientId", conn.ID(),
		"event", env.Event,
		"action", env.Data.Action,
		"timestamp", env.Data.Timestamp,
	)
}
