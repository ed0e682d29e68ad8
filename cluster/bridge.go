// Package cluster joins several relay instances into one global room over
// NATS core pub/sub.
package cluster

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/viha-saxena/Movie-sync/domain"
)

const originHeader = "Origin"

type Config struct {
	URL           string
	Subject       string
	MaxReconnects int
	ReconnectWait time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		Subject:       "movie-sync.relay",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

type natsConn interface {
	PublishMsg(m *nats.Msg) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
	Drain() error
}

// Bridge publishes locally relayed frames and delivers frames from other
// instances to every local connection.
type Bridge struct {
	nc          natsConn
	subject     string
	origin      string
	broadcaster domain.Broadcaster
}

func Connect(cfg Config, b domain.Broadcaster) (*Bridge, error) {
	opts := []nats.Option{
		nats.Name("movie-sync-relay"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			slog.Error("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			slog.Error("NATS error", "error", err)
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	bridge := newBridge(nc, cfg.Subject, b)
	if err := bridge.start(); err != nil {
		nc.Close()
		return nil, err
	}
	return bridge, nil
}

func newBridge(nc natsConn, subject string, b domain.Broadcaster) *Bridge {
	return &Bridge{
		nc:          nc,
		subject:     subject,
		origin:      uuid.NewString(),
		broadcaster: b,
	}
}

func (b *Bridge) start() error {
	if _, err := b.nc.Subscribe(b.subject, b.deliver); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.subject, err)
	}
	slog.Info("cluster bridge subscribed", "subject", b.subject, "origin", b.origin)
	return nil
}

func (b *Bridge) Origin() string { return b.origin }

func (b *Bridge) Publish(data []byte) error {
	msg := nats.NewMsg(b.subject)
	msg.Header.Set(originHeader, b.origin)
	msg.Data = data
	if err := b.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", b.subject, err)
	}
	return nil
}

func (b *Bridge) deliver(msg *nats.Msg) {
	if msg.Header.Get(originHeader) == b.origin {
		return
	}
	b.broadcaster.Broadcast(nil, msg.Data)
}

func (b *Bridge) Close() error {
	return b.nc.Drain()
}
