// Package syncctl turns local playback actions into sync messages and applies
// sync messages from peers without echoing them back.
package syncctl

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/viha-saxena/Movie-sync/domain"
	"github.com/viha-saxena/Movie-sync/player"
)

// Quiescence windows. The remote window covers the embedded player's API
// latency; it is the default because either backend may become active.
const (
	LocalWindow  = 100 * time.Millisecond
	RemoteWindow = 200 * time.Millisecond
)

// Transport delivers an outbound message to the relay. Delivery is
// fire-and-forget.
type Transport interface {
	Send(msg domain.SyncMessage) error
}

type Option func(*Controller)

func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

func WithQuiescenceWindow(d time.Duration) Option {
	return func(c *Controller) { c.window = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

type Controller struct {
	transport Transport
	clock     clockwork.Clock
	window    time.Duration
	logger    *slog.Logger

	mu          sync.Mutex
	active      player.Adapter
	unsubscribe func()
	suppressed  bool
	generation  uint64
	release     clockwork.Timer
}

func New(t Transport, opts ...Option) *Controller {
	c := &Controller{
		transport: t,
		clock:     clockwork.NewRealClock(),
		window:    RemoteWindow,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) QuiescenceWindow() time.Duration { return c.window }

// Activate makes a the single active backend. The previous backend stops
// producing outbound messages before a takes over.
func (c *Controller) Activate(a player.Adapter) {
	c.Deactivate()

	unsubscribe := a.Subscribe(func(ev player.Event) {
		c.onPlayerEvent(a, ev)
	})

	c.mu.Lock()
	c.active = a
	c.unsubscribe = unsubscribe
	c.mu.Unlock()

	c.logger.Debug("backend activated", "backend", a.Kind())
}

func (c *Controller) Deactivate() {
	c.mu.Lock()
	prev := c.active
	unsubscribe := c.unsubscribe
	c.active = nil
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if prev != nil {
		c.logger.Debug("backend deactivated", "backend", prev.Kind())
	}
}

func (c *Controller) ActiveKind() player.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return player.KindNone
	}
	return c.active.Kind()
}

func (c *Controller) Suppressed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.suppressed
}

func (c *Controller) onPlayerEvent(src player.Adapter, ev player.Event) {
	action, ok := ev.Type.Action()
	if !ok {
		return
	}
	c.mu.Lock()
	current := c.active == src
	c.mu.Unlock()
	if !current {
		return
	}
	c.SendSyncEvent(action)
}

// SendSyncEvent reports a local action at the active backend's position.
// It does nothing without an active backend or while an inbound message is
// being applied.
func (c *Controller) SendSyncEvent(action domain.Action) {
	c.mu.Lock()
	active := c.active
	suppressed := c.suppressed
	c.mu.Unlock()

	if active == nil || suppressed {
		return
	}

	msg := domain.SyncMessage{Action: action, Timestamp: active.CurrentTime()}
	c.logger.Info("sync send", "action", msg.Action, "timestamp", msg.Timestamp)
	if err := c.transport.Send(msg); err != nil {
		c.logger.Warn("sync send dropped", "action", msg.Action, "error", err)
	}
}

// Apply moves the active backend to the state carried by msg. Echo
// suppression is raised before the backend is touched and released one
// quiescence window after the last inbound message.
func (c *Controller) Apply(msg domain.SyncMessage) {
	if !msg.Action.Valid() {
		c.logger.Debug("sync receive ignored", "action", msg.Action)
		return
	}

	c.mu.Lock()
	active := c.active
	c.mu.Unlock()
	if active == nil || !active.Ready() {
		return
	}

	c.mu.Lock()
	c.suppressed = true
	c.generation++
	gen := c.generation
	if c.release != nil {
		c.release.Stop()
		c.release = nil
	}
	c.mu.Unlock()

	c.logger.Info("sync receive", "action", msg.Action, "timestamp", msg.Timestamp)

	active.Seek(msg.Timestamp)
	switch msg.Action {
	case domain.ActionPlay:
		if !active.AlreadyInState(domain.ActionPlay) {
			active.Play()
		}
	case domain.ActionPause:
		if !active.AlreadyInState(domain.ActionPause) {
			active.Pause()
		}
	}

	timer := c.clock.AfterFunc(c.window, func() { c.releaseSuppression(gen) })
	c.mu.Lock()
	if c.generation == gen {
		c.release = timer
	}
	c.mu.Unlock()
}

// releaseSuppression ends the window opened by inbound message gen, unless a
// later inbound message has opened a new one.
func (c *Controller) releaseSuppression(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}
	c.suppressed = false
	c.release = nil
}
