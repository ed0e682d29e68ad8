package domain

// EventSync is the only event name carried on the real-time channel.
const EventSync = "sync-event"

type Action string

const (
	ActionPlay  Action = "PLAY"
	ActionPause Action = "PAUSE"
	ActionSeek  Action = "SEEK"
)

func (a Action) Valid() bool {
	switch a {
	case ActionPlay, ActionPause, ActionSeek:
		return true
	}
	return false
}

type SyncMessage struct {
	Action    Action  `json:"action"`
	Timestamp float64 `json:"timestamp"`
}

type Envelope struct {
	Event string      `json:"event"`
	Data  SyncMessage `json:"data"`
}

type Connection interface {
	ID() string
	Send(data []byte) error
	Close() error
}

type Broadcaster interface {
	Register(conn Connection)
	Unregister(conn Connection)
	// Broadcast delivers data to every registered connection except sender.
	// A nil sender delivers to all of them.
	Broadcast(sender Connection, data []byte)
	Stats() (clients int)
}

type MessageHandler interface {
	Handle(conn Connection, data []byte)
}
