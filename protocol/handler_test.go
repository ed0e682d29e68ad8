package protocol

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viha-saxena/Movie-sync/domain"
)

type mockConn struct {
	id   string
	sent [][]byte
	mu   sync.Mutex
}

func (m *mockConn) ID() string { return m.id }

func (m *mockConn) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, data)
	return nil
}

func (m *mockConn) Close() error { return nil }

func (m *mockConn) getSent() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

type mockBroadcaster struct {
	broadcasts []broadcastCall
	mu         sync.Mutex
}

type broadcastCall struct {
	senderID string
	data     []byte
}

func (m *mockBroadcaster) Register(conn domain.Connection)   {}
func (m *mockBroadcaster) Unregister(conn domain.Connection) {}
func (m *mockBroadcaster) Stats() int                        { return 0 }

func (m *mockBroadcaster) Broadcast(sender domain.Connection, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcasts = append(m.broadcasts, broadcastCall{senderID: sender.ID(), data: data})
}

func (m *mockBroadcaster) getBroadcasts() []broadcastCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.broadcasts
}

type mockPublisher struct {
	published [][]byte
	err       error
}

func (m *mockPublisher) Publish(data []byte) error {
	m.published = append(m.published, data)
	return m.err
}

func withDebugLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestHandler_RelaysVerbatim(t *testing.T) {
	broadcaster := &mockBroadcaster{}
	handler := NewHandler(broadcaster, nil)
	conn := &mockConn{id: "client1"}

	frame := []byte(`{"event":"sync-event","data":{"action":"SEEK","timestamp":42.25}}`)
	handler.Handle(conn, frame)

	broadcasts := broadcaster.getBroadcasts()
	require.Len(t, broadcasts, 1)
	assert.Equal(t, "client1", broadcasts[0].senderID)
	assert.Equal(t, frame, broadcasts[0].data)
	assert.Empty(t, conn.getSent())
}

func TestHandler_DoesNotValidate(t *testing.T) {
	buf := withDebugLogs(t)
	broadcaster := &mockBroadcaster{}
	handler := NewHandler(broadcaster, nil)
	conn := &mockConn{id: "client1"}

	handler.Handle(conn, []byte("not json"))

	broadcasts := broadcaster.getBroadcasts()
	require.Len(t, broadcasts, 1)
	assert.Equal(t, []byte("not json"), broadcasts[0].data)
	assert.Contains(t, buf.String(), "relaying opaque frame")
}

func TestHandler_DebugLogDecodesAction(t *testing.T) {
	buf := withDebugLogs(t)
	handler := NewHandler(&mockBroadcaster{}, nil)

	handler.Handle(&mockConn{id: "client1"}, []byte(`{"event":"sync-event","data":{"action":"PLAY","timestamp":3}}`))

	assert.Contains(t, buf.String(), "action=PLAY")
	assert.Contains(t, buf.String(), "timestamp=3")
}

func TestHandler_Publishes(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "publish ok"},
		{name: "publish error still broadcasts", err: errors.New("nats down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broadcaster := &mockBroadcaster{}
			publisher := &mockPublisher{err: tt.err}
			handler := NewHandler(broadcaster, publisher)

			handler.Handle(&mockConn{id: "client1"}, []byte("frame"))

			assert.Len(t, broadcaster.getBroadcasts(), 1)
			require.Len(t, publisher.published, 1)
			assert.Equal(t, []byte("frame"), publisher.published[0])
		})
	}
}
