package main

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viha-saxena/Movie-sync/domain"
	"github.com/viha-saxena/Movie-sync/syncctl"
	"github.com/viha-saxena/Movie-sync/videoid"
)

type captureTransport struct {
	sent []domain.SyncMessage
}

func (c *captureTransport) Send(msg domain.SyncMessage) error {
	c.sent = append(c.sent, msg)
	return nil
}

func newTestPeer(t *testing.T) (*peer, *captureTransport, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	transport := &captureTransport{}
	p := newPeer(transport, syncctl.LocalWindow, clock)
	require.NoError(t, p.session.Enter())
	return p, transport, clock
}

func TestPeer_LocalCommands(t *testing.T) {
	p, transport, clock := newTestPeer(t)

	out, err := p.exec("local /movies/heat.mp4")
	require.NoError(t, err)
	assert.Equal(t, "loaded heat.mp4", out)

	_, err = p.exec("seek 90")
	require.NoError(t, err)
	_, err = p.exec("play")
	require.NoError(t, err)
	clock.Advance(10 * time.Second)
	out, err = p.exec("pause")
	require.NoError(t, err)

	assert.Equal(t, []domain.SyncMessage{
		{Action: domain.ActionSeek, Timestamp: 90},
		{Action: domain.ActionPlay, Timestamp: 90},
		{Action: domain.ActionPause, Timestamp: 100},
	}, transport.sent)
	assert.Equal(t, "backend=LOCAL stage=PLAYING state=PAUSED position=100.00", out)
}

func TestPeer_RemoteCommands(t *testing.T) {
	p, transport, _ := newTestPeer(t)

	out, err := p.exec("remote https://youtu.be/abc123")
	require.NoError(t, err)
	assert.Equal(t, "queued abc123 until the player is ready", out)

	_, err = p.exec("ready")
	require.NoError(t, err)
	out, err = p.exec("status")
	require.NoError(t, err)
	assert.Equal(t, "backend=REMOTE stage=PLAYING state=PLAYING position=0.00", out)

	_, err = p.exec("pause")
	require.NoError(t, err)
	assert.Equal(t, []domain.SyncMessage{{Action: domain.ActionPause, Timestamp: 0}}, transport.sent)
}

func TestPeer_Errors(t *testing.T) {
	p, _, _ := newTestPeer(t)

	tests := []struct {
		line string
		want string
	}{
		{line: "play", want: "nothing loaded"},
		{line: "local", want: "usage: local <path>"},
		{line: "seek", want: "usage: seek <seconds>"},
		{line: "dance", want: `unknown command "dance"`},
	}
	for _, tt := range tests {
		_, err := p.exec(tt.line)
		assert.EqualError(t, err, tt.want, tt.line)
	}

	out, err := p.exec("remote https://example.com/video")
	assert.ErrorIs(t, err, videoid.ErrNotFound)
	assert.Equal(t, "Invalid YouTube URL", out)

	_, err = p.exec("quit")
	assert.ErrorIs(t, err, errQuit)

	out, err = p.exec("   ")
	assert.NoError(t, err)
	assert.Empty(t, out)
}
