package player

import (
	"sync"

	"github.com/viha-saxena/Movie-sync/domain"
)

// State codes reported by the embedded YouTube player.
const (
	YTUnstarted = -1
	YTEnded     = 0
	YTPlaying   = 1
	YTPaused    = 2
	YTBuffering = 3
	YTCued      = 5
)

// EmbeddedPlayer is the third-party player. It becomes usable only after its
// ready callback, which the owner forwards to RemoteAdapter.OnReady.
type EmbeddedPlayer interface {
	LoadVideoByID(id string)
	PlayVideo()
	PauseVideo()
	SeekTo(seconds float64, allowSeekAhead bool)
	CurrentTime() float64
	PlayerState() int
	SetVisible(visible bool)
}

type RemoteAdapter struct {
	player EmbeddedPlayer
	events emitter

	mu            sync.Mutex
	ready         bool
	pending       string
	videoID       string
	awaitingStart bool
}

func NewRemote(p EmbeddedPlayer) *RemoteAdapter {
	return &RemoteAdapter{player: p}
}

func (a *RemoteAdapter) Kind() Kind { return KindRemote }

// Load cues a video. Before the player is ready only the most recent id is
// kept, and it is loaded once OnReady fires.
func (a *RemoteAdapter) Load(id string) {
	a.mu.Lock()
	a.awaitingStart = true
	if !a.ready {
		a.pending = id
		a.mu.Unlock()
		return
	}
	a.videoID = id
	a.mu.Unlock()

	a.player.LoadVideoByID(id)
}

func (a *RemoteAdapter) OnReady() {
	a.mu.Lock()
	if a.ready {
		a.mu.Unlock()
		return
	}
	a.ready = true
	id := a.pending
	a.pending = ""
	if id != "" {
		a.videoID = id
	}
	a.mu.Unlock()

	if id != "" {
		a.player.LoadVideoByID(id)
	}
}

func (a *RemoteAdapter) Pending() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

func (a *RemoteAdapter) VideoID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.videoID
}

func (a *RemoteAdapter) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready
}

func (a *RemoteAdapter) Play() {
	if a.Ready() {
		a.player.PlayVideo()
	}
}

func (a *RemoteAdapter) Pause() {
	if a.Ready() {
		a.player.PauseVideo()
	}
}

func (a *RemoteAdapter) Seek(seconds float64) {
	if a.Ready() {
		a.player.SeekTo(seconds, true)
	}
}

func (a *RemoteAdapter) CurrentTime() float64 {
	if !a.Ready() {
		return 0
	}
	return a.player.CurrentTime()
}

func (a *RemoteAdapter) NativeState() State {
	if !a.Ready() {
		return StateUnstarted
	}
	switch a.player.PlayerState() {
	case YTPlaying:
		return StatePlaying
	case YTPaused:
		return StatePaused
	case YTBuffering:
		return StateBuffering
	case YTEnded:
		return StateEnded
	}
	return StateUnstarted
}

func (a *RemoteAdapter) AlreadyInState(action domain.Action) bool {
	switch action {
	case domain.ActionPlay:
		return a.NativeState() == StatePlaying
	case domain.ActionPause:
		return a.NativeState() == StatePaused
	}
	return false
}

func (a *RemoteAdapter) Subscribe(fn func(Event)) func() { return a.events.subscribe(fn) }

func (a *RemoteAdapter) Show() { a.player.SetVisible(true) }

// Hide pauses the player and drops any load still waiting for readiness,
// so a superseded video is never started in the background.
func (a *RemoteAdapter) Hide() {
	a.Cancel()
	a.Pause()
	a.player.SetVisible(false)
}

// Cancel forgets the pending video and the started signal of the current load.
func (a *RemoteAdapter) Cancel() {
	a.mu.Lock()
	a.pending = ""
	a.awaitingStart = false
	a.mu.Unlock()
}

// HandleStateChange translates a native state code. The first PLAYING or
// BUFFERING after a load only signals EventStarted; afterwards PLAYING and
// PAUSED are the only codes that become sync-relevant events.
func (a *RemoteAdapter) HandleStateChange(code int) {
	a.mu.Lock()
	if a.awaitingStart && (code == YTPlaying || code == YTBuffering) {
		a.awaitingStart = false
		a.mu.Unlock()
		a.events.emit(Event{Type: EventStarted, Source: KindRemote})
		return
	}
	a.mu.Unlock()

	switch code {
	case YTPlaying:
		a.events.emit(Event{Type: EventPlay, Source: KindRemote})
	case YTPaused:
		a.events.emit(Event{Type: EventPause, Source: KindRemote})
	case YTEnded:
		a.events.emit(Event{Type: EventEnded, Source: KindRemote})
	}
}
