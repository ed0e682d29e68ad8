package player

import (
	"errors"
	"sync"

	"github.com/viha-saxena/Movie-sync/domain"
)

var ErrNoFile = errors.New("no file selected")

type NativeEvent string

const (
	NativePlay   NativeEvent = "play"
	NativePause  NativeEvent = "pause"
	NativeSeeked NativeEvent = "seeked"
	NativeEnded  NativeEvent = "ended"
)

// MediaElement is the local playback element. Implementations report their
// native events back through LocalAdapter.HandleNative, including the ones
// caused by programmatic calls.
type MediaElement interface {
	SetSource(url string)
	Play()
	Pause()
	SetCurrentTime(seconds float64)
	CurrentTime() float64
	Paused() bool
	Ended() bool
	SetVisible(visible bool)
}

type LocalAdapter struct {
	el     MediaElement
	blobs  *BlobRegistry
	events emitter

	mu  sync.Mutex
	src string
}

func NewLocal(el MediaElement, blobs *BlobRegistry) *LocalAdapter {
	if blobs == nil {
		blobs = NewBlobRegistry()
	}
	return &LocalAdapter{el: el, blobs: blobs}
}

func (a *LocalAdapter) Kind() Kind { return KindLocal }

// Load binds the element to a fresh reference for f and revokes the previous
// one. Local playback counts as started as soon as the file is bound.
func (a *LocalAdapter) Load(f File) (string, error) {
	if f.Name == "" && f.Path == "" {
		return "", ErrNoFile
	}

	url := a.blobs.Create(f)
	a.mu.Lock()
	prev := a.src
	a.src = url
	a.mu.Unlock()
	if prev != "" {
		a.blobs.Revoke(prev)
	}

	a.el.SetSource(url)
	a.events.emit(Event{Type: EventStarted, Source: KindLocal})
	return url, nil
}

func (a *LocalAdapter) Source() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.src
}

func (a *LocalAdapter) Ready() bool { return a.Source() != "" }

func (a *LocalAdapter) Play()                { a.el.Play() }
func (a *LocalAdapter) Pause()               { a.el.Pause() }
func (a *LocalAdapter) Seek(seconds float64) { a.el.SetCurrentTime(seconds) }
func (a *LocalAdapter) CurrentTime() float64 { return a.el.CurrentTime() }

func (a *LocalAdapter) NativeState() State {
	switch {
	case !a.Ready():
		return StateUnstarted
	case a.el.Ended():
		return StateEnded
	case a.el.Paused():
		return StatePaused
	}
	return StatePlaying
}

// AlreadyInState is always false: the element ignores redundant calls without
// firing anything.
func (a *LocalAdapter) AlreadyInState(domain.Action) bool { return false }

func (a *LocalAdapter) Subscribe(fn func(Event)) func() { return a.events.subscribe(fn) }

func (a *LocalAdapter) Show() { a.el.SetVisible(true) }

func (a *LocalAdapter) Hide() {
	a.el.Pause()
	a.el.SetVisible(false)
}

func (a *LocalAdapter) HandleNative(ev NativeEvent) {
	var t EventType
	switch ev {
	case NativePlay:
		t = EventPlay
	case NativePause:
		t = EventPause
	case NativeSeeked:
		t = EventSeeked
	case NativeEnded:
		t = EventEnded
	default:
		return
	}
	a.events.emit(Event{Type: t, Source: KindLocal})
}
