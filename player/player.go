// Package player puts the two playback backends, a local media element and an
// embedded remote player, behind one Adapter contract.
package player

import (
	"sync"

	"github.com/viha-saxena/Movie-sync/domain"
)

type Kind int

const (
	KindNone Kind = iota
	KindLocal
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "LOCAL"
	case KindRemote:
		return "REMOTE"
	}
	return "NONE"
}

type State int

const (
	StateUnstarted State = iota
	StatePlaying
	StatePaused
	StateBuffering
	StateEnded
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	case StateBuffering:
		return "BUFFERING"
	case StateEnded:
		return "ENDED"
	}
	return "UNSTARTED"
}

type EventType int

const (
	EventPlay EventType = iota
	EventPause
	EventSeeked
	EventEnded
	// EventStarted is the first playable signal after a load.
	EventStarted
)

func (e EventType) String() string {
	switch e {
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	case EventSeeked:
		return "seeked"
	case EventEnded:
		return "ended"
	case EventStarted:
		return "started"
	}
	return "unknown"
}

// Action maps a user-driven playback event to the sync action it produces.
func (e EventType) Action() (domain.Action, bool) {
	switch e {
	case EventPlay:
		return domain.ActionPlay, true
	case EventPause:
		return domain.ActionPause, true
	case EventSeeked:
		return domain.ActionSeek, true
	}
	return "", false
}

type Event struct {
	Type   EventType
	Source Kind
}

// Adapter is the capability set shared by every backend.
type Adapter interface {
	Kind() Kind
	// Ready reports whether Play, Pause and Seek currently reach the backend.
	Ready() bool
	Play()
	Pause()
	Seek(seconds float64)
	CurrentTime() float64
	NativeState() State
	// AlreadyInState reports whether issuing action would be redundant.
	AlreadyInState(action domain.Action) bool
	Subscribe(fn func(Event)) (unsubscribe func())
	Show()
	Hide()
}

type emitter struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func(Event)
}

func (e *emitter) subscribe(fn func(Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[int]func(Event))
	}
	id := e.next
	e.next++
	e.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.listeners, id)
			e.mu.Unlock()
		})
	}
}

// emit runs listeners outside the lock so they may call back into the adapter.
func (e *emitter) emit(ev Event) {
	e.mu.Lock()
	fns := make([]func(Event), 0, len(e.listeners))
	for i := 0; i < e.next; i++ {
		if fn, ok := e.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
