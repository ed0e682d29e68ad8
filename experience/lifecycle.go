// Package experience tracks the cinema presentation around playback:
// entrance, loader, playing and credits. It never touches sync messages.
package experience

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/viha-saxena/Movie-sync/player"
)

var ErrInvalidTransition = errors.New("invalid transition")

type State int

const (
	NotStarted State = iota
	Entering
	LoaderVisible
	Playing
	Credits
)

func (s State) String() string {
	switch s {
	case Entering:
		return "ENTERING"
	case LoaderVisible:
		return "LOADER_VISIBLE"
	case Playing:
		return "PLAYING"
	case Credits:
		return "CREDITS"
	}
	return "NOT_STARTED"
}

type Lifecycle struct {
	activeBackend func() player.Kind

	mu        sync.Mutex
	state     State
	started   bool
	listeners []func(from, to State)
}

// New takes the read-only query for which backend is currently active.
func New(activeBackend func() player.Kind) *Lifecycle {
	return &Lifecycle{activeBackend: activeBackend}
}

func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Started reports whether the current load has produced its first playable signal.
func (l *Lifecycle) Started() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started
}

func (l *Lifecycle) OnTransition(fn func(from, to State)) {
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

func (l *Lifecycle) Enter() error {
	return l.move(Entering, NotStarted)
}

func (l *Lifecycle) EntranceComplete() error {
	return l.move(LoaderVisible, Entering)
}

// BeginLoad re-arms the one-shot started flag for a new video.
func (l *Lifecycle) BeginLoad() error {
	l.mu.Lock()
	switch l.state {
	case LoaderVisible, Playing, Credits:
	default:
		s := l.state
		l.mu.Unlock()
		return fmt.Errorf("load in %s: %w", s, ErrInvalidTransition)
	}
	l.started = false
	l.mu.Unlock()
	return nil
}

// MarkStarted moves to PLAYING on the first playable signal of a load from
// the active backend. Later signals for the same load are ignored.
func (l *Lifecycle) MarkStarted(source player.Kind) bool {
	if l.activeBackend() != source {
		return false
	}
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return false
	}
	from := l.state
	switch from {
	case LoaderVisible, Playing, Credits:
	default:
		l.mu.Unlock()
		return false
	}
	l.started = true
	l.state = Playing
	fns := l.snapshot()
	l.mu.Unlock()

	if from != Playing {
		notify(fns, from, Playing)
	}
	return true
}

// Ended rolls the credits when the ending backend is the active one.
func (l *Lifecycle) Ended(source player.Kind) error {
	if active := l.activeBackend(); active != source {
		return fmt.Errorf("ended from %s while %s is active: %w", source, active, ErrInvalidTransition)
	}
	l.mu.Lock()
	if l.state != Playing {
		s := l.state
		l.mu.Unlock()
		return fmt.Errorf("ended in %s: %w", s, ErrInvalidTransition)
	}
	l.started = false
	l.mu.Unlock()
	return l.move(Credits, Playing)
}

func (l *Lifecycle) CreditsDone() error {
	return l.move(LoaderVisible, Credits)
}

func (l *Lifecycle) move(to State, from State) error {
	l.mu.Lock()
	if l.state != from {
		s := l.state
		l.mu.Unlock()
		return fmt.Errorf("%s to %s: %w", s, to, ErrInvalidTransition)
	}
	l.state = to
	fns := l.snapshot()
	l.mu.Unlock()

	notify(fns, from, to)
	return nil
}

func (l *Lifecycle) snapshot() []func(from, to State) {
	return slices.Clone(l.listeners)
}

func notify(fns []func(from, to State), from, to State) {
	for _, fn := range fns {
		fn(from, to)
	}
}
