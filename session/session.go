// Package session wires one client's backends, sync controller and
// presentation lifecycle together.
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/viha-saxena/Movie-sync/domain"
	"github.com/viha-saxena/Movie-sync/experience"
	"github.com/viha-saxena/Movie-sync/player"
	"github.com/viha-saxena/Movie-sync/syncctl"
	"github.com/viha-saxena/Movie-sync/videoid"
)

const (
	StatusChoose     = "Choose a movie file or paste a YouTube link"
	StatusInvalidURL = "Invalid YouTube URL"
)

type Session struct {
	ctrl   *syncctl.Controller
	local  *player.LocalAdapter
	remote *player.RemoteAdapter
	life   *experience.Lifecycle
	logger *slog.Logger

	mu     sync.Mutex
	status string
}

func New(ctrl *syncctl.Controller, local *player.LocalAdapter, remote *player.RemoteAdapter, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		ctrl:   ctrl,
		local:  local,
		remote: remote,
		life:   experience.New(ctrl.ActiveKind),
		logger: logger,
		status: StatusChoose,
	}
	local.Subscribe(s.onLifecycleEvent)
	remote.Subscribe(s.onLifecycleEvent)
	return s
}

func (s *Session) Lifecycle() *experience.Lifecycle { return s.life }

func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) setStatus(text string) {
	s.mu.Lock()
	s.status = text
	s.mu.Unlock()
}

// Enter plays the entrance and reveals the loader.
func (s *Session) Enter() error {
	if err := s.life.Enter(); err != nil {
		return err
	}
	return s.life.EntranceComplete()
}

func (s *Session) LoadLocal(f player.File) error {
	if f.Name == "" && f.Path == "" {
		return player.ErrNoFile
	}
	if err := s.life.BeginLoad(); err != nil {
		return fmt.Errorf("load local file: %w", err)
	}
	s.switchTo(s.local)

	url, err := s.local.Load(f)
	if err != nil {
		return fmt.Errorf("load local file: %w", err)
	}
	s.setStatus("")
	s.logger.Info("local movie loaded", "file", f.Name, "url", url)
	return nil
}

func (s *Session) LoadRemote(rawURL string) error {
	id, err := videoid.Parse(rawURL)
	if err != nil {
		s.setStatus(StatusInvalidURL)
		return fmt.Errorf("load remote video: %w", err)
	}
	if err := s.life.BeginLoad(); err != nil {
		return fmt.Errorf("load remote video: %w", err)
	}
	s.switchTo(s.remote)

	s.remote.Load(id)
	s.setStatus("")
	s.logger.Info("remote video loaded", "videoId", id, "ready", s.remote.Ready())
	return nil
}

// switchTo silences and hides every other backend before next becomes active.
func (s *Session) switchTo(next player.Adapter) {
	s.ctrl.Deactivate()
	for _, a := range []player.Adapter{s.local, s.remote} {
		if a != next {
			a.Hide()
		}
	}
	s.ctrl.Activate(next)
	next.Show()
}

// Apply hands an inbound message from the relay to the controller.
func (s *Session) Apply(msg domain.SyncMessage) {
	s.ctrl.Apply(msg)
}

func (s *Session) onLifecycleEvent(ev player.Event) {
	switch ev.Type {
	case player.EventStarted:
		if s.life.MarkStarted(ev.Source) {
			s.logger.Info("experience started", "backend", ev.Source)
		}
	case player.EventEnded:
		if err := s.life.Ended(ev.Source); err != nil {
			s.logger.Debug("ignoring ended", "backend", ev.Source, "error", err)
			return
		}
		s.ctrl.Deactivate()
		s.setStatus(StatusChoose)
		s.logger.Info("playback ended, rolling credits", "backend", ev.Source)
	}
}
