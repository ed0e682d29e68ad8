package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/viha-saxena/Movie-sync/player"
	"github.com/viha-saxena/Movie-sync/session"
	"github.com/viha-saxena/Movie-sync/syncctl"
)

var errQuit = errors.New("quit")

// peer acts as the user in front of a headless client.
type peer struct {
	session *session.Session
	ctrl    *syncctl.Controller
	local   *player.LocalAdapter
	remote  *player.RemoteAdapter
	media   *player.VirtualMedia
	embed   *player.VirtualEmbed
}

func (p *peer) exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "local":
		if len(args) != 1 {
			return "", errors.New("usage: local <path>")
		}
		f := player.File{Name: filepath.Base(args[0]), Path: args[0]}
		if err := p.session.LoadLocal(f); err != nil {
			return "", err
		}
		return "loaded " + f.Name, nil
	case "remote":
		if len(args) != 1 {
			return "", errors.New("usage: remote <url>")
		}
		if err := p.session.LoadRemote(args[0]); err != nil {
			return p.session.Status(), err
		}
		if !p.remote.Ready() {
			return "queued " + p.remote.Pending() + " until the player is ready", nil
		}
		return "loaded " + p.remote.VideoID(), nil
	case "ready":
		p.remote.OnReady()
		return "remote player ready", nil
	case "play", "pause", "seek", "end":
		return p.userAction(cmd, args)
	case "status":
		return p.status(), nil
	case "quit", "exit":
		return "", errQuit
	}
	return "", fmt.Errorf("unknown command %q", cmd)
}

func (p *peer) userAction(cmd string, args []string) (string, error) {
	var seconds float64
	if cmd == "seek" {
		if len(args) != 1 {
			return "", errors.New("usage: seek <seconds>")
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return "", fmt.Errorf("invalid seconds %q: %w", args[0], err)
		}
		seconds = v
	}

	switch p.ctrl.ActiveKind() {
	case player.KindLocal:
		switch cmd {
		case "play":
			p.media.Play()
		case "pause":
			p.media.Pause()
		case "seek":
			p.media.SetCurrentTime(seconds)
		case "end":
			p.media.Finish()
		}
	case player.KindRemote:
		switch cmd {
		case "play":
			p.embed.PlayVideo()
		case "pause":
			p.embed.PauseVideo()
		case "seek":
			p.embed.SeekTo(seconds, true)
		case "end":
			p.embed.Finish()
		}
	default:
		return "", errors.New("nothing loaded")
	}
	return p.status(), nil
}

func (p *peer) status() string {
	kind := p.ctrl.ActiveKind()
	var a player.Adapter
	switch kind {
	case player.KindLocal:
		a = p.local
	case player.KindRemote:
		a = p.remote
	default:
		return fmt.Sprintf("backend=%s stage=%s", kind, p.session.Lifecycle().State())
	}
	return fmt.Sprintf("backend=%s stage=%s state=%s position=%.2f",
		kind, p.session.Lifecycle().State(), a.NativeState(), a.CurrentTime())
}
