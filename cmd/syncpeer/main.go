// Command syncpeer is a headless participant: it joins the relay and drives
// virtual players from stdin commands.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/viha-saxena/Movie-sync/config"
	"github.com/viha-saxena/Movie-sync/player"
	"github.com/viha-saxena/Movie-sync/session"
	"github.com/viha-saxena/Movie-sync/syncctl"
	"github.com/viha-saxena/Movie-sync/websocket"
)

const movieLength = 2 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}
	config.SetupLogger(cfg.SlogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := websocket.Dial(ctx, cfg.RelayURL)
	if err != nil {
		slog.Error("relay error", "url", cfg.RelayURL, "error", err)
		os.Exit(1)
	}
	defer client.Close()
	slog.Info("connected to relay", "url", cfg.RelayURL)

	p := newPeer(client, cfg.Quiescence, clockwork.NewRealClock())
	if err := p.session.Enter(); err != nil {
		slog.Error("session error", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := client.Run(ctx, p.session.Apply); err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("relay connection lost", "error", err)
		}
		stop()
	}()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			out, err := p.exec(line)
			if errors.Is(err, errQuit) {
				return
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
			}
			if out != "" {
				fmt.Println(out)
			}
		}
	}
}

func newPeer(t syncctl.Transport, window time.Duration, clock clockwork.Clock) *peer {
	ctrl := syncctl.New(t, syncctl.WithClock(clock), syncctl.WithQuiescenceWindow(window))

	media := player.NewVirtualMedia(clock, movieLength)
	local := player.NewLocal(media, player.NewBlobRegistry())
	media.OnNative(local.HandleNative)

	embed := player.NewVirtualEmbed(clock, movieLength)
	remote := player.NewRemote(embed)
	embed.OnStateChange(remote.HandleStateChange)

	return &peer{
		session: session.New(ctrl, local, remote, slog.Default()),
		ctrl:    ctrl,
		local:   local,
		remote:  remote,
		media:   media,
		embed:   embed,
	}
}
