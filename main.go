package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/viha-saxena/Movie-sync/cluster"
	"github.com/viha-saxena/Movie-sync/config"
	"github.com/viha-saxena/Movie-sync/hub"
	"github.com/viha-saxena/Movie-sync/protocol"
	"github.com/viha-saxena/Movie-sync/server"
	"github.com/viha-saxena/Movie-sync/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}
	config.SetupLogger(cfg.SlogLevel())

	broadcaster := hub.New()

	var publisher protocol.Publisher
	if cfg.NATS.URL != "" {
		bridgeCfg := cluster.DefaultConfig()
		bridgeCfg.URL = cfg.NATS.URL
		bridgeCfg.Subject = cfg.NATS.Subject
		bridge, err := cluster.Connect(bridgeCfg, broadcaster)
		if err != nil {
			slog.Error("cluster bridge error", "error", err)
			os.Exit(1)
		}
		defer bridge.Close()
		publisher = bridge
	}

	handler := protocol.NewHandler(broadcaster, publisher)

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: server.New(server.Config{
			Broadcaster:    broadcaster,
			Handler:        handler,
			Assets:         assets(cfg.StaticDir),
			AllowedOrigins: cfg.AllowedOrigins,
			Quiescence:     cfg.Quiescence,
		}),
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func assets(dir string) fs.FS {
	if dir == "" {
		return web.Assets()
	}
	slog.Info("serving client bundle from disk", "dir", dir)
	return os.DirFS(dir)
}
