package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BioHazard786/peerlink/internal/config"
	"github.com/BioHazard786/peerlink/internal/signaling"
)

// Server bundles the hub, the expiry sweeper and the HTTP listener.
type Server struct {
	cfg     *config.Config
	hub     *signaling.Hub
	sweeper *signaling.Sweeper
	http    *http.Server
}

// New builds a server from configuration.
func New(cfg *config.Config) (*Server, error) {
	keys, err := signaling.NewKeyGenerator(cfg.KeyStyle, cfg.KeyLength)
	if err != nil {
		return nil, fmt.Errorf("key generator: %w", err)
	}

	hub := signaling.NewHub(keys, signaling.HubOptions{
		RoomTTL:  cfg.RoomTTL,
		HideKeys: cfg.HideKeys,
	})

	return &Server{
		cfg:     cfg,
		hub:     hub,
		sweeper: signaling.NewSweeper(hub, cfg.SweepInterval, nil),
		http: &http.Server{
			Addr:              cfg.ListenAddr(),
			Handler:           NewRouter(hub, cfg),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Hub returns the server's hub.
func (s *Server) Hub() *signaling.Hub {
	return s.hub
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return s.hub.Run(ctx) })
	g.Go(func() error { return s.sweeper.Run(ctx) })

	g.Go(func() error {
		slog.Info("starting signaling server",
			"addr", s.cfg.ListenAddr(),
			"room_ttl", s.cfg.RoomTTL,
			"sweep_interval", s.cfg.SweepInterval,
		)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		slog.Info("shutting down signaling server")
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
