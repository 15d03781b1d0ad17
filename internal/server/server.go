package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Server assembles the REST lobby, the WebSocket endpoint and the table
// manager into one HTTP listener.
type Server struct {
	cfg      *Config
	log      zerolog.Logger
	manager  *TableManager
	metrics  *Metrics
	registry *prometheus.Registry
	http     *http.Server
}

// NewServer wires the server together. Seed makes table shuffles
// reproducible; pass a time-derived value for normal operation.
func NewServer(cfg *Config, logger zerolog.Logger, clock quartz.Clock, seed int64) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := NewMetrics(registry)

	s := &Server{
		cfg:      cfg,
		log:      logger,
		metrics:  metrics,
		registry: registry,
		manager:  NewTableManager(logger, clock, metrics, seed),
	}
	s.http = &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: s.routes(),
	}
	return s
}

// Manager exposes the table manager, used by tests and the simulate
// command.
func (s *Server) Manager() *TableManager {
	return s.manager
}

// Start opens the configured tables and serves HTTP until the context is
// cancelled, then drains tables and the listener.
func (s *Server) Start(ctx context.Context) error {
	for _, t := range s.cfg.Tables {
		if _, err := s.manager.CreateTable(t.CreateParams()); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", s.http.Addr).Msg("Server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.manager.Shutdown(shutdownCtx); err != nil {
			s.log.Warn().Err(err).Msg("Tables did not drain cleanly")
		}
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
