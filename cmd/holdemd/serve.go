package main

import (
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/cardroom/holdemd/cmd/holdemd/shared"
	"github.com/cardroom/holdemd/internal/server"
)

// ServeCmd runs the HTTP/WebSocket server.
type ServeCmd struct {
	Config  string `kong:"default='holdemd.hcl',help='HCL configuration file'"`
	Addr    string `kong:"help='Listen address, overrides the config file'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
	LogJSON bool   `kong:"name='log-json',help='Emit structured JSON logs'"`
	Seed    *int64 `kong:"help='Deterministic RNG seed for shuffles (optional)'"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	if c.Debug {
		cfg.Server.Debug = true
	}
	if c.LogJSON {
		cfg.Server.LogJSON = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var logger zerolog.Logger
	if cfg.Server.LogJSON {
		logger = shared.SetupStructuredLogger(cfg.Server.Debug)
	} else {
		logger = shared.SetupLogger(cfg.Server.Debug)
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info().Int64("seed", seed).Msg("Using deterministic seed")
	}

	s := server.NewServer(cfg, logger, quartz.NewReal(), seed)

	logger.Info().
		Str("addr", cfg.Server.Addr).
		Int("tables", len(cfg.Tables)).
		Msg("Starting holdemd")

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	return s.Start(ctx)
}
