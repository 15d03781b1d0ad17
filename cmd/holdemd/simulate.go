package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/cardroom/holdemd/cmd/holdemd/shared"
	"github.com/cardroom/holdemd/internal/bot"
	"github.com/cardroom/holdemd/internal/game"
	"github.com/cardroom/holdemd/internal/randutil"
)

// SimulateCmd plays headless bot-vs-bot hands at full speed and reports the
// final stacks, useful for exercising the engine and comparing strategies.
type SimulateCmd struct {
	Hands      int      `kong:"default='100',help='Number of hands to play'"`
	Bots       []string `kong:"default='medium,medium,hard,easy',help='Bot difficulties to seat'"`
	Variant    string   `kong:"default='no_limit',enum='no_limit,fixed_limit',help='Betting structure'"`
	SmallBlind int      `kong:"default='5',help='Small blind amount'"`
	BigBlind   int      `kong:"default='10',help='Big blind amount'"`
	BuyIn      int      `kong:"default='1000',help='Starting stack'"`
	Seed       *int64   `kong:"help='Deterministic RNG seed (optional)'"`
	Debug      bool     `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	if len(c.Bots) < 2 {
		return fmt.Errorf("at least two bots are required")
	}
	difficulties := make([]bot.Difficulty, len(c.Bots))
	for i, d := range c.Bots {
		difficulties[i] = bot.Difficulty(d)
		if !difficulties[i].Valid() {
			return fmt.Errorf("unknown difficulty %q", d)
		}
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info().Int64("seed", seed).Int("hands", c.Hands).Msg("Starting simulation")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorder := &simRecorder{target: c.Hands, done: cancel}

	cfg := game.Config{
		Variant:    game.Variant(c.Variant),
		SmallBlind: c.SmallBlind,
		BigBlind:   c.BigBlind,
		BuyIn:      c.BuyIn,
		MaxPlayers: len(difficulties),

		BotDelayMin:    time.Microsecond,
		BotDelayMax:    2 * time.Microsecond,
		StreetPause:    time.Microsecond,
		InterHandPause: time.Microsecond,
	}

	table := game.NewTable("simulation", cfg, recorder, logger, randutil.New(seed), quartz.NewReal())

	finished := make(chan struct{})
	go func() {
		table.Run(ctx)
		close(finished)
	}()

	for i, d := range difficulties {
		name := fmt.Sprintf("%s-%d", d, i+1)
		if _, err := table.Join(name, true, bot.New(d, randutil.New(seed+int64(i)+1))); err != nil {
			cancel()
			<-finished
			return err
		}
	}

	<-finished
	recorder.report(logger)
	return nil
}

// simRecorder implements game.Broadcaster for a table with no sockets: it
// counts hands, keeps the last table snapshot and stops the run once the
// target hand count is reached or the game ends.
type simRecorder struct {
	target int
	done   context.CancelFunc

	mu       sync.Mutex
	hands    int
	last     game.StatePayload
	gameOver *game.GameOverPayload
}

func (r *simRecorder) BroadcastPersonalized(event string, factory func(playerID string) any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch event {
	case game.EventGameState, game.EventHandStarting:
		if snap, ok := factory("").(game.StatePayload); ok {
			r.last = snap
		}
	case game.EventHandOver:
		r.hands++
		if r.hands >= r.target {
			r.done()
		}
	case game.EventGameOver:
		if over, ok := factory("").(game.GameOverPayload); ok {
			r.gameOver = &over
		}
		r.done()
	}
}

func (r *simRecorder) SendTo(string, string, any) {}

func (r *simRecorder) report(logger zerolog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.last.Players {
		logger.Info().
			Str("player", p.Name).
			Int("chips", p.Chips).
			Msg("Final stack")
	}
	if r.gameOver != nil {
		logger.Info().
			Str("winner", r.gameOver.Name).
			Int("chips", r.gameOver.Chips).
			Int("hands", r.hands).
			Msg("Game over")
		return
	}
	logger.Info().Int("hands", r.hands).Msg("Simulation complete")
}
