package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/cardroom/holdemd/internal/bot"
	"github.com/cardroom/holdemd/internal/game"
	"github.com/cardroom/holdemd/internal/randutil"
)

// Errors returned from lobby operations.
var (
	ErrTableNotFound  = errors.New("table not found")
	ErrManagerStopped = errors.New("table manager stopped")
)

// CreateParams describes a table to open. Zero values take table defaults.
type CreateParams struct {
	Name       string
	Variant    game.Variant
	SmallBlind int
	BigBlind   int
	BuyIn      int
	MaxPlayers int
	Bots       []bot.Difficulty
}

// validate applies the lobby rules before a table is opened.
func (p *CreateParams) validate() error {
	if p.Name == "" {
		return fmt.Errorf("table name is required")
	}
	if p.Variant == "" {
		p.Variant = game.NoLimit
	}
	if !p.Variant.Valid() {
		return fmt.Errorf("unknown variant %q", p.Variant)
	}
	if p.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if p.BigBlind < 2*p.SmallBlind {
		return fmt.Errorf("big blind must be at least twice the small blind")
	}
	if p.BuyIn == 0 {
		p.BuyIn = 100 * p.BigBlind
	}
	if p.BuyIn < 20*p.BigBlind || p.BuyIn > 500*p.BigBlind {
		return fmt.Errorf("buy-in must be between 20 and 500 big blinds")
	}
	if p.MaxPlayers == 0 {
		p.MaxPlayers = 6
	}
	if p.MaxPlayers < 2 || p.MaxPlayers > 9 {
		return fmt.Errorf("max players must be between 2 and 9")
	}
	for _, d := range p.Bots {
		if !d.Valid() {
			return fmt.Errorf("unknown bot difficulty %q", d)
		}
	}
	if len(p.Bots) >= p.MaxPlayers {
		return fmt.Errorf("bots would fill the table")
	}
	return nil
}

// TableManager owns the set of live tables. Each table runs its own
// goroutine; the manager only guards the registry map.
type TableManager struct {
	log     zerolog.Logger
	clock   quartz.Clock
	metrics *Metrics
	seed    int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	entries map[string]*tableEntry
	nextRNG int64
}

type tableEntry struct {
	table *game.Table
	hub   *Hub
}

// NewTableManager creates a manager whose tables stop when Shutdown is
// called. The seed makes every table's deal sequence reproducible.
func NewTableManager(logger zerolog.Logger, clock quartz.Clock, metrics *Metrics, seed int64) *TableManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &TableManager{
		log:     logger,
		clock:   clock,
		metrics: metrics,
		seed:    seed,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]*tableEntry),
	}
}

// CreateTable validates the parameters, opens the table, starts its
// goroutine and seats any requested bots.
func (m *TableManager) CreateTable(params CreateParams) (game.Info, error) {
	if err := params.validate(); err != nil {
		return game.Info{}, err
	}
	if m.ctx.Err() != nil {
		return game.Info{}, ErrManagerStopped
	}

	cfg := game.Config{
		Variant:    params.Variant,
		SmallBlind: params.SmallBlind,
		BigBlind:   params.BigBlind,
		BuyIn:      params.BuyIn,
		MaxPlayers: params.MaxPlayers,
	}

	hub := NewHub(m.log, m.metrics)
	rng := randutil.New(m.tableSeed())
	table := game.NewTable(params.Name, cfg, hub, m.log, rng, m.clock)

	m.mu.Lock()
	m.entries[table.ID] = &tableEntry{table: table, hub: hub}
	m.mu.Unlock()
	if m.metrics != nil {
		m.metrics.ActiveTables.Inc()
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		table.Run(m.ctx)
	}()

	for i, difficulty := range params.Bots {
		name := fmt.Sprintf("%s-bot-%d", difficulty, i+1)
		strategy := bot.New(difficulty, randutil.New(m.tableSeed()))
		if _, err := table.Join(name, true, strategy); err != nil {
			m.log.Warn().Err(err).Str("table", table.ID).Str("bot", name).Msg("Failed to seat bot")
		}
	}

	m.log.Info().
		Str("table", table.ID).
		Str("name", params.Name).
		Str("variant", string(params.Variant)).
		Int("bots", len(params.Bots)).
		Msg("Table created")
	return table.Info(), nil
}

// tableSeed derives a fresh deterministic seed per consumer.
func (m *TableManager) tableSeed() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRNG++
	return m.seed + m.nextRNG
}

// JoinTable seats a human player and returns their player id for the
// WebSocket handshake.
func (m *TableManager) JoinTable(tableID, playerName string) (string, error) {
	entry := m.entry(tableID)
	if entry == nil {
		return "", ErrTableNotFound
	}
	if playerName == "" {
		return "", fmt.Errorf("player name is required")
	}
	p, err := entry.table.Join(playerName, false, nil)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// Table returns a running table by id.
func (m *TableManager) Table(tableID string) (*game.Table, bool) {
	entry := m.entry(tableID)
	if entry == nil {
		return nil, false
	}
	return entry.table, true
}

// Hub returns the connection registry for a table.
func (m *TableManager) Hub(tableID string) (*Hub, bool) {
	entry := m.entry(tableID)
	if entry == nil {
		return nil, false
	}
	return entry.hub, true
}

// Tables lists lobby summaries for every open table.
func (m *TableManager) Tables() []game.Info {
	m.mu.RLock()
	entries := make([]*tableEntry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	infos := make([]game.Info, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, e.table.Info())
	}
	return infos
}

// Shutdown stops every table goroutine and waits for them, bounded by the
// given context.
func (m *TableManager) Shutdown(ctx context.Context) error {
	m.cancel()

	finished := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("table shutdown: %w", ctx.Err())
	}
}

func (m *TableManager) entry(tableID string) *tableEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[tableID]
}
