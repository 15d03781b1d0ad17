package server

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/holdemd/internal/bot"
	"github.com/cardroom/holdemd/internal/game"
)

func newTestManager(t *testing.T) *TableManager {
	t.Helper()
	m := NewTableManager(zerolog.Nop(), quartz.NewReal(), nil, 42)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	})
	return m
}

func TestCreateParamsValidation(t *testing.T) {
	t.Parallel()

	valid := CreateParams{Name: "main", SmallBlind: 5, BigBlind: 10}

	tests := []struct {
		name   string
		mutate func(*CreateParams)
		wantOK bool
	}{
		{"defaults fill in", func(p *CreateParams) {}, true},
		{"missing name", func(p *CreateParams) { p.Name = "" }, false},
		{"unknown variant", func(p *CreateParams) { p.Variant = "pot_limit" }, false},
		{"fixed limit accepted", func(p *CreateParams) { p.Variant = game.FixedLimit }, true},
		{"zero small blind", func(p *CreateParams) { p.SmallBlind = 0 }, false},
		{"big blind under twice the small", func(p *CreateParams) { p.BigBlind = 9 }, false},
		{"big blind exactly twice the small", func(p *CreateParams) { p.BigBlind = 10 }, true},
		{"buy-in too shallow", func(p *CreateParams) { p.BuyIn = 100 }, false},
		{"buy-in too deep", func(p *CreateParams) { p.BuyIn = 10000 }, false},
		{"max players too high", func(p *CreateParams) { p.MaxPlayers = 12 }, false},
		{"unknown bot difficulty", func(p *CreateParams) { p.Bots = []bot.Difficulty{"impossible"} }, false},
		{"bots fill the table", func(p *CreateParams) {
			p.MaxPlayers = 2
			p.Bots = []bot.Difficulty{bot.Easy, bot.Easy}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			params := valid
			tt.mutate(&params)
			err := params.validate()
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCreateParamsDefaults(t *testing.T) {
	t.Parallel()

	params := CreateParams{Name: "main", SmallBlind: 5, BigBlind: 10}
	require.NoError(t, params.validate())
	assert.Equal(t, game.NoLimit, params.Variant)
	assert.Equal(t, 1000, params.BuyIn, "default buy-in is a hundred big blinds")
	assert.Equal(t, 6, params.MaxPlayers)
}

func TestCreateTableSeatsBots(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	info, err := m.CreateTable(CreateParams{
		Name:       "bots",
		SmallBlind: 5,
		BigBlind:   10,
		Bots:       []bot.Difficulty{bot.Easy, bot.Hard},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, info.Seated)
	assert.Equal(t, 2, info.Bots)

	table, ok := m.Table(info.ID)
	require.True(t, ok)
	assert.Equal(t, info.ID, table.ID)

	_, ok = m.Hub(info.ID)
	assert.True(t, ok)
}

func TestJoinTable(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	info, err := m.CreateTable(CreateParams{Name: "join", SmallBlind: 5, BigBlind: 10, MaxPlayers: 3})
	require.NoError(t, err)

	playerID, err := m.JoinTable(info.ID, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, playerID)

	_, err = m.JoinTable(info.ID, "")
	assert.Error(t, err, "name is required")

	_, err = m.JoinTable("nope", "bob")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestJoinFullTableConflicts(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	info, err := m.CreateTable(CreateParams{Name: "tight", SmallBlind: 5, BigBlind: 10, MaxPlayers: 2})
	require.NoError(t, err)

	_, err = m.JoinTable(info.ID, "alice")
	require.NoError(t, err)
	_, err = m.JoinTable(info.ID, "bob")
	require.NoError(t, err)

	_, err = m.JoinTable(info.ID, "carol")
	assert.ErrorIs(t, err, game.ErrTableFull)
}

func TestTablesListsEveryTable(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	for _, name := range []string{"one", "two"} {
		_, err := m.CreateTable(CreateParams{Name: name, SmallBlind: 5, BigBlind: 10})
		require.NoError(t, err)
	}

	infos := m.Tables()
	require.Len(t, infos, 2)
	names := map[string]bool{}
	for _, info := range infos {
		names[info.Name] = true
	}
	assert.True(t, names["one"] && names["two"])
}

func TestCreateAfterShutdownRejected(t *testing.T) {
	t.Parallel()

	m := NewTableManager(zerolog.Nop(), quartz.NewReal(), nil, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))

	_, err := m.CreateTable(CreateParams{Name: "late", SmallBlind: 5, BigBlind: 10})
	assert.ErrorIs(t, err, ErrManagerStopped)
}
