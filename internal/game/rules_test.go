package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlindIndicesThreeHanded(t *testing.T) {
	t.Parallel()

	gs := newTestState(NoLimit, 5, 10, 100, 100, 100)
	sb, bb := blindIndices(gs.Players, 0)
	assert.Equal(t, 1, sb)
	assert.Equal(t, 2, bb)
}

func TestBlindIndicesHeadsUp(t *testing.T) {
	t.Parallel()

	// Dealer posts the small blind heads-up.
	gs := newTestState(NoLimit, 5, 10, 100, 100)
	sb, bb := blindIndices(gs.Players, 1)
	assert.Equal(t, 1, sb)
	assert.Equal(t, 0, bb)
}

func TestFirstToActHeadsUp(t *testing.T) {
	t.Parallel()

	gs := newTestState(NoLimit, 5, 10, 100, 100)
	assert.Equal(t, 0, firstToActPreflop(gs.Players, 0), "dealer opens preflop")
	assert.Equal(t, 1, firstToActPostflop(gs.Players, 0), "non-dealer opens postflop")
}

func TestFirstToActSkipsFoldedAndAllIn(t *testing.T) {
	t.Parallel()

	gs := newTestState(NoLimit, 5, 10, 100, 100, 100, 100)
	gs.Players[1].Status = Folded
	gs.Players[2].Status = AllIn
	assert.Equal(t, 3, firstToActPostflop(gs.Players, 0))
}

func TestAdvanceDealerSkipsBustedPlayers(t *testing.T) {
	t.Parallel()

	gs := newTestState(NoLimit, 5, 10, 100, 0, 100)
	assert.Equal(t, 2, advanceDealer(gs.Players, 0))
	assert.Equal(t, 0, advanceDealer(gs.Players, 2), "wraps past the busted seat")
}

func TestPostBlindsPrimesPreflopBetting(t *testing.T) {
	t.Parallel()

	gs := newTestState(NoLimit, 5, 10, 100, 100, 100)
	sb, bb := postBlinds(gs)
	require.Equal(t, 1, sb)
	require.Equal(t, 2, bb)

	assert.Equal(t, 95, gs.Players[1].Chips)
	assert.Equal(t, 90, gs.Players[2].Chips)
	assert.Equal(t, 15, gs.PotTotal())
	assert.Equal(t, 10, gs.CurrentBet)
	assert.Equal(t, 10, gs.LastRaiseSize)
	assert.Equal(t, 1, gs.RaiseCount, "the big blind is the first bet")
}

func TestPostBlindsShortStackGoesAllIn(t *testing.T) {
	t.Parallel()

	gs := newTestState(NoLimit, 5, 10, 100, 100, 4)
	postBlinds(gs)
	bbPlayer := gs.Players[2]
	assert.Equal(t, AllIn, bbPlayer.Status)
	assert.Equal(t, 4, bbPlayer.Bet)
	assert.Equal(t, 10, gs.CurrentBet, "callers still owe a full big blind")
}

func TestPayoutOrderStartsLeftOfDealer(t *testing.T) {
	t.Parallel()

	gs := newTestState(NoLimit, 5, 10, 100, 100, 100, 100)
	gs.Players[2].Status = Folded
	assert.Equal(t, []string{"p3", "p0", "p1"}, payoutOrder(gs.Players, 1))
}
