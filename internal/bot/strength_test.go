package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardroom/holdemd/internal/card"
	"github.com/cardroom/holdemd/internal/randutil"
)

func TestChenScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hole string
		want float64
	}{
		{"AsAh", 20},  // premium pair doubles the base
		{"AsKs", 12},  // suited broadway
		{"AdKc", 10},  // offsuit, one gap costs nothing
		{"KhQd", 8},   // no low-connector bonus above jack
		{"JsTs", 9},   // suited connector with the low bonus
		{"Ts9s", 8},   //
		{"2c2d", 5},   // small pairs floor at five
		{"7h2c", 0},   // worst hand clamps to zero
		{"9d5c", 0.5}, // 4.5 base minus the four-gap penalty
	}
	for _, tt := range tests {
		t.Run(tt.hole, func(t *testing.T) {
			t.Parallel()
			got := ChenScore(card.MustParseAll(tt.hole))
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestPreflopEquityCapsAtOne(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, PreflopEquity(card.MustParseAll("AsAh")))
	assert.Less(t, PreflopEquity(card.MustParseAll("KhQd")), 1.0)
	assert.Zero(t, PreflopEquity(card.MustParseAll("7h2c")))
}

func TestMonteCarloEquityUnbeatableHand(t *testing.T) {
	t.Parallel()

	// A made royal flush cannot be beaten or tied, whatever the runout.
	rng := randutil.New(7)
	hole := card.MustParseAll("AhKh")
	community := card.MustParseAll("QhJhTh")
	assert.Equal(t, 1.0, MonteCarloEquity(rng, hole, community, 2, 50))
}

func TestMonteCarloEquityWithinBounds(t *testing.T) {
	t.Parallel()

	rng := randutil.New(7)
	eq := MonteCarloEquity(rng, card.MustParseAll("7h2c"), nil, 3, 200)
	assert.GreaterOrEqual(t, eq, 0.0)
	assert.LessOrEqual(t, eq, 1.0)
}

func TestMonteCarloEquityStrongerHandScoresHigher(t *testing.T) {
	t.Parallel()

	// Aces beat seven-deuce by a wide margin at any sample size worth
	// using, so a comfortably large gap is a stable assertion.
	aces := MonteCarloEquity(randutil.New(7), card.MustParseAll("AsAh"), nil, 1, 400)
	junk := MonteCarloEquity(randutil.New(7), card.MustParseAll("7h2c"), nil, 1, 400)
	assert.Greater(t, aces, junk+0.2)
}

func TestDifficultyValid(t *testing.T) {
	t.Parallel()

	for _, d := range Difficulties() {
		assert.True(t, d.Valid())
	}
	assert.False(t, Difficulty("nightmare").Valid())
}
