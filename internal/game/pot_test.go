package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awardTotals(awards []Award) map[string]int {
	totals := make(map[string]int)
	for _, a := range awards {
		totals[a.PlayerID] += a.Amount
	}
	return totals
}

func fixedScores(scores map[string]int) func(string) int {
	return func(id string) int { return scores[id] }
}

func TestSinglePotSingleWinner(t *testing.T) {
	t.Parallel()

	pm := NewPotManager()
	pm.Add("a", 50)
	pm.Add("b", 50)
	pm.Add("c", 50)

	awards := pm.ComputePayouts([]string{"a", "b", "c"}, fixedScores(map[string]int{"a": 100, "b": 1, "c": 500}))
	assert.Equal(t, map[string]int{"b": 150}, awardTotals(awards))
}

func TestSidePotSplit(t *testing.T) {
	t.Parallel()

	// Short stack all-in for 100, two deep stacks all-in for 300. Main
	// pot of 300 is contested by everyone, the 400 side pot only by the
	// deep stacks.
	pm := NewPotManager()
	pm.Add("a", 100)
	pm.Add("b", 300)
	pm.Add("c", 300)

	awards := pm.ComputePayouts([]string{"a", "b", "c"}, fixedScores(map[string]int{"a": 1, "b": 300, "c": 200}))
	totals := awardTotals(awards)
	assert.Equal(t, 300, totals["a"], "best hand takes the main pot only")
	assert.Equal(t, 400, totals["c"], "second-best hand takes the side pot")
	assert.Zero(t, totals["b"])
	assert.Equal(t, pm.Total(), totals["a"]+totals["b"]+totals["c"])
}

func TestFoldedChipsStayInPot(t *testing.T) {
	t.Parallel()

	pm := NewPotManager()
	pm.Add("folder", 80)
	pm.Add("a", 200)
	pm.Add("b", 200)

	awards := pm.ComputePayouts([]string{"a", "b"}, fixedScores(map[string]int{"a": 10, "b": 20}))
	totals := awardTotals(awards)
	assert.Equal(t, 480, totals["a"])
	assert.Zero(t, totals["folder"], "folded contributions never come back")
}

func TestTieSplitsEvenlyWithOddChipToFirstInOrder(t *testing.T) {
	t.Parallel()

	pm := NewPotManager()
	pm.Add("a", 25)
	pm.Add("b", 25)
	pm.Add("c", 25)

	// b comes first in payout order among the tied winners.
	awards := pm.ComputePayouts([]string{"b", "c", "a"}, fixedScores(map[string]int{"a": 500, "b": 7, "c": 7}))
	totals := awardTotals(awards)
	assert.Equal(t, 38, totals["b"])
	assert.Equal(t, 37, totals["c"])
}

func TestConservationAcrossRandomLikeCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		contribs map[string]int
		eligible []string
		scores   map[string]int
	}{
		{
			"three level all-in ladder",
			map[string]int{"a": 10, "b": 40, "c": 90, "d": 90},
			[]string{"a", "b", "c", "d"},
			map[string]int{"a": 4, "b": 3, "c": 2, "d": 1},
		},
		{
			"folded overcall",
			map[string]int{"a": 60, "b": 60, "c": 35},
			[]string{"a", "b"},
			map[string]int{"a": 9, "b": 9},
		},
		{
			"uncalled bet refund",
			map[string]int{"a": 200, "b": 100},
			[]string{"a", "b"},
			map[string]int{"a": 50, "b": 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := NewPotManager()
			total := 0
			for id, c := range tt.contribs {
				pm.Add(id, c)
				total += c
			}
			awards := pm.ComputePayouts(tt.eligible, fixedScores(tt.scores))
			sum := 0
			for _, a := range awards {
				sum += a.Amount
			}
			assert.Equal(t, total, sum, "awards must equal contributions")
		})
	}
}

func TestUncalledBetReturnsToBettor(t *testing.T) {
	t.Parallel()

	// a bet 200 but only 100 was called; the 100 excess forms a level
	// only a contests.
	pm := NewPotManager()
	pm.Add("a", 200)
	pm.Add("b", 100)

	awards := pm.ComputePayouts([]string{"a", "b"}, fixedScores(map[string]int{"a": 900, "b": 5}))
	totals := awardTotals(awards)
	assert.Equal(t, 200, totals["b"], "b wins what it contested")
	assert.Equal(t, 100, totals["a"], "a keeps the uncalled excess")
}

func TestEmptyEligible(t *testing.T) {
	t.Parallel()

	pm := NewPotManager()
	pm.Add("a", 10)
	assert.Nil(t, pm.ComputePayouts(nil, fixedScores(nil)))
}

func TestCheckConservation(t *testing.T) {
	t.Parallel()

	pm := NewPotManager()
	pm.Add("a", 10)
	pm.Add("b", 20)
	require.NoError(t, pm.CheckConservation(30))
	assert.Error(t, pm.CheckConservation(25))
}
