package eval

import (
	rand "math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/holdemd/internal/card"
	"github.com/cardroom/holdemd/internal/randutil"
)

func eval5str(t *testing.T, s string) int {
	t.Helper()
	cards := card.MustParseAll(s)
	require.Len(t, cards, 5)
	return Eval5(cards[0], cards[1], cards[2], cards[3], cards[4])
}

func TestEval5KnownScores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards string
		want  int
	}{
		{"royal flush", "AhKhQhJhTh", 1},
		{"king-high straight flush", "KsQsJsTs9s", 2},
		{"steel wheel", "5c4c3c2cAc", 10},
		{"aces full of kings", "AhAdAcKsKh", 167},
		{"ace-high straight", "AhKdQcJsTh", 1600},
		{"wheel", "5h4d3c2sAh", 1609},
		{"worst hand", "7h5d4c3s2h", 7462},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eval5str(t, tt.cards))
		})
	}
}

func TestEval5ClassBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cards string
		class Class
	}{
		{"AhKhQhJhTh", StraightFlush},
		{"AhAdAcAsKh", FourOfAKind},
		{"2h2d2c3s3h", FullHouse},
		{"Ah9h7h5h3h", Flush},
		{"9h8d7c6s5h", Straight},
		{"QhQdQc7s2h", ThreeOfAKind},
		{"JhJd4c4s9h", TwoPair},
		{"ThTd8c5s2h", OnePair},
		{"AhQd9c6s3h", HighCard},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			assert.Equal(t, tt.class, ClassOf(eval5str(t, tt.cards)))
		})
	}
}

func TestWheelRanksBelowSixHighStraight(t *testing.T) {
	t.Parallel()

	wheel := eval5str(t, "5h4d3c2sAh")
	sixHigh := eval5str(t, "6h5d4c3s2h")
	assert.Greater(t, wheel, sixHigh, "wheel is the weakest straight")
	assert.Equal(t, Straight, ClassOf(wheel))
}

func TestEval5PermutationInvariance(t *testing.T) {
	t.Parallel()

	rng := randutil.New(99)
	deck := card.NewDeck(rng)
	for hand := 0; hand < 50; hand++ {
		if deck.Remaining() < 5 {
			deck = card.NewDeck(rng)
		}
		cards := deck.DrawN(5)
		want := Eval5(cards[0], cards[1], cards[2], cards[3], cards[4])
		for trial := 0; trial < 10; trial++ {
			rng.Shuffle(5, func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
			assert.Equal(t, want, Eval5(cards[0], cards[1], cards[2], cards[3], cards[4]))
		}
	}
}

func TestEveryScoreReachable(t *testing.T) {
	t.Parallel()

	// The three tables partition the 7462 equivalence classes.
	seen := make(map[int]bool, WorstScore)
	for _, score := range flushTable {
		seen[score] = true
	}
	for _, score := range unique5 {
		seen[score] = true
	}
	for _, score := range pairs {
		seen[score] = true
	}
	require.Len(t, seen, WorstScore)
	for s := BestScore; s <= WorstScore; s++ {
		assert.True(t, seen[s], "score %d unreachable", s)
	}
}

func TestEval7MatchesMinOverSubsets(t *testing.T) {
	t.Parallel()

	rng := randutil.New(123)
	for hand := 0; hand < 200; hand++ {
		deck := card.NewDeck(rng)
		var seven [7]card.Card
		copy(seven[:], deck.DrawN(7))

		got, bestFive := Eval7(seven)

		want := WorstScore + 1
		forEachFive(seven, func(five [5]card.Card) {
			if s := Eval5(five[0], five[1], five[2], five[3], five[4]); s < want {
				want = s
			}
		})
		assert.Equal(t, want, got)
		assert.Equal(t, got, Eval5(bestFive[0], bestFive[1], bestFive[2], bestFive[3], bestFive[4]))
	}
}

func forEachFive(seven [7]card.Card, visit func([5]card.Card)) {
	for a := 0; a < 7; a++ {
		for b := a + 1; b < 7; b++ {
			var five [5]card.Card
			n := 0
			for i, c := range seven {
				if i == a || i == b {
					continue
				}
				five[n] = c
				n++
			}
			visit(five)
		}
	}
}

func TestEval7RoyalFlushOnBoard(t *testing.T) {
	t.Parallel()

	// Board gives king-high hearts; holding Ah Th completes the royal.
	var seven [7]card.Card
	copy(seven[:], card.MustParseAll("AhThKhQhJh2c3d"))
	score, best := Eval7(seven)
	assert.Equal(t, BestScore, score)
	assert.Equal(t, "Royal Flush", HandName(score))

	ranks := make(map[string]bool)
	for _, c := range best {
		require.Equal(t, card.Hearts, c.Suit())
		ranks[c.Rank().String()] = true
	}
	assert.Len(t, ranks, 5)
}

func TestEvalBest(t *testing.T) {
	t.Parallel()

	_, err := EvalBest(card.MustParseAll("AhKh"))
	assert.Error(t, err)

	score, err := EvalBest(card.MustParseAll("AhKhQhJhTh"))
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	// Six cards: the deuce must be discarded.
	score, err = EvalBest(card.MustParseAll("AhKhQhJhTh2c"))
	require.NoError(t, err)
	assert.Equal(t, 1, score)
}

func BenchmarkEval7(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	deck := card.NewDeck(rng)
	var seven [7]card.Card
	copy(seven[:], deck.DrawN(7))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Eval7(seven)
	}
}
