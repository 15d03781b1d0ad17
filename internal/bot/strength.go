// Package bot implements the table's computer opponents: a hand strength
// estimator and three difficulty tiers of betting strategy satisfying
// game.Decider.
package bot

import (
	rand "math/rand/v2"

	"github.com/cardroom/holdemd/internal/card"
	"github.com/cardroom/holdemd/internal/eval"
)

// ChenScore approximates preflop hand strength on the 0..20 Chen scale.
func ChenScore(hole []card.Card) float64 {
	if len(hole) != 2 {
		return 0
	}

	hi, lo := hole[0], hole[1]
	if lo.Rank() > hi.Rank() {
		hi, lo = lo, hi
	}
	r1, r2 := int(hi.Rank()), int(lo.Rank())
	gap := r1 - r2

	var score float64
	switch r1 {
	case 14:
		score = 10
	case 13:
		score = 8
	case 12:
		score = 7
	case 11:
		score = 6
	default:
		score = float64(r1) / 2
	}

	if r1 == r2 {
		return max(score*2, 5)
	}

	if hi.Suit() == lo.Suit() {
		score += 2
	}

	switch gap {
	case 0, 1:
	case 2:
		score--
	case 3:
		score -= 2
	case 4:
		score -= 4
	default:
		score -= 5
	}

	// Connected low cards keep straight potential.
	if gap <= 1 && r1 <= 11 {
		score++
	}

	return max(score, 0)
}

// PreflopEquity normalizes the Chen score to [0, 1].
func PreflopEquity(hole []card.Card) float64 {
	return min(ChenScore(hole)/20, 1)
}

// MonteCarloEquity estimates win probability against the given number of
// random opponent hands, counting ties as half a win.
func MonteCarloEquity(rng *rand.Rand, hole, community []card.Card, opponents, simulations int) float64 {
	if opponents < 1 {
		opponents = 1
	}

	known := make(map[card.Card]bool, len(hole)+len(community))
	for _, c := range hole {
		known[c] = true
	}
	for _, c := range community {
		known[c] = true
	}

	stub := make([]card.Card, 0, 52)
	for s := card.Spades; s <= card.Clubs; s++ {
		for r := card.Two; r <= card.Ace; r++ {
			if c := card.New(r, s); !known[c] {
				stub = append(stub, c)
			}
		}
	}

	boardNeeded := 5 - len(community)
	wins := 0.0

	for i := 0; i < simulations; i++ {
		rng.Shuffle(len(stub), func(a, b int) { stub[a], stub[b] = stub[b], stub[a] })
		ptr := 0

		board := append(append([]card.Card(nil), community...), stub[:boardNeeded]...)
		ptr += boardNeeded

		ours, _ := eval.EvalBest(append(append([]card.Card(nil), hole...), board...))

		bestOpp := eval.WorstScore + 1
		for o := 0; o < opponents; o++ {
			opp := []card.Card{stub[ptr], stub[ptr+1]}
			ptr += 2
			score, _ := eval.EvalBest(append(opp, board...))
			if score < bestOpp {
				bestOpp = score
			}
		}

		switch {
		case ours < bestOpp:
			wins++
		case ours == bestOpp:
			wins += 0.5
		}
	}

	return wins / float64(simulations)
}

// Difficulty selects a strategy tier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Valid reports whether the difficulty is a known tier.
func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// Difficulties lists the tiers in ascending order of play quality.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// estimator turns a game view into an equity estimate, with simulation
// effort scaled by difficulty.
type estimator struct {
	rng        *rand.Rand
	difficulty Difficulty
}

func (e estimator) equity(hole, community []card.Card, opponents int) float64 {
	if len(hole) == 0 {
		return 0.5
	}
	if len(community) == 0 {
		switch e.difficulty {
		case Hard:
			return MonteCarloEquity(e.rng, hole, nil, opponents, 1000)
		case Medium:
			return PreflopEquity(hole)
		default:
			return PreflopEquity(hole) * 0.9
		}
	}
	sims := 100
	switch e.difficulty {
	case Hard:
		sims = 1000
	case Medium:
		sims = 300
	}
	return MonteCarloEquity(e.rng, hole, community, opponents, sims)
}
