// Package eval scores poker hands on the 7462-point scale using prime-tagged
// card encodings and precomputed lookup tables. Score 1 is a royal flush,
// 7462 is seven-high; lower is always better.
package eval

import (
	"fmt"

	"github.com/cardroom/holdemd/internal/card"
)

const (
	// BestScore is the royal flush.
	BestScore = 1
	// WorstScore is 7-5-4-3-2 unsuited.
	WorstScore = 7462
)

// Class identifies the category of a 5-card hand.
type Class int

const (
	StraightFlush Class = iota + 1
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	OnePair
	HighCard
)

// String returns the display name of the class.
func (c Class) String() string {
	switch c {
	case StraightFlush:
		return "Straight Flush"
	case FourOfAKind:
		return "Four of a Kind"
	case FullHouse:
		return "Full House"
	case Flush:
		return "Flush"
	case Straight:
		return "Straight"
	case ThreeOfAKind:
		return "Three of a Kind"
	case TwoPair:
		return "Two Pair"
	case OnePair:
		return "One Pair"
	case HighCard:
		return "High Card"
	}
	return "Unknown"
}

// ClassOf maps a score to its hand class via the fixed enumeration bounds.
func ClassOf(score int) Class {
	switch {
	case score <= 10:
		return StraightFlush
	case score <= 166:
		return FourOfAKind
	case score <= 322:
		return FullHouse
	case score <= 1599:
		return Flush
	case score <= 1609:
		return Straight
	case score <= 2467:
		return ThreeOfAKind
	case score <= 3325:
		return TwoPair
	case score <= 6185:
		return OnePair
	default:
		return HighCard
	}
}

// HandName returns the display name for a score, distinguishing the royal
// flush from lesser straight flushes.
func HandName(score int) string {
	if score == BestScore {
		return "Royal Flush"
	}
	return ClassOf(score).String()
}

// Eval5 scores exactly five cards. A missing table entry means the cards
// were not five distinct members of a deck, which is a programmer error.
func Eval5(c1, c2, c3, c4, c5 card.Card) int {
	if c1.SuitFlag()&c2.SuitFlag()&c3.SuitFlag()&c4.SuitFlag()&c5.SuitFlag() != 0 {
		bits := (uint32(c1) | uint32(c2) | uint32(c3) | uint32(c4) | uint32(c5)) >> 16 & 0x1FFF
		score, ok := flushTable[bits]
		if !ok {
			panic(fmt.Sprintf("no flush entry for rank bits %013b", bits))
		}
		return score
	}

	product := c1.Prime() * c2.Prime() * c3.Prime() * c4.Prime() * c5.Prime()
	if score, ok := unique5[product]; ok {
		return score
	}
	score, ok := pairs[product]
	if !ok {
		panic(fmt.Sprintf("no pair entry for prime product %d", product))
	}
	return score
}

// Eval7 scores the best five of seven cards and returns that five-card
// subset for showdown display. Ties between subsets resolve to the first in
// enumeration order; equal scores are the same hand strength.
func Eval7(cards [7]card.Card) (int, [5]card.Card) {
	best := WorstScore + 1
	var bestHand [5]card.Card

	// Walk the 21 ways of discarding two of the seven.
	for skipA := 0; skipA < 7; skipA++ {
		for skipB := skipA + 1; skipB < 7; skipB++ {
			var five [5]card.Card
			n := 0
			for i, c := range cards {
				if i == skipA || i == skipB {
					continue
				}
				five[n] = c
				n++
			}
			if score := Eval5(five[0], five[1], five[2], five[3], five[4]); score < best {
				best = score
				bestHand = five
			}
		}
	}
	return best, bestHand
}

// EvalBest scores the best five cards out of five, six, or seven.
func EvalBest(cards []card.Card) (int, error) {
	switch len(cards) {
	case 5:
		return Eval5(cards[0], cards[1], cards[2], cards[3], cards[4]), nil
	case 6:
		best := WorstScore + 1
		for skip := 0; skip < 6; skip++ {
			var five [5]card.Card
			n := 0
			for i, c := range cards {
				if i == skip {
					continue
				}
				five[n] = c
				n++
			}
			if score := Eval5(five[0], five[1], five[2], five[3], five[4]); score < best {
				best = score
			}
		}
		return best, nil
	case 7:
		score, _ := Eval7([7]card.Card(cards))
		return score, nil
	default:
		return 0, fmt.Errorf("eval: want 5 to 7 cards, got %d", len(cards))
	}
}
