package game

import (
	"fmt"
	"sort"
)

// PotManager tracks each player's total contribution for the hand. Side
// pots are never stored; they are derived from the contribution map and the
// set of players still eligible to win.
type PotManager struct {
	contributions map[string]int
}

// NewPotManager creates an empty pot.
func NewPotManager() *PotManager {
	return &PotManager{contributions: make(map[string]int)}
}

// Add records chips a player has put in.
func (pm *PotManager) Add(playerID string, amount int) {
	if amount > 0 {
		pm.contributions[playerID] += amount
	}
}

// Total is the sum of all contributions.
func (pm *PotManager) Total() int {
	total := 0
	for _, c := range pm.contributions {
		total += c
	}
	return total
}

// Contribution returns what a single player has put in this hand.
func (pm *PotManager) Contribution(playerID string) int {
	return pm.contributions[playerID]
}

// Award is one player's share of one pot level.
type Award struct {
	PlayerID string
	Amount   int
}

// ComputePayouts derives side pots and awards them. eligible lists the
// non-folded players in payout priority order (seat order starting left of
// the dealer); score maps an eligible player to its hand score, lower
// winning. Folded contributions stay in whichever level encompasses them
// and go to that level's winners.
//
// The sum of the returned awards always equals the sum of contributions.
func (pm *PotManager) ComputePayouts(eligible []string, score func(playerID string) int) []Award {
	if len(eligible) == 0 {
		return nil
	}

	// Pot levels are the distinct contribution totals of eligible
	// players, ascending. Everyone pays into a level up to its cap.
	caps := make([]int, 0, len(eligible))
	seen := make(map[int]bool)
	for _, id := range eligible {
		c := pm.contributions[id]
		if c > 0 && !seen[c] {
			seen[c] = true
			caps = append(caps, c)
		}
	}
	sort.Ints(caps)

	var awards []Award
	consumed := make(map[string]int, len(pm.contributions))
	consumedTotal := 0

	for _, cap := range caps {
		pot := 0
		for id, contrib := range pm.contributions {
			share := min(contrib, cap) - consumed[id]
			if share > 0 {
				pot += share
				consumed[id] += share
				consumedTotal += share
			}
		}
		if pot == 0 {
			continue
		}

		// Contestants are eligible players who covered this level.
		var contestants []string
		for _, id := range eligible {
			if pm.contributions[id] >= cap {
				contestants = append(contestants, id)
			}
		}

		best := 0
		var winners []string
		for _, id := range contestants {
			s := score(id)
			switch {
			case len(winners) == 0 || s < best:
				best = s
				winners = []string{id}
			case s == best:
				winners = append(winners, id)
			}
		}

		// Even split; the remainder goes to the first winner in
		// payout priority order.
		share := pot / len(winners)
		remainder := pot % len(winners)
		for i, id := range winners {
			amount := share
			if i == 0 {
				amount += remainder
			}
			if amount > 0 {
				awards = append(awards, Award{PlayerID: id, Amount: amount})
			}
		}
	}

	// Chips above the highest eligible cap belong to no contested level;
	// they fold into the final award so the conservation invariant holds.
	if leftover := pm.Total() - consumedTotal; leftover > 0 && len(awards) > 0 {
		awards[len(awards)-1].Amount += leftover
	}

	return awards
}

// AwardAll pays the entire pot to a single player, for hands that end with
// everyone else folding.
func (pm *PotManager) AwardAll(playerID string) Award {
	return Award{PlayerID: playerID, Amount: pm.Total()}
}

// CheckConservation verifies the pot invariant against the live total and
// returns an error naming the discrepancy.
func (pm *PotManager) CheckConservation(expected int) error {
	if total := pm.Total(); total != expected {
		return fmt.Errorf("pot total %d does not match expected %d", total, expected)
	}
	return nil
}
