package bot

import (
	rand "math/rand/v2"

	"github.com/cardroom/holdemd/internal/game"
)

// Strategy is a difficulty-scaled betting policy. It satisfies game.Decider
// and is only ever invoked from the owning table goroutine, so the embedded
// rand source needs no locking.
type Strategy struct {
	difficulty Difficulty
	est        estimator
	rng        *rand.Rand
}

// New returns a strategy for the given difficulty. Unknown difficulties
// degrade to Easy.
func New(difficulty Difficulty, rng *rand.Rand) *Strategy {
	if !difficulty.Valid() {
		difficulty = Easy
	}
	return &Strategy{
		difficulty: difficulty,
		est:        estimator{rng: rng, difficulty: difficulty},
		rng:        rng,
	}
}

// Decide implements game.Decider.
func (s *Strategy) Decide(view game.StateView, valid game.ValidActions) (game.Action, int) {
	equity := s.est.equity(view.HoleCards, view.Community, view.LiveOpponents)

	switch s.difficulty {
	case Hard:
		return s.decideHard(view, valid, equity)
	case Medium:
		return s.decideMedium(view, valid, equity)
	default:
		return s.decideEasy(view, valid, equity)
	}
}

func (s *Strategy) decideEasy(view game.StateView, valid game.ValidActions, equity float64) (game.Action, int) {
	if valid.CallAmount == 0 {
		if equity > 0.7 && valid.CanRaise && s.rng.Float64() < 0.3 {
			return s.raiseBy(view, valid, 0.5)
		}
		return game.ActionCheck, 0
	}

	odds := potOdds(view.Pot, valid.CallAmount)
	switch {
	case equity < 0.35:
		return game.ActionFold, 0
	case equity < odds && s.rng.Float64() < 0.8:
		return game.ActionFold, 0
	case equity > 0.7 && valid.CanRaise && s.rng.Float64() < 0.2:
		return s.raiseBy(view, valid, 0.5)
	}
	return s.call(view, valid)
}

func (s *Strategy) decideMedium(view game.StateView, valid game.ValidActions, equity float64) (game.Action, int) {
	if valid.CallAmount == 0 {
		switch {
		case equity > 0.65 && valid.CanRaise:
			return s.raiseBy(view, valid, 0.75)
		case equity > 0.5 && valid.CanRaise && s.rng.Float64() < 0.3:
			return s.raiseBy(view, valid, 0.5)
		}
		return game.ActionCheck, 0
	}

	odds := potOdds(view.Pot, valid.CallAmount)
	switch {
	case equity < odds:
		return game.ActionFold, 0
	case equity > 0.7 && valid.CanRaise:
		return s.raiseBy(view, valid, 1.0)
	case equity > 0.55 && valid.CanRaise && s.rng.Float64() < 0.4:
		return s.raiseBy(view, valid, 0.75)
	}
	return s.call(view, valid)
}

func (s *Strategy) decideHard(view game.StateView, valid game.ValidActions, equity float64) (game.Action, int) {
	inPosition := s.inPosition(view)
	bluffing := inPosition && s.rng.Float64() < 0.15

	if valid.CallAmount == 0 {
		switch {
		case equity > 0.75 && valid.CanRaise:
			fraction := 0.75
			if inPosition {
				fraction = 1.0
			}
			return s.raiseBy(view, valid, fraction)
		case equity > 0.55 && inPosition && valid.CanRaise && s.rng.Float64() < 0.5:
			return s.raiseBy(view, valid, 0.6)
		case bluffing && valid.CanRaise:
			return s.raiseBy(view, valid, 0.6)
		}
		return game.ActionCheck, 0
	}

	odds := potOdds(view.Pot, valid.CallAmount)
	switch {
	case equity < odds && !bluffing:
		return game.ActionFold, 0
	case equity > 0.75 && valid.CanRaise:
		fraction := 0.75
		if inPosition {
			fraction = 1.0
		}
		return s.raiseBy(view, valid, fraction)
	case bluffing && valid.CanRaise && s.rng.Float64() < 0.5:
		return s.raiseBy(view, valid, 0.75)
	}
	return s.call(view, valid)
}

// inPosition reports whether this seat acts in the later half of the order
// relative to the dealer.
func (s *Strategy) inPosition(view game.StateView) bool {
	total := view.LiveOpponents + 1
	if total < 2 {
		return true
	}
	offset := view.Seat - view.DealerSeat
	for offset < 0 {
		offset += total
	}
	return offset%total >= total/2
}

// potOdds is the share of the resulting pot the call buys.
func potOdds(pot, call int) float64 {
	if pot+call == 0 {
		return 0
	}
	return float64(call) / float64(pot+call)
}

// raiseBy builds a pot-fraction raise: the call plus a fraction of the pot,
// clamped into the table's legal raise window. Going all the way to the
// stack becomes an explicit all-in.
func (s *Strategy) raiseBy(view game.StateView, valid game.ValidActions, fraction float64) (game.Action, int) {
	target := view.CurrentBet + int(float64(view.Pot)*fraction)
	if target < valid.MinRaise {
		target = valid.MinRaise
	}
	if target > valid.MaxRaise {
		target = valid.MaxRaise
	}
	if target >= view.MyBet+view.MyChips {
		return game.ActionAllIn, 0
	}
	return game.ActionRaise, target
}

// call covers the bet, which for a short stack means all-in.
func (s *Strategy) call(view game.StateView, valid game.ValidActions) (game.Action, int) {
	if valid.CallAmount >= view.MyChips {
		return game.ActionAllIn, 0
	}
	return game.ActionCall, 0
}
