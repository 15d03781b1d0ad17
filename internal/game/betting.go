package game

import (
	"errors"
	"fmt"
)

// Rule violations surfaced to the acting player. The table maps these onto
// error events; none of them mutate state.
var (
	ErrNotYourTurn      = errors.New("not your turn")
	ErrUnknownAction    = errors.New("unknown action")
	ErrCheckFacingBet   = errors.New("cannot check facing a bet")
	ErrRaiseTooSmall    = errors.New("raise below minimum")
	ErrRaiseTooLarge    = errors.New("raise exceeds stack")
	ErrRaiseNotReopened = errors.New("betting is not reopened")
	ErrRaiseCapReached  = errors.New("raise cap reached for this street")
)

// Outcome reports where a betting round stands after an action.
type Outcome int

const (
	// Continue means another player is due to act.
	Continue Outcome = iota
	// RoundComplete means all bets are matched and the street is over.
	RoundComplete
	// AllFolded means one player remains and the hand short-circuits to
	// payout.
	AllFolded
)

// BettingRound drives one street of betting. The caller positions
// GameState.CurrentIndex on the first player to act before the first Apply.
//
// The acted set holds players whose action is closed for the street. It
// resets to just the aggressor on a full raise; a short all-in below the
// full raise size adds its actor without resetting, so everyone already in
// the set keeps can_raise false and may only call or fold.
type BettingRound struct {
	gs    *GameState
	acted map[string]bool
}

// NewBettingRound starts a street on the given state. For preflop the
// blinds are already committed and the blind posters are not in the acted
// set, which preserves the big blind's option.
func NewBettingRound(gs *GameState) *BettingRound {
	return &BettingRound{gs: gs, acted: make(map[string]bool)}
}

// ValidFor computes the actions open to a player right now.
func (br *BettingRound) ValidFor(p *Player) ValidActions {
	callAmount := max(0, br.gs.CurrentBet-p.Bet)
	va := ValidActions{
		CanCheck:   callAmount == 0,
		CallAmount: min(callAmount, p.Chips),
	}

	if br.gs.Variant == FixedLimit {
		fixed := br.gs.FixedBet()
		if br.gs.RaiseCount < 4 && !br.acted[p.ID] && p.Chips > callAmount {
			va.CanRaise = true
			va.MinRaise = min(br.gs.CurrentBet+fixed, p.Chips+p.Bet)
			va.MaxRaise = va.MinRaise
		}
		return va
	}

	maxTotal := p.Chips + p.Bet
	if !br.acted[p.ID] && maxTotal > br.gs.CurrentBet {
		va.CanRaise = true
		va.MinRaise = min(br.gs.CurrentBet+max(br.gs.LastRaiseSize, br.gs.BigBlind), maxTotal)
		va.MaxRaise = maxTotal
	}
	return va
}

// Apply validates and executes one action for the given player. Rule
// violations return an error with the state untouched; the same player
// remains to act.
func (br *BettingRound) Apply(playerID string, action Action, amount int) (Outcome, error) {
	p := br.gs.CurrentPlayer()
	if p.ID != playerID {
		return Continue, ErrNotYourTurn
	}

	callAmount := max(0, br.gs.CurrentBet-p.Bet)

	switch action {
	case ActionFold:
		p.Status = Folded
		br.acted[p.ID] = true

	case ActionCheck:
		if callAmount != 0 {
			return Continue, ErrCheckFacingBet
		}
		br.acted[p.ID] = true

	case ActionCall:
		if callAmount == 0 {
			// A call with nothing to call is a check.
			br.acted[p.ID] = true
			break
		}
		br.gs.Pots.Add(p.ID, p.commit(callAmount))
		br.acted[p.ID] = true

	case ActionRaise:
		if err := br.applyRaise(p, amount); err != nil {
			return Continue, err
		}

	case ActionAllIn:
		if err := br.applyRaise(p, p.Chips+p.Bet); err != nil {
			return Continue, err
		}

	default:
		return Continue, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if outcome := br.Complete(); outcome != Continue {
		return outcome, nil
	}
	if next := nextActorIndex(br.gs.Players, br.gs.CurrentIndex); next >= 0 {
		br.gs.CurrentIndex = next
	}
	return Continue, nil
}

// applyRaise executes a raise to the given total. All-ins route through
// here with the player's maximum total.
func (br *BettingRound) applyRaise(p *Player, total int) error {
	maxTotal := p.Chips + p.Bet
	callAmount := max(0, br.gs.CurrentBet-p.Bet)

	if total <= br.gs.CurrentBet {
		// An all-in that cannot exceed the current bet is a short call.
		if total == maxTotal {
			br.gs.Pots.Add(p.ID, p.commit(p.Chips))
			br.acted[p.ID] = true
			return nil
		}
		return ErrRaiseTooSmall
	}
	if total > maxTotal {
		return ErrRaiseTooLarge
	}
	if br.acted[p.ID] {
		return ErrRaiseNotReopened
	}

	if br.gs.Variant == FixedLimit {
		return br.applyFixedRaise(p, total, callAmount)
	}

	minTotal := br.gs.CurrentBet + max(br.gs.LastRaiseSize, br.gs.BigBlind)
	if total < minTotal && total != maxTotal {
		return ErrRaiseTooSmall
	}

	fullRaise := total-br.gs.CurrentBet >= max(br.gs.LastRaiseSize, br.gs.BigBlind)
	br.gs.Pots.Add(p.ID, p.commit(total-p.Bet))
	if fullRaise {
		br.gs.LastRaiseSize = total - br.gs.CurrentBet
		br.acted = map[string]bool{p.ID: true}
	} else {
		br.acted[p.ID] = true
	}
	br.gs.CurrentBet = total
	br.gs.RaiseCount++
	return nil
}

// applyFixedRaise executes a fixed-limit raise: exactly one fixed bet on
// top of the current bet, at most four bets per street, short all-ins
// allowed without reopening or counting toward the cap.
func (br *BettingRound) applyFixedRaise(p *Player, total, callAmount int) error {
	fixed := br.gs.FixedBet()
	target := br.gs.CurrentBet + fixed
	maxTotal := p.Chips + p.Bet

	if total < target {
		// Only a genuine all-in may come in short.
		if total != maxTotal {
			return ErrRaiseTooSmall
		}
		if br.gs.RaiseCount >= 4 {
			return ErrRaiseCapReached
		}
		br.gs.Pots.Add(p.ID, p.commit(p.Chips))
		br.acted[p.ID] = true
		br.gs.CurrentBet = total
		return nil
	}
	if total > target {
		return fmt.Errorf("%w: fixed limit raise must be to %d", ErrRaiseTooLarge, target)
	}
	if br.gs.RaiseCount >= 4 {
		return ErrRaiseCapReached
	}

	br.gs.Pots.Add(p.ID, p.commit(target-p.Bet))
	br.gs.CurrentBet = target
	br.gs.LastRaiseSize = fixed
	br.gs.RaiseCount++
	br.acted = map[string]bool{p.ID: true}
	return nil
}

// Complete reports whether the street is finished: AllFolded when a single
// live player remains, RoundComplete when every player who can still act
// has acted and matched the current bet.
func (br *BettingRound) Complete() Outcome {
	live := 0
	for _, p := range br.gs.Players {
		if p.InHand() {
			live++
		}
	}
	if live <= 1 {
		return AllFolded
	}

	for _, p := range br.gs.Players {
		if !p.CanAct() {
			continue
		}
		if !br.acted[p.ID] || p.Bet != br.gs.CurrentBet {
			return Continue
		}
	}
	return RoundComplete
}
