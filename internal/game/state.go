package game

import (
	"github.com/cardroom/holdemd/internal/card"
)

// Variant selects the betting structure.
type Variant string

const (
	NoLimit    Variant = "no_limit"
	FixedLimit Variant = "fixed_limit"
)

// Valid reports whether the variant is one of the known structures.
func (v Variant) Valid() bool {
	return v == NoLimit || v == FixedLimit
}

// Phase is a stage of the per-hand state machine.
type Phase int

const (
	Waiting Phase = iota
	Starting
	Preflop
	Flop
	Turn
	River
	Showdown
	AllFoldedPhase
	HandOver
)

// String returns the wire form of the phase.
func (p Phase) String() string {
	switch p {
	case Waiting:
		return "WAITING"
	case Starting:
		return "STARTING"
	case Preflop:
		return "PREFLOP"
	case Flop:
		return "FLOP"
	case Turn:
		return "TURN"
	case River:
		return "RIVER"
	case Showdown:
		return "SHOWDOWN"
	case AllFoldedPhase:
		return "ALL_FOLDED"
	case HandOver:
		return "HAND_OVER"
	}
	return "UNKNOWN"
}

// Action is a betting action as it appears on the wire. Opening a betting
// round uses ActionRaise with the target total; there is no separate bet
// action.
type Action string

const (
	ActionFold  Action = "fold"
	ActionCheck Action = "check"
	ActionCall  Action = "call"
	ActionRaise Action = "raise"
	ActionAllIn Action = "all_in"
)

// Valid reports whether the action is one of the known verbs.
func (a Action) Valid() bool {
	switch a {
	case ActionFold, ActionCheck, ActionCall, ActionRaise, ActionAllIn:
		return true
	}
	return false
}

// ValidActions describes what the player to act may do, in wire form.
type ValidActions struct {
	CanCheck   bool `json:"can_check"`
	CallAmount int  `json:"call_amount"`
	CanRaise   bool `json:"can_raise"`
	MinRaise   int  `json:"min_raise"` // total bet, not increment
	MaxRaise   int  `json:"max_raise"` // total bet, not increment
}

// StateView is the redacted view handed to a bot strategy: its own cards
// and the public state, nothing else.
type StateView struct {
	Variant       Variant
	Phase         Phase
	HoleCards     []card.Card
	Community     []card.Card
	Pot           int
	CurrentBet    int
	MyBet         int
	MyChips       int
	SmallBlind    int
	BigBlind      int
	Seat          int
	DealerSeat    int
	LiveOpponents int
}

// Decider converts a redacted game view into an action. Bot strategies
// implement it; the orchestrator invokes it after a scheduled delay.
type Decider interface {
	Decide(view StateView, valid ValidActions) (Action, int)
}

// Broadcaster fans events out to a table's connected players. The factory
// is invoked once per recipient so each gets its own redacted payload; a
// nil payload skips that recipient.
type Broadcaster interface {
	BroadcastPersonalized(event string, factory func(playerID string) any)
	SendTo(playerID string, event string, payload any)
}

// GameState is the per-hand state. It is created when a hand starts and
// mutated only by the table goroutine that owns it.
type GameState struct {
	Variant    Variant
	SmallBlind int
	BigBlind   int

	HandID     string
	HandNumber int
	Phase      Phase

	// Players in seat order, shared with the owning table. Sitting-out
	// players appear here but are not dealt in.
	Players []*Player

	DealerIndex  int
	CurrentIndex int

	Community []card.Card

	// Street-scoped betting fields.
	CurrentBet    int
	LastRaiseSize int
	RaiseCount    int

	Deck *card.Deck
	Pots *PotManager
}

// CurrentPlayer returns the player whose turn it is.
func (gs *GameState) CurrentPlayer() *Player {
	return gs.Players[gs.CurrentIndex]
}

// PotTotal is the sum of all contributions this hand.
func (gs *GameState) PotTotal() int {
	return gs.Pots.Total()
}

// FixedBet returns the fixed-limit bet size for the current street: one big
// blind preflop and on the flop, two on the turn and river.
func (gs *GameState) FixedBet() int {
	if gs.Phase == Turn || gs.Phase == River {
		return 2 * gs.BigBlind
	}
	return gs.BigBlind
}

// resetStreet clears the per-street betting fields after a round completes.
func (gs *GameState) resetStreet() {
	gs.CurrentBet = 0
	gs.LastRaiseSize = 0
	gs.RaiseCount = 0
	for _, p := range gs.Players {
		p.Bet = 0
	}
}

// live returns the players still holding cards.
func (gs *GameState) live() []*Player {
	var out []*Player
	for _, p := range gs.Players {
		if p.InHand() {
			out = append(out, p)
		}
	}
	return out
}
