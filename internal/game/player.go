package game

import "github.com/cardroom/holdemd/internal/card"

// Status is a player's standing within the current hand.
type Status int

const (
	// Active players hold live cards and may still act.
	Active Status = iota
	// Folded players are out of the hand but keep their seat.
	Folded
	// AllIn players hold live cards but have no chips behind.
	AllIn
	// SittingOut players are skipped when dealing.
	SittingOut
)

// String returns the wire form of the status.
func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Folded:
		return "folded"
	case AllIn:
		return "all_in"
	case SittingOut:
		return "sitting_out"
	}
	return "unknown"
}

// Player is a seat at the table. The struct outlives hands; only the
// hand-scoped fields are reset between hands.
type Player struct {
	ID    string
	Name  string
	Seat  int
	IsBot bool
	Chips int

	// Strategy decides actions for bot players; nil for humans.
	Strategy Decider

	// Connected tracks whether a client socket is attached. Bots are
	// always considered connected.
	Connected bool

	// SitOut keeps the player out of the next deal; it is set on
	// auto-fold of a disconnected player and cleared on reconnect.
	// Leaving marks the seat for removal at the next hand boundary.
	SitOut  bool
	Leaving bool

	// Hand-scoped fields.
	Bet         int // committed this street
	Contributed int // committed this hand
	HoleCards   []card.Card
	Status      Status
}

// CanAct reports whether the player can take a betting action.
func (p *Player) CanAct() bool {
	return p.Status == Active && p.Chips > 0
}

// InHand reports whether the player still holds live cards.
func (p *Player) InHand() bool {
	return p.Status == Active || p.Status == AllIn
}

// Funded reports whether the player can be dealt into the next hand.
func (p *Player) Funded() bool {
	return p.Chips > 0 && !p.SitOut
}

// resetForHand clears the hand-scoped fields ahead of a new deal.
func (p *Player) resetForHand() {
	p.Bet = 0
	p.Contributed = 0
	p.HoleCards = nil
	if p.Funded() {
		p.Status = Active
	} else {
		p.Status = SittingOut
	}
}

// commit moves up to amount chips from the stack into the current bet and
// returns what was actually moved. Committing the whole stack marks the
// player all in.
func (p *Player) commit(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.Bet += amount
	p.Contributed += amount
	if p.Chips == 0 && p.Status == Active {
		p.Status = AllIn
	}
	return amount
}
