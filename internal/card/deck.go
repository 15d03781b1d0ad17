package card

import rand "math/rand/v2"

// Deck is an ordered sequence of the 52 distinct cards. A deck is built and
// shuffled once per hand and never reshuffled mid-hand.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck returns a full deck shuffled with the provided RNG.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for s := Spades; s <= Clubs; s++ {
		for r := Two; r <= Ace; r++ {
			d.cards = append(d.cards, New(r, s))
		}
	}
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
	return d
}

// NewStackedDeck returns a deck that deals the given cards in order, for
// scripted hands in tests and simulations. The remainder of the deck is the
// unused cards in canonical order.
func NewStackedDeck(top ...Card) *Deck {
	seen := make(map[Card]bool, len(top))
	for _, c := range top {
		seen[c] = true
	}
	d := &Deck{cards: append([]Card(nil), top...)}
	for s := Spades; s <= Clubs; s++ {
		for r := Two; r <= Ace; r++ {
			if c := New(r, s); !seen[c] {
				d.cards = append(d.cards, c)
			}
		}
	}
	return d
}

// Draw removes and returns the top card. Drawing from an exhausted deck is a
// programmer error and panics.
func (d *Deck) Draw() Card {
	if d.next >= len(d.cards) {
		panic("deck exhausted")
	}
	c := d.cards[d.next]
	d.next++
	return c
}

// DrawN draws n cards from the top.
func (d *Deck) DrawN(n int) []Card {
	out := make([]Card, n)
	for i := range out {
		out[i] = d.Draw()
	}
	return out
}

// Remaining reports how many cards are left.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
