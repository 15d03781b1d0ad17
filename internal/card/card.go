package card

import "fmt"

// Suit represents a card suit.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// flag returns the suit bit used in the packed card encoding.
func (s Suit) flag() uint32 {
	switch s {
	case Clubs:
		return 0x8000
	case Diamonds:
		return 0x4000
	case Hearts:
		return 0x2000
	case Spades:
		return 0x1000
	}
	return 0
}

// String returns the lowercase suit letter used in the wire format.
func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	}
	return "?"
}

// Rank represents a card rank, two through ace.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// rankPrimes maps rank index (rank-2) to a unique prime, so a set of five
// ranks multiplies to a unique product regardless of order.
var rankPrimes = [13]uint32{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}

// Prime returns the prime associated with the rank.
func (r Rank) Prime() uint32 {
	return rankPrimes[r-Two]
}

// String returns the single-character rank symbol.
func (r Rank) String() string {
	const symbols = "23456789TJQKA"
	if r < Two || r > Ace {
		return "?"
	}
	return string(symbols[r-Two])
}

// Hidden is the wire sentinel for a card the recipient may not see.
const Hidden = "??"

// Card is a playing card packed into 32 bits:
//
//	bits 16-28: one-hot rank bit (bit 16 = deuce .. bit 28 = ace)
//	bits 12-15: suit flag (exactly one set)
//	bits  8-11: rank index (rank-2)
//	bits  0-5:  prime associated with the rank
//
// The layout lets the evaluator test for flushes with a single AND and key
// its lookup tables on rank-bit unions and prime products.
type Card uint32

// New creates a card from rank and suit.
func New(r Rank, s Suit) Card {
	idx := uint32(r - Two)
	return Card(1<<(16+idx) | s.flag() | idx<<8 | r.Prime())
}

// Rank returns the card's rank.
func (c Card) Rank() Rank {
	return Rank(int(c>>8&0xF) + 2)
}

// Suit returns the card's suit.
func (c Card) Suit() Suit {
	switch {
	case c&0x8000 != 0:
		return Clubs
	case c&0x4000 != 0:
		return Diamonds
	case c&0x2000 != 0:
		return Hearts
	default:
		return Spades
	}
}

// RankBit returns the one-hot rank field shifted down to a 13-bit mask.
func (c Card) RankBit() uint32 {
	return uint32(c) >> 16 & 0x1FFF
}

// SuitFlag returns the raw suit flag bits.
func (c Card) SuitFlag() uint32 {
	return uint32(c) & 0xF000
}

// Prime returns the prime field.
func (c Card) Prime() uint32 {
	return uint32(c) & 0x3F
}

// String returns the two-character wire form, e.g. "Qh".
func (c Card) String() string {
	return c.Rank().String() + c.Suit().String()
}

// Parse converts a two-character string like "Qh" into a card.
func Parse(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("card %q: want two characters", s)
	}

	var r Rank
	switch s[0] {
	case 'A', 'a':
		r = Ace
	case 'K', 'k':
		r = King
	case 'Q', 'q':
		r = Queen
	case 'J', 'j':
		r = Jack
	case 'T', 't':
		r = Ten
	case '9', '8', '7', '6', '5', '4', '3', '2':
		r = Rank(s[0] - '0')
	default:
		return 0, fmt.Errorf("card %q: unknown rank %q", s, s[0])
	}

	var su Suit
	switch s[1] {
	case 's', 'S':
		su = Spades
	case 'h', 'H':
		su = Hearts
	case 'd', 'D':
		su = Diamonds
	case 'c', 'C':
		su = Clubs
	default:
		return 0, fmt.Errorf("card %q: unknown suit %q", s, s[1])
	}

	return New(r, su), nil
}

// MustParse parses a card and panics on error. Intended for tests and
// scripted decks.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseAll parses a space-free concatenation such as "AhKhQh".
func ParseAll(s string) ([]Card, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("cards %q: odd length", s)
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := Parse(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseAll parses a card string and panics on error.
func MustParseAll(s string) []Card {
	cards, err := ParseAll(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// Strings renders a card slice in wire form.
func Strings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
