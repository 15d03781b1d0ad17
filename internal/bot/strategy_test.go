package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cardroom/holdemd/internal/card"
	"github.com/cardroom/holdemd/internal/game"
	"github.com/cardroom/holdemd/internal/randutil"
)

func holeView(hole string, pot, currentBet, myBet, myChips, opponents int) game.StateView {
	return game.StateView{
		Variant:       game.NoLimit,
		Phase:         game.Preflop,
		HoleCards:     card.MustParseAll(hole),
		Pot:           pot,
		CurrentBet:    currentBet,
		MyBet:         myBet,
		MyChips:       myChips,
		SmallBlind:    5,
		BigBlind:      10,
		LiveOpponents: opponents,
	}
}

func TestNewUnknownDifficultyFallsBackToEasy(t *testing.T) {
	t.Parallel()

	s := New(Difficulty("nightmare"), randutil.New(1))
	assert.Equal(t, Easy, s.difficulty)
}

func TestEasyFoldsJunkFacingBet(t *testing.T) {
	t.Parallel()

	// Easy preflop equity for seven-deuce is zero, below the hard 0.35
	// floor, so the fold does not depend on the rand draw.
	s := New(Easy, randutil.New(1))
	view := holeView("7h2c", 30, 20, 0, 1000, 2)
	valid := game.ValidActions{CallAmount: 20, CanRaise: true, MinRaise: 40, MaxRaise: 1000}

	action, _ := s.Decide(view, valid)
	assert.Equal(t, game.ActionFold, action)
}

func TestEasyChecksMarginalHand(t *testing.T) {
	t.Parallel()

	// King-queen sits under the 0.7 raise threshold, so checking is the
	// only path when nothing is owed.
	s := New(Easy, randutil.New(1))
	view := holeView("KhQd", 20, 0, 0, 1000, 2)
	valid := game.ValidActions{CanCheck: true, CanRaise: true, MinRaise: 10, MaxRaise: 1000}

	action, _ := s.Decide(view, valid)
	assert.Equal(t, game.ActionCheck, action)
}

func TestMediumRaisesPremiumWhenCheckable(t *testing.T) {
	t.Parallel()

	// Aces score a full 1.0 preflop on the Chen scale, clearing the 0.65
	// value-raise threshold unconditionally.
	s := New(Medium, randutil.New(1))
	view := holeView("AsAh", 100, 0, 0, 1000, 2)
	valid := game.ValidActions{CanCheck: true, CanRaise: true, MinRaise: 20, MaxRaise: 1000}

	action, amount := s.Decide(view, valid)
	assert.Equal(t, game.ActionRaise, action)
	assert.Equal(t, 75, amount, "three quarters of the pot")
}

func TestMediumFoldsWhenEquityBelowPotOdds(t *testing.T) {
	t.Parallel()

	s := New(Medium, randutil.New(1))
	view := holeView("7h2c", 30, 20, 0, 1000, 2)
	valid := game.ValidActions{CallAmount: 20, CanRaise: true, MinRaise: 40, MaxRaise: 1000}

	action, _ := s.Decide(view, valid)
	assert.Equal(t, game.ActionFold, action)
}

func TestMediumShortStackCallBecomesAllIn(t *testing.T) {
	t.Parallel()

	s := New(Medium, randutil.New(1))
	view := holeView("AsAh", 200, 100, 0, 60, 2)
	valid := game.ValidActions{CallAmount: 100, CanRaise: false}

	action, _ := s.Decide(view, valid)
	assert.Equal(t, game.ActionAllIn, action)
}

func TestMediumRaiseClampsToMinimum(t *testing.T) {
	t.Parallel()

	// A tiny pot produces a sub-minimum pot-fraction bet, which clamps up
	// to the legal minimum raise.
	s := New(Medium, randutil.New(1))
	view := holeView("AsAh", 4, 0, 0, 1000, 2)
	valid := game.ValidActions{CanCheck: true, CanRaise: true, MinRaise: 10, MaxRaise: 1000}

	action, amount := s.Decide(view, valid)
	assert.Equal(t, game.ActionRaise, action)
	assert.Equal(t, 10, amount)
}

func TestRaiseForWholeStackBecomesAllIn(t *testing.T) {
	t.Parallel()

	// The pot-fraction target meets or exceeds the stack, so the raise is
	// expressed as an explicit all-in.
	s := New(Medium, randutil.New(1))
	view := holeView("AsAh", 400, 0, 0, 150, 2)
	valid := game.ValidActions{CanCheck: true, CanRaise: true, MinRaise: 20, MaxRaise: 150}

	action, _ := s.Decide(view, valid)
	assert.Equal(t, game.ActionAllIn, action)
}

func TestHardRaisesPremiumOutOfPosition(t *testing.T) {
	t.Parallel()

	// Heads-up on the button counts as in position; the dealer seat
	// itself facing one opponent does not. Aces clear 0.75 equity at any
	// simulation seed.
	s := New(Hard, randutil.New(1))
	view := holeView("AsAh", 100, 0, 0, 1000, 1)
	view.Seat = 0
	view.DealerSeat = 0
	valid := game.ValidActions{CanCheck: true, CanRaise: true, MinRaise: 20, MaxRaise: 1000}

	action, amount := s.Decide(view, valid)
	assert.Equal(t, game.ActionRaise, action)
	assert.Equal(t, 75, amount, "three-quarter pot when out of position")
}

func TestHardPositionArithmetic(t *testing.T) {
	t.Parallel()

	s := New(Hard, randutil.New(1))

	tests := []struct {
		name       string
		seat       int
		dealerSeat int
		opponents  int
		want       bool
	}{
		{"button of six", 5, 0, 5, true},
		{"under the gun of six", 1, 0, 5, false},
		{"cutoff of six", 4, 0, 5, true},
		{"heads-up big blind", 1, 0, 1, true},
		{"heads-up dealer", 0, 0, 1, false},
		{"wraparound seat numbering", 1, 4, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			view := game.StateView{Seat: tt.seat, DealerSeat: tt.dealerSeat, LiveOpponents: tt.opponents}
			assert.Equal(t, tt.want, s.inPosition(view))
		})
	}
}

func TestPotOdds(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.25, potOdds(30, 10), 0.001)
	assert.InDelta(t, 0.5, potOdds(20, 20), 0.001)
	assert.Zero(t, potOdds(0, 0))
}

func TestEveryDifficultyReturnsLegalActions(t *testing.T) {
	t.Parallel()

	// Whatever the rand draws, the chosen action must fit the advertised
	// window.
	for _, d := range Difficulties() {
		d := d
		t.Run(string(d), func(t *testing.T) {
			t.Parallel()
			for seed := int64(0); seed < 20; seed++ {
				s := New(d, randutil.New(seed))
				view := holeView("QsJs", 60, 20, 10, 500, 3)
				view.Community = card.MustParseAll("Th9h2d")
				view.Phase = game.Flop
				valid := game.ValidActions{CallAmount: 10, CanRaise: true, MinRaise: 40, MaxRaise: 510}

				action, amount := s.Decide(view, valid)
				switch action {
				case game.ActionFold, game.ActionCheck, game.ActionCall, game.ActionAllIn:
				case game.ActionRaise:
					assert.GreaterOrEqual(t, amount, valid.MinRaise)
					assert.LessOrEqual(t, amount, valid.MaxRaise)
				default:
					t.Fatalf("unexpected action %q", action)
				}
			}
		})
	}
}
