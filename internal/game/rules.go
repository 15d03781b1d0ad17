package game

// Seat and turn-order rules. All helpers walk the players slice in seat
// order, wrapping around, and never loop forever: each gives up after one
// full lap.

// nextIndex returns the first index after from (wrapping) whose player
// satisfies ok, or -1 if none does.
func nextIndex(players []*Player, from int, ok func(*Player) bool) int {
	n := len(players)
	for step := 1; step <= n; step++ {
		i := (from + step) % n
		if ok(players[i]) {
			return i
		}
	}
	return -1
}

// nextActorIndex returns the next player who can act, for advancing the
// turn within a street.
func nextActorIndex(players []*Player, from int) int {
	return nextIndex(players, from, (*Player).CanAct)
}

// advanceDealer moves the button to the next funded seat.
func advanceDealer(players []*Player, dealerIndex int) int {
	if i := nextIndex(players, dealerIndex, (*Player).Funded); i >= 0 {
		return i
	}
	return dealerIndex
}

// blindIndices returns the small and big blind positions for the hand.
// Heads-up the dealer posts the small blind and the other player the big
// blind; otherwise the blinds are the two seats after the button.
func blindIndices(players []*Player, dealerIndex int) (sb, bb int) {
	dealt := func(p *Player) bool { return p.InHand() }
	if countDealt(players) == 2 {
		sb = dealerIndex
		bb = nextIndex(players, dealerIndex, dealt)
		return sb, bb
	}
	sb = nextIndex(players, dealerIndex, dealt)
	bb = nextIndex(players, sb, dealt)
	return sb, bb
}

// firstToActPreflop returns the seat that opens the preflop betting: the
// player after the big blind (heads-up this is the dealer).
func firstToActPreflop(players []*Player, dealerIndex int) int {
	_, bb := blindIndices(players, dealerIndex)
	if i := nextActorIndex(players, bb); i >= 0 {
		return i
	}
	return bb
}

// firstToActPostflop returns the first live seat after the button.
func firstToActPostflop(players []*Player, dealerIndex int) int {
	if i := nextActorIndex(players, dealerIndex); i >= 0 {
		return i
	}
	return dealerIndex
}

// countDealt counts players holding live cards.
func countDealt(players []*Player) int {
	n := 0
	for _, p := range players {
		if p.InHand() {
			n++
		}
	}
	return n
}

// payoutOrder returns the ids of in-hand players in seat order starting
// left of the dealer. Split-pot remainders go to the earliest id in this
// order.
func payoutOrder(players []*Player, dealerIndex int) []string {
	n := len(players)
	var out []string
	for step := 1; step <= n; step++ {
		p := players[(dealerIndex+step)%n]
		if p.InHand() {
			out = append(out, p.ID)
		}
	}
	return out
}

// postBlinds commits the blinds and primes the street betting fields. The
// big blind counts as the first bet, so preflop raise accounting starts at
// one and the minimum raise is a full big blind on top.
func postBlinds(gs *GameState) (sbIndex, bbIndex int) {
	sbIndex, bbIndex = blindIndices(gs.Players, gs.DealerIndex)

	sbPlayer := gs.Players[sbIndex]
	bbPlayer := gs.Players[bbIndex]
	gs.Pots.Add(sbPlayer.ID, sbPlayer.commit(gs.SmallBlind))
	gs.Pots.Add(bbPlayer.ID, bbPlayer.commit(gs.BigBlind))

	gs.CurrentBet = gs.BigBlind
	gs.LastRaiseSize = gs.BigBlind
	gs.RaiseCount = 1
	return sbIndex, bbIndex
}
