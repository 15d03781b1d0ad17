package game

import "github.com/cardroom/holdemd/internal/card"

// Outbound event types.
const (
	EventGameState     = "game_state"
	EventHandStarting  = "hand_starting"
	EventCommunityCard = "community_card"
	EventYourTurn      = "your_turn"
	EventActionTaken   = "action_taken"
	EventWinner        = "winner"
	EventHandOver      = "hand_over"
	EventGameOver      = "game_over"
	EventError         = "error"
	EventChat          = "chat"
)

// PlayerSnapshot is one player entry within a state payload. HoleCards is
// ["??","??"] for everyone except the recipient.
type PlayerSnapshot struct {
	PlayerID  string   `json:"player_id"`
	Name      string   `json:"name"`
	Chips     int      `json:"chips"`
	Bet       int      `json:"bet"`
	IsFolded  bool     `json:"is_folded"`
	IsAllIn   bool     `json:"is_all_in"`
	IsBot     bool     `json:"is_bot"`
	HoleCards []string `json:"hole_cards"`
}

// StatePayload is the full table view sent as game_state and hand_starting.
type StatePayload struct {
	Phase              string           `json:"phase"`
	Variant            string           `json:"variant"`
	HandNumber         int              `json:"hand_number"`
	DealerIndex        int              `json:"dealer_index"`
	CurrentPlayerIndex int              `json:"current_player_index"`
	SmallBlind         int              `json:"small_blind"`
	BigBlind           int              `json:"big_blind"`
	Pot                int              `json:"pot"`
	CommunityCards     []string         `json:"community_cards"`
	Players            []PlayerSnapshot `json:"players"`
}

// CommunityPayload announces newly revealed board cards.
type CommunityPayload struct {
	Phase          string   `json:"phase"`
	CommunityCards []string `json:"community_cards"`
}

// TurnPayload is sent only to the player due to act.
type TurnPayload struct {
	PlayerID     string       `json:"player_id"`
	ValidActions ValidActions `json:"valid_actions"`
}

// ActionPayload echoes an accepted action to the whole table.
type ActionPayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Action   string `json:"action"`
	Amount   int    `json:"amount"`
	Pot      int    `json:"pot"`
}

// ShownHand is one revealed hand inside winner.all_hands.
type ShownHand struct {
	HoleCards []string `json:"hole_cards"`
	HandName  string   `json:"hand_name"`
	Score     int      `json:"score"`
}

// WinnerEntry is one payout inside the winner event.
type WinnerEntry struct {
	PlayerID string `json:"player_id"`
	Amount   int    `json:"amount"`
	Hand     string `json:"hand"`
}

// WinnerPayload announces payouts. AllHands is present only after a
// showdown and covers only the players who reached it; an all-fold ending
// reveals nothing.
type WinnerPayload struct {
	Winners  []WinnerEntry        `json:"winners"`
	AllHands map[string]ShownHand `json:"all_hands,omitempty"`
}

// ErrorPayload reports a rejected action or protocol problem to one player.
type ErrorPayload struct {
	Message string `json:"message"`
}

// ChatPayload relays a table chat line.
type ChatPayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Message  string `json:"message"`
}

// HandOverPayload closes out a hand.
type HandOverPayload struct {
	HandNumber int `json:"hand_number"`
}

// GameOverPayload is sent when fewer than two funded players remain.
type GameOverPayload struct {
	WinnerID string `json:"winner_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Chips    int    `json:"chips,omitempty"`
}

// holeCardsFor renders a player's cards for a given viewer, applying the
// redaction invariant: owners see their cards, everyone else sees the
// hidden sentinel, players with no cards show an empty list.
func holeCardsFor(p *Player, viewerID string) []string {
	if len(p.HoleCards) == 0 {
		return []string{}
	}
	if p.ID == viewerID {
		return card.Strings(p.HoleCards)
	}
	return []string{card.Hidden, card.Hidden}
}

// snapshotFor builds the redacted table view for one recipient.
func (t *Table) snapshotFor(viewerID string) StatePayload {
	gs := t.state
	if gs == nil {
		return t.idleSnapshot(viewerID)
	}

	players := make([]PlayerSnapshot, len(gs.Players))
	for i, p := range gs.Players {
		players[i] = PlayerSnapshot{
			PlayerID:  p.ID,
			Name:      p.Name,
			Chips:     p.Chips,
			Bet:       p.Bet,
			IsFolded:  p.Status == Folded,
			IsAllIn:   p.Status == AllIn,
			IsBot:     p.IsBot,
			HoleCards: holeCardsFor(p, viewerID),
		}
	}

	return StatePayload{
		Phase:              gs.Phase.String(),
		Variant:            string(gs.Variant),
		HandNumber:         gs.HandNumber,
		DealerIndex:        gs.DealerIndex,
		CurrentPlayerIndex: gs.CurrentIndex,
		SmallBlind:         gs.SmallBlind,
		BigBlind:           gs.BigBlind,
		Pot:                gs.PotTotal(),
		CommunityCards:     card.Strings(gs.Community),
		Players:            players,
	}
}

// idleSnapshot is the view between hands, before any GameState exists.
func (t *Table) idleSnapshot(viewerID string) StatePayload {
	players := make([]PlayerSnapshot, len(t.players))
	for i, p := range t.players {
		players[i] = PlayerSnapshot{
			PlayerID:  p.ID,
			Name:      p.Name,
			Chips:     p.Chips,
			IsBot:     p.IsBot,
			HoleCards: []string{},
		}
	}
	return StatePayload{
		Phase:          Waiting.String(),
		Variant:        string(t.cfg.Variant),
		HandNumber:     t.handNumber,
		DealerIndex:    t.dealerIndex,
		SmallBlind:     t.cfg.SmallBlind,
		BigBlind:       t.cfg.BigBlind,
		CommunityCards: []string{},
		Players:        players,
	}
}

// broadcastState fans out the personalized table view under the given
// event type.
func (t *Table) broadcastState(event string) {
	t.bcast.BroadcastPersonalized(event, func(playerID string) any {
		return t.snapshotFor(playerID)
	})
}

// viewFor builds the redacted StateView a bot strategy receives.
func (t *Table) viewFor(p *Player) StateView {
	gs := t.state
	live := 0
	for _, other := range gs.Players {
		if other != p && other.InHand() {
			live++
		}
	}
	return StateView{
		Variant:       gs.Variant,
		Phase:         gs.Phase,
		HoleCards:     append([]card.Card(nil), p.HoleCards...),
		Community:     append([]card.Card(nil), gs.Community...),
		Pot:           gs.PotTotal(),
		CurrentBet:    gs.CurrentBet,
		MyBet:         p.Bet,
		MyChips:       p.Chips,
		SmallBlind:    gs.SmallBlind,
		BigBlind:      gs.BigBlind,
		Seat:          p.Seat,
		DealerSeat:    gs.Players[gs.DealerIndex].Seat,
		LiveOpponents: live,
	}
}
