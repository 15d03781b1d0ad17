package game

import (
	"context"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cardroom/holdemd/internal/card"
	"github.com/cardroom/holdemd/internal/eval"
	"github.com/cardroom/holdemd/internal/handid"
	"github.com/cardroom/holdemd/internal/randutil"
)

// Errors returned from table commands.
var (
	ErrTableFull     = errors.New("table is full")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrTableClosed   = errors.New("table is closed")
)

// Config holds the fixed parameters of a table.
type Config struct {
	Variant    Variant
	SmallBlind int
	BigBlind   int
	BuyIn      int
	MinPlayers int
	MaxPlayers int

	// Pacing. Bot actions land after a uniform random delay in
	// [BotDelayMin, BotDelayMax); streets and hands are separated by
	// short pauses so humans can follow the action.
	BotDelayMin    time.Duration
	BotDelayMax    time.Duration
	StreetPause    time.Duration
	InterHandPause time.Duration

	// DeckFactory overrides deck creation, used to script hands in
	// tests. Nil means a uniformly shuffled deck.
	DeckFactory func(rng *rand.Rand) *card.Deck
}

// withDefaults fills the pacing fields the caller left zero.
func (c Config) withDefaults() Config {
	if c.MinPlayers < 2 {
		c.MinPlayers = 2
	}
	if c.MaxPlayers <= 0 {
		c.MaxPlayers = 9
	}
	if c.BotDelayMin <= 0 {
		c.BotDelayMin = 500 * time.Millisecond
	}
	if c.BotDelayMax <= c.BotDelayMin {
		c.BotDelayMax = 2 * time.Second
	}
	if c.StreetPause <= 0 {
		c.StreetPause = 1500 * time.Millisecond
	}
	if c.InterHandPause <= 0 {
		c.InterHandPause = 3 * time.Second
	}
	if c.DeckFactory == nil {
		c.DeckFactory = card.NewDeck
	}
	return c
}

// Info is the public lobby summary of a table.
type Info struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Variant    Variant `json:"variant"`
	SmallBlind int     `json:"small_blind"`
	BigBlind   int     `json:"big_blind"`
	BuyIn      int     `json:"buy_in"`
	MaxPlayers int     `json:"max_players"`
	Seated     int     `json:"seated"`
	Bots       int     `json:"bots"`
	Phase      string  `json:"phase"`
	HandNumber int     `json:"hand_number"`
}

// Table owns one poker table. All state is confined to the goroutine
// running Run; the exported methods communicate with it over a command
// channel, so no locking is needed.
type Table struct {
	ID   string
	Name string

	cfg   Config
	log   zerolog.Logger
	rng   *rand.Rand
	clock quartz.Clock
	bcast Broadcaster

	cmds chan command
	done chan struct{}

	players     []*Player
	state       *GameState
	handNumber  int
	dealerIndex int
	gameOver    bool
}

// NewTable creates a table. Run must be started before any command method
// is called.
func NewTable(name string, cfg Config, bcast Broadcaster, logger zerolog.Logger, rng *rand.Rand, clock quartz.Clock) *Table {
	id := uuid.NewString()
	return &Table{
		ID:    id,
		Name:  name,
		cfg:   cfg.withDefaults(),
		log:   logger.With().Str("table", id).Logger(),
		rng:   rng,
		clock: clock,
		bcast: bcast,
		cmds:  make(chan command, 64),
		done:  make(chan struct{}),
	}
}

// Config returns the table parameters.
func (t *Table) Config() Config {
	return t.cfg
}

type command interface{}

type joinCmd struct {
	name     string
	isBot    bool
	strategy Decider
	stack    int
	reply    chan joinResult
}

type joinResult struct {
	player *Player
	err    error
}

type leaveCmd struct{ playerID string }

type actionCmd struct {
	playerID string
	action   Action
	amount   int
}

type chatCmd struct {
	playerID string
	message  string
}

type connCmd struct {
	playerID  string
	connected bool
}

type infoCmd struct{ reply chan Info }

// send delivers a command unless the table has shut down.
func (t *Table) send(cmd command) error {
	select {
	case t.cmds <- cmd:
		return nil
	case <-t.done:
		return ErrTableClosed
	}
}

// Join seats a new player with the table buy-in. Mid-hand joiners sit out
// until the next deal.
func (t *Table) Join(name string, isBot bool, strategy Decider) (*Player, error) {
	return t.JoinWithStack(name, 0, isBot, strategy)
}

// JoinWithStack seats a player with an explicit starting stack; zero means
// the table buy-in.
func (t *Table) JoinWithStack(name string, stack int, isBot bool, strategy Decider) (*Player, error) {
	reply := make(chan joinResult, 1)
	if err := t.send(joinCmd{name: name, isBot: isBot, strategy: strategy, stack: stack, reply: reply}); err != nil {
		return nil, err
	}
	select {
	case res := <-reply:
		return res.player, res.err
	case <-t.done:
		return nil, ErrTableClosed
	}
}

// Leave marks a player for removal at the next hand boundary.
func (t *Table) Leave(playerID string) {
	_ = t.send(leaveCmd{playerID: playerID})
}

// SubmitAction delivers a betting action from a client.
func (t *Table) SubmitAction(playerID string, action Action, amount int) {
	_ = t.send(actionCmd{playerID: playerID, action: action, amount: amount})
}

// Chat relays a chat line to the whole table.
func (t *Table) Chat(playerID, message string) {
	_ = t.send(chatCmd{playerID: playerID, message: message})
}

// SetConnected records a client attach or detach for a seated player.
func (t *Table) SetConnected(playerID string, connected bool) {
	_ = t.send(connCmd{playerID: playerID, connected: connected})
}

// Info returns the lobby summary.
func (t *Table) Info() Info {
	reply := make(chan Info, 1)
	if err := t.send(infoCmd{reply: reply}); err != nil {
		return Info{ID: t.ID, Name: t.Name}
	}
	select {
	case info := <-reply:
		return info
	case <-t.done:
		return Info{ID: t.ID, Name: t.Name}
	}
}

// Run drives the table until the context is cancelled. Hands start whenever
// two or more funded players are seated.
func (t *Table) Run(ctx context.Context) {
	defer close(t.done)
	t.log.Info().
		Str("name", t.Name).
		Str("variant", string(t.cfg.Variant)).
		Int("small_blind", t.cfg.SmallBlind).
		Int("big_blind", t.cfg.BigBlind).
		Msg("Table opened")

	for {
		if !t.canStartHand() {
			select {
			case <-ctx.Done():
				return
			case cmd := <-t.cmds:
				t.handleCommand(cmd)
			}
			continue
		}

		t.runHand(ctx)
		if ctx.Err() != nil {
			return
		}
		t.pause(ctx, t.cfg.InterHandPause)
	}
}

// canStartHand needs enough funded players to deal.
func (t *Table) canStartHand() bool {
	funded := 0
	for _, p := range t.players {
		if p.Funded() {
			funded++
		}
	}
	return funded >= t.cfg.MinPlayers
}

// handleCommand processes commands that are valid at any time. Actions
// arriving outside a betting turn are rejected back to the sender.
func (t *Table) handleCommand(cmd command) {
	switch c := cmd.(type) {
	case joinCmd:
		c.reply <- t.seatPlayer(c)

	case leaveCmd:
		if p := t.playerByID(c.playerID); p != nil {
			p.SitOut = true
			p.Leaving = true
			p.Connected = false
			t.log.Info().Str("player", p.ID).Msg("Player leaving")
		}

	case actionCmd:
		t.bcast.SendTo(c.playerID, EventError, ErrorPayload{Message: "no action expected"})

	case chatCmd:
		if p := t.playerByID(c.playerID); p != nil {
			payload := ChatPayload{PlayerID: p.ID, Name: p.Name, Message: c.message}
			t.bcast.BroadcastPersonalized(EventChat, func(string) any { return payload })
		}

	case connCmd:
		t.setConnected(c)

	case infoCmd:
		c.reply <- t.info()
	}
}

func (t *Table) seatPlayer(c joinCmd) joinResult {
	if len(t.players) >= t.cfg.MaxPlayers {
		return joinResult{err: ErrTableFull}
	}
	stack := c.stack
	if stack <= 0 {
		stack = t.cfg.BuyIn
	}
	p := &Player{
		ID:        uuid.NewString(),
		Name:      c.name,
		Seat:      len(t.players),
		IsBot:     c.isBot,
		Chips:     stack,
		Strategy:  c.strategy,
		Connected: c.isBot,
		Status:    SittingOut,
	}
	t.players = append(t.players, p)
	t.log.Info().
		Str("player", p.ID).
		Str("name", p.Name).
		Bool("bot", p.IsBot).
		Int("seat", p.Seat).
		Msg("Player seated")
	t.broadcastState(EventGameState)
	return joinResult{player: p}
}

func (t *Table) setConnected(c connCmd) {
	p := t.playerByID(c.playerID)
	if p == nil {
		return
	}
	p.Connected = c.connected
	if c.connected {
		// Reconnecting clears an auto-fold sit-out; the player is
		// dealt back in next hand.
		if !p.Leaving {
			p.SitOut = false
		}
		t.bcast.SendTo(p.ID, EventGameState, t.snapshotFor(p.ID))
		t.log.Debug().Str("player", p.ID).Msg("Player connected")
		return
	}
	t.log.Debug().Str("player", p.ID).Msg("Player disconnected")
}

func (t *Table) playerByID(id string) *Player {
	for _, p := range t.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (t *Table) info() Info {
	bots := 0
	for _, p := range t.players {
		if p.IsBot {
			bots++
		}
	}
	phase := Waiting
	if t.state != nil {
		phase = t.state.Phase
	}
	return Info{
		ID:         t.ID,
		Name:       t.Name,
		Variant:    t.cfg.Variant,
		SmallBlind: t.cfg.SmallBlind,
		BigBlind:   t.cfg.BigBlind,
		BuyIn:      t.cfg.BuyIn,
		MaxPlayers: t.cfg.MaxPlayers,
		Seated:     len(t.players),
		Bots:       bots,
		Phase:      phase.String(),
		HandNumber: t.handNumber,
	}
}

// purgeLeavers removes players who asked to leave, at a hand boundary so
// seats never change mid-hand.
func (t *Table) purgeLeavers() {
	kept := t.players[:0]
	for _, p := range t.players {
		if p.Leaving {
			continue
		}
		kept = append(kept, p)
	}
	t.players = kept
	for i, p := range t.players {
		p.Seat = i
	}
	if t.dealerIndex >= len(t.players) {
		t.dealerIndex = 0
	}
}

// pause waits out a delay while continuing to serve commands.
func (t *Table) pause(ctx context.Context, d time.Duration) {
	fired := make(chan struct{})
	timer := t.clock.AfterFunc(d, func() { close(fired) })
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fired:
			return
		case cmd := <-t.cmds:
			t.handleCommand(cmd)
		}
	}
}

// runHand plays a single hand start to finish.
func (t *Table) runHand(ctx context.Context) {
	t.purgeLeavers()
	if !t.canStartHand() {
		return
	}

	t.handNumber++
	t.dealerIndex = advanceDealer(t.players, t.dealerIndex)

	gs := &GameState{
		Variant:     t.cfg.Variant,
		SmallBlind:  t.cfg.SmallBlind,
		BigBlind:    t.cfg.BigBlind,
		HandID:      handid.New(),
		HandNumber:  t.handNumber,
		Phase:       Starting,
		Players:     t.players,
		DealerIndex: t.dealerIndex,
		Deck:        t.cfg.DeckFactory(t.rng),
		Pots:        NewPotManager(),
	}
	t.state = gs

	for _, p := range t.players {
		p.resetForHand()
	}
	for _, p := range t.players {
		if p.Status == Active {
			p.HoleCards = gs.Deck.DrawN(2)
		}
	}

	sb, bb := postBlinds(gs)
	gs.Phase = Preflop
	gs.CurrentIndex = firstToActPreflop(t.players, t.dealerIndex)

	t.log.Info().
		Str("hand", gs.HandID).
		Int("number", gs.HandNumber).
		Int("dealer", t.dealerIndex).
		Str("small_blind", t.players[sb].ID).
		Str("big_blind", t.players[bb].ID).
		Msg("Hand starting")
	t.broadcastState(EventHandStarting)

	outcome := t.playStreets(ctx)
	if ctx.Err() != nil {
		return
	}

	if outcome == AllFolded {
		t.awardLastStanding()
	} else {
		t.runShowdown()
	}

	t.finishHand()
}

// playStreets runs the four betting rounds, dealing the board between
// them, and returns how the last round ended.
func (t *Table) playStreets(ctx context.Context) Outcome {
	gs := t.state
	outcome := t.runBettingRound(ctx)

	for _, next := range []Phase{Flop, Turn, River} {
		if ctx.Err() != nil || outcome == AllFolded {
			return outcome
		}

		gs.resetStreet()
		gs.Phase = next
		deal := 1
		if next == Flop {
			deal = 3
		}
		gs.Community = append(gs.Community, gs.Deck.DrawN(deal)...)
		gs.CurrentIndex = firstToActPostflop(t.players, t.dealerIndex)

		payload := CommunityPayload{Phase: next.String(), CommunityCards: card.Strings(gs.Community)}
		t.bcast.BroadcastPersonalized(EventCommunityCard, func(string) any { return payload })
		t.pause(ctx, t.cfg.StreetPause)
		if ctx.Err() != nil {
			return outcome
		}

		outcome = t.runBettingRound(ctx)
	}
	return outcome
}

// runBettingRound drives one street to completion.
func (t *Table) runBettingRound(ctx context.Context) Outcome {
	round := NewBettingRound(t.state)
	for {
		if outcome := round.Complete(); outcome != Continue {
			return outcome
		}
		if ctx.Err() != nil {
			return Continue
		}

		p := t.state.CurrentPlayer()
		action, amount, ok := t.awaitAction(ctx, p, round)
		if !ok {
			return Continue
		}

		outcome, err := round.Apply(p.ID, action, amount)
		if err != nil {
			t.bcast.SendTo(p.ID, EventError, ErrorPayload{Message: err.Error()})
			if p.IsBot || !p.Connected {
				// A bot or absent player never gets a retry.
				outcome, _ = round.Apply(p.ID, ActionFold, 0)
				action, amount = ActionFold, 0
			} else {
				continue
			}
		}

		taken := ActionPayload{
			PlayerID: p.ID,
			Name:     p.Name,
			Action:   string(action),
			Amount:   p.Bet,
			Pot:      t.state.PotTotal(),
		}
		t.log.Debug().
			Str("player", p.ID).
			Str("action", string(action)).
			Int("amount", amount).
			Int("pot", taken.Pot).
			Msg("Action taken")
		t.bcast.BroadcastPersonalized(EventActionTaken, func(string) any { return taken })
		t.broadcastState(EventGameState)

		if outcome != Continue {
			return outcome
		}
	}
}

// awaitAction obtains the next action for the player to act. Bots decide
// after a scheduled delay; humans are prompted with your_turn and awaited
// on the command channel. A disconnected human folds. The bool result is
// false when the context was cancelled.
func (t *Table) awaitAction(ctx context.Context, p *Player, round *BettingRound) (Action, int, bool) {
	valid := round.ValidFor(p)

	if p.IsBot {
		delay := randutil.Between(t.rng, t.cfg.BotDelayMin, t.cfg.BotDelayMax)
		fired := make(chan struct{})
		timer := t.clock.AfterFunc(delay, func() { close(fired) })
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return "", 0, false
			case <-fired:
				action, amount := p.Strategy.Decide(t.viewFor(p), valid)
				return action, amount, true
			case cmd := <-t.cmds:
				t.handleCommand(cmd)
			}
		}
	}

	if !p.Connected {
		t.autoFold(p)
		return ActionFold, 0, true
	}

	t.bcast.SendTo(p.ID, EventYourTurn, TurnPayload{PlayerID: p.ID, ValidActions: valid})

	for {
		select {
		case <-ctx.Done():
			return "", 0, false
		case cmd := <-t.cmds:
			if a, ok := cmd.(actionCmd); ok {
				if a.playerID == p.ID {
					return a.action, a.amount, true
				}
				t.bcast.SendTo(a.playerID, EventError, ErrorPayload{Message: ErrNotYourTurn.Error()})
				continue
			}
			t.handleCommand(cmd)
			if !p.Connected {
				t.autoFold(p)
				return ActionFold, 0, true
			}
		}
	}
}

// autoFold handles a player whose turn arrived while disconnected: fold
// the hand and sit them out until they return.
func (t *Table) autoFold(p *Player) {
	p.SitOut = true
	t.log.Info().Str("player", p.ID).Msg("Auto-folding disconnected player")
}

// awardLastStanding pays the whole pot to the only player still in the
// hand. Nothing is revealed.
func (t *Table) awardLastStanding() {
	gs := t.state
	gs.Phase = AllFoldedPhase

	var winner *Player
	for _, p := range t.players {
		if p.InHand() {
			winner = p
			break
		}
	}
	if winner == nil {
		t.abortHand(fmt.Errorf("no live player at payout"))
		return
	}

	award := gs.Pots.AwardAll(winner.ID)
	winner.Chips += award.Amount
	t.log.Info().
		Str("hand", gs.HandID).
		Str("player", winner.ID).
		Int("amount", award.Amount).
		Msg("Hand won uncontested")

	payload := WinnerPayload{Winners: []WinnerEntry{{PlayerID: winner.ID, Amount: award.Amount}}}
	t.bcast.BroadcastPersonalized(EventWinner, func(string) any { return payload })
}

// runShowdown evaluates every live hand, derives side pots, and pays out.
func (t *Table) runShowdown() {
	gs := t.state
	gs.Phase = Showdown
	t.broadcastState(EventGameState)

	if err := t.checkIntegrity(); err != nil {
		t.abortHand(err)
		return
	}

	scores := make(map[string]int)
	allHands := make(map[string]ShownHand)
	for _, p := range gs.live() {
		var seven [7]card.Card
		copy(seven[:], p.HoleCards)
		copy(seven[2:], gs.Community)
		score, _ := eval.Eval7(seven)
		scores[p.ID] = score
		allHands[p.ID] = ShownHand{
			HoleCards: card.Strings(p.HoleCards),
			HandName:  eval.HandName(score),
			Score:     score,
		}
	}

	order := payoutOrder(t.players, gs.DealerIndex)
	awards := gs.Pots.ComputePayouts(order, func(id string) int { return scores[id] })

	totals := make(map[string]int)
	for _, a := range awards {
		totals[a.PlayerID] += a.Amount
	}

	var winners []WinnerEntry
	for _, id := range order {
		amount, ok := totals[id]
		if !ok {
			continue
		}
		p := t.playerByID(id)
		p.Chips += amount
		winners = append(winners, WinnerEntry{
			PlayerID: id,
			Amount:   amount,
			Hand:     eval.HandName(scores[id]),
		})
		t.log.Info().
			Str("hand", gs.HandID).
			Str("player", id).
			Int("amount", amount).
			Str("hand_name", eval.HandName(scores[id])).
			Msg("Pot awarded")
	}

	payload := WinnerPayload{Winners: winners, AllHands: allHands}
	t.bcast.BroadcastPersonalized(EventWinner, func(string) any { return payload })
}

// checkIntegrity verifies the pot books against the per-player totals
// before any chips move.
func (t *Table) checkIntegrity() error {
	gs := t.state
	committed := 0
	for _, p := range t.players {
		if got := gs.Pots.Contribution(p.ID); got != p.Contributed {
			return fmt.Errorf("pot records %d for player %s, player records %d", got, p.ID, p.Contributed)
		}
		committed += p.Contributed
	}
	return gs.Pots.CheckConservation(committed)
}

// abortHand unwinds a hand after an invariant violation: every player gets
// their contribution back and the table reports the failure.
func (t *Table) abortHand(err error) {
	gs := t.state
	t.log.Error().Err(err).Str("hand", gs.HandID).Msg("Hand aborted, refunding contributions")
	for _, p := range t.players {
		p.Chips += gs.Pots.Contribution(p.ID)
	}
	payload := ErrorPayload{Message: "hand aborted: " + err.Error()}
	t.bcast.BroadcastPersonalized(EventError, func(string) any { return payload })
}

// finishHand closes the hand and decides whether the game continues.
func (t *Table) finishHand() {
	gs := t.state
	gs.Phase = HandOver
	t.broadcastState(EventGameState)

	payload := HandOverPayload{HandNumber: gs.HandNumber}
	t.bcast.BroadcastPersonalized(EventHandOver, func(string) any { return payload })

	if !t.canStartHand() && !t.gameOver {
		t.gameOver = true
		var champ *Player
		for _, p := range t.players {
			if p.Chips > 0 && (champ == nil || p.Chips > champ.Chips) {
				champ = p
			}
		}
		over := GameOverPayload{}
		if champ != nil {
			over = GameOverPayload{WinnerID: champ.ID, Name: champ.Name, Chips: champ.Chips}
		}
		t.log.Info().Str("hand", gs.HandID).Msg("Game over")
		t.bcast.BroadcastPersonalized(EventGameOver, func(string) any { return over })
		t.state = nil
	} else if t.canStartHand() {
		t.gameOver = false
	}
}
