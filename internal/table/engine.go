package table

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Neenack/ScaryCardGame/internal/cards"
)

// GamePhase is the engine lifecycle state.
type GamePhase uint8

const (
	PhaseNotStarted GamePhase = iota
	PhaseDealing
	PhaseTurnLoop
	PhaseEnded
)

func (p GamePhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseDealing:
		return "dealing"
	case PhaseTurnLoop:
		return "turn_loop"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// RuleSet is the pluggable game-specific strategy an Engine runs: deal
// order, end condition, winner resolution and the draw follow-up flow.
type RuleSet interface {
	Name() string

	// DealInitialCards runs the game's opening deal as a scheduled
	// sequence and must eventually call Engine.NextTurn.
	DealInitialCards(e *Engine)

	// CheckGameEnd reports whether the game-specific end predicate fired.
	CheckGameEnd(e *Engine) bool

	// CheckWinner resolves the finished game (reveals, scoring,
	// announcements) and must eventually call Engine.EndGame.
	CheckWinner(e *Engine)

	// PullNewCard draws a card for the acting player and runs the
	// game-specific follow-up (inspection, keep/discard decision).
	PullNewCard(e *Engine, p *Player) *cards.PlayingCard

	// TurnAdvanced runs after the turn cursor moved and before the new
	// current player's StartTurn; rule-sets use it to reset interaction
	// state between turns.
	TurnAdvanced(e *Engine)

	// GameEnded clears per-round rule-set bookkeeping during EndGame.
	GameEnded(e *Engine)
}

// CardTapHandler is an optional RuleSet extension receiving card taps that
// no active selection claimed; Cambio's stacking side-play uses it.
type CardTapHandler interface {
	HandleCardTap(e *Engine, c *cards.PlayingCard) bool
}

// Delays are the pacing waits between the discrete steps of a game. Tests
// and fast simulations run them through an ImmediateScheduler, which makes
// every wait zero without changing the action order.
type Delays struct {
	DealInterval   time.Duration // between consecutive dealt cards
	CardViewing    time.Duration // how long a revealed card stays up
	BetweenReveals time.Duration // pacing between per-player score reveals
	AIThinking     time.Duration // AI decision pause
	StackSettle    time.Duration // settle window around stacking attempts
	EndHold        time.Duration // hold on the final state before reset
}

// DefaultDelays returns the standard table pacing.
func DefaultDelays() Delays {
	return Delays{
		DealInterval:   500 * time.Millisecond,
		CardViewing:    3 * time.Second,
		BetweenReveals: time.Second,
		AIThinking:     time.Second,
		StackSettle:    500 * time.Millisecond,
		EndHold:        3 * time.Second,
	}
}

// cardSelection is a short-lived interaction grant: the set of cards a
// player may currently choose from and the single continuation to run on
// selection. Entering a new selection replaces the previous one; resolving
// clears the grant before the continuation runs, so a selection fires at
// most once.
type cardSelection struct {
	eligible []*cards.PlayingCard
	resolve  func(*cards.PlayingCard)
}

// Engine owns the deck, the discard pile, the seating order and the turn
// cursor, and drives one game to completion under its rule-set. All
// mutation happens under the engine mutex; scheduler continuations
// re-acquire it, so there is exactly one logical thread of control.
type Engine struct {
	mu sync.Mutex

	id      uuid.UUID
	rules   RuleSet
	catalog *cards.Catalog
	players []*Player

	deck       *cards.Deck
	pile       []*cards.PlayingCard
	currentIdx int
	current    *Player
	phase      GamePhase

	sched    Scheduler
	rng      *rand.Rand
	delays   Delays
	mover    cards.Mover
	deckOpts []cards.DeckOption

	spawnPoint cards.Point
	pileBase   cards.Point

	deckTrigger *Interactable
	selection   *cardSelection

	// Lifecycle notifications, fire-and-forget.
	OnGameStarted func()
	OnGameEnded   func()
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithScheduler replaces the default real-time scheduler.
func WithScheduler(s Scheduler) EngineOption {
	return func(e *Engine) { e.sched = s }
}

// WithSeed seeds the engine's random source for deterministic games.
func WithSeed(seed uint64) EngineOption {
	return func(e *Engine) { e.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeefcafe1234)) }
}

// WithDelays overrides the table pacing.
func WithDelays(d Delays) EngineOption {
	return func(e *Engine) { e.delays = d }
}

// WithMover installs the presentation collaborator for spawned cards.
func WithMover(m cards.Mover) EngineOption {
	return func(e *Engine) { e.mover = m }
}

// WithDeckOptions forwards extra options to each game's deck, e.g. an
// unshuffled deck for demos.
func WithDeckOptions(opts ...cards.DeckOption) EngineOption {
	return func(e *Engine) { e.deckOpts = opts }
}

// WithTableLayout places the card spawn point and the discard pile.
func WithTableLayout(spawn, pile cards.Point) EngineOption {
	return func(e *Engine) {
		e.spawnPoint = spawn
		e.pileBase = pile
	}
}

// NewEngine seats the players around a new table for the given rule-set.
// The game starts when StartGame is called or the deck trigger is tapped.
func NewEngine(rules RuleSet, catalog *cards.Catalog, players []*Player, opts ...EngineOption) *Engine {
	e := &Engine{
		id:         uuid.New(),
		rules:      rules,
		catalog:    catalog,
		players:    players,
		currentIdx: -1,
		phase:      PhaseNotStarted,
		delays:     DefaultDelays(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if e.sched == nil {
		e.sched = NewTimerScheduler(&e.mu)
	}

	e.deckTrigger = NewInteractable("deck")
	e.armStartTrigger()
	return e
}

// armStartTrigger points the shared deck interactable at game start.
// Assumes the engine lock is held (or the engine is not yet shared).
func (e *Engine) armStartTrigger() {
	e.deckTrigger.SetText("Start Game")
	e.deckTrigger.SetInteractable(true)
	e.deckTrigger.SetHandler(func() {
		e.deckTrigger.SetInteractable(false)
		e.deckTrigger.ClearHandler()
		e.startGame()
	})
}

// ID returns the unique identifier of this game instance.
func (e *Engine) ID() uuid.UUID { return e.id }

// Rules returns the rule-set driving this game.
func (e *Engine) Rules() RuleSet { return e.rules }

// Phase returns the engine lifecycle state.
func (e *Engine) Phase() GamePhase { return e.phase }

// Deck returns the live draw pile; nil before the first game.
func (e *Engine) Deck() *cards.Deck { return e.deck }

// DeckTrigger returns the shared draw-pile interactable players subscribe
// to across turns.
func (e *Engine) DeckTrigger() *Interactable { return e.deckTrigger }

// Players returns the seating order.
func (e *Engine) Players() []*Player {
	out := make([]*Player, len(e.players))
	copy(out, e.players)
	return out
}

// CurrentPlayer returns the seat holding the turn, or nil between games.
func (e *Engine) CurrentPlayer() *Player { return e.current }

// PlayingCount returns how many seats still take turns.
func (e *Engine) PlayingCount() int {
	count := 0
	for _, p := range e.players {
		if p.IsPlaying() {
			count++
		}
	}
	return count
}

// Rand returns the engine's random source. Assumes the engine lock is
// held by the caller.
func (e *Engine) Rand() *rand.Rand { return e.rng }

// Timing returns the table pacing configuration.
func (e *Engine) Timing() Delays { return e.delays }

// Schedule runs fn after d through the engine scheduler. Assumes the
// engine lock is held; fn runs holding it too.
func (e *Engine) Schedule(d time.Duration, fn func()) { e.sched.After(d, fn) }

// RunSteps chains a timed sequence through the engine scheduler. Assumes
// the engine lock is held by the caller.
func (e *Engine) RunSteps(steps []Step) { runSteps(e.sched, steps) }

// ---------------------------------------------------------------------------
// External interaction surface. These acquire the engine lock.
// ---------------------------------------------------------------------------

// StartGame begins a new game. Safe to call from outside the engine.
func (e *Engine) StartGame() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startGame()
}

// Tap fires an interactable on behalf of a player (button press, deck
// pickup). Safe to call from outside the engine.
func (e *Engine) Tap(i *Interactable) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i.interact()
}

// TapCard routes a card interaction: the active selection claims it if the
// card is eligible, otherwise the rule-set may (e.g. a stacking attempt).
// Safe to call from outside the engine.
func (e *Engine) TapCard(c *cards.PlayingCard) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resolveCardTap(c)
}

// ---------------------------------------------------------------------------
// Lifecycle. Internal methods assume the engine lock is held.
// ---------------------------------------------------------------------------

func (e *Engine) startGame() {
	if e.phase == PhaseDealing || e.phase == PhaseTurnLoop {
		log.WithField("game", e.rules.Name()).Warn("start requested while a game is running")
		return
	}
	log.WithFields(log.Fields{"game": e.rules.Name(), "players": len(e.players)}).Info("game starting")

	for _, p := range e.players {
		p.bindGame(e)
	}

	deckOpts := append([]cards.DeckOption{cards.WithRand(e.rng)}, e.deckOpts...)
	e.deck = cards.NewDeck(e.catalog, deckOpts...)
	e.currentIdx = -1
	e.current = nil
	e.phase = PhaseDealing

	for _, p := range e.players {
		p.ResetHand()
	}
	for _, p := range e.players {
		p.Behavior().GameStarted(p)
	}
	if e.OnGameStarted != nil {
		e.OnGameStarted()
	}

	e.rules.DealInitialCards(e)
}

// NextTurn ends the current turn, advances the cursor past inactive seats
// (bounded by one full lap) and either starts the next turn or resolves
// the winner when no eligible seat remains or the end predicate fires.
// Assumes the engine lock is held by the caller.
func (e *Engine) NextTurn() {
	if e.phase == PhaseEnded || e.phase == PhaseNotStarted {
		return
	}
	if e.current != nil {
		e.current.EndTurn()
	}
	e.phase = PhaseTurnLoop

	n := len(e.players)
	e.currentIdx = (e.currentIdx + 1) % n
	e.current = e.players[e.currentIdx]

	attempts := 0
	for !e.current.IsPlaying() && attempts < n {
		e.currentIdx = (e.currentIdx + 1) % n
		e.current = e.players[e.currentIdx]
		attempts++
	}

	if attempts >= n || !e.current.IsPlaying() || e.rules.CheckGameEnd(e) {
		e.rules.CheckWinner(e)
		return
	}

	e.rules.TurnAdvanced(e)
	e.current.StartTurn()
}

// EndGame resets all hands, destroys the discard pile, re-arms the start
// trigger and emits the ended notification. Assumes the engine lock is
// held by the caller.
func (e *Engine) EndGame() {
	if e.phase == PhaseEnded {
		return
	}
	log.WithField("game", e.rules.Name()).Info("game finished")

	e.ClearCardSelection()
	e.rules.GameEnded(e)

	for _, p := range e.players {
		p.ResetHand()
	}
	for _, c := range e.pile {
		c.SetInteractable(false)
	}
	e.pile = nil
	e.current = nil
	e.currentIdx = -1
	e.phase = PhaseEnded

	e.armStartTrigger()

	for _, p := range e.players {
		p.Behavior().GameEnded(p)
	}
	if e.OnGameEnded != nil {
		e.OnGameEnded()
	}
}

// ---------------------------------------------------------------------------
// Card dealing and the discard pile. Assume the engine lock is held.
// ---------------------------------------------------------------------------

// DrawNewCard draws an identity from the deck and spawns its physical
// instance at the spawn point. Returns nil when the catalog is empty;
// callers treat a nil card as a no-op.
func (e *Engine) DrawNewCard() *cards.PlayingCard {
	identity, ok := e.deck.Draw()
	if !ok {
		log.WithField("game", e.rules.Name()).Warn("deck has no cards to draw")
		return nil
	}
	card := cards.NewPlayingCard(identity)
	if e.mover != nil {
		card.SetMover(e.mover)
	}
	card.MoveTo(e.spawnPoint, defaultLerpSpeed, nil)
	return card
}

// DealCardToPlayerHand draws a new card straight into the player's hand.
func (e *Engine) DealCardToPlayerHand(p *Player) *cards.PlayingCard {
	card := e.DrawNewCard()
	if card != nil {
		p.AddCardToHand(card)
	}
	return card
}

// PullNewCard hands the draw flow to the rule-set for the acting player.
func (e *Engine) PullNewCard(p *Player) *cards.PlayingCard {
	return e.rules.PullNewCard(e, p)
}

// PlaceCardOnPile moves a card out of whatever container holds it onto
// the top of the discard pile, face up unless requested otherwise. This is
// the only way a card leaves active play.
func (e *Engine) PlaceCardOnPile(card *cards.PlayingCard, faceDown bool) {
	if card == nil {
		return
	}
	card.SetInteractable(false)

	for _, p := range e.players {
		if p.Hand() != nil && p.Hand().IndexOf(card) != -1 {
			p.Hand().Remove(card)
			break
		}
	}

	if faceDown {
		card.TurnFaceDown()
	} else {
		card.PlaceFaceUp()
	}

	// Slight vertical offset so stacked cards do not perfectly overlap.
	target := e.pileBase.Add(cards.Point{Y: 0.0025 * float64(len(e.pile))})
	card.MoveTo(target, defaultLerpSpeed, nil)
	card.RotateTo(cards.Orientation{}, defaultLerpSpeed)

	e.pile = append(e.pile, card)
}

// TopPileCard returns the most recently discarded card, or nil.
func (e *Engine) TopPileCard() *cards.PlayingCard {
	if len(e.pile) == 0 {
		return nil
	}
	return e.pile[len(e.pile)-1]
}

// PileSize returns the number of discarded cards.
func (e *Engine) PileSize() int { return len(e.pile) }

// ---------------------------------------------------------------------------
// Swap helpers. Assume the engine lock is held.
// ---------------------------------------------------------------------------

// SwapCards exchanges card1 in player1's hand with card2 in player2's
// hand, each landing at the slot the other vacated. A failed lookup aborts
// without mutating either hand.
func (e *Engine) SwapCards(player1 *Player, card1 *cards.PlayingCard, player2 *Player, card2 *cards.PlayingCard) bool {
	if card1 == nil || card2 == nil {
		log.Warn("swap aborted: missing card")
		return false
	}
	idx1 := player1.Hand().IndexOf(card1)
	idx2 := player2.Hand().IndexOf(card2)
	if idx1 == -1 || idx2 == -1 {
		log.WithFields(log.Fields{
			"card1": card1.String(), "card2": card2.String(),
		}).Warn("swap aborted: card not found in hand")
		return false
	}

	if player1.Hand().Remove(card1) && player2.Hand().Remove(card2) {
		player1.Hand().Insert(card2, idx1)
		player2.Hand().Insert(card1, idx2)
		return true
	}
	return false
}

// SwapHands exchanges the entire contents of two hands, preserving each
// hand's internal order.
func (e *Engine) SwapHands(player1, player2 *Player) {
	hand1 := player1.Hand()
	hand2 := player2.Hand()

	held2 := hand2.Cards()
	for _, c := range held2 {
		hand2.Remove(c)
	}
	held1 := hand1.Cards()
	for _, c := range held1 {
		if hand1.Remove(c) {
			hand2.Add(c)
		}
	}
	for _, c := range held2 {
		hand1.Add(c)
	}
}

// PlayerWithCard finds the seat currently holding the card, matching the
// exact instance first and the underlying identity as a fallback.
func (e *Engine) PlayerWithCard(card *cards.PlayingCard) *Player {
	for _, p := range e.players {
		if p.Hand() != nil && p.Hand().IndexOf(card) != -1 {
			return p
		}
	}
	for _, p := range e.players {
		if p.Hand() == nil {
			continue
		}
		for _, c := range p.Hand().Cards() {
			if c.Identity() == card.Identity() {
				return p
			}
		}
	}
	log.WithField("card", card.String()).Warn("no player holds card")
	return nil
}

// ---------------------------------------------------------------------------
// Card selection phases. Assume the engine lock is held.
// ---------------------------------------------------------------------------

// BeginCardSelection grants a short-lived selection over the eligible
// cards, replacing any previous grant. The continuation runs exactly once,
// after the grant is cleared.
func (e *Engine) BeginCardSelection(eligible []*cards.PlayingCard, resolve func(*cards.PlayingCard)) {
	e.ClearCardSelection()
	sel := &cardSelection{
		eligible: make([]*cards.PlayingCard, 0, len(eligible)),
		resolve:  resolve,
	}
	for _, c := range eligible {
		if c == nil {
			continue
		}
		c.SetInteractable(true)
		sel.eligible = append(sel.eligible, c)
	}
	e.selection = sel
}

// ClearCardSelection revokes the active selection grant, if any.
func (e *Engine) ClearCardSelection() {
	if e.selection == nil {
		return
	}
	for _, c := range e.selection.eligible {
		c.SetInteractable(false)
	}
	e.selection = nil
}

// HasCardSelection reports whether a selection grant is active.
func (e *Engine) HasCardSelection() bool { return e.selection != nil }

func (e *Engine) resolveCardTap(card *cards.PlayingCard) {
	if card == nil {
		return
	}
	if sel := e.selection; sel != nil && card.CanInteract() {
		for _, c := range sel.eligible {
			if c == card {
				e.ClearCardSelection()
				sel.resolve(card)
				return
			}
		}
	}
	if h, ok := e.rules.(CardTapHandler); ok {
		h.HandleCardTap(e, card)
	}
}
