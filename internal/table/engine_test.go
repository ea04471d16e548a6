package table

import (
	"testing"

	"github.com/Neenack/ScaryCardGame/internal/cards"
)

// stubBehavior is a minimal seat: always playing unless switched off, and
// turns do nothing until the test advances the game.
type stubBehavior struct {
	playing    bool
	turnsTaken int
}

func (b *stubBehavior) GameStarted(p *Player)             {}
func (b *stubBehavior) GameEnded(p *Player)               {}
func (b *stubBehavior) StartTurn(p *Player)               { b.turnsTaken++ }
func (b *stubBehavior) EndTurn(p *Player)                 {}
func (b *stubBehavior) IsPlaying(p *Player) bool          { return b.playing }
func (b *stubBehavior) CardValue(c *cards.PlayingCard) int { return c.Value(false) }

// stubRules deals two cards per seat and ends through the default path.
type stubRules struct {
	winnerChecks int
}

func (r *stubRules) Name() string { return "stub" }

func (r *stubRules) DealInitialCards(e *Engine) {
	var steps []Step
	for i := 0; i < 2; i++ {
		for _, p := range e.Players() {
			p := p
			steps = append(steps, Step{Do: func() { e.DealCardToPlayerHand(p) }})
		}
	}
	steps = append(steps, Step{Do: func() { e.NextTurn() }})
	e.RunSteps(steps)
}

func (r *stubRules) CheckGameEnd(e *Engine) bool { return false }

func (r *stubRules) CheckWinner(e *Engine) {
	r.winnerChecks++
	e.EndGame()
}

func (r *stubRules) PullNewCard(e *Engine, p *Player) *cards.PlayingCard {
	return e.DealCardToPlayerHand(p)
}

func (r *stubRules) TurnAdvanced(e *Engine) {}
func (r *stubRules) GameEnded(e *Engine)    {}

func newStubGame(t *testing.T, seats int) (*Engine, *stubRules, []*stubBehavior) {
	t.Helper()
	rules := &stubRules{}
	behaviors := make([]*stubBehavior, seats)
	players := make([]*Player, seats)
	for i := range players {
		behaviors[i] = &stubBehavior{playing: true}
		players[i] = NewPlayer("p"+string(rune('0'+i)), false, behaviors[i])
	}
	e := NewEngine(rules, cards.StandardCatalog(), players,
		WithScheduler(ImmediateScheduler{}), WithSeed(11))
	return e, rules, behaviors
}

func TestStartGameDealsAndStartsFirstTurn(t *testing.T) {
	e, _, behaviors := newStubGame(t, 3)
	e.StartGame()

	if e.Phase() != PhaseTurnLoop {
		t.Fatalf("phase = %v, want turn_loop", e.Phase())
	}
	for _, p := range e.Players() {
		if p.Hand().Len() != 2 {
			t.Fatalf("%s holds %d cards, want 2", p.Name(), p.Hand().Len())
		}
	}
	if e.CurrentPlayer() != e.Players()[0] {
		t.Fatalf("current = %v, want first seat", e.CurrentPlayer().Name())
	}
	if behaviors[0].turnsTaken != 1 {
		t.Fatalf("first seat turns = %d, want 1", behaviors[0].turnsTaken)
	}
}

// N turn advances visit every playing seat exactly once, skipping seats
// marked not playing.
func TestTurnCyclingSkipsInactiveSeats(t *testing.T) {
	e, _, behaviors := newStubGame(t, 4)
	behaviors[1].playing = false
	behaviors[3].playing = false
	e.StartGame()

	visits := make(map[string]int)
	visits[e.CurrentPlayer().Name()]++
	for i := 0; i < 3; i++ {
		e.NextTurn()
		visits[e.CurrentPlayer().Name()]++
	}

	players := e.Players()
	if visits[players[0].Name()] != 2 || visits[players[2].Name()] != 2 {
		t.Fatalf("playing seats not visited evenly: %v", visits)
	}
	if visits[players[1].Name()] != 0 || visits[players[3].Name()] != 0 {
		t.Fatalf("inactive seats visited: %v", visits)
	}
}

func TestGameEndsWhenNoSeatPlays(t *testing.T) {
	e, rules, behaviors := newStubGame(t, 3)
	e.StartGame()

	for _, b := range behaviors {
		b.playing = false
	}
	ended := false
	e.OnGameEnded = func() { ended = true }

	e.NextTurn()
	if rules.winnerChecks != 1 {
		t.Fatalf("winner checks = %d, want 1", rules.winnerChecks)
	}
	if e.Phase() != PhaseEnded || !ended {
		t.Fatalf("phase=%v ended=%v", e.Phase(), ended)
	}
	if e.CurrentPlayer() != nil {
		t.Fatal("current player survived game end")
	}
}

// The re-armed start trigger begins a fresh game after one ends.
func TestStartTriggerRearms(t *testing.T) {
	e, _, behaviors := newStubGame(t, 2)
	e.StartGame()

	for _, b := range behaviors {
		b.playing = false
	}
	e.NextTurn()
	if e.Phase() != PhaseEnded {
		t.Fatalf("phase = %v, want ended", e.Phase())
	}

	for _, b := range behaviors {
		b.playing = true
	}
	e.Tap(e.DeckTrigger())
	if e.Phase() != PhaseTurnLoop {
		t.Fatalf("phase after re-start = %v, want turn_loop", e.Phase())
	}
}

func TestSwapCardsPreservesIndexes(t *testing.T) {
	e, _, _ := newStubGame(t, 2)
	e.StartGame()
	p1, p2 := e.Players()[0], e.Players()[1]

	a := p1.Hand().Get(0)
	other1 := p1.Hand().Get(1)
	b := p2.Hand().Get(1)
	other2 := p2.Hand().Get(0)

	if !e.SwapCards(p1, a, p2, b) {
		t.Fatal("swap failed")
	}
	if p1.Hand().Get(0) != b || p2.Hand().Get(1) != a {
		t.Fatal("swapped cards not at the vacated slots")
	}
	if p1.Hand().Get(1) != other1 || p2.Hand().Get(0) != other2 {
		t.Fatal("unrelated slots changed")
	}
}

func TestSwapCardsAbortsOnMissingCard(t *testing.T) {
	e, _, _ := newStubGame(t, 2)
	e.StartGame()
	p1, p2 := e.Players()[0], e.Players()[1]

	stray := cards.NewPlayingCard(cards.NewIdentity(cards.Hearts, 1))
	before1 := p1.Hand().Cards()
	if e.SwapCards(p1, stray, p2, p2.Hand().Get(0)) {
		t.Fatal("swap with a card outside both hands should fail")
	}
	for i, c := range p1.Hand().Cards() {
		if before1[i] != c {
			t.Fatal("failed swap mutated a hand")
		}
	}
}

func TestSwapHands(t *testing.T) {
	e, _, _ := newStubGame(t, 2)
	e.StartGame()
	p1, p2 := e.Players()[0], e.Players()[1]

	held1 := p1.Hand().Cards()
	held2 := p2.Hand().Cards()

	e.SwapHands(p1, p2)

	for i, c := range p1.Hand().Cards() {
		if held2[i] != c {
			t.Fatal("first hand does not hold the second's cards in order")
		}
	}
	for i, c := range p2.Hand().Cards() {
		if held1[i] != c {
			t.Fatal("second hand does not hold the first's cards in order")
		}
	}
}

// A card moved to the pile leaves its hand: no instance is ever in two
// containers.
func TestPlaceCardOnPileRemovesFromHand(t *testing.T) {
	e, _, _ := newStubGame(t, 2)
	e.StartGame()
	p := e.Players()[0]
	card := p.Hand().Get(0)

	e.PlaceCardOnPile(card, false)

	if p.Hand().IndexOf(card) != -1 {
		t.Fatal("card still in hand after discard")
	}
	if e.TopPileCard() != card {
		t.Fatal("card not on top of pile")
	}
	if card.IsFaceDown() {
		t.Fatal("discards land face up by default")
	}
	if card.CanInteract() {
		t.Fatal("discarded card still interactable")
	}
}

func TestPileOrdering(t *testing.T) {
	e, _, _ := newStubGame(t, 2)
	e.StartGame()
	p := e.Players()[0]

	first := p.Hand().Get(0)
	e.PlaceCardOnPile(first, false)
	second := e.Players()[1].Hand().Get(0)
	e.PlaceCardOnPile(second, true)

	if e.TopPileCard() != second || e.PileSize() != 2 {
		t.Fatalf("pile top=%v size=%d", e.TopPileCard(), e.PileSize())
	}
	if !second.IsFaceDown() {
		t.Fatal("face-down discard flipped up")
	}
	if first.IsFaceDown() {
		t.Fatal("earlier discard lost its face state")
	}
}

func TestPlayerWithCard(t *testing.T) {
	e, _, _ := newStubGame(t, 2)
	e.StartGame()
	p2 := e.Players()[1]
	card := p2.Hand().Get(1)

	if e.PlayerWithCard(card) != p2 {
		t.Fatal("exact instance lookup failed")
	}

	// Identity fallback: a twin instance matches the holder of the
	// original identity.
	twin := cards.NewPlayingCard(card.Identity())
	if e.PlayerWithCard(twin) != p2 {
		t.Fatal("identity fallback lookup failed")
	}

	// An identity no catalog card carries cannot match any holder.
	stray := cards.NewPlayingCard(cards.Identity{Suit: cards.Hearts, Rank: 1, Name: "Stray"})
	if e.PlayerWithCard(stray) != nil {
		t.Fatal("stray card matched a player")
	}
}

// A selection resolves at most once and clears before its continuation
// runs.
func TestCardSelectionResolvesOnce(t *testing.T) {
	e, _, _ := newStubGame(t, 2)
	e.StartGame()
	p := e.Players()[0]
	a, b := p.Hand().Get(0), p.Hand().Get(1)

	fired := 0
	e.BeginCardSelection([]*cards.PlayingCard{a, b}, func(c *cards.PlayingCard) {
		fired++
		if e.HasCardSelection() {
			t.Error("selection still active inside its continuation")
		}
	})
	if !a.CanInteract() || !b.CanInteract() {
		t.Fatal("eligible cards not interaction-enabled")
	}

	e.TapCard(a)
	e.TapCard(b)
	if fired != 1 {
		t.Fatalf("selection fired %d times, want 1", fired)
	}
	if b.CanInteract() {
		t.Fatal("stale eligible card still interactable")
	}
}

func TestCardSelectionReplaced(t *testing.T) {
	e, _, _ := newStubGame(t, 2)
	e.StartGame()
	p := e.Players()[0]
	a, b := p.Hand().Get(0), p.Hand().Get(1)

	firstFired := false
	e.BeginCardSelection([]*cards.PlayingCard{a}, func(*cards.PlayingCard) { firstFired = true })
	e.BeginCardSelection([]*cards.PlayingCard{b}, func(*cards.PlayingCard) {})

	if a.CanInteract() {
		t.Fatal("replaced selection left its card enabled")
	}
	e.TapCard(a)
	if firstFired {
		t.Fatal("replaced selection fired")
	}
}
