package cambio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neenack/ScaryCardGame/internal/cards"
	"github.com/Neenack/ScaryCardGame/internal/table"
)

func id(suit cards.Suit, rank int) cards.Identity { return cards.NewIdentity(suit, rank) }

// scriptedCatalog orders identities so an unshuffled two-player deal is
// fully predictable: seats draw alternately, so even indexes go to the
// first seat, odd to the second, and index 8 is the first turn's draw.
func scriptedCatalog(drawn cards.Identity) *cards.Catalog {
	ids := []cards.Identity{
		id(cards.Hearts, 3),   // seat A slot 0
		id(cards.Diamonds, 2), // seat B slot 0
		id(cards.Hearts, 4),   // seat A slot 1
		id(cards.Clubs, 9),    // seat B slot 1
		id(cards.Hearts, 5),   // seat A slot 2
		id(cards.Diamonds, 10), // seat B slot 2
		id(cards.Hearts, 6),   // seat A slot 3
		id(cards.Diamonds, 13), // seat B slot 3
		drawn,                 // first draw of the turn loop
		id(cards.Spades, 7),
		id(cards.Spades, 8),
		id(cards.Spades, 9),
		id(cards.Spades, 10),
	}
	return cards.NewCatalog(ids)
}

// scriptedGame builds a two-human-seat game over an unshuffled catalog
// and pumps it to the first player's turn. Nothing moves until the test
// taps something.
func scriptedGame(t *testing.T, drawn cards.Identity, opts ...RulesOption) (*table.Engine, *Rules, *table.ManualScheduler) {
	t.Helper()
	rules := NewRules(opts...)
	players := []*table.Player{
		table.NewPlayer("A", true, NewSeat(rules)),
		table.NewPlayer("B", true, NewSeat(rules)),
	}
	sched := &table.ManualScheduler{}
	e := table.NewEngine(rules, scriptedCatalog(drawn), players,
		table.WithScheduler(sched),
		table.WithSeed(1),
		table.WithDeckOptions(cards.WithShuffle(false)))

	e.StartGame()
	sched.RunAll(100)

	require.Equal(t, table.PhaseTurnLoop, e.Phase())
	require.Equal(t, "A", e.CurrentPlayer().Name())
	return e, rules, sched
}

func TestCardValue(t *testing.T) {
	seat := NewSeat(NewRules())

	assert.Equal(t, -1, seat.CardValue(cards.NewPlayingCard(id(cards.Spades, 13))))
	assert.Equal(t, -1, seat.CardValue(cards.NewPlayingCard(id(cards.Clubs, 13))))
	assert.Equal(t, 13, seat.CardValue(cards.NewPlayingCard(id(cards.Hearts, 13))))
	assert.Equal(t, 1, seat.CardValue(cards.NewPlayingCard(id(cards.Hearts, 1))))
}

func TestScore(t *testing.T) {
	seat := NewSeat(NewRules())
	p := table.NewPlayer("scorer", false, seat)
	p.ResetHand()

	p.AddCardToHand(cards.NewPlayingCard(id(cards.Spades, 13)))
	assert.Equal(t, -1, seat.Score(p), "a lone black king scores -1")

	p.ResetHand()
	p.AddCardToHand(cards.NewPlayingCard(id(cards.Hearts, 11)))
	p.AddCardToHand(cards.NewPlayingCard(id(cards.Hearts, 12)))
	p.AddCardToHand(cards.NewPlayingCard(id(cards.Hearts, 13)))
	assert.Equal(t, 36, seat.Score(p), "jack, queen, red king")
}

func TestInitialDealRevealsTwoCards(t *testing.T) {
	e, _, _ := scriptedGame(t, id(cards.Spades, 11))

	for _, p := range e.Players() {
		require.Equal(t, 4, p.Hand().Len())
		s := seatOf(p)
		assert.True(t, s.HasSeen(p.Hand().Get(0)), "%s slot 0", p.Name())
		assert.False(t, s.HasSeen(p.Hand().Get(1)), "%s slot 1", p.Name())
		assert.True(t, s.HasSeen(p.Hand().Get(2)), "%s slot 2", p.Name())
		assert.False(t, s.HasSeen(p.Hand().Get(3)), "%s slot 3", p.Name())
	}
}

// The rank-11 flow: discard a jack, lift one own card and one opponent
// card, keep the opponent's. Both cards land in each other's slots and
// both faces are remembered.
func TestChooseSwapKeepsOpponentCard(t *testing.T) {
	e, _, sched := scriptedGame(t, id(cards.Spades, 11))
	a, b := e.Players()[0], e.Players()[1]
	seatA := seatOf(a)

	ownCard := a.Hand().Get(0)  // 3 of hearts
	otherCard := b.Hand().Get(1) // 9 of clubs

	e.Tap(e.DeckTrigger())
	assert.Nil(t, e.TopPileCard(), "nothing discarded yet")

	// Discard the drawn jack to trigger its ability.
	e.TapCard(findDrawn(t, e, a))
	require.Equal(t, 11, e.TopPileCard().Rank())

	e.TapCard(ownCard)
	e.TapCard(otherCard)
	// Both cards are now presented; keep the opponent's.
	e.TapCard(otherCard)
	sched.RunAll(100)

	assert.Same(t, otherCard, a.Hand().Get(0), "kept card takes the vacated slot")
	assert.Same(t, ownCard, b.Hand().Get(1), "given card takes the other slot")
	assert.True(t, seatA.HasSeen(otherCard))
	assert.True(t, seatA.HasSeen(ownCard))
	assert.Equal(t, "B", e.CurrentPlayer().Name())
}

// findDrawn locates the card of the active keep-or-discard selection that
// is not in the current player's hand.
func findDrawn(t *testing.T, e *table.Engine, p *table.Player) *cards.PlayingCard {
	t.Helper()
	r, ok := e.Rules().(*Rules)
	require.True(t, ok)
	require.NotNil(t, r.drawn)
	require.Equal(t, -1, p.Hand().IndexOf(r.drawn))
	return r.drawn
}

func TestSkipAbilityAdvancesTurn(t *testing.T) {
	e, _, _ := scriptedGame(t, id(cards.Clubs, 7)) // look-at-own ability
	a := e.Players()[0]

	e.Tap(e.DeckTrigger())
	e.TapCard(findDrawn(t, e, a))

	require.True(t, e.HasCardSelection(), "ability waits on a card choice")
	e.Tap(seatOf(a).SkipButton())

	assert.False(t, e.HasCardSelection())
	assert.Equal(t, "B", e.CurrentPlayer().Name())
}

func TestSwapOutDrawnCard(t *testing.T) {
	e, _, _ := scriptedGame(t, id(cards.Spades, 11))
	a := e.Players()[0]
	victim := a.Hand().Get(2) // 5 of hearts

	e.Tap(e.DeckTrigger())
	drawn := findDrawn(t, e, a)
	e.TapCard(victim)

	assert.Same(t, drawn, a.Hand().Get(2), "drawn card takes the vacated slot")
	assert.Same(t, victim, e.TopPileCard(), "swapped-out card lands on the pile")
	assert.True(t, seatOf(a).HasSeen(drawn))
	assert.Equal(t, "B", e.CurrentPlayer().Name(), "keeping the card ends the turn")
}

func TestStackingMatch(t *testing.T) {
	// A discards a drawn two (no ability), opening a stacking window with
	// a two on the pile. B holds the two of diamonds.
	e, r, _ := scriptedGame(t, id(cards.Hearts, 2))
	b := e.Players()[1]
	matching := b.Hand().Get(0) // 2 of diamonds

	e.Tap(e.DeckTrigger())
	e.TapCard(findDrawn(t, e, e.Players()[0]))

	require.Equal(t, "B", e.CurrentPlayer().Name())
	require.True(t, r.stack.open, "window opens over a fresh pile top")

	e.TapCard(matching)
	assert.Same(t, matching, e.TopPileCard())
	assert.Equal(t, 3, b.Hand().Len())
	assert.True(t, r.stack.used)

	// The latch allows one attempt per window.
	other := b.Hand().Get(0)
	e.TapCard(other)
	assert.Equal(t, 3, b.Hand().Len())
	assert.Same(t, matching, e.TopPileCard())
}

func TestStackingMismatchPenalty(t *testing.T) {
	e, r, sched := scriptedGame(t, id(cards.Hearts, 2))
	b := e.Players()[1]
	wrong := b.Hand().Get(1) // 9 of clubs

	e.Tap(e.DeckTrigger())
	e.TapCard(findDrawn(t, e, e.Players()[0]))
	require.True(t, r.stack.open)

	e.TapCard(wrong)
	sched.RunAll(10)

	assert.Equal(t, 1, b.Hand().IndexOf(wrong), "mismatched card stays in hand")
	assert.Equal(t, 5, b.Hand().Len(), "penalty card dealt")
	assert.Equal(t, 2, e.TopPileCard().Rank(), "pile unchanged")
	assert.True(t, r.stack.used)
}

// A game that ends by calling never reaches PullNewCard, so the window
// close belongs to the scoring path: no stack attempt may change a score
// after the turn loop exits.
func TestCallingOutClosesStackingWindow(t *testing.T) {
	e, r, sched := scriptedGame(t, id(cards.Hearts, 2))
	a, b := e.Players()[0], e.Players()[1]

	e.Tap(e.DeckTrigger())
	e.TapCard(findDrawn(t, e, a))
	require.Equal(t, "B", e.CurrentPlayer().Name())
	require.True(t, r.stack.open)

	// Both seats call instead of drawing; the game exits to scoring.
	e.Tap(seatOf(b).CallButton())
	e.Tap(seatOf(a).CallButton())
	require.False(t, r.stack.open, "window closed before scoring")

	matching := b.Hand().Get(0) // 2 of diamonds, matches the pile top
	e.TapCard(matching)
	assert.Equal(t, 4, b.Hand().Len(), "no stacking after the game ends")
	assert.Equal(t, 1, e.PileSize())

	sched.RunAll(100)
	require.NotNil(t, r.Result())
	assert.Equal(t, 18, r.Result().Scores["A"])
	assert.Equal(t, 34, r.Result().Scores["B"])
	assert.Equal(t, "A", r.Result().Winner)
}

// The red-king reveal marks every card seen before the turn advances,
// under any scheduler.
func TestRevealHandFinishesBeforeTurnAdvance(t *testing.T) {
	e, _, sched := scriptedGame(t, id(cards.Hearts, 13))
	a := e.Players()[0]
	seatA := seatOf(a)

	e.Tap(e.DeckTrigger())
	e.TapCard(findDrawn(t, e, a))
	require.Equal(t, 13, e.TopPileCard().Rank())

	// Pump everything except the final queued continuation.
	require.True(t, sched.Step(), "reveal step queued")
	for sched.Pending() > 1 {
		sched.Step()
	}
	assert.Equal(t, "A", e.CurrentPlayer().Name(), "turn holds until the reveals finish")
	for i := 0; i < a.Hand().Len(); i++ {
		assert.True(t, seatA.HasSeen(a.Hand().Get(i)), "slot %d", i)
	}

	sched.Step()
	assert.Equal(t, "B", e.CurrentPlayer().Name())
}

func TestPeekOpponentCard(t *testing.T) {
	e, _, sched := scriptedGame(t, id(cards.Hearts, 8))
	a, b := e.Players()[0], e.Players()[1]
	target := b.Hand().Get(1) // 9 of clubs

	e.Tap(e.DeckTrigger())
	e.TapCard(findDrawn(t, e, a))
	e.TapCard(target)
	sched.RunAll(100)

	assert.True(t, seatOf(a).HasSeen(target))
	assert.False(t, seatOf(b).HasSeen(target), "the owner learns nothing")
	assert.True(t, target.IsFaceDown(), "peeked card settles face down")
	assert.Same(t, target, b.Hand().Get(1), "peek does not move the card")
	assert.Equal(t, "B", e.CurrentPlayer().Name())
}

func TestSwapHandsDeclinedBySelfPick(t *testing.T) {
	e, _, _ := scriptedGame(t, id(cards.Hearts, 10))
	a, b := e.Players()[0], e.Players()[1]
	heldA := a.Hand().Cards()
	heldB := b.Hand().Cards()

	e.Tap(e.DeckTrigger())
	e.TapCard(findDrawn(t, e, a))
	e.TapCard(a.Hand().Get(0))

	for i, c := range heldA {
		assert.Same(t, c, a.Hand().Get(i), "own pick declines the swap")
	}
	for i, c := range heldB {
		assert.Same(t, c, b.Hand().Get(i))
	}
	assert.Equal(t, "B", e.CurrentPlayer().Name())
}

func TestSwapHandsAccepted(t *testing.T) {
	e, _, _ := scriptedGame(t, id(cards.Hearts, 10))
	a, b := e.Players()[0], e.Players()[1]
	heldA := a.Hand().Cards()
	heldB := b.Hand().Cards()

	e.Tap(e.DeckTrigger())
	e.TapCard(findDrawn(t, e, a))
	e.TapCard(b.Hand().Get(3))

	for i, c := range heldB {
		assert.Same(t, c, a.Hand().Get(i), "hands traded in order")
	}
	for i, c := range heldA {
		assert.Same(t, c, b.Hand().Get(i))
	}
	assert.Equal(t, "B", e.CurrentPlayer().Name())
}

func TestBlindSwapPreservesIndexes(t *testing.T) {
	e, _, _ := scriptedGame(t, id(cards.Hearts, 12))
	a, b := e.Players()[0], e.Players()[1]
	own := a.Hand().Get(1)   // 4 of hearts, never revealed
	other := b.Hand().Get(2) // 10 of diamonds

	e.Tap(e.DeckTrigger())
	e.TapCard(findDrawn(t, e, a))
	e.TapCard(own)
	e.TapCard(other)

	assert.Same(t, other, a.Hand().Get(1))
	assert.Same(t, own, b.Hand().Get(2))
	assert.True(t, other.IsFaceDown(), "blind swap reveals nothing")
	assert.False(t, seatOf(a).HasSeen(other))
	assert.Equal(t, "B", e.CurrentPlayer().Name())
}

func TestStackingDisabled(t *testing.T) {
	e, r, _ := scriptedGame(t, id(cards.Hearts, 2), WithStacking(false))

	e.Tap(e.DeckTrigger())
	e.TapCard(findDrawn(t, e, e.Players()[0]))

	assert.False(t, r.stack.open)
}

func TestAIPolicyShouldDiscard(t *testing.T) {
	seat := NewSeat(NewRules())
	p := table.NewPlayer("ai", false, seat)
	p.ResetHand()
	low := cards.NewPlayingCard(id(cards.Hearts, 4))
	p.AddCardToHand(low)
	p.AddCardToHand(cards.NewPlayingCard(id(cards.Hearts, 2)))

	assert.True(t, seat.ShouldDiscard(p, cards.NewPlayingCard(id(cards.Hearts, 9))),
		"high draws always go to the pile")
	assert.False(t, seat.ShouldDiscard(p, cards.NewPlayingCard(id(cards.Hearts, 3))),
		"low draw kept while the hand is unknown")

	for _, c := range p.Hand().Cards() {
		seat.AddSeen(c)
	}
	assert.True(t, seat.ShouldDiscard(p, cards.NewPlayingCard(id(cards.Hearts, 5))),
		"known hand beats a draw above the known highest")
	assert.False(t, seat.ShouldDiscard(p, cards.NewPlayingCard(id(cards.Hearts, 3))),
		"draw below the known highest replaces it instead")
}

func TestAIPolicyIndexToSwap(t *testing.T) {
	seat := NewSeat(NewRules())
	p := table.NewPlayer("ai", false, seat)
	p.ResetHand()
	p.AddCardToHand(cards.NewPlayingCard(id(cards.Hearts, 3)))
	expensive := cards.NewPlayingCard(id(cards.Diamonds, 12))
	p.AddCardToHand(expensive)

	seat.AddSeen(expensive)
	assert.Equal(t, 1, seat.IndexToSwap(p), "a known card above 9 goes first")

	cheap := NewSeat(NewRules())
	q := table.NewPlayer("ai2", false, cheap)
	q.ResetHand()
	q.AddCardToHand(cards.NewPlayingCard(id(cards.Hearts, 3)))
	q.AddCardToHand(cards.NewPlayingCard(id(cards.Diamonds, 8)))
	for _, c := range q.Hand().Cards() {
		cheap.AddSeen(c)
	}
	assert.Equal(t, 1, cheap.IndexToSwap(q), "fully known hand gives up its highest")
}

func TestAIPolicyShouldCallRound(t *testing.T) {
	seat := NewSeat(NewRules())
	p := table.NewPlayer("ai", false, seat)
	p.ResetHand()
	king := cards.NewPlayingCard(id(cards.Spades, 13))
	two := cards.NewPlayingCard(id(cards.Hearts, 2))
	p.AddCardToHand(king)
	p.AddCardToHand(two)

	assert.False(t, seat.ShouldCallRound(p), "unknown hand holds out")

	seat.AddSeen(king)
	seat.AddSeen(two)
	assert.True(t, seat.ShouldCallRound(p), "fully known low hand calls")

	seat.RemoveSeen(two)
	seat.turnsTaken = maxTurnsBeforeCall + 1
	assert.True(t, seat.ShouldCallRound(p), "long games end by the turn cap")
}

// A full AI-only game runs to completion synchronously and crowns the
// lowest score.
func TestAIGameCompletes(t *testing.T) {
	engine, rules := NewGame([]string{"north", "east", "south", "west"}, false,
		cards.StandardCatalog(), nil,
		table.WithScheduler(table.ImmediateScheduler{}),
		table.WithSeed(99))

	ended := false
	engine.OnGameEnded = func() { ended = true }
	engine.StartGame()

	require.True(t, ended, "game must reach the ended notification")
	result := rules.Result()
	require.NotNil(t, result)
	require.Contains(t, result.Scores, result.Winner)

	for name, score := range result.Scores {
		assert.GreaterOrEqual(t, score, result.Scores[result.Winner],
			"%s may not score below the winner", name)
	}
}
