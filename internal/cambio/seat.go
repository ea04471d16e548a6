package cambio

import (
	"math"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Neenack/ScaryCardGame/internal/cards"
	"github.com/Neenack/ScaryCardGame/internal/table"
)

// Grid layout for the four-card spread: two rows, columns grow outward.
const (
	gridCardSpacing = 0.3
	gridRowSpacing  = 0.35
	gridCardPitch   = 110.0
)

// Seat is the Cambio behavior for one table seat: call-round state, the
// seen-card memory driving the AI policy, and the per-seat buttons.
type Seat struct {
	rules *Rules

	hasCalled  bool
	turnsTaken int
	seen       map[uuid.UUID]*cards.PlayingCard

	callButton *table.Interactable
	skipButton *table.Interactable
}

// NewSeat builds a Cambio seat bound to the shared rule-set.
func NewSeat(rules *Rules) *Seat {
	return &Seat{
		rules:      rules,
		seen:       make(map[uuid.UUID]*cards.PlayingCard),
		callButton: table.NewInteractable("call-round"),
		skipButton: table.NewInteractable("skip-ability"),
	}
}

// CallButton is the per-seat round-call interactable; enabled only during
// this seat's human turns.
func (s *Seat) CallButton() *table.Interactable { return s.callButton }

// SkipButton is the per-seat ability-skip interactable; enabled while an
// ability of this seat's turn is pending.
func (s *Seat) SkipButton() *table.Interactable { return s.skipButton }

// HasCalled reports whether this seat declared the round over.
func (s *Seat) HasCalled() bool { return s.hasCalled }

func (s *Seat) GameStarted(p *table.Player) {
	s.hasCalled = false
	s.turnsTaken = 0
	s.seen = make(map[uuid.UUID]*cards.PlayingCard)
	s.callButton.SetInteractable(false)
	s.skipButton.SetInteractable(false)

	// A card leaving this hand leaves this seat's memory with it.
	p.Hand().OnRemove = func(c *cards.PlayingCard) { s.RemoveSeen(c) }
}

func (s *Seat) GameEnded(p *table.Player) {
	p.Hand().OnRemove = nil
	s.callButton.SetInteractable(false)
	s.skipButton.SetInteractable(false)
}

// IsPlaying reports whether the seat still draws: calling the round stops
// further turns for this seat.
func (s *Seat) IsPlaying(p *table.Player) bool { return !s.hasCalled }

// CardValue scores a card for Cambio: face value with Ace low, except a
// black King which counts -1.
func (s *Seat) CardValue(c *cards.PlayingCard) int {
	value := c.Value(false)
	if value == 13 && c.Suit().IsBlack() {
		return -1
	}
	return value
}

// StartTurn wires the shared deck trigger and the call button for a human
// seat, or hands the AI straight to the draw flow.
func (s *Seat) StartTurn(p *table.Player) {
	e := p.Engine()
	s.skipButton.SetInteractable(false)
	s.turnsTaken++

	if p.IsAI() {
		if s.ShouldCallRound(p) {
			log.WithField("player", p.Name()).Info("round called")
			s.hasCalled = true
			e.NextTurn()
			return
		}
		e.PullNewCard(p)
		return
	}

	deck := e.DeckTrigger()
	deck.SetText("Pull Card")
	deck.SetInteractable(true)
	deck.SetHandler(func() {
		deck.SetInteractable(false)
		deck.ClearHandler()
		s.callButton.SetInteractable(false)
		s.callButton.ClearHandler()
		e.PullNewCard(p)
	})

	s.callButton.SetText("Call Round")
	s.callButton.SetInteractable(true)
	s.callButton.SetHandler(func() {
		log.WithField("player", p.Name()).Info("round called")
		s.hasCalled = true
		e.NextTurn()
	})
}

// EndTurn tears down every interactable this turn may have armed, then
// propagates the round call: once anyone has stopped playing, every seat
// finishing a turn stops too. This is what closes the endgame.
func (s *Seat) EndTurn(p *table.Player) {
	e := p.Engine()

	deck := e.DeckTrigger()
	deck.SetInteractable(false)
	deck.ClearHandler()

	s.callButton.SetInteractable(false)
	s.callButton.ClearHandler()
	s.skipButton.SetInteractable(false)
	s.skipButton.ClearHandler()

	if p.Hand() != nil {
		p.Hand().SetInteractable(false)
	}

	for _, other := range e.Players() {
		if !other.IsPlaying() {
			s.hasCalled = true
			break
		}
	}
}

// enableSkipAbility arms the skip button while an ability is pending.
func (s *Seat) enableSkipAbility(p *table.Player) {
	e := p.Engine()
	s.skipButton.SetText("Skip Ability")
	s.skipButton.SetInteractable(true)
	s.skipButton.SetHandler(func() {
		s.skipButton.SetInteractable(false)
		s.skipButton.ClearHandler()
		e.ClearCardSelection()
		e.NextTurn()
	})
}

// Score sums the Cambio values of every held card.
func (s *Seat) Score(p *table.Player) int {
	total := 0
	for _, c := range p.Hand().Cards() {
		total += s.CardValue(c)
	}
	return total
}

// CardPosition arranges the hand as a two-row grid in front of the seat,
// columns centered on the seat position.
func (s *Seat) CardPosition(p *table.Player, index, total int) cards.Point {
	column := index / 2
	row := index % 2
	totalColumns := (total + 1) / 2
	centerOffset := float64(totalColumns-1) / 2

	return p.Seat().Add(cards.Point{
		X: (float64(column) - centerOffset) * gridCardSpacing,
		Z: -float64(row) * gridRowSpacing,
	})
}

// CardRotation keeps grid cards face down at the dealing pitch.
func (s *Seat) CardRotation(p *table.Player, index, total int) cards.Orientation {
	return cards.Orientation{Pitch: gridCardPitch}
}

// Memory.

// AddSeen records that this seat observed the card's face.
func (s *Seat) AddSeen(c *cards.PlayingCard) {
	if c == nil {
		return
	}
	s.seen[c.ID()] = c
}

// HasSeen reports whether this seat remembers the card's face.
func (s *Seat) HasSeen(c *cards.PlayingCard) bool {
	_, ok := s.seen[c.ID()]
	return ok
}

// RemoveSeen forgets a card.
func (s *Seat) RemoveSeen(c *cards.PlayingCard) {
	if c == nil {
		return
	}
	delete(s.seen, c.ID())
}

// SeenCount returns the size of this seat's memory.
func (s *Seat) SeenCount() int { return len(s.seen) }

// highestKnownOwn returns the highest-valued card of p's hand this seat
// remembers. The memory also holds opponent cards; those never qualify
// for swapping out.
func (s *Seat) highestKnownOwn(p *table.Player) *cards.PlayingCard {
	var best *cards.PlayingCard
	bestValue := math.MinInt
	for _, c := range p.Hand().Cards() {
		if !s.HasSeen(c) {
			continue
		}
		if v := s.CardValue(c); v > bestValue {
			bestValue = v
			best = c
		}
	}
	return best
}

func (s *Seat) knownOwnCount(p *table.Player) int {
	count := 0
	for _, c := range p.Hand().Cards() {
		if s.HasSeen(c) {
			count++
		}
	}
	return count
}

func (s *Seat) unseenCards(p *table.Player) []*cards.PlayingCard {
	var unseen []*cards.PlayingCard
	for _, c := range p.Hand().Cards() {
		if !s.HasSeen(c) {
			unseen = append(unseen, c)
		}
	}
	return unseen
}

// AI policy.

// ShouldDiscard decides whether the AI plays the drawn card to the pile:
// anything above 5 goes, otherwise keep unless the whole hand is known and
// the draw beats the known-highest card.
func (s *Seat) ShouldDiscard(p *table.Player, drawn *cards.PlayingCard) bool {
	if p.Hand().Len() == 0 {
		return true
	}
	if s.CardValue(drawn) > 5 {
		return true
	}
	if s.knownOwnCount(p) < p.Hand().Len() {
		return false
	}
	if highest := s.highestKnownOwn(p); highest != nil && s.CardValue(highest) < s.CardValue(drawn) {
		return true
	}
	return false
}

// IndexToSwap picks the hand slot the AI most wants to give up: a known
// card above 9, else a random unseen card, else the known highest.
func (s *Seat) IndexToSwap(p *table.Player) int {
	hand := p.Hand()

	highest := s.highestKnownOwn(p)
	if highest == nil {
		return p.Engine().Rand().IntN(hand.Len())
	}
	if s.CardValue(highest) > 9 {
		return hand.IndexOf(highest)
	}

	unseen := s.unseenCards(p)
	if len(unseen) == 0 {
		return hand.IndexOf(highest)
	}
	return hand.IndexOf(unseen[p.Engine().Rand().IntN(len(unseen))])
}

// IndexToLookAt picks the hand slot the AI peeks at: a random unseen card,
// or any random slot once everything is known.
func (s *Seat) IndexToLookAt(p *table.Player) int {
	hand := p.Hand()

	unseen := s.unseenCards(p)
	if len(unseen) == 0 {
		return p.Engine().Rand().IntN(hand.Len())
	}
	return hand.IndexOf(unseen[p.Engine().Rand().IntN(len(unseen))])
}

// ShouldSwapHand decides the rank-10 whole-hand swap: worth it only while
// the seat knows less than half its own cards and is scoring badly.
func (s *Seat) ShouldSwapHand(p *table.Player) bool {
	return s.knownOwnCount(p) < p.Hand().Len()/2 && s.Score(p) > 10
}

// AI calling policy. A seat calls once its whole hand is known and the
// total is low, or after enough turns that holding out stopped paying.
const (
	callScoreThreshold = 5
	maxTurnsBeforeCall = 10
)

// ShouldCallRound decides whether the AI declares the round over instead
// of drawing.
func (s *Seat) ShouldCallRound(p *table.Player) bool {
	if s.turnsTaken > maxTurnsBeforeCall {
		return true
	}
	return s.knownOwnCount(p) == p.Hand().Len() && s.Score(p) <= callScoreThreshold
}

// seatOf extracts the Cambio behavior from a player; a foreign behavior
// at a Cambio table is a wiring error.
func seatOf(p *table.Player) *Seat {
	s, ok := p.Behavior().(*Seat)
	if !ok {
		log.WithField("player", p.Name()).Warn("player has no cambio seat behavior")
		return nil
	}
	return s
}
