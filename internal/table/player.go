package table

import (
	"math"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/Neenack/ScaryCardGame/internal/cards"
)

// Behavior is the per-game strategy a Player delegates to: turn lifecycle,
// the still-playing predicate, card scoring and (for AI seats) the
// decision policy. One Player type serves every game; the behavior varies.
type Behavior interface {
	// GameStarted and GameEnded bracket one game from this seat's view.
	GameStarted(p *Player)
	GameEnded(p *Player)

	// StartTurn begins this seat's turn: enable interactables for a human,
	// or run the decision policy for an AI.
	StartTurn(p *Player)
	// EndTurn tears down any outstanding interaction wiring so stale input
	// cannot fire after the turn passed.
	EndTurn(p *Player)

	// IsPlaying reports whether this seat still takes turns.
	IsPlaying(p *Player) bool

	// CardValue returns the game-specific score value of a card.
	CardValue(c *cards.PlayingCard) int
}

// HandLayout is an optional Behavior extension overriding card placement.
type HandLayout interface {
	CardPosition(p *Player, index, total int) cards.Point
	CardRotation(p *Player, index, total int) cards.Orientation
}

// Player is one seat at the table. It owns a Hand, knows whether a human
// or the AI policy drives it, and forwards game-specific decisions to its
// Behavior.
type Player struct {
	name     string
	human    bool
	seat     cards.Point   // table position this seat's cards center on
	facing   float64       // yaw the seat faces, degrees
	behavior Behavior

	hand   *Hand
	engine *Engine

	isTurn bool
}

// Layout constants shared by the default hand arrangement.
const (
	defaultCardSpacing = 0.3
	defaultFanAngle    = 0.0
	dealingPitch       = 110.0
	defaultLerpSpeed   = 5.0
)

// NewPlayer creates a seat. Human seats expose their hands to interaction
// events; AI seats run their behavior's policy.
func NewPlayer(name string, human bool, behavior Behavior) *Player {
	return &Player{name: name, human: human, behavior: behavior}
}

// Name returns the seat's display name.
func (p *Player) Name() string { return p.name }

// IsAI reports whether this seat is driven by the AI policy.
func (p *Player) IsAI() bool { return !p.human }

// Hand returns the player's hand; nil before the first ResetHand.
func (p *Player) Hand() *Hand { return p.hand }

// Engine returns the game this player is bound to.
func (p *Player) Engine() *Engine { return p.engine }

// Behavior returns the per-game strategy driving this seat.
func (p *Player) Behavior() Behavior { return p.behavior }

// IsTurn reports whether this seat currently holds the turn.
func (p *Player) IsTurn() bool { return p.isTurn }

// SetSeat places the seat on the table; presentation only.
func (p *Player) SetSeat(pos cards.Point, facing float64) {
	p.seat = pos
	p.facing = facing
}

// Seat returns the seat's table position.
func (p *Player) Seat() cards.Point { return p.seat }

// bindGame attaches the player to an engine for one game.
func (p *Player) bindGame(e *Engine) { p.engine = e }

// IsPlaying reports whether the seat still takes turns, per the game's
// activity predicate.
func (p *Player) IsPlaying() bool { return p.behavior.IsPlaying(p) }

// CardValue returns the game-specific value of a card for this seat.
func (p *Player) CardValue(c *cards.PlayingCard) int { return p.behavior.CardValue(c) }

// StartTurn marks the seat current and hands control to the behavior.
func (p *Player) StartTurn() {
	log.WithField("player", p.name).Info("turn started")
	p.isTurn = true
	p.behavior.StartTurn(p)
}

// EndTurn clears the current marker and tears down interaction wiring.
func (p *Player) EndTurn() {
	p.isTurn = false
	p.behavior.EndTurn(p)
}

// AddCardToHand appends a card to the hand.
func (p *Player) AddCardToHand(card *cards.PlayingCard) { p.hand.Add(card) }

// InsertCardToHand places a card at an explicit slot index.
func (p *Player) InsertCardToHand(card *cards.PlayingCard, index int) { p.hand.Insert(card, index) }

// RemoveCardFromHand removes a card, reporting success.
func (p *Player) RemoveCardFromHand(card *cards.PlayingCard) bool { return p.hand.Remove(card) }

// ResetHand creates the hand on first use and clears it otherwise. The
// hand-updated notification recenters the remaining cards.
func (p *Player) ResetHand() {
	if p.hand == nil {
		p.hand = NewHand(p.name)
		p.hand.OnUpdated = func() { p.RecenterCards(defaultLerpSpeed) }
	}
	p.hand.Clear()
}

// RecenterCards repositions every held card to its slot's layout target.
func (p *Player) RecenterCards(lerpSpeed float64) {
	total := p.hand.Len()
	for i := 0; i < total; i++ {
		card := p.hand.Get(i)
		card.MoveTo(p.CardPosition(i, total), lerpSpeed, nil)
		card.RotateTo(p.CardRotation(i, total), lerpSpeed)
	}
}

// SortHand reorders the hand ascending by the game's card value.
func (p *Player) SortHand() {
	held := p.hand.Cards()
	sort.SliceStable(held, func(i, j int) bool {
		return p.CardValue(held[i]) < p.CardValue(held[j])
	})

	sorted := NewHand(p.name)
	sorted.OnUpdated = p.hand.OnUpdated
	sorted.OnAdd = p.hand.OnAdd
	sorted.OnRemove = p.hand.OnRemove
	sorted.OnShowAnyCard = p.hand.OnShowAnyCard
	for _, c := range held {
		sorted.Add(c)
	}
	p.hand = sorted
}

// CardPosition returns the stable layout position for a hand slot. The
// behavior may override via HandLayout; the default spreads cards evenly
// around the seat center.
func (p *Player) CardPosition(index, total int) cards.Point {
	if l, ok := p.behavior.(HandLayout); ok {
		return l.CardPosition(p, index, total)
	}
	offset := float64(index) - float64(total-1)/2
	rad := p.facing * math.Pi / 180
	return p.seat.Add(cards.Point{
		X: math.Cos(rad) * offset * defaultCardSpacing,
		Z: math.Sin(rad) * offset * defaultCardSpacing,
	})
}

// CardRotation returns the stable layout orientation for a hand slot.
func (p *Player) CardRotation(index, total int) cards.Orientation {
	if l, ok := p.behavior.(HandLayout); ok {
		return l.CardRotation(p, index, total)
	}
	step := 0.0
	if total > 1 {
		step = defaultFanAngle / float64(total-1)
	}
	angle := (float64(index) - float64(total-1)/2) * step
	return cards.Orientation{Pitch: dealingPitch, Yaw: p.facing + angle}
}
