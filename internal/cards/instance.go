package cards

import (
	"github.com/google/uuid"
)

// Point is a position on the table surface.
type Point struct {
	X, Y, Z float64
}

// Add returns the component-wise sum of two points.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }

// Orientation is a card orientation in euler degrees.
type Orientation struct {
	Pitch, Yaw, Roll float64
}

// Mover animates a card's physical presentation. The core sets motion
// targets and calls through; the rendering side owns the animation. A nil
// mover completes every motion immediately.
type Mover interface {
	MoveTo(card *PlayingCard, target Point, speed float64, onComplete func())
	RotateTo(card *PlayingCard, target Orientation, speed float64)
}

// PlayingCard is a live physical card instance on the table. It wraps a
// shared Identity and owns mutable presentation state: face direction,
// in-flight motion targets and interaction enablement. Each instance
// belongs to exactly one of the deck spawn point, a single hand, or the
// discard pile at any time.
type PlayingCard struct {
	id       uuid.UUID
	identity Identity

	faceDown     bool
	interactable bool

	targetPos Point
	targetRot Orientation
	mover     Mover

	onShown func(*PlayingCard)
}

// NewPlayingCard spawns a card instance for the given identity, face down.
func NewPlayingCard(identity Identity) *PlayingCard {
	return &PlayingCard{
		id:       uuid.New(),
		identity: identity,
		faceDown: true,
	}
}

// ID returns the unique instance identifier.
func (c *PlayingCard) ID() uuid.UUID { return c.id }

// Identity returns the card's shared definition.
func (c *PlayingCard) Identity() Identity { return c.identity }

// Suit returns the card's suit.
func (c *PlayingCard) Suit() Suit { return c.identity.Suit }

// Rank returns the card's rank, 1 through 13.
func (c *PlayingCard) Rank() int { return c.identity.Rank }

// Value returns the card's rank value, optionally Ace-high.
func (c *PlayingCard) Value(aceHigh bool) int { return c.identity.Value(aceHigh) }

// IsFaceDown reports whether the card currently hides its face.
func (c *PlayingCard) IsFaceDown() bool { return c.faceDown }

// SetMover installs the presentation collaborator for this card.
func (c *PlayingCard) SetMover(m Mover) { c.mover = m }

// SetOnShown installs the shown-notification handler. The owning hand uses
// this to observe reveals.
func (c *PlayingCard) SetOnShown(fn func(*PlayingCard)) { c.onShown = fn }

// FlipCard turns a face-down card face up and fires the shown
// notification. Face-up cards are left alone.
func (c *PlayingCard) FlipCard() {
	if !c.faceDown {
		return
	}
	c.faceDown = false
	if c.onShown != nil {
		c.onShown(c)
	}
}

// TurnFaceDown silently restores the face-down state, e.g. after a timed
// reveal. No notification fires.
func (c *PlayingCard) TurnFaceDown() { c.faceDown = true }

// PlaceFaceUp silently exposes the face without firing the shown
// notification; used when a card lands face up on the discard pile.
func (c *PlayingCard) PlaceFaceUp() { c.faceDown = false }

// MoveTo sets the card's motion target and hands it to the mover.
func (c *PlayingCard) MoveTo(target Point, speed float64, onComplete func()) {
	c.targetPos = target
	if c.mover != nil {
		c.mover.MoveTo(c, target, speed, onComplete)
		return
	}
	if onComplete != nil {
		onComplete()
	}
}

// RotateTo sets the card's rotation target and hands it to the mover.
func (c *PlayingCard) RotateTo(target Orientation, speed float64) {
	c.targetRot = target
	if c.mover != nil {
		c.mover.RotateTo(c, target, speed)
	}
}

// TargetPosition returns the most recent motion target.
func (c *PlayingCard) TargetPosition() Point { return c.targetPos }

// TargetRotation returns the most recent rotation target.
func (c *PlayingCard) TargetRotation() Orientation { return c.targetRot }

// SetInteractable toggles whether the card responds to player interaction.
func (c *PlayingCard) SetInteractable(interactable bool) { c.interactable = interactable }

// CanInteract reports whether the card responds to player interaction.
func (c *PlayingCard) CanInteract() bool { return c.interactable }

func (c *PlayingCard) String() string { return c.identity.Name }
