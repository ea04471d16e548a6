// Package table implements the generic layer of the card table: hands,
// players, the turn-driven game engine and its scheduler. Game rule-sets
// plug into the engine as strategies.
package table

import (
	"math/rand/v2"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Neenack/ScaryCardGame/internal/cards"
)

// Hand is the ordered set of card instances belonging to one player. Order
// is meaningful: it maps to seat slots, and swap operations rely on
// insert-at-index preserving the remaining order. Mutations fire the
// change callbacks so the owner can reposition its cards.
type Hand struct {
	ownerName string
	cards     []*cards.PlayingCard

	// Change notifications. Set by the owning player; any may be nil.
	OnUpdated     func()
	OnAdd         func(*cards.PlayingCard)
	OnRemove      func(*cards.PlayingCard)
	OnShowAnyCard func(*cards.PlayingCard)
}

// NewHand creates an empty hand for the named owner.
func NewHand(ownerName string) *Hand {
	return &Hand{ownerName: ownerName}
}

// OwnerName returns the name of the player this hand belongs to.
func (h *Hand) OwnerName() string { return h.ownerName }

// Len returns the number of cards held.
func (h *Hand) Len() int { return len(h.cards) }

// Cards returns a copy of the held cards in order.
func (h *Hand) Cards() []*cards.PlayingCard {
	out := make([]*cards.PlayingCard, len(h.cards))
	copy(out, h.cards)
	return out
}

// Add appends a card to the hand.
func (h *Hand) Add(card *cards.PlayingCard) {
	if card == nil {
		return
	}
	h.cards = append(h.cards, card)
	card.SetOnShown(h.cardShown)

	if h.OnAdd != nil {
		h.OnAdd(card)
	}
	h.notifyUpdated()
}

// Insert places a card at the given index, shifting later cards right.
// Out-of-range indices clamp to the ends.
func (h *Hand) Insert(card *cards.PlayingCard, index int) {
	if card == nil {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(h.cards) {
		index = len(h.cards)
	}
	h.cards = append(h.cards, nil)
	copy(h.cards[index+1:], h.cards[index:])
	h.cards[index] = card
	card.SetOnShown(h.cardShown)

	if h.OnAdd != nil {
		h.OnAdd(card)
	}
	h.notifyUpdated()
}

// Remove takes a card out of the hand, reporting whether anything was
// removed. Matching is by instance identity first; if the exact instance
// is absent it falls back to the first card sharing the same underlying
// identity, tolerating instance-reference drift.
func (h *Hand) Remove(card *cards.PlayingCard) bool {
	if len(h.cards) == 0 || card == nil {
		return false
	}

	idx := h.IndexOf(card)
	if idx == -1 {
		for i, c := range h.cards {
			if c.Identity() == card.Identity() {
				idx = i
				break
			}
		}
		if idx == -1 {
			return false
		}
		log.WithFields(log.Fields{
			"hand": h.ownerName,
			"card": card.String(),
		}).Debug("hand: removed by identity fallback")
	}

	found := h.cards[idx]
	found.SetOnShown(nil)
	h.cards = append(h.cards[:idx], h.cards[idx+1:]...)

	if h.OnRemove != nil {
		h.OnRemove(found)
	}
	h.notifyUpdated()
	return true
}

// Get returns the card at index, or nil when out of range.
func (h *Hand) Get(index int) *cards.PlayingCard {
	if index < 0 || index >= len(h.cards) {
		return nil
	}
	return h.cards[index]
}

// IndexOf returns the index of the exact card instance, or -1.
func (h *Hand) IndexOf(card *cards.PlayingCard) int {
	for i, c := range h.cards {
		if c == card {
			return i
		}
	}
	return -1
}

// RandomCard returns a uniformly random card from the hand, or nil when
// the hand is empty.
func (h *Hand) RandomCard(rng *rand.Rand) *cards.PlayingCard {
	if len(h.cards) == 0 {
		return nil
	}
	return h.cards[rng.IntN(len(h.cards))]
}

// Clear removes every card, ending their lifetimes. The shown hooks are
// detached so stale instances cannot notify a hand they left.
func (h *Hand) Clear() {
	for _, c := range h.cards {
		c.SetOnShown(nil)
		c.SetInteractable(false)
	}
	h.cards = nil
	h.notifyUpdated()
}

// ShowCards flips every held card face up.
func (h *Hand) ShowCards() {
	for _, c := range h.cards {
		c.FlipCard()
	}
}

// SetInteractable toggles interaction on every held card.
func (h *Hand) SetInteractable(interactable bool) {
	for _, c := range h.cards {
		c.SetInteractable(interactable)
	}
}

func (h *Hand) cardShown(card *cards.PlayingCard) {
	if h.OnShowAnyCard != nil {
		h.OnShowAnyCard(card)
	}
}

func (h *Hand) notifyUpdated() {
	if h.OnUpdated != nil {
		h.OnUpdated()
	}
}

func (h *Hand) String() string {
	var sb strings.Builder
	sb.WriteString(h.ownerName)
	sb.WriteString("'s hand:")
	for _, c := range h.cards {
		sb.WriteString(" ")
		sb.WriteString(c.String())
	}
	return sb.String()
}
