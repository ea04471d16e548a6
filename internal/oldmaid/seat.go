package oldmaid

import (
	log "github.com/sirupsen/logrus"

	"github.com/Neenack/ScaryCardGame/internal/cards"
	"github.com/Neenack/ScaryCardGame/internal/table"
)

// Seat is the Old Maid behavior for one table seat. Each seat tracks the
// previous still-active player it draws from; the rule-set recomputes the
// link whenever a hand empties.
type Seat struct {
	rules    *Rules
	previous *table.Player
}

// NewSeat builds an Old Maid seat bound to the shared rule-set.
func NewSeat(rules *Rules) *Seat {
	return &Seat{rules: rules}
}

// Previous returns the seat this one currently draws from, or nil when no
// eligible seat remains.
func (s *Seat) Previous() *table.Player { return s.previous }

func (s *Seat) GameStarted(p *table.Player) {
	s.previous = nil
}

func (s *Seat) GameEnded(p *table.Player) {
	if p.Hand() != nil {
		p.Hand().OnRemove = nil
	}
}

// IsPlaying reports whether the seat still holds cards. Before the deal
// the hand is empty but everyone is in the game.
func (s *Seat) IsPlaying(p *table.Player) bool {
	if p.Hand() == nil {
		return true
	}
	return p.Hand().Len() > 0
}

// CardValue ranks cards Ace high; pairs match on equal value.
func (s *Seat) CardValue(c *cards.PlayingCard) int { return c.Value(true) }

// StartTurn draws one card from the previous active seat: a human picks
// it, the AI takes one at random. A drawn card that pairs with a held one
// discards both.
func (s *Seat) StartTurn(p *table.Player) {
	e := p.Engine()

	if s.previous != nil && s.previous.Hand() != nil {
		s.previous.Hand().SetInteractable(false)
	}
	p.Hand().SetInteractable(false)

	if s.previous == nil || s.previous.Hand() == nil || s.previous.Hand().Len() == 0 {
		e.NextTurn()
		return
	}

	if p.IsAI() {
		e.RunSteps([]table.Step{
			{Delay: e.Timing().AIThinking, Do: func() {
				chosen := s.previous.Hand().RandomCard(e.Rand())
				if !s.takeCardFrom(p, chosen) {
					e.NextTurn()
					return
				}
				e.Schedule(e.Timing().BetweenReveals, func() {
					s.checkNewPair(e, p, chosen)
					e.NextTurn()
				})
			}},
		})
		return
	}

	e.BeginCardSelection(s.previous.Hand().Cards(), func(chosen *cards.PlayingCard) {
		if !s.takeCardFrom(p, chosen) {
			e.NextTurn()
			return
		}
		e.Schedule(e.Timing().CardViewing, func() {
			s.checkNewPair(e, p, chosen)
			e.NextTurn()
		})
	})
}

func (s *Seat) EndTurn(p *table.Player) {
	if s.previous != nil && s.previous.Hand() != nil {
		s.previous.Hand().SetInteractable(false)
	}
}

// setPrevious scans backwards from this seat, wrapping around, for the
// nearest still-playing seat. No eligible seat leaves the link nil, which
// means the game is about to end.
func (s *Seat) setPrevious(players []*table.Player, self *table.Player) {
	s.previous = nil

	selfIdx := -1
	for i, p := range players {
		if p == self {
			selfIdx = i
			break
		}
	}
	if selfIdx == -1 {
		return
	}

	index := selfIdx
	for attempts := 0; attempts < len(players); attempts++ {
		index = (index - 1 + len(players)) % len(players)
		candidate := players[index]
		if candidate != self && candidate.IsPlaying() {
			s.previous = candidate
			return
		}
	}
}

// takeCardFrom moves a chosen card out of the previous seat's hand into
// this player's.
func (s *Seat) takeCardFrom(p *table.Player, chosen *cards.PlayingCard) bool {
	if chosen == nil {
		return false
	}
	if !s.previous.RemoveCardFromHand(chosen) {
		log.WithFields(log.Fields{
			"player": p.Name(), "card": chosen.String(),
		}).Warn("could not take card from previous player")
		return false
	}
	p.AddCardToHand(chosen)
	return true
}

// checkNewPair discards the drawn card together with a held card of equal
// value, if one exists.
func (s *Seat) checkNewPair(e *table.Engine, p *table.Player, drawn *cards.PlayingCard) {
	for _, held := range p.Hand().Cards() {
		if held == drawn {
			continue
		}
		if s.CardValue(held) == s.CardValue(drawn) {
			log.WithFields(log.Fields{
				"player": p.Name(), "card": drawn.String(),
			}).Info("pair discarded")
			p.RemoveCardFromHand(held)
			e.PlaceCardOnPile(held, false)
			p.RemoveCardFromHand(drawn)
			e.PlaceCardOnPile(drawn, false)
			return
		}
	}
}

// allPairs collects every same-value pair in the hand, each card at most
// once.
func (s *Seat) allPairs(p *table.Player) []*cards.PlayingCard {
	var pairs []*cards.PlayingCard
	unmatched := make(map[int]*cards.PlayingCard)

	for _, c := range p.Hand().Cards() {
		value := s.CardValue(c)
		if match, ok := unmatched[value]; ok {
			pairs = append(pairs, match, c)
			delete(unmatched, value)
		} else {
			unmatched[value] = c
		}
	}
	return pairs
}

// seatOf extracts the Old Maid behavior from a player.
func seatOf(p *table.Player) *Seat {
	s, ok := p.Behavior().(*Seat)
	if !ok {
		log.WithField("player", p.Name()).Warn("player has no old maid seat behavior")
		return nil
	}
	return s
}
