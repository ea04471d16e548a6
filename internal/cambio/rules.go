package cambio

import (
	"math"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/Neenack/ScaryCardGame/internal/cards"
	"github.com/Neenack/ScaryCardGame/internal/table"
)

const (
	cardLiftHeight   = 0.1
	cardRevealHeight = 0.2
	liftSpeed        = 5.0
)

// ScoreDisplay receives per-seat score text during the final reveal. The
// data flow is one way; implementations render, the rules never read back.
type ScoreDisplay interface {
	SetScoreText(playerName, text string)
}

// swapContext is the in-flight state of a two-card ability (rank 11 and
// 12): who lifted which card. It lives only between the two selection
// phases of a single turn.
type swapContext struct {
	initiatorCard *cards.PlayingCard
	initiator     *table.Player
	targetCard    *cards.PlayingCard
	target        *table.Player
}

// stackWindow is the between-turns side-play state. The used latch allows
// at most one stacking attempt per window.
type stackWindow struct {
	open bool
	used bool
}

// Result is the outcome snapshot taken before the table resets.
type Result struct {
	Winner string
	Scores map[string]int
}

// Rules is the Cambio rule-set: a four-card deal with two peeks, a draw
// with keep-or-discard, six rank abilities, the optional stacking
// side-play, and lowest-score-wins scoring.
type Rules struct {
	drawn *cards.PlayingCard
	swap  swapContext
	stack stackWindow

	stacking bool
	scores   ScoreDisplay
	result   *Result
}

// RulesOption configures the Cambio rule-set.
type RulesOption func(*Rules)

// WithStacking toggles the between-turns discard-matching side-play.
func WithStacking(enabled bool) RulesOption {
	return func(r *Rules) { r.stacking = enabled }
}

// WithScoreDisplay installs the score text surface used during reveals.
func WithScoreDisplay(d ScoreDisplay) RulesOption {
	return func(r *Rules) { r.scores = d }
}

// NewRules builds the Cambio rule-set. Stacking is on unless disabled.
func NewRules(opts ...RulesOption) *Rules {
	r := &Rules{stacking: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Rules) Name() string { return "cambio" }

// Result returns the last finished game's outcome, or nil.
func (r *Rules) Result() *Result { return r.result }

// CheckGameEnd always reports false: Cambio ends through the call round,
// which the turn cursor detects when no seat is still playing.
func (r *Rules) CheckGameEnd(e *table.Engine) bool { return false }

func (r *Rules) GameEnded(e *table.Engine) {
	r.drawn = nil
	r.swap = swapContext{}
	r.stack = stackWindow{}
}

// DealInitialCards deals four cards round-robin, reveals each seat's first
// and third card to its owner, then starts the first turn.
func (r *Rules) DealInitialCards(e *table.Engine) {
	e.DeckTrigger().SetText("Pull Card")

	var steps []table.Step
	for i := 0; i < 4; i++ {
		for _, p := range e.Players() {
			p := p
			steps = append(steps, table.Step{
				Delay: e.Timing().DealInterval,
				Do:    func() { e.DealCardToPlayerHand(p) },
			})
		}
	}
	steps = append(steps,
		table.Step{
			Delay: e.Timing().BetweenReveals,
			Do: func() {
				for _, p := range e.Players() {
					r.revealCard(e, p.Hand().Get(0), p, nil)
					r.revealCard(e, p.Hand().Get(2), p, nil)
				}
			},
		},
		table.Step{
			// Outlasts the peek window, so both peeked cards are marked
			// seen before the first turn starts.
			Delay: e.Timing().CardViewing + e.Timing().BetweenReveals,
			Do:    func() { e.NextTurn() },
		},
	)
	e.RunSteps(steps)
}

// revealCard lifts a card face up for the viewing duration, marks it seen
// by the viewer on the way back down, then runs onComplete.
func (r *Rules) revealCard(e *table.Engine, card *cards.PlayingCard, viewer *table.Player, onComplete func()) {
	if card == nil {
		if onComplete != nil {
			onComplete()
		}
		return
	}
	basePos := card.TargetPosition()
	baseRot := card.TargetRotation()

	card.MoveTo(basePos.Add(cards.Point{Y: cardRevealHeight}), liftSpeed, nil)
	card.RotateTo(cards.Orientation{}, liftSpeed)
	card.FlipCard()

	e.Schedule(e.Timing().CardViewing, func() {
		card.TurnFaceDown()
		card.MoveTo(basePos, liftSpeed, nil)
		card.RotateTo(baseRot, liftSpeed)
		if s := seatOf(viewer); s != nil {
			s.AddSeen(card)
		}
		if onComplete != nil {
			onComplete()
		}
	})
}

// TurnAdvanced runs between turns: every hand is locked down again, and
// the stacking window re-opens over the fresh pile top.
func (r *Rules) TurnAdvanced(e *table.Engine) {
	for _, p := range e.Players() {
		if p.Hand() != nil {
			p.Hand().SetInteractable(false)
		}
	}
	r.openStackWindow(e)
}

// PullNewCard draws the turn card and shows it to the acting player. A
// human chooses between the drawn card (discard it) and any own card
// (swap it out); the AI runs the same decision on its policy.
func (r *Rules) PullNewCard(e *table.Engine, p *table.Player) *cards.PlayingCard {
	r.closeStackWindow(e)

	r.drawn = e.DrawNewCard()
	if r.drawn == nil {
		e.NextTurn()
		return nil
	}

	r.drawn.MoveTo(p.Seat().Add(cards.Point{Y: cardRevealHeight + cardLiftHeight}), liftSpeed, nil)
	r.drawn.RotateTo(cards.Orientation{}, liftSpeed)
	r.drawn.PlaceFaceUp()

	if p.IsAI() {
		r.aiPullCard(e, p)
		return r.drawn
	}

	eligible := append(p.Hand().Cards(), r.drawn)
	e.BeginCardSelection(eligible, func(chosen *cards.PlayingCard) {
		if chosen == r.drawn {
			e.PlaceCardOnPile(r.drawn, false)
			r.doCardAbility(e)
			return
		}
		r.trySwapCards(e, p, r.drawn, chosen)
		e.NextTurn()
	})
	return r.drawn
}

func (r *Rules) aiPullCard(e *table.Engine, p *table.Player) {
	s := seatOf(p)
	if s == nil {
		e.NextTurn()
		return
	}
	think := e.Timing().AIThinking

	e.Schedule(think, func() {
		if s.ShouldDiscard(p, r.drawn) {
			e.PlaceCardOnPile(r.drawn, false)
			e.Schedule(think, func() { r.doCardAbility(e) })
			return
		}
		discard := p.Hand().Get(s.IndexToSwap(p))
		if !r.trySwapCards(e, p, r.drawn, discard) {
			log.WithField("player", p.Name()).Warn("failed to swap drawn card into hand")
		}
		e.Schedule(think, func() { e.NextTurn() })
	})
}

// trySwapCards discards a hand card to the pile and puts the new card in
// its slot. The new card is known to its owner from the draw.
func (r *Rules) trySwapCards(e *table.Engine, p *table.Player, cardToAdd, cardToDiscard *cards.PlayingCard) bool {
	index := p.Hand().IndexOf(cardToDiscard)
	if index == -1 {
		log.WithField("card", cardToDiscard.String()).Warn("card not found in hand to swap")
		return false
	}
	if !p.RemoveCardFromHand(cardToDiscard) {
		log.WithField("card", cardToDiscard.String()).Warn("card could not be removed for swap")
		return false
	}

	e.PlaceCardOnPile(cardToDiscard, false)
	p.InsertCardToHand(cardToAdd, index)
	if s := seatOf(p); s != nil {
		s.AddSeen(cardToAdd)
	}
	return true
}

// doCardAbility dispatches the six ability branches on the discarded
// card's Cambio value. Dispatching on value rather than rank keeps a
// black King (worth -1) out of the reveal-hand branch.
func (r *Rules) doCardAbility(e *table.Engine) {
	cur := e.CurrentPlayer()
	s := seatOf(cur)
	if s == nil {
		e.NextTurn()
		return
	}
	s.enableSkipAbility(cur)

	value := s.CardValue(r.drawn)
	switch {
	case value < 6:
		log.WithField("value", value).Info("no ability")
		e.NextTurn()

	case value == 6 || value == 7:
		log.Info("ability: look at one of your own cards")
		r.revealOwnCard(e, cur, s)

	case value == 8 || value == 9:
		log.Info("ability: look at an opponent's card")
		r.revealOpponentCard(e, cur, s)

	case value == 10:
		log.Info("ability: swap entire hands")
		r.swapHandsAbility(e, cur, s)

	case value == 11:
		log.Info("ability: reveal two cards and choose which to keep")
		r.chooseSwapAbility(e, cur, s)

	case value == 12:
		log.Info("ability: blind swap")
		r.blindSwapAbility(e, cur, s)

	case value == 13:
		log.Info("ability: reveal whole hand")
		r.revealWholeHand(e, cur)
	}
}

// Rank 6-7: peek at one own card.
func (r *Rules) revealOwnCard(e *table.Engine, cur *table.Player, s *Seat) {
	if cur.Hand().Len() == 0 {
		e.NextTurn()
		return
	}
	if cur.IsAI() {
		card := cur.Hand().Get(s.IndexToLookAt(cur))
		r.revealCard(e, card, cur, func() { e.NextTurn() })
		return
	}
	e.BeginCardSelection(cur.Hand().Cards(), func(chosen *cards.PlayingCard) {
		r.revealCard(e, chosen, cur, func() { e.NextTurn() })
	})
}

// Rank 8-9: peek at one opponent card.
func (r *Rules) revealOpponentCard(e *table.Engine, cur *table.Player, s *Seat) {
	if cur.IsAI() {
		opponent := r.randomOpponent(e, cur)
		if opponent == nil {
			e.NextTurn()
			return
		}
		card := opponent.Hand().RandomCard(e.Rand())
		r.revealCard(e, card, cur, func() { e.NextTurn() })
		return
	}
	e.BeginCardSelection(r.opponentCards(e, cur), func(chosen *cards.PlayingCard) {
		r.revealCard(e, chosen, cur, func() { e.NextTurn() })
	})
}

// Rank 10: optionally swap entire hands. A human picks any card; picking
// an own card declines.
func (r *Rules) swapHandsAbility(e *table.Engine, cur *table.Player, s *Seat) {
	if cur.IsAI() {
		if s.ShouldSwapHand(cur) {
			if opponent := r.randomOpponent(e, cur); opponent != nil {
				e.SwapHands(cur, opponent)
			}
		}
		e.NextTurn()
		return
	}

	var all []*cards.PlayingCard
	for _, p := range e.Players() {
		all = append(all, p.Hand().Cards()...)
	}
	e.BeginCardSelection(all, func(chosen *cards.PlayingCard) {
		owner := e.PlayerWithCard(chosen)
		if owner == nil || owner == cur {
			e.NextTurn()
			return
		}
		e.SwapHands(cur, owner)
		e.NextTurn()
	})
}

// Rank 11: lift one own and one opponent card, reveal both, keep one. The
// kept card lands in the chooser's vacated slot; both faces are
// remembered by the chooser.
func (r *Rules) chooseSwapAbility(e *table.Engine, cur *table.Player, s *Seat) {
	if cur.Hand().Len() == 0 {
		e.NextTurn()
		return
	}
	if cur.IsAI() {
		think := e.Timing().AIThinking
		own := cur.Hand().Get(s.IndexToSwap(cur))
		r.liftCard(own)
		r.swap = swapContext{initiatorCard: own, initiator: cur}

		e.Schedule(think, func() {
			opponent := r.randomOpponent(e, cur)
			if opponent == nil {
				r.swap = swapContext{}
				e.NextTurn()
				return
			}
			other := opponent.Hand().RandomCard(e.Rand())
			r.swap.targetCard = other
			r.swap.target = opponent
			r.presentSwapPair(cur)

			e.Schedule(think, func() {
				// Keep the lower of the two revealed cards.
				choice := r.swap.initiatorCard
				if s.CardValue(r.swap.targetCard) < s.CardValue(choice) {
					choice = r.swap.targetCard
				}
				r.chooseCardToKeep(e, choice)
			})
		})
		return
	}

	e.BeginCardSelection(cur.Hand().Cards(), func(own *cards.PlayingCard) {
		r.swap = swapContext{initiatorCard: own, initiator: cur}
		r.liftCard(own)

		e.BeginCardSelection(r.opponentCards(e, cur), func(other *cards.PlayingCard) {
			r.swap.targetCard = other
			r.swap.target = e.PlayerWithCard(other)
			if r.swap.target == nil {
				r.swap = swapContext{}
				e.NextTurn()
				return
			}
			r.presentSwapPair(cur)

			e.BeginCardSelection([]*cards.PlayingCard{r.swap.initiatorCard, r.swap.targetCard},
				func(keep *cards.PlayingCard) { r.chooseCardToKeep(e, keep) })
		})
	})
}

// presentSwapPair brings both lifted cards face up before the chooser.
func (r *Rules) presentSwapPair(cur *table.Player) {
	offset := -0.2
	for _, c := range []*cards.PlayingCard{r.swap.initiatorCard, r.swap.targetCard} {
		if c == nil {
			continue
		}
		c.MoveTo(cur.Seat().Add(cards.Point{X: offset, Y: cardRevealHeight}), liftSpeed, nil)
		c.RotateTo(cards.Orientation{}, liftSpeed)
		c.FlipCard()
		offset += 0.4
	}
}

// chooseCardToKeep resolves the rank-11 ability. Keeping the own card
// changes nothing; keeping the opponent's swaps the pair in place. Either
// way the chooser now knows both faces.
func (r *Rules) chooseCardToKeep(e *table.Engine, chosen *cards.PlayingCard) {
	ctx := r.swap
	r.swap = swapContext{}
	cur := e.CurrentPlayer()

	if chosen == ctx.initiatorCard {
		cur.RecenterCards(liftSpeed)
		if ctx.target != nil {
			ctx.target.RecenterCards(liftSpeed)
		}
	} else {
		e.SwapCards(cur, ctx.initiatorCard, ctx.target, ctx.targetCard)
	}

	if s := seatOf(cur); s != nil {
		s.AddSeen(ctx.initiatorCard)
		s.AddSeen(ctx.targetCard)
	}
	e.NextTurn()
}

// Rank 12: swap one own card with one opponent card, faces never shown.
func (r *Rules) blindSwapAbility(e *table.Engine, cur *table.Player, s *Seat) {
	if cur.Hand().Len() == 0 {
		e.NextTurn()
		return
	}
	if cur.IsAI() {
		think := e.Timing().AIThinking
		own := cur.Hand().Get(s.IndexToSwap(cur))
		r.liftCard(own)

		e.Schedule(think, func() {
			opponent := r.randomOpponent(e, cur)
			if opponent == nil {
				e.NextTurn()
				return
			}
			other := opponent.Hand().RandomCard(e.Rand())
			e.SwapCards(cur, own, opponent, other)
			e.Schedule(think, func() { e.NextTurn() })
		})
		return
	}

	e.BeginCardSelection(cur.Hand().Cards(), func(own *cards.PlayingCard) {
		r.liftCard(own)
		e.BeginCardSelection(r.opponentCards(e, cur), func(other *cards.PlayingCard) {
			opponent := e.PlayerWithCard(other)
			if opponent == nil {
				e.NextTurn()
				return
			}
			e.SwapCards(cur, own, opponent, other)
			e.NextTurn()
		})
	})
}

// Value 13 (red King): reveal the whole own hand. The turn advance is a
// separate step scheduled after the reveal continuations, so every card
// is marked seen before the next seat acts under any scheduler.
func (r *Rules) revealWholeHand(e *table.Engine, cur *table.Player) {
	held := cur.Hand().Cards()
	if len(held) == 0 {
		e.NextTurn()
		return
	}
	e.RunSteps([]table.Step{
		{
			Delay: e.Timing().BetweenReveals,
			Do: func() {
				for _, card := range held {
					r.revealCard(e, card, cur, nil)
				}
			},
		},
		{
			// Outlasts the viewing window, so the cards settle and are
			// marked seen before the turn advances.
			Delay: e.Timing().CardViewing + e.Timing().BetweenReveals,
			Do:    func() { e.NextTurn() },
		},
	})
}

// CheckWinner reveals every hand in seat order with pacing, publishes the
// scores, announces the lowest total as winner and ends the game. The
// stacking window is closed first: a final turn that calls instead of
// drawing never reaches PullNewCard, and a stack attempt landing after
// the turn loop exits would change the published scores.
func (r *Rules) CheckWinner(e *table.Engine) {
	r.closeStackWindow(e)

	var steps []table.Step
	for _, p := range e.Players() {
		p := p
		steps = append(steps, table.Step{
			Delay: e.Timing().BetweenReveals,
			Do: func() {
				p.Hand().ShowCards()
				if s := seatOf(p); s != nil {
					score := s.Score(p)
					log.WithFields(log.Fields{"player": p.Name(), "score": score}).Info("final score")
					if r.scores != nil {
						r.scores.SetScoreText(p.Name(), strconv.Itoa(score))
					}
				}
			},
		})
	}
	steps = append(steps, table.Step{
		Delay: e.Timing().EndHold,
		Do: func() {
			result := &Result{Scores: make(map[string]int)}
			lowest := math.MaxInt
			for _, p := range e.Players() {
				s := seatOf(p)
				if s == nil {
					continue
				}
				score := s.Score(p)
				result.Scores[p.Name()] = score
				if score < lowest {
					lowest = score
					result.Winner = p.Name()
				}
			}
			r.result = result
			log.WithField("player", result.Winner).Info("wins the game")
			e.EndGame()
		},
	})
	e.RunSteps(steps)
}

// Stacking side-play.

// openStackWindow arms the between-turns discard match: every hand
// briefly accepts taps, and AI seats schedule one match check each.
func (r *Rules) openStackWindow(e *table.Engine) {
	if !r.stacking || e.TopPileCard() == nil {
		r.stack = stackWindow{}
		return
	}
	r.stack = stackWindow{open: true}

	for _, p := range e.Players() {
		if p.Hand() == nil {
			continue
		}
		p.Hand().SetInteractable(true)
		if p.IsAI() {
			p := p
			e.Schedule(e.Timing().AIThinking, func() { r.aiTryStack(e, p) })
		}
	}
}

func (r *Rules) closeStackWindow(e *table.Engine) {
	if !r.stack.open {
		return
	}
	r.stack = stackWindow{}
	for _, p := range e.Players() {
		if p.Hand() != nil {
			p.Hand().SetInteractable(false)
		}
	}
}

// aiTryStack plays the first remembered card matching the pile top. The
// AI only stacks faces it actually knows.
func (r *Rules) aiTryStack(e *table.Engine, p *table.Player) {
	if !r.stack.open || r.stack.used {
		return
	}
	top := e.TopPileCard()
	if top == nil {
		return
	}
	s := seatOf(p)
	if s == nil {
		return
	}
	for _, c := range p.Hand().Cards() {
		if s.HasSeen(c) && c.Rank() == top.Rank() {
			r.attemptStack(e, p, c)
			return
		}
	}
}

// HandleCardTap receives card taps no selection claimed; during an open
// stacking window a tap on a held card is a stacking attempt.
func (r *Rules) HandleCardTap(e *table.Engine, c *cards.PlayingCard) bool {
	if !r.stack.open || r.stack.used || !c.CanInteract() {
		return false
	}
	owner := e.PlayerWithCard(c)
	if owner == nil {
		return false
	}
	r.attemptStack(e, owner, c)
	return true
}

// attemptStack consumes the window latch. A rank match moves the card to
// the pile; a mismatch settles back into the hand and draws a penalty
// card.
func (r *Rules) attemptStack(e *table.Engine, p *table.Player, c *cards.PlayingCard) {
	top := e.TopPileCard()
	if top == nil {
		return
	}
	r.stack.used = true

	if c.Rank() == top.Rank() {
		log.WithFields(log.Fields{"player": p.Name(), "card": c.String()}).Info("stacked onto pile")
		e.PlaceCardOnPile(c, false)
		return
	}

	log.WithFields(log.Fields{"player": p.Name(), "card": c.String()}).Info("failed stack attempt")
	r.liftCard(c)
	e.Schedule(e.Timing().StackSettle, func() {
		p.RecenterCards(liftSpeed)
		e.Schedule(e.Timing().StackSettle, func() { e.DealCardToPlayerHand(p) })
	})
}

// Helpers.

func (r *Rules) liftCard(c *cards.PlayingCard) {
	if c == nil {
		return
	}
	c.MoveTo(c.TargetPosition().Add(cards.Point{Y: cardLiftHeight}), liftSpeed, nil)
}

func (r *Rules) randomOpponent(e *table.Engine, cur *table.Player) *table.Player {
	var others []*table.Player
	for _, p := range e.Players() {
		if p != cur {
			others = append(others, p)
		}
	}
	if len(others) == 0 {
		return nil
	}
	return others[e.Rand().IntN(len(others))]
}

func (r *Rules) opponentCards(e *table.Engine, cur *table.Player) []*cards.PlayingCard {
	var out []*cards.PlayingCard
	for _, p := range e.Players() {
		if p == cur || p.Hand() == nil {
			continue
		}
		out = append(out, p.Hand().Cards()...)
	}
	return out
}
