package oldmaid

import (
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/Neenack/ScaryCardGame/internal/cards"
	"github.com/Neenack/ScaryCardGame/internal/table"
)

const tableRadius = 1.5

// Catalog returns the Old Maid deck: the standard 52 cards with one queen
// removed, so exactly one card can never pair off.
func Catalog() *cards.Catalog {
	var ids []cards.Identity
	for _, id := range cards.StandardCatalog().Identities() {
		if id.Rank == 12 && id.Suit == cards.Clubs {
			continue
		}
		ids = append(ids, id)
	}
	return cards.NewCatalog(ids)
}

// Result is the outcome snapshot taken before the table resets.
type Result struct {
	Loser string
}

// Rules is the Old Maid rule-set: the whole deck dealt round-robin,
// same-value pairs stripped before play, each turn drawing from the
// previous active seat, last seat holding cards loses.
type Rules struct {
	result *Result
}

// NewRules builds the Old Maid rule-set.
func NewRules() *Rules { return &Rules{} }

func (r *Rules) Name() string { return "oldmaid" }

// Result returns the last finished game's outcome, or nil.
func (r *Rules) Result() *Result { return r.result }

// DealInitialCards deals the entire deck round-robin, strips existing
// pairs from every hand, sorts the hands, links each seat to its previous
// active player and starts the first turn. The deck size is snapshotted
// before dealing; the deck refills itself when the last card leaves.
func (r *Rules) DealInitialCards(e *table.Engine) {
	players := e.Players()
	count := e.Deck().Count()

	var steps []table.Step
	for i := 0; i < count; i++ {
		p := players[i%len(players)]
		steps = append(steps, table.Step{
			Delay: e.Timing().DealInterval,
			Do:    func() { e.DealCardToPlayerHand(p) },
		})
	}
	steps = append(steps,
		table.Step{
			Delay: e.Timing().BetweenReveals,
			Do: func() {
				r.removeAllPairs(e)
				for _, p := range players {
					p.SortHand()
					if s := seatOf(p); s != nil {
						s.setPrevious(players, p)
					}
					r.watchForEmptyHand(e, p)
				}
			},
		},
		table.Step{
			Delay: e.Timing().BetweenReveals,
			Do:    func() { e.NextTurn() },
		},
	)
	e.RunSteps(steps)
}

// removeAllPairs strips every same-value pair from every hand onto the
// pile before the first turn.
func (r *Rules) removeAllPairs(e *table.Engine) {
	for _, p := range e.Players() {
		s := seatOf(p)
		if s == nil {
			continue
		}
		for _, card := range s.allPairs(p) {
			if p.RemoveCardFromHand(card) {
				e.PlaceCardOnPile(card, false)
			}
		}
	}
}

// watchForEmptyHand relinks every seat's draw source when this player's
// hand empties, so future draws skip the eliminated seat.
func (r *Rules) watchForEmptyHand(e *table.Engine, p *table.Player) {
	p.Hand().OnRemove = func(_ *cards.PlayingCard) {
		if p.Hand().Len() != 0 {
			return
		}
		log.WithField("player", p.Name()).Info("out of cards")
		for _, other := range e.Players() {
			if s := seatOf(other); s != nil {
				s.setPrevious(e.Players(), other)
			}
		}
	}
}

// CheckGameEnd fires once at most one seat still holds cards.
func (r *Rules) CheckGameEnd(e *table.Engine) bool {
	return e.PlayingCount() <= 1
}

// CheckWinner announces the loser, the one seat left holding cards, and
// ends the game.
func (r *Rules) CheckWinner(e *table.Engine) {
	result := &Result{}
	for _, p := range e.Players() {
		if p.IsPlaying() {
			result.Loser = p.Name()
			break
		}
	}
	r.result = result
	log.WithField("player", result.Loser).Info("loses the game")

	e.Schedule(e.Timing().EndHold, func() { e.EndGame() })
}

// PullNewCard in Old Maid is the plain default: the card goes straight to
// the hand.
func (r *Rules) PullNewCard(e *table.Engine, p *table.Player) *cards.PlayingCard {
	return e.DealCardToPlayerHand(p)
}

// TurnAdvanced locks every hand down between turns; StartTurn re-enables
// only the active draw source.
func (r *Rules) TurnAdvanced(e *table.Engine) {
	for _, p := range e.Players() {
		if p.Hand() != nil {
			p.Hand().SetInteractable(false)
		}
	}
}

func (r *Rules) GameEnded(e *table.Engine) {
	for _, p := range e.Players() {
		if p.Hand() != nil {
			p.Hand().OnRemove = nil
		}
	}
}

// NewGame seats one Old Maid player per name around the table and builds
// the engine. When withHuman is set the first seat takes human input.
func NewGame(names []string, withHuman bool, catalog *cards.Catalog, engineOpts ...table.EngineOption) (*table.Engine, *Rules) {
	rules := NewRules()

	players := make([]*table.Player, 0, len(names))
	for i, name := range names {
		human := withHuman && i == 0
		p := table.NewPlayer(name, human, NewSeat(rules))

		angle := 2 * math.Pi * float64(i) / float64(len(names))
		p.SetSeat(cards.Point{
			X: math.Cos(angle) * tableRadius,
			Z: math.Sin(angle) * tableRadius,
		}, angle*180/math.Pi)

		players = append(players, p)
	}

	return table.NewEngine(rules, catalog, players, engineOpts...), rules
}
