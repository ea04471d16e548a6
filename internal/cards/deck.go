package cards

import (
	"math/rand/v2"

	log "github.com/sirupsen/logrus"
)

// Deck is a shuffled draw pile backed by a catalog. Drawing the last card
// refills the deck from the full catalog and reshuffles, so callers never
// observe an empty deck unless the catalog itself is empty.
type Deck struct {
	catalog        *Catalog
	cards          []Identity
	rng            *rand.Rand
	shuffleOnReset bool
	emptyReported  bool
}

// DeckOption configures a Deck at construction time.
type DeckOption func(*Deck)

// WithShuffle controls whether the deck shuffles on construction and on
// refill. Enabled by default.
func WithShuffle(shuffle bool) DeckOption {
	return func(d *Deck) { d.shuffleOnReset = shuffle }
}

// WithRand supplies the random source used for shuffling.
func WithRand(rng *rand.Rand) DeckOption {
	return func(d *Deck) { d.rng = rng }
}

// NewDeck builds a runtime deck from the catalog without modifying it.
func NewDeck(catalog *Catalog, opts ...DeckOption) *Deck {
	d := &Deck{
		catalog:        catalog,
		shuffleOnReset: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if catalog == nil || catalog.Size() == 0 {
		log.Error("deck: catalog is empty, all draws will fail")
		d.emptyReported = true
		d.catalog = NewCatalog(nil)
		return d
	}
	d.cards = d.catalog.Identities()
	if d.shuffleOnReset {
		d.Shuffle()
	}
	return d
}

// Shuffle produces a uniform random permutation of the remaining cards
// (Fisher-Yates, inclusive swap range [i, n)).
func (d *Deck) Shuffle() {
	for i := 0; i < len(d.cards); i++ {
		j := i + d.rng.IntN(len(d.cards)-i)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the first card of the sequence. If that empties
// the deck it is immediately refilled from the catalog and reshuffled
// before returning. The second result is false only when the catalog has
// no entries, which is a configuration error reported once.
func (d *Deck) Draw() (Identity, bool) {
	if len(d.cards) == 0 {
		if !d.emptyReported {
			log.Warn("deck: draw from empty catalog")
			d.emptyReported = true
		}
		return Identity{}, false
	}

	card := d.cards[0]
	d.cards = d.cards[1:]

	if len(d.cards) == 0 {
		d.Reset()
	}
	return card, true
}

// Reset refills the deck from the full catalog, reshuffling if configured.
func (d *Deck) Reset() {
	d.cards = d.catalog.Identities()
	if d.shuffleOnReset {
		d.Shuffle()
	}
}

// Count returns the number of undrawn cards.
func (d *Deck) Count() int { return len(d.cards) }
