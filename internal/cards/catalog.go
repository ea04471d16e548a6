package cards

// Catalog is the fixed, read-only list of card identities a deck is built
// from. Decks copy the catalog on construction and never mutate it.
type Catalog struct {
	cards []Identity
}

// NewCatalog builds a catalog from an explicit identity list.
func NewCatalog(ids []Identity) *Catalog {
	out := make([]Identity, len(ids))
	copy(out, ids)
	return &Catalog{cards: out}
}

// StandardCatalog returns the 52-card french deck, suits in declaration
// order, ranks Ace through King.
func StandardCatalog() *Catalog {
	ids := make([]Identity, 0, 52)
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := 1; rank <= 13; rank++ {
			ids = append(ids, NewIdentity(suit, rank))
		}
	}
	return &Catalog{cards: ids}
}

// Identities returns a copy of the catalog contents.
func (c *Catalog) Identities() []Identity {
	out := make([]Identity, len(c.cards))
	copy(out, c.cards)
	return out
}

// Size returns the number of identities in the catalog.
func (c *Catalog) Size() int { return len(c.cards) }
