// Package cards defines card identities, the deck they are drawn from,
// and the physical card instances that live on the table.
package cards

import "fmt"

// Suit is one of the four french suits.
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

func (s Suit) String() string {
	switch s {
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Clubs:
		return "Clubs"
	case Spades:
		return "Spades"
	}
	return "Unknown"
}

// IsBlack reports whether the suit is Clubs or Spades.
func (s Suit) IsBlack() bool { return s == Clubs || s == Spades }

// Identity is the immutable definition of a card: suit, rank and display
// data. Catalog entries are shared and read-only; physical card instances
// wrap an Identity each.
type Identity struct {
	Suit  Suit
	Rank  int    // 1 (Ace) through 13 (King)
	Name  string // display name, e.g. "Queen of Hearts"
	Asset string // visual asset reference
}

// rankNames indexes display names by rank (1-based).
var rankNames = [14]string{"", "Ace", "Two", "Three", "Four", "Five", "Six",
	"Seven", "Eight", "Nine", "Ten", "Jack", "Queen", "King"}

// NewIdentity builds an Identity with a derived display name and asset key.
func NewIdentity(suit Suit, rank int) Identity {
	name := fmt.Sprintf("%s of %s", rankNames[rank], suit)
	return Identity{
		Suit:  suit,
		Rank:  rank,
		Name:  name,
		Asset: fmt.Sprintf("cards/%s_%d", suit, rank),
	}
}

// Value returns the rank value of the card. With aceHigh set, an Ace counts
// as 14 instead of 1.
func (id Identity) Value(aceHigh bool) int {
	if aceHigh && id.Rank == 1 {
		return id.Rank + 13
	}
	return id.Rank
}

func (id Identity) String() string { return id.Name }
