// Package cards implements the small poker decks used by the bundled
// games: a fixed multiset of ranks from which a deal is drawn without
// replacement.
package cards

// Card is the rank of one card. Suits never matter in the bundled games.
type Card uint8

const (
	Jack Card = iota
	Queen
	King
)

var cardStr = [...]string{
	"J",
	"Q",
	"K",
}

// String implements Stringer.
func (c Card) String() string {
	if int(c) >= len(cardStr) {
		return "?"
	}

	return cardStr[c]
}
