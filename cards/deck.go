package cards

import (
	"math/rand"

	"github.com/timpalpant/cfrsolve"
)

// Deck is a fixed multiset of cards from which a number of cards are
// dealt in order without replacement. It implements cfr.DealSource.
//
// Every physical card is distinct for the purpose of dealing, so a deck
// holding two Jacks yields each Jack-bearing sequence once per Jack.
// This keeps every deal returned by All equally likely.
type Deck struct {
	cards  []Card
	nDealt int
}

// NewDeck returns a deck of the given cards from which nDealt cards are
// drawn per deal.
func NewDeck(nDealt int, cards ...Card) *Deck {
	if nDealt < 0 || nDealt > len(cards) {
		panic("cannot deal more cards than the deck holds")
	}

	return &Deck{
		cards:  append([]Card(nil), cards...),
		nDealt: nDealt,
	}
}

// Count returns the number of distinct ordered deals, n!/(n-k)!.
func (d *Deck) Count() int {
	result := 1
	for i := 0; i < d.nDealt; i++ {
		result *= len(d.cards) - i
	}

	return result
}

// All implements cfr.DealSource. Deals are returned in lexicographic
// order of the positions of the drawn cards.
func (d *Deck) All() []cfr.Deal {
	result := make([]cfr.Deal, 0, d.Count())
	used := make([]bool, len(d.cards))
	current := make(cfr.Deal, 0, d.nDealt)
	d.enumerateHelper(used, current, func(deal cfr.Deal) {
		result = append(result, append(cfr.Deal(nil), deal...))
	})

	return result
}

func (d *Deck) enumerateHelper(used []bool, current cfr.Deal, cb func(cfr.Deal)) {
	if len(current) == d.nDealt {
		cb(current)
		return
	}

	for i, card := range d.cards {
		if used[i] {
			continue
		}

		used[i] = true
		d.enumerateHelper(used, append(current, byte(card)), cb)
		used[i] = false
	}
}

// Sample implements cfr.DealSource. It draws one deal uniformly at random
// using a partial Fisher-Yates shuffle.
func (d *Deck) Sample(rng *rand.Rand) cfr.Deal {
	remaining := append([]Card(nil), d.cards...)
	result := make(cfr.Deal, d.nDealt)
	for i := range result {
		j := i + rng.Intn(len(remaining)-i)
		remaining[i], remaining[j] = remaining[j], remaining[i]
		result[i] = byte(remaining[i])
	}

	return result
}

// CardAt returns the card at position i of a deal.
func CardAt(d cfr.Deal, i int) Card {
	return Card(d[i])
}

// String formats a deal as its sequence of ranks.
func String(d cfr.Deal) string {
	result := make([]byte, 0, 2*len(d))
	for i := range d {
		if i > 0 {
			result = append(result, ' ')
		}

		result = append(result, CardAt(d, i).String()...)
	}

	return string(result)
}
