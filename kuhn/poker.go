// Package kuhn implements the rules of Kuhn Poker as a cfr.Game,
// adapted from: https://justinsermeno.com/posts/cfr/.
//
// Each player antes 1 and is dealt one card from {J, Q, K}. There is a
// single betting round with a bet size of 1.
package kuhn

import (
	"github.com/timpalpant/cfrsolve"
	"github.com/timpalpant/cfrsolve/cards"
)

const (
	// Check passes when there is no outstanding bet, and folds when there is.
	Check cfr.Action = 'c'
	// Bet opens the betting, or calls an outstanding bet.
	Bet cfr.Action = 'b'
)

var (
	decisionActions = []cfr.Action{Check, Bet}

	terminalHistories = map[cfr.History]bool{
		"cc":  true,
		"bc":  true,
		"bb":  true,
		"cbc": true,
		"cbb": true,
	}
)

// Poker implements cfr.Game for Kuhn Poker.
type Poker struct {
	deck *cards.Deck
}

// NewGame returns the rules of Kuhn Poker.
func NewGame() *Poker {
	return &Poker{
		deck: cards.NewDeck(2, cards.Jack, cards.Queen, cards.King),
	}
}

// IsTerminal implements cfr.Game.
func (k *Poker) IsTerminal(h cfr.History) bool {
	return terminalHistories[h]
}

// LegalActions implements cfr.Game.
func (k *Poker) LegalActions(h cfr.History) ([]cfr.Action, error) {
	switch h {
	case "", "c", "b", "cb":
		return decisionActions, nil
	}

	return nil, cfr.NewMalformedHistoryError(h)
}

// ActivePlayer implements cfr.Game.
func (k *Poker) ActivePlayer(h cfr.History) int {
	return len(h) % 2
}

// Utility implements cfr.Game.
func (k *Poker) Utility(d cfr.Deal, h cfr.History, player int) float64 {
	// By convention, terminal histories are labeled with the player whose
	// turn it would be (i.e. not the last acting player).
	next := k.ActivePlayer(h)

	var u float64
	switch h {
	case "bc", "cbc":
		// Last player folded. The next player wins the ante.
		u = 1.0
	case "cc":
		u = showdown(d, next, 1.0)
	case "bb", "cbb":
		u = showdown(d, next, 2.0)
	default:
		panic("unexpected history: " + string(h))
	}

	if player != next {
		return -u
	}

	return u
}

func showdown(d cfr.Deal, player int, stake float64) float64 {
	if cards.CardAt(d, player) > cards.CardAt(d, 1-player) {
		return stake
	}

	return -stake
}

// Observation implements cfr.Game. A player only ever knows their own card.
func (k *Poker) Observation(d cfr.Deal, h cfr.History) string {
	return cards.CardAt(d, k.ActivePlayer(h)).String()
}

// Deals implements cfr.Game.
func (k *Poker) Deals() cfr.DealSource {
	return k.deck
}
