// Package leduc implements the rules of Leduc Hold'em as a cfr.Game.
//
// The deck holds two each of J, Q and K. Each player antes 1 and is dealt
// one private card. After a first betting round with a bet size of 2, one
// public card is revealed and a second betting round with a bet size of 4
// follows. Each round allows at most one bet and one raise. At showdown a
// player whose card pairs the public card wins, otherwise the higher card
// wins, and equal cards split the pot.
package leduc

import (
	"strings"

	"github.com/timpalpant/cfrsolve"
	"github.com/timpalpant/cfrsolve/cards"
)

const (
	Check cfr.Action = 'k'
	Bet   cfr.Action = 'b'
	Fold  cfr.Action = 'f'
	Call  cfr.Action = 'c'
	Raise cfr.Action = 'r'
)

const (
	ante    = 1.0
	numDeal = 3
	// Position of the public card within a deal.
	boardCard = 2
)

var betSize = [...]float64{2.0, 4.0}

var (
	openActions   = []cfr.Action{Check, Bet}
	facingBet     = []cfr.Action{Fold, Call, Raise}
	facingRaise   = []cfr.Action{Fold, Call}
	boundaryOnly  = []cfr.Action{cfr.RoundSeparator}
	roundDecision = map[cfr.History][]cfr.Action{
		"":    openActions,
		"k":   openActions,
		"b":   facingBet,
		"kb":  facingBet,
		"br":  facingRaise,
		"kbr": facingRaise,
	}
)

// Sequences of actions that close a betting round without a fold.
var closedRounds = map[cfr.History]bool{
	"kk":   true,
	"bc":   true,
	"brc":  true,
	"kbc":  true,
	"kbrc": true,
}

// Poker implements cfr.Game for Leduc Hold'em.
type Poker struct {
	deck *cards.Deck
}

// NewGame returns the rules of Leduc Hold'em.
func NewGame() *Poker {
	return &Poker{
		deck: cards.NewDeck(numDeal,
			cards.Jack, cards.Jack,
			cards.Queen, cards.Queen,
			cards.King, cards.King),
	}
}

// IsTerminal implements cfr.Game.
func (g *Poker) IsTerminal(h cfr.History) bool {
	if last, ok := h.Last(); ok && last == Fold {
		return true
	}

	return h.Round() == len(betSize)-1 && closedRounds[h.CurrentRound()]
}

func isRoundBoundary(h cfr.History) bool {
	return h.Round() == 0 && closedRounds[h]
}

// LegalActions implements cfr.Game.
func (g *Poker) LegalActions(h cfr.History) ([]cfr.Action, error) {
	if !isWellFormedPrefix(h) || g.IsTerminal(h) {
		return nil, cfr.NewMalformedHistoryError(h)
	}

	if isRoundBoundary(h) {
		return boundaryOnly, nil
	}

	actions, ok := roundDecision[h.CurrentRound()]
	if !ok {
		return nil, cfr.NewMalformedHistoryError(h)
	}

	return actions, nil
}

// All rounds before the current one must have been closed without a fold.
func isWellFormedPrefix(h cfr.History) bool {
	rounds := strings.Split(string(h), string(cfr.RoundSeparator))
	if len(rounds) > len(betSize) {
		return false
	}

	for _, r := range rounds[:len(rounds)-1] {
		if !closedRounds[cfr.History(r)] {
			return false
		}
	}

	return true
}

// ActivePlayer implements cfr.Game. Player 0 acts first in every round.
func (g *Poker) ActivePlayer(h cfr.History) int {
	if isRoundBoundary(h) {
		return cfr.RoundBoundary
	}

	return len(h.CurrentRound()) % 2
}

// Utility implements cfr.Game.
func (g *Poker) Utility(d cfr.Deal, h cfr.History, player int) float64 {
	contributions := [2]float64{ante, ante}
	rounds := strings.Split(string(h), string(cfr.RoundSeparator))
	for round, actions := range rounds {
		for i := 0; i < len(actions); i++ {
			actor := i % 2
			switch cfr.Action(actions[i]) {
			case Bet, Raise:
				contributions[actor] = maxContribution(contributions) + betSize[round]
			case Call:
				contributions[actor] = maxContribution(contributions)
			case Fold:
				if actor == player {
					return -contributions[player]
				}

				return contributions[1-player]
			}
		}
	}

	if !closedRounds[h.CurrentRound()] || len(rounds) != len(betSize) {
		panic("unexpected history: " + string(h))
	}

	switch compareHands(d, player) {
	case 1:
		return contributions[1-player]
	case -1:
		return -contributions[player]
	}

	return 0.0
}

func maxContribution(c [2]float64) float64 {
	if c[0] > c[1] {
		return c[0]
	}

	return c[1]
}

// compareHands returns 1 if player's hand beats the opponent's at showdown,
// -1 if it loses and 0 if the pot is split.
func compareHands(d cfr.Deal, player int) int {
	board := cards.CardAt(d, boardCard)
	ours := cards.CardAt(d, player)
	theirs := cards.CardAt(d, 1-player)
	switch {
	case ours == theirs:
		return 0
	case ours == board:
		return 1
	case theirs == board:
		return -1
	case ours > theirs:
		return 1
	}

	return -1
}

// Observation implements cfr.Game. The public card is only known once the
// second round has begun.
func (g *Poker) Observation(d cfr.Deal, h cfr.History) string {
	obs := cards.CardAt(d, g.ActivePlayer(h)).String()
	if h.Round() > 0 {
		obs += cards.CardAt(d, boardCard).String()
	}

	return obs
}

// Deals implements cfr.Game.
func (g *Poker) Deals() cfr.DealSource {
	return g.deck
}
