// Package tree provides helpers that traverse the full game tree of a
// cfr.Game, for counting nodes and evaluating fixed strategy profiles.
package tree

import (
	"github.com/timpalpant/cfrsolve"
)

// Policy returns the probability of each of the n legal actions at the
// info set identified by key.
type Policy func(key string, n int) []float64

// Visit calls visitor for every node of the game tree of every deal,
// in depth-first order.
func Visit(game cfr.Game, visitor func(d cfr.Deal, h cfr.History)) error {
	for _, d := range game.Deals().All() {
		if err := visitDeal(game, d, "", visitor); err != nil {
			return err
		}
	}

	return nil
}

func visitDeal(game cfr.Game, d cfr.Deal, h cfr.History, visitor func(d cfr.Deal, h cfr.History)) error {
	visitor(d, h)
	if game.IsTerminal(h) {
		return nil
	}

	actions, err := game.LegalActions(h)
	if err != nil {
		return err
	}

	for _, a := range actions {
		if err := visitDeal(game, d, h.Append(a), visitor); err != nil {
			return err
		}
	}

	return nil
}

// VisitInfoSets calls visitor once for every distinct info set of the game.
func VisitInfoSets(game cfr.Game, visitor func(player int, key string)) error {
	seen := make(map[string]struct{})
	return Visit(game, func(d cfr.Deal, h cfr.History) {
		if game.IsTerminal(h) {
			return
		}

		player := game.ActivePlayer(h)
		if player == cfr.RoundBoundary {
			return
		}

		key := cfr.InfoSetKey(game, d, h)
		if _, ok := seen[key]; ok {
			return
		}

		visitor(player, key)
		seen[key] = struct{}{}
	})
}

func CountTerminalNodes(game cfr.Game) (int, error) {
	total := 0
	err := Visit(game, func(d cfr.Deal, h cfr.History) {
		if game.IsTerminal(h) {
			total++
		}
	})

	return total, err
}

func CountNodes(game cfr.Game) (int, error) {
	total := 0
	err := Visit(game, func(d cfr.Deal, h cfr.History) { total++ })
	return total, err
}

func CountInfoSets(game cfr.Game) (int, error) {
	total := 0
	err := VisitInfoSets(game, func(player int, key string) { total++ })
	return total, err
}
