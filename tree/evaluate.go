package tree

import (
	"github.com/pkg/errors"

	"github.com/timpalpant/cfrsolve"
)

// ReachProbabilities returns each player's contribution to the probability
// of reaching h in the game tree of deal d when both play policy.
// Chance is not included: every deal is taken as given.
func ReachProbabilities(game cfr.Game, policy Policy, d cfr.Deal, h cfr.History) ([2]float64, error) {
	reach := [2]float64{1.0, 1.0}
	for i := 0; i < len(h); i++ {
		prefix := h[:i]
		player := game.ActivePlayer(prefix)
		if player == cfr.RoundBoundary {
			continue
		}

		actions, err := game.LegalActions(prefix)
		if err != nil {
			return reach, err
		}

		idx := indexOf(actions, cfr.Action(h[i]))
		if idx < 0 {
			return reach, errors.Errorf("action %q is not legal after %q", h[i], string(prefix))
		}

		p := policy(cfr.InfoSetKey(game, d, prefix), len(actions))
		reach[player] *= p[idx]
	}

	return reach, nil
}

// ExpectedValue returns the exact expected utility for player 0 when both
// players play policy, averaged uniformly over all deals.
func ExpectedValue(game cfr.Game, policy Policy) (float64, error) {
	deals := game.Deals().All()
	if len(deals) == 0 {
		return 0, errors.New("game has no deals")
	}

	var total float64
	for _, d := range deals {
		ev, err := expectedValue(game, policy, d, "")
		if err != nil {
			return 0, errors.Wrapf(err, "evaluating deal %v", d)
		}

		total += ev
	}

	return total / float64(len(deals)), nil
}

func expectedValue(game cfr.Game, policy Policy, d cfr.Deal, h cfr.History) (float64, error) {
	if game.IsTerminal(h) {
		return game.Utility(d, h, 0), nil
	}

	actions, err := game.LegalActions(h)
	if err != nil {
		return 0, err
	}

	if game.ActivePlayer(h) == cfr.RoundBoundary {
		return expectedValue(game, policy, d, h.Append(cfr.RoundSeparator))
	}

	p := policy(cfr.InfoSetKey(game, d, h), len(actions))
	var ev float64
	for i, a := range actions {
		if p[i] == 0 {
			continue
		}

		u, err := expectedValue(game, policy, d, h.Append(a))
		if err != nil {
			return 0, err
		}

		ev += p[i] * u
	}

	return ev, nil
}

// UniformPolicy plays every legal action with equal probability.
func UniformPolicy(key string, n int) []float64 {
	result := make([]float64, n)
	for i := range result {
		result[i] = 1.0 / float64(n)
	}

	return result
}

func indexOf(actions []cfr.Action, a cfr.Action) int {
	for i, x := range actions {
		if x == a {
			return i
		}
	}

	return -1
}
