package cfr

import (
	"fmt"

	"github.com/pkg/errors"
)

// ActionProbability is one labeled entry of an average strategy.
type ActionProbability struct {
	Action      Action
	Probability float64
}

func (ap ActionProbability) String() string {
	return fmt.Sprintf("%c=%.4f", ap.Action, ap.Probability)
}

// StrategyProfile is the average strategy of every info set in a store,
// labeled with each info set's legal actions.
type StrategyProfile struct {
	keys       []string
	strategies map[string][]ActionProbability
}

// ExtractStrategy computes the average strategy for every info set in
// store. The legal actions of each info set are recovered from the public
// history embedded in its key.
func ExtractStrategy(game Game, store *Store) (*StrategyProfile, error) {
	keys := store.Keys()
	result := &StrategyProfile{
		keys:       keys,
		strategies: make(map[string][]ActionProbability, len(keys)),
	}

	for _, key := range keys {
		_, h, ok := SplitInfoSetKey(key)
		if !ok {
			return nil, errors.Errorf("invalid info set key %q", key)
		}

		actions, err := game.LegalActions(h)
		if err != nil {
			return nil, errors.Wrapf(err, "extracting strategy for %q", key)
		}

		is := store.Get(key)
		if is.NumActions() != len(actions) {
			return nil, &ArityMismatchError{Key: key, Have: is.NumActions(), Want: len(actions)}
		}

		avg := is.AverageStrategy()
		labeled := make([]ActionProbability, len(actions))
		for i, a := range actions {
			labeled[i] = ActionProbability{Action: a, Probability: avg[i]}
		}

		result.strategies[key] = labeled
	}

	return result, nil
}

// Keys returns the info set keys of the profile in sorted order.
func (sp *StrategyProfile) Keys() []string {
	return sp.keys
}

// Len returns the number of info sets in the profile.
func (sp *StrategyProfile) Len() int {
	return len(sp.keys)
}

// Get returns the labeled average strategy for key, or nil.
func (sp *StrategyProfile) Get(key string) []ActionProbability {
	return sp.strategies[key]
}

// Probability returns the average probability of playing a at key.
// It returns 0 if the info set or the action is unknown.
func (sp *StrategyProfile) Probability(key string, a Action) float64 {
	for _, ap := range sp.strategies[key] {
		if ap.Action == a {
			return ap.Probability
		}
	}

	return 0
}

// Policy returns the average strategy for key as a probability vector over
// its n legal actions, or the uniform distribution if key is unknown.
func (sp *StrategyProfile) Policy(key string, n int) []float64 {
	result := make([]float64, n)
	labeled := sp.strategies[key]
	if len(labeled) != n {
		uniformDist(result)
		return result
	}

	for i, ap := range labeled {
		result[i] = ap.Probability
	}

	return result
}
