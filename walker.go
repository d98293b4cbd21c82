package cfr

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/timpalpant/cfrsolve/internal/f64"
	"github.com/timpalpant/cfrsolve/internal/sampling"
)

// Walker performs the recursive CFR traversal of a single deal's game tree.
//
// A Walker only reads from its Store: all regret and strategy deltas are
// collected into the Updates passed to each walk, so any number of walkers
// may share one Store as long as nothing commits to it concurrently.
// A single Walker must not be used from multiple goroutines.
type Walker struct {
	game  Game
	store *Store
	prune bool

	slicePool    *floatSlicePool
	nodesVisited int64
}

// NewWalker returns a Walker that reads current strategies from store.
// If prune is true, subtrees that neither player reaches are skipped.
func NewWalker(game Game, store *Store, prune bool) *Walker {
	return &Walker{
		game:      game,
		store:     store,
		prune:     prune,
		slicePool: &floatSlicePool{},
	}
}

// NodesVisited returns the number of game tree nodes visited so far.
func (w *Walker) NodesVisited() int64 {
	return w.nodesVisited
}

// Walk runs one vanilla CFR traversal of the game tree for deal d,
// adding every visited info set's deltas to u. It returns the expected
// utility of the current strategy profile for player 0.
//
// If the walk fails, u may contain a partial set of deltas and must be
// discarded.
func (w *Walker) Walk(d Deal, u *Updates) (float64, error) {
	t := &walk{Walker: w, deal: d, updates: u}
	ev, err := t.runHelper("", 0, 1.0, 1.0)
	if err != nil {
		return 0, errors.Wrapf(err, "walking deal %v", d)
	}

	return ev, nil
}

// WalkSampled runs one external sampling traversal for deal d. Every
// action of the updating player is explored and updated, while a single
// action is sampled from the opponent's current strategy using rng.
func (w *Walker) WalkSampled(d Deal, updatingPlayer int, rng *rand.Rand, u *Updates) (float64, error) {
	t := &walk{
		Walker:         w,
		deal:           d,
		updates:        u,
		sampled:        true,
		updatingPlayer: updatingPlayer,
		rng:            rng,
	}

	ev, err := t.runHelper("", 0, 1.0, 1.0)
	if err != nil {
		return 0, errors.Wrapf(err, "walking deal %v for player %d", d, updatingPlayer)
	}

	return ev, nil
}

type walk struct {
	*Walker
	deal    Deal
	updates *Updates

	sampled        bool
	updatingPlayer int
	rng            *rand.Rand
}

// runHelper returns the utility of h for lastPlayer, the player whose
// action led to h.
func (t *walk) runHelper(h History, lastPlayer int, reachP0, reachP1 float64) (float64, error) {
	t.nodesVisited++
	if t.prune && reachP0 == 0 && reachP1 == 0 {
		return 0, nil
	}

	if t.game.IsTerminal(h) {
		return t.game.Utility(t.deal, h, lastPlayer), nil
	}

	actions, err := t.game.LegalActions(h)
	if err != nil {
		return 0, err
	}

	player := t.game.ActivePlayer(h)
	switch player {
	case RoundBoundary:
		return t.handleRoundBoundary(h, actions, lastPlayer, reachP0, reachP1)
	case 0, 1:
	default:
		return 0, errors.Errorf("invalid active player %d after %q", player, string(h))
	}

	if len(actions) == 0 {
		return 0, NewMalformedHistoryError(h)
	}

	var ev float64
	if t.sampled && player != t.updatingPlayer {
		ev, err = t.handleSampledPlayerNode(h, player, actions, reachP0, reachP1)
	} else {
		ev, err = t.handlePlayerNode(h, player, actions, reachP0, reachP1)
	}

	return getSign(lastPlayer, player) * ev, err
}

// The next round continues with the same reach probabilities. Utility is
// still reported relative to the player who closed the previous round.
func (t *walk) handleRoundBoundary(h History, actions []Action, lastPlayer int, reachP0, reachP1 float64) (float64, error) {
	if len(actions) != 1 || actions[0] != RoundSeparator {
		return 0, NewMalformedHistoryError(h)
	}

	return t.runHelper(h.Append(RoundSeparator), lastPlayer, reachP0, reachP1)
}

func (t *walk) handlePlayerNode(h History, player int, actions []Action, reachP0, reachP1 float64) (float64, error) {
	key := InfoSetKey(t.game, t.deal, h)
	strategy := t.slicePool.alloc(len(actions))
	defer t.slicePool.free(strategy)
	if err := t.currentStrategy(key, strategy); err != nil {
		return 0, err
	}

	actionUtils := t.slicePool.alloc(len(actions))
	defer t.slicePool.free(actionUtils)
	for i, action := range actions {
		child := h.Append(action)
		p := strategy[i]
		var err error
		if player == 0 {
			actionUtils[i], err = t.runHelper(child, player, p*reachP0, reachP1)
		} else {
			actionUtils[i], err = t.runHelper(child, player, reachP0, p*reachP1)
		}

		if err != nil {
			return 0, err
		}
	}

	cfValue := f64.DotUnitary(strategy, actionUtils)

	// actionUtils becomes the regret delta, strategy the strategy delta.
	f64.AddConst(-cfValue, actionUtils)
	f64.ScalUnitary(counterFactualProb(player, reachP0, reachP1), actionUtils)
	f64.ScalUnitary(reachProb(player, reachP0, reachP1), strategy)
	if err := t.updates.Add(key, actionUtils, strategy); err != nil {
		return 0, err
	}

	return cfValue, nil
}

// Sample the opponent's action according to their current strategy and
// do not update their info set. The sampling probability cancels the
// opponent's reach probability, so reach is passed through unchanged.
func (t *walk) handleSampledPlayerNode(h History, player int, actions []Action, reachP0, reachP1 float64) (float64, error) {
	key := InfoSetKey(t.game, t.deal, h)
	strategy := t.slicePool.alloc(len(actions))
	defer t.slicePool.free(strategy)
	if err := t.currentStrategy(key, strategy); err != nil {
		return 0, err
	}

	i := sampling.SampleOne(strategy, t.rng.Float64())
	return t.runHelper(h.Append(actions[i]), player, reachP0, reachP1)
}

// currentStrategy writes the regret-matching strategy for key into dst.
// Info sets that have never been committed play uniformly.
func (t *walk) currentStrategy(key string, dst []float64) error {
	is, err := t.store.Lookup(key, len(dst))
	if err != nil {
		return err
	} else if is == nil {
		uniformDist(dst)
		return nil
	}

	regretMatching(dst, is.RegretSum)
	return nil
}

// getSign returns the factor that converts a utility for player into a
// utility for lastPlayer.
func getSign(lastPlayer, player int) float64 {
	if player != lastPlayer {
		return -1.0
	}

	return 1.0
}

func reachProb(player int, reachP0, reachP1 float64) float64 {
	if player == 0 {
		return reachP0
	}

	return reachP1
}

// The probability of reaching this node, assuming that the current player
// tried to reach it.
func counterFactualProb(player int, reachP0, reachP1 float64) float64 {
	if player == 0 {
		return reachP1
	}

	return reachP0
}
