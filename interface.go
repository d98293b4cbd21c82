package cfr

import (
	"math/rand"
	"strings"
)

// Action is a single token in a game's public betting history.
type Action byte

// RoundSeparator is the action token recorded when one betting round
// closes and the next one begins.
const RoundSeparator Action = '/'

// RoundBoundary is returned by Game.ActivePlayer for a history whose
// betting round just closed. No player acts there; the only legal
// continuation is RoundSeparator.
const RoundBoundary = -1

// keySeparator joins a player's observation and the public history in
// an info set key. Action tokens must never use it.
const keySeparator = ":"

// History is the ordered sequence of public actions taken so far.
// The root of the game is the empty history.
type History string

// Append returns a new history with a appended.
func (h History) Append(a Action) History {
	return h + History(a)
}

// Last returns the most recent action, and false if h is the root.
func (h History) Last() (Action, bool) {
	if len(h) == 0 {
		return 0, false
	}

	return Action(h[len(h)-1]), true
}

// Round returns the zero-based index of the betting round in progress.
func (h History) Round() int {
	return strings.Count(string(h), string(RoundSeparator))
}

// CurrentRound returns the actions taken since the last round boundary.
func (h History) CurrentRound() History {
	if i := strings.LastIndexByte(string(h), byte(RoundSeparator)); i >= 0 {
		return h[i+1:]
	}

	return h
}

// Deal is an assignment of cards drawn without replacement. By convention
// the private cards of player 0 and player 1 come first, followed by any
// public cards.
type Deal []byte

// DealSource is the domain of deals a game is played over.
type DealSource interface {
	// All enumerates every deal in the domain. Each deal is equally likely.
	All() []Deal
	// Sample draws one deal uniformly at random using rng.
	Sample(rng *rand.Rand) Deal
}

// Game is the rules adapter that lets the CFR engine solve a two-player,
// zero-sum, perfect-recall game without knowing its rules.
type Game interface {
	// IsTerminal reports whether the hand is over after h.
	IsTerminal(h History) bool
	// LegalActions returns the ordered actions available after h.
	// An h with no defined successors is an internal consistency error
	// and must be reported as a *MalformedHistoryError.
	LegalActions(h History) ([]Action, error)
	// ActivePlayer returns the player (0 or 1) to act after h,
	// or RoundBoundary if h just closed a betting round.
	ActivePlayer(h History) int
	// Utility returns the payoff of a terminal history for the given
	// player. Payoffs are zero-sum: Utility(d, h, 0) == -Utility(d, h, 1).
	Utility(d Deal, h History, player int) float64
	// Observation returns everything the player about to act after h
	// privately knows: their own cards and any public cards revealed so far.
	// It must not contain the ':' key separator.
	Observation(d Deal, h History) string
	// Deals returns the domain of deals this game is played over.
	Deals() DealSource
}

// InfoSetKey returns the key that identifies the information set of the
// player acting after h. Two (deal, history) pairs share a key if and only if
// they are indistinguishable to that player.
func InfoSetKey(g Game, d Deal, h History) string {
	return g.Observation(d, h) + keySeparator + string(h)
}

// SplitInfoSetKey recovers the observation and public history that make
// up an info set key.
func SplitInfoSetKey(key string) (observation string, h History, ok bool) {
	i := strings.Index(key, keySeparator)
	if i < 0 {
		return "", "", false
	}

	return key[:i], History(key[i+len(keySeparator):]), true
}
