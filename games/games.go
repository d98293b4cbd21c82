// Package games is the registry of the games bundled with the solver.
package games

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/timpalpant/cfrsolve"
	"github.com/timpalpant/cfrsolve/kuhn"
	"github.com/timpalpant/cfrsolve/leduc"
)

// Entry describes a registered game.
type Entry struct {
	Name string
	// DefaultIterations is the number of iterations needed for
	// vanilla CFR to approach equilibrium in this game.
	DefaultIterations int
	New               func() cfr.Game
}

var registry = map[string]Entry{
	"kuhn": {
		Name:              "kuhn",
		DefaultIterations: 50000,
		New:               func() cfr.Game { return kuhn.NewGame() },
	},
	"leduc": {
		Name:              "leduc",
		DefaultIterations: 100000,
		New:               func() cfr.Game { return leduc.NewGame() },
	},
}

// Lookup returns the game registered under name.
func Lookup(name string) (Entry, error) {
	e, ok := registry[name]
	if !ok {
		return Entry{}, errors.Errorf("unknown game %q (available: %v)", name, Names())
	}

	return e, nil
}

// Names returns the names of all registered games in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
