package cfr_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/cfrsolve"
	"github.com/timpalpant/cfrsolve/kuhn"
	"github.com/timpalpant/cfrsolve/leduc"
)

func TestExtractStrategy_Labels(t *testing.T) {
	game := leduc.NewGame()
	params := cfr.DefaultParams(20)
	params.Mode = cfr.ModeFullEnumeration
	params.Seed = 1
	_, store, err := cfr.Train(context.Background(), game, params)
	require.NoError(t, err)

	profile, err := cfr.ExtractStrategy(game, store)
	require.NoError(t, err)
	assert.Equal(t, store.Keys(), profile.Keys())

	testCases := map[string][]cfr.Action{
		"J:":      {leduc.Check, leduc.Bet},
		"Q:b":     {leduc.Fold, leduc.Call, leduc.Raise},
		"K:kbr":   {leduc.Fold, leduc.Call},
		"QK:kk/":  {leduc.Check, leduc.Bet},
		"JJ:bc/b": {leduc.Fold, leduc.Call, leduc.Raise},
	}

	for key, actions := range testCases {
		strat := profile.Get(key)
		require.Len(t, strat, len(actions), key)
		var total float64
		for i, ap := range strat {
			assert.Equal(t, actions[i], ap.Action, key)
			assert.Equal(t, ap.Probability, profile.Probability(key, ap.Action))
			total += ap.Probability
		}

		assert.InDelta(t, 1.0, total, 1e-9, key)
		assert.InDeltaSlice(t, store.Get(key).AverageStrategy(), profile.Policy(key, len(actions)), 1e-15)
	}
}

func TestExtractStrategy_UnknownEntries(t *testing.T) {
	game := kuhn.NewGame()
	_, store, err := cfr.Train(context.Background(), game, cfr.Params{Iterations: 10, Seed: 1})
	require.NoError(t, err)
	profile, err := cfr.ExtractStrategy(game, store)
	require.NoError(t, err)

	assert.Nil(t, profile.Get("A:"))
	assert.Equal(t, 0.0, profile.Probability("A:", kuhn.Bet))
	assert.Equal(t, 0.0, profile.Probability("J:", cfr.Action('z')))
	assert.Equal(t, []float64{0.5, 0.5}, profile.Policy("A:", 2))
}

func TestExtractStrategy_Errors(t *testing.T) {
	game := kuhn.NewGame()

	wrongWidth := cfr.NewStore()
	_, err := wrongWidth.GetOrCreate("J:", 3)
	require.NoError(t, err)
	_, err = cfr.ExtractStrategy(game, wrongWidth)
	_, ok := errors.Cause(err).(*cfr.ArityMismatchError)
	assert.True(t, ok, "%v", err)

	noSeparator := cfr.NewStore()
	_, err = noSeparator.GetOrCreate("J", 2)
	require.NoError(t, err)
	_, err = cfr.ExtractStrategy(game, noSeparator)
	assert.Error(t, err)

	badHistory := cfr.NewStore()
	_, err = badHistory.GetOrCreate("J:cc", 2)
	require.NoError(t, err)
	_, err = cfr.ExtractStrategy(game, badHistory)
	_, ok = errors.Cause(err).(*cfr.MalformedHistoryError)
	assert.True(t, ok, "%v", err)
}
