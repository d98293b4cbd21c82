package cfr_test

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/cfrsolve"
	"github.com/timpalpant/cfrsolve/internal/sampling"
	"github.com/timpalpant/cfrsolve/kuhn"
	"github.com/timpalpant/cfrsolve/leduc"
)

func requireSameStore(t *testing.T, expected, actual *cfr.Store) {
	require.Equal(t, expected.Keys(), actual.Keys())
	for _, key := range expected.Keys() {
		assert.Equal(t, expected.Get(key), actual.Get(key), key)
	}
}

func TestNewTrainer_ConfigurationError(t *testing.T) {
	game := kuhn.NewGame()
	testCases := []cfr.Params{
		{Iterations: 0},
		{Iterations: -10},
		{Iterations: 10, Mode: cfr.Mode(7)},
		{Iterations: 10, BatchSize: -1},
		{Iterations: 10, Workers: -1},
		{Iterations: 10, LogEvery: -1},
	}

	for _, params := range testCases {
		_, err := cfr.NewTrainer(game, params)
		require.Error(t, err, "%+v", params)
		_, ok := errors.Cause(err).(*cfr.ConfigurationError)
		assert.True(t, ok, "%v", err)

		_, _, err = cfr.Train(context.Background(), game, params)
		assert.Error(t, err)
	}
}

func TestParseMode(t *testing.T) {
	for _, mode := range []cfr.Mode{cfr.ModeVanilla, cfr.ModeFullEnumeration, cfr.ModeExternalSampling} {
		parsed, err := cfr.ParseMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}

	_, err := cfr.ParseMode("outcome")
	_, ok := errors.Cause(err).(*cfr.ConfigurationError)
	assert.True(t, ok)
}

// A serial run is equivalent to walking one freshly drawn deal per
// iteration with that iteration's random source and committing after
// every walk.
func TestTrainer_SerialSemantics(t *testing.T) {
	game := kuhn.NewGame()
	params := cfr.DefaultParams(500)
	params.Seed = 99
	value, store, err := cfr.Train(context.Background(), game, params)
	require.NoError(t, err)

	expected := cfr.NewStore()
	walker := cfr.NewWalker(game, expected, false)
	var total float64
	for i := 0; i < params.Iterations; i++ {
		rng := sampling.IterationRand(params.Seed, i)
		u := cfr.NewUpdates()
		ev, err := walker.Walk(game.Deals().Sample(rng), u)
		require.NoError(t, err)
		require.NoError(t, expected.Commit(u))
		total += ev
	}

	assert.Equal(t, total/float64(params.Iterations), value)
	requireSameStore(t, expected, store)
}

func TestTrainer_ParallelMatchesSerial(t *testing.T) {
	testCases := []struct {
		game       cfr.Game
		mode       cfr.Mode
		iterations int
	}{
		{kuhn.NewGame(), cfr.ModeVanilla, 2000},
		{kuhn.NewGame(), cfr.ModeExternalSampling, 2000},
		{kuhn.NewGame(), cfr.ModeFullEnumeration, 200},
		{leduc.NewGame(), cfr.ModeExternalSampling, 500},
	}

	for _, tc := range testCases {
		params := cfr.Params{
			Mode:       tc.mode,
			Iterations: tc.iterations,
			BatchSize:  8,
			Workers:    1,
			Seed:       5,
		}

		serial, err := cfr.NewTrainer(tc.game, params)
		require.NoError(t, err)
		require.NoError(t, serial.Run(context.Background()))

		params.Workers = 8
		parallel, err := cfr.NewTrainer(tc.game, params)
		require.NoError(t, err)
		require.NoError(t, parallel.Run(context.Background()))

		assert.Equal(t, serial.State(), parallel.State(), tc.mode.String())
		requireSameStore(t, serial.Store(), parallel.Store())
	}
}

func TestTrainer_FullEnumerationCountsDeals(t *testing.T) {
	params := cfr.DefaultParams(10)
	params.Mode = cfr.ModeFullEnumeration
	params.Seed = 1
	trainer, err := cfr.NewTrainer(kuhn.NewGame(), params)
	require.NoError(t, err)
	require.NoError(t, trainer.Run(context.Background()))

	state := trainer.State()
	assert.Equal(t, 10, state.Iteration)
	assert.Equal(t, 60, state.DealsEvaluated)
	assert.InDelta(t, state.UtilitySum/60, state.AverageUtility(), 1e-15)
	assert.Equal(t, 12, trainer.Store().Len())
}

func TestTrainer_FailedIterationIsNotCommitted(t *testing.T) {
	// The fourth deal of the first iteration fails after three deals
	// have already been walked successfully.
	game := &brokenGame{Game: kuhn.NewGame(), history: "cb", failAfter: 3}
	params := cfr.DefaultParams(5)
	params.Mode = cfr.ModeFullEnumeration
	params.Seed = 1
	trainer, err := cfr.NewTrainer(game, params)
	require.NoError(t, err)

	err = trainer.Run(context.Background())
	require.Error(t, err)
	_, ok := errors.Cause(err).(*cfr.MalformedHistoryError)
	assert.True(t, ok, "%v", err)
	assert.Equal(t, 0, trainer.Store().Len())
	assert.Equal(t, cfr.State{Seed: 1}, trainer.State())
}

func TestTrainer_Progress(t *testing.T) {
	clock := quartz.NewMock(t)
	var reports []cfr.Progress
	params := cfr.DefaultParams(1000)
	params.Seed = 3
	params.LogEvery = 100
	trainer, err := cfr.NewTrainer(kuhn.NewGame(), params,
		cfr.WithClock(clock),
		cfr.WithProgress(func(p cfr.Progress) {
			reports = append(reports, p)
			clock.Advance(time.Second).MustWait(context.Background())
		}))
	require.NoError(t, err)
	require.NoError(t, trainer.Run(context.Background()))

	require.Len(t, reports, 10)
	for i, p := range reports {
		assert.Equal(t, 100*(i+1), p.Iteration)
		assert.Equal(t, 1000, p.Iterations)
		assert.Equal(t, time.Duration(i)*time.Second, p.Elapsed)
		assert.True(t, p.InfoSets > 0 && p.InfoSets <= 12)
		assert.True(t, p.NodesVisited > 0)
	}

	last := reports[len(reports)-1]
	assert.Equal(t, trainer.State().AverageUtility(), last.AverageUtility)
}

func TestTrainer_ProgressReportsPartialFinalBatch(t *testing.T) {
	var iterations []int
	params := cfr.Params{Iterations: 25, BatchSize: 4, Workers: 2, Seed: 1, LogEvery: 10}
	trainer, err := cfr.NewTrainer(kuhn.NewGame(), params,
		cfr.WithProgress(func(p cfr.Progress) { iterations = append(iterations, p.Iteration) }))
	require.NoError(t, err)
	require.NoError(t, trainer.Run(context.Background()))

	assert.Equal(t, []int{12, 20, 25}, iterations)
}

func TestTrainer_SeedFromClock(t *testing.T) {
	clock := quartz.NewMock(t)
	trainer, err := cfr.NewTrainer(kuhn.NewGame(), cfr.DefaultParams(10), cfr.WithClock(clock))
	require.NoError(t, err)
	assert.Equal(t, clock.Now().UnixNano(), trainer.State().Seed)
}

func TestTrainer_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trainer, err := cfr.NewTrainer(kuhn.NewGame(), cfr.DefaultParams(100))
	require.NoError(t, err)
	err = trainer.Run(ctx)
	assert.Equal(t, context.Canceled, errors.Cause(err))
	assert.Equal(t, 0, trainer.State().Iteration)
}

func TestTrainer_Resume(t *testing.T) {
	game := kuhn.NewGame()
	params := cfr.DefaultParams(400)
	params.Mode = cfr.ModeExternalSampling
	params.Seed = 17
	straight, err := cfr.NewTrainer(game, params)
	require.NoError(t, err)
	require.NoError(t, straight.Run(context.Background()))

	first := params
	first.Iterations = 150
	partial, err := cfr.NewTrainer(game, first)
	require.NoError(t, err)
	require.NoError(t, partial.Run(context.Background()))

	resumed, err := cfr.NewTrainer(game, params,
		cfr.WithResume(partial.Store().Clone(), partial.State()))
	require.NoError(t, err)
	require.NoError(t, resumed.Run(context.Background()))

	assert.Equal(t, straight.State(), resumed.State())
	requireSameStore(t, straight.Store(), resumed.Store())

	// Cannot resume a run that is already further along.
	params.Iterations = 100
	_, err = cfr.NewTrainer(game, params, cfr.WithResume(partial.Store(), partial.State()))
	_, ok := errors.Cause(err).(*cfr.ConfigurationError)
	assert.True(t, ok, "%v", err)
}
