package cfr

import (
	"context"
	"time"

	"github.com/coder/quartz"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/timpalpant/cfrsolve/internal/sampling"
)

// State is the resumable progress of a training run.
type State struct {
	Seed           int64
	Iteration      int
	UtilitySum     float64
	DealsEvaluated int
}

// AverageUtility returns the mean utility for player 0 over all deals
// evaluated so far.
func (s State) AverageUtility() float64 {
	if s.DealsEvaluated == 0 {
		return 0
	}

	return s.UtilitySum / float64(s.DealsEvaluated)
}

// Progress is reported periodically during training.
type Progress struct {
	Iteration      int
	Iterations     int
	InfoSets       int
	NodesVisited   int64
	AverageUtility float64
	Elapsed        time.Duration
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithClock sets the clock used to time the run.
func WithClock(clock quartz.Clock) Option {
	return func(t *Trainer) { t.clock = clock }
}

// WithProgress registers a function that is called every Params.LogEvery
// iterations and once when the run completes.
func WithProgress(fn func(Progress)) Option {
	return func(t *Trainer) { t.progress = fn }
}

// WithResume continues a previous run from the given store and state.
func WithResume(store *Store, state State) Option {
	return func(t *Trainer) {
		t.store = store
		t.state = state
	}
}

// Trainer runs CFR iterations for a game and accumulates the results
// into a Store.
type Trainer struct {
	game   Game
	params Params
	deals  DealSource

	store *Store
	state State

	clock        quartz.Clock
	progress     func(Progress)
	nodesVisited int64
	allDeals     []Deal
}

// NewTrainer returns a Trainer for game. It returns a *ConfigurationError
// if params are invalid.
func NewTrainer(game Game, params Params, opts ...Option) (*Trainer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	t := &Trainer{
		game:   game,
		params: params,
		deals:  game.Deals(),
		store:  NewStore(),
		clock:  quartz.NewReal(),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.state.Iteration > params.Iterations {
		return nil, &ConfigurationError{
			Field:  "iterations",
			Reason: "is less than the number already completed",
		}
	}

	if params.Seed != 0 {
		t.state.Seed = params.Seed
	} else if t.state.Seed == 0 {
		t.state.Seed = t.clock.Now().UnixNano()
	}

	if params.Mode == ModeFullEnumeration {
		t.allDeals = t.deals.All()
		if len(t.allDeals) == 0 {
			return nil, &ConfigurationError{Field: "deals", Reason: "domain is empty"}
		}
	}

	return t, nil
}

// Train runs params.Iterations iterations of CFR on game and returns the
// average utility for player 0 together with the final store.
func Train(ctx context.Context, game Game, params Params) (float64, *Store, error) {
	t, err := NewTrainer(game, params)
	if err != nil {
		return 0, nil, err
	}

	if err := t.Run(ctx); err != nil {
		return 0, nil, err
	}

	return t.State().AverageUtility(), t.Store(), nil
}

// Store returns the trainer's store. It must not be modified while Run
// is in progress.
func (t *Trainer) Store() *Store {
	return t.store
}

// State returns the progress of the run so far.
func (t *Trainer) State() State {
	return t.state
}

// Run trains until the configured number of iterations is reached or
// ctx is cancelled. Iterations are processed in batches: every walk in a
// batch reads the same snapshot of the store, and the batch's updates are
// committed together once all of its walks have finished.
func (t *Trainer) Run(ctx context.Context) error {
	glog.Infof("Training %s CFR for %d iterations (seed=%d, batch=%d, workers=%d, prune=%v)",
		t.params.Mode, t.params.Iterations, t.state.Seed,
		t.params.batchSize(), t.params.workers(), t.params.Prune)

	start := t.clock.Now()
	logEvery := t.params.logEvery()
	for t.state.Iteration < t.params.Iterations {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := t.params.batchSize()
		if remaining := t.params.Iterations - t.state.Iteration; n > remaining {
			n = remaining
		}

		prev := t.state.Iteration
		if err := t.runBatch(ctx, prev, n); err != nil {
			return err
		}

		if prev/logEvery != t.state.Iteration/logEvery {
			t.reportProgress(start)
		}
	}

	if t.state.Iteration%logEvery != 0 {
		t.reportProgress(start)
	}

	glog.Infof("Finished %d iterations: %d infosets, average utility %.5f",
		t.state.Iteration, t.store.Len(), t.state.AverageUtility())
	return nil
}

type iterationResult struct {
	updates      *Updates
	utility      float64
	deals        int
	nodesVisited int64
}

func (t *Trainer) runBatch(ctx context.Context, first, n int) error {
	results := make([]iterationResult, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.params.workers())
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := t.runIteration(first + i)
			if err != nil {
				return errors.Wrapf(err, "iteration %d", first+i)
			}

			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// Merge in iteration order so that the result does not depend on
	// how walks were scheduled.
	merged := results[0].updates
	for i, result := range results[1:] {
		if err := merged.Merge(result.updates); err != nil {
			return errors.Wrapf(err, "merging iteration %d", first+i+1)
		}
	}

	if err := t.store.Commit(merged); err != nil {
		return errors.Wrapf(err, "committing iterations [%d, %d)", first, first+n)
	}

	for _, result := range results {
		t.state.UtilitySum += result.utility
		t.state.DealsEvaluated += result.deals
		t.nodesVisited += result.nodesVisited
	}

	t.state.Iteration += n
	return nil
}

func (t *Trainer) runIteration(iter int) (iterationResult, error) {
	rng := sampling.IterationRand(t.state.Seed, iter)
	walker := NewWalker(t.game, t.store, t.params.Prune)
	updates := NewUpdates()

	deals := t.allDeals
	if t.params.Mode != ModeFullEnumeration {
		deals = []Deal{t.deals.Sample(rng)}
	}

	var utility float64
	for _, d := range deals {
		var ev float64
		var err error
		if t.params.Mode == ModeExternalSampling {
			ev, err = walker.WalkSampled(d, iter%2, rng, updates)
		} else {
			ev, err = walker.Walk(d, updates)
		}

		if err != nil {
			return iterationResult{}, err
		}

		utility += ev
	}

	return iterationResult{
		updates:      updates,
		utility:      utility,
		deals:        len(deals),
		nodesVisited: walker.NodesVisited(),
	}, nil
}

func (t *Trainer) reportProgress(start time.Time) {
	p := Progress{
		Iteration:      t.state.Iteration,
		Iterations:     t.params.Iterations,
		InfoSets:       t.store.Len(),
		NodesVisited:   t.nodesVisited,
		AverageUtility: t.state.AverageUtility(),
		Elapsed:        t.clock.Since(start),
	}

	glog.V(1).Infof("[iter=%d/%d] %d infosets, %d nodes, average utility %.5f (%v)",
		p.Iteration, p.Iterations, p.InfoSets, p.NodesVisited, p.AverageUtility, p.Elapsed)
	if t.progress != nil {
		t.progress(p)
	}
}
