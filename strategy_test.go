package cfr

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoSet_StrategiesAreDistributions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		n := 1 + rng.Intn(4)
		is := newInfoSet(n)
		for j := 0; j < n; j++ {
			is.RegretSum[j] = 10 * rng.NormFloat64()
			is.StrategySum[j] = 10 * rng.Float64()
		}

		for _, strat := range [][]float64{is.CurrentStrategy(), is.AverageStrategy()} {
			var total float64
			for _, p := range strat {
				assert.True(t, p >= 0 && p <= 1, "%v", strat)
				total += p
			}

			assert.InDelta(t, 1.0, total, 1e-9)
		}
	}
}

func TestInfoSet_NonPositiveRegretsAreUniform(t *testing.T) {
	for _, regrets := range [][]float64{
		{0, 0},
		{-1, -2, -3},
		{0, -5, 0},
	} {
		is := &InfoSet{RegretSum: regrets, StrategySum: make([]float64, len(regrets))}
		uniform := make([]float64, len(regrets))
		for i := range uniform {
			uniform[i] = 1.0 / float64(len(regrets))
		}

		assert.Equal(t, uniform, is.CurrentStrategy())
		assert.Equal(t, uniform, is.AverageStrategy())
	}
}

func TestInfoSet_RegretMatching(t *testing.T) {
	is := &InfoSet{
		RegretSum:   []float64{3, -2, 1},
		StrategySum: []float64{1, 1, 2},
	}

	assert.Equal(t, []float64{0.75, 0, 0.25}, is.CurrentStrategy())
	assert.Equal(t, []float64{0.25, 0.25, 0.5}, is.AverageStrategy())
	// The sums themselves are never modified.
	assert.Equal(t, []float64{3, -2, 1}, is.RegretSum)
}
