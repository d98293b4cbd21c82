package cfr

import (
	"github.com/timpalpant/cfrsolve/internal/f64"
)

// InfoSet holds the accumulated regrets and strategy weights for one
// information set. Both vectors have one entry per legal action.
type InfoSet struct {
	RegretSum   []float64
	StrategySum []float64
}

func newInfoSet(nActions int) *InfoSet {
	return &InfoSet{
		RegretSum:   make([]float64, nActions),
		StrategySum: make([]float64, nActions),
	}
}

// NumActions returns the number of legal actions at this info set.
func (is *InfoSet) NumActions() int {
	return len(is.RegretSum)
}

// Accumulate adds the given deltas element-wise into the regret and
// strategy sums. Accumulation is commutative, so deltas may be applied
// in any order.
func (is *InfoSet) Accumulate(regretDelta, strategyDelta []float64) {
	f64.Add(is.RegretSum, regretDelta)
	f64.Add(is.StrategySum, strategyDelta)
}

// CurrentStrategy returns the regret-matching strategy for is: positive
// regrets normalized to sum to 1, or the uniform distribution if no
// action has positive regret.
func (is *InfoSet) CurrentStrategy() []float64 {
	strat := make([]float64, is.NumActions())
	regretMatching(strat, is.RegretSum)
	return strat
}

// AverageStrategy returns the normalized sum of all strategies played at
// is, which is what converges to an equilibrium.
func (is *InfoSet) AverageStrategy() []float64 {
	strat := make([]float64, is.NumActions())
	regretMatching(strat, is.StrategySum)
	return strat
}

// regretMatching writes the normalized positive part of v into dst.
func regretMatching(dst, v []float64) {
	copy(dst, v)
	makePositive(dst)
	total := f64.Sum(dst)
	if total > 0 {
		f64.ScalUnitary(1.0/total, dst)
	} else {
		f64.Fill(1.0/float64(len(dst)), dst)
	}
}

func uniformDist(dst []float64) {
	f64.Fill(1.0/float64(len(dst)), dst)
}

func makePositive(v []float64) {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0.0
		}
	}
}
