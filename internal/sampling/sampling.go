// Package sampling holds the random-draw primitives shared by the sampled
// walkers and deal sources.
package sampling

import (
	"fmt"
	"math/rand"
)

const eps = 1e-6

// SampleOne returns the index selected from the probability vector pv by
// the uniform variate x in [0, 1).
func SampleOne(pv []float64, x float64) int {
	var cumProb float64
	for i, p := range pv {
		cumProb += p
		if cumProb > x {
			return i
		}
	}

	if cumProb < 1.0-eps { // Leave room for floating point error.
		panic(fmt.Errorf("probability distribution does not sum to 1: %v", pv))
	}

	return len(pv) - 1
}

// IterationRand returns the random source for one training iteration.
// Sources for distinct iterations are independent of each other, so
// concurrent walks never share a generator, and the same (seed, iter)
// pair always replays the same stream.
func IterationRand(seed int64, iter int) *rand.Rand {
	return rand.New(rand.NewSource(seed + int64(iter)))
}
