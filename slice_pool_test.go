package cfr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFloatSlicePoolZeroesReusedSlices(t *testing.T) {
	pool := &floatSlicePool{}
	v := pool.alloc(3)
	v[0], v[1], v[2] = 1, 2, 3
	pool.free(v)

	w := pool.alloc(2)
	assert.Equal(t, []float64{0, 0}, w)

	x := pool.alloc(4)
	assert.Equal(t, []float64{0, 0, 0, 0}, x)
}

func TestNilFloatSlicePool(t *testing.T) {
	var pool *floatSlicePool
	v := pool.alloc(2)
	assert.Len(t, v, 2)
	pool.free(v)
}

func BenchmarkAllocFree(b *testing.B) {
	pool := &floatSlicePool{}
	for i := 0; i < b.N; i++ {
		v := pool.alloc(10)
		pool.free(v)
	}
}
