package cfr

// floatSlicePool recycles the per-node scratch vectors allocated during a
// walk. Slices returned by alloc are zeroed. It is not safe for
// concurrent use; each Walker owns one.
type floatSlicePool struct {
	pool [][]float64
}

func (p *floatSlicePool) alloc(n int) []float64 {
	if p == nil {
		return make([]float64, n)
	}

	if m := len(p.pool); m > 0 {
		next := p.pool[m-1]
		p.pool = p.pool[:m-1]
		if cap(next) >= n {
			next = next[:n]
			for i := range next {
				next[i] = 0
			}
			return next
		}
	}

	return make([]float64, n)
}

func (p *floatSlicePool) free(s []float64) {
	if p != nil && cap(s) > 0 {
		p.pool = append(p.pool, s[:0])
	}
}
