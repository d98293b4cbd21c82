package cfr

// Updates collects the regret and strategy deltas produced by one or more
// walks. It is owned by a single walk at a time and is only folded into
// a Store once the walk has completed successfully.
type Updates struct {
	deltas map[string]*InfoSet
}

// NewUpdates returns an empty set of updates.
func NewUpdates() *Updates {
	return &Updates{
		deltas: make(map[string]*InfoSet),
	}
}

// Add accumulates the deltas for key. The slices are copied, so the
// caller may reuse them.
func (u *Updates) Add(key string, regretDelta, strategyDelta []float64) error {
	delta, ok := u.deltas[key]
	if !ok {
		delta = newInfoSet(len(regretDelta))
		u.deltas[key] = delta
	} else if delta.NumActions() != len(regretDelta) {
		return &ArityMismatchError{Key: key, Have: delta.NumActions(), Want: len(regretDelta)}
	}

	delta.Accumulate(regretDelta, strategyDelta)
	return nil
}

// Merge adds all of the deltas in other into u.
func (u *Updates) Merge(other *Updates) error {
	for key, delta := range other.deltas {
		if err := u.Add(key, delta.RegretSum, delta.StrategySum); err != nil {
			return err
		}
	}

	return nil
}

// Get returns the accumulated delta for key, or nil.
func (u *Updates) Get(key string) *InfoSet {
	return u.deltas[key]
}

// Len returns the number of distinct info sets updated.
func (u *Updates) Len() int {
	return len(u.deltas)
}
