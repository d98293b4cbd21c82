package cfr

import (
	"sort"

	"github.com/golang/glog"
)

// Store maps info set keys to their accumulated regrets and strategies.
// Entries are created lazily on first commit and are never removed.
//
// A Store is not safe for concurrent mutation. During training, walks
// only read it, and all updates are committed between batches.
type Store struct {
	infoSets map[string]*InfoSet
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		infoSets: make(map[string]*InfoSet),
	}
}

// Lookup returns the entry for key without creating one. It returns nil
// if the key has never been committed, and an *ArityMismatchError if the
// stored entry's width differs from nActions.
func (s *Store) Lookup(key string, nActions int) (*InfoSet, error) {
	is, ok := s.infoSets[key]
	if !ok {
		return nil, nil
	}

	if is.NumActions() != nActions {
		return nil, &ArityMismatchError{Key: key, Have: is.NumActions(), Want: nActions}
	}

	return is, nil
}

// GetOrCreate returns the entry for key, creating a zero entry of width
// nActions if none exists.
func (s *Store) GetOrCreate(key string, nActions int) (*InfoSet, error) {
	is, err := s.Lookup(key, nActions)
	if err != nil {
		return nil, err
	} else if is != nil {
		return is, nil
	}

	is = newInfoSet(nActions)
	s.infoSets[key] = is
	if len(s.infoSets)%100000 == 0 {
		glog.V(2).Infof("Store has %d infosets", len(s.infoSets))
	}

	return is, nil
}

// Commit folds all of the deltas collected by a walk into the store.
// Deltas are validated before any entry is modified, so a failed commit
// leaves the store unchanged.
func (s *Store) Commit(u *Updates) error {
	for key, delta := range u.deltas {
		if _, err := s.Lookup(key, delta.NumActions()); err != nil {
			return err
		}
	}

	for key, delta := range u.deltas {
		is, err := s.GetOrCreate(key, delta.NumActions())
		if err != nil {
			return err
		}

		is.Accumulate(delta.RegretSum, delta.StrategySum)
	}

	return nil
}

// Get returns the entry for key, or nil if it does not exist.
func (s *Store) Get(key string) *InfoSet {
	return s.infoSets[key]
}

// Len returns the number of info sets in the store.
func (s *Store) Len() int {
	return len(s.infoSets)
}

// Keys returns all info set keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.infoSets))
	for key := range s.infoSets {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	result := &Store{infoSets: make(map[string]*InfoSet, len(s.infoSets))}
	for key, is := range s.infoSets {
		result.infoSets[key] = &InfoSet{
			RegretSum:   append([]float64(nil), is.RegretSum...),
			StrategySum: append([]float64(nil), is.StrategySum...),
		}
	}

	return result
}

// Put replaces the entry for key. It is used when restoring a store
// from persistent storage.
func (s *Store) Put(key string, is *InfoSet) {
	s.infoSets[key] = is
}
