package cfr

import (
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
)

// LoadStore reads a Store previously written with MarshalTo.
func LoadStore(r io.Reader) (*Store, error) {
	dec := gob.NewDecoder(r)
	var nInfoSets int
	if err := dec.Decode(&nInfoSets); err != nil {
		return nil, errors.Wrap(err, "decoding store size")
	}

	store := &Store{infoSets: make(map[string]*InfoSet, nInfoSets)}
	for i := 0; i < nInfoSets; i++ {
		var key string
		if err := dec.Decode(&key); err != nil {
			return nil, errors.Wrapf(err, "decoding key %d", i)
		}

		var is InfoSet
		if err := dec.Decode(&is); err != nil {
			return nil, errors.Wrapf(err, "decoding info set %q", key)
		}

		if len(is.RegretSum) != len(is.StrategySum) {
			return nil, errors.Errorf("info set %q has %d regrets but %d strategy weights",
				key, len(is.RegretSum), len(is.StrategySum))
		}

		store.infoSets[key] = &is
	}

	return store, nil
}

// MarshalTo writes the store to w in a form that LoadStore can read.
// Keys are written in sorted order so the output is deterministic.
func (s *Store) MarshalTo(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(len(s.infoSets)); err != nil {
		return err
	}

	for _, key := range s.Keys() {
		if err := enc.Encode(key); err != nil {
			return err
		}

		if err := enc.Encode(s.infoSets[key]); err != nil {
			return errors.Wrapf(err, "encoding info set %q", key)
		}
	}

	return nil
}
