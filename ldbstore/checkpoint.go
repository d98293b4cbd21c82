package ldbstore

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/timpalpant/cfrsolve"
)

const (
	regretPrefix      = "rs:"
	strategySumPrefix = "ss:"
	stateKey          = "state"
)

// Checkpoint stores a cfr.Store together with the cfr.State of the
// trainer that produced it.
type Checkpoint struct {
	db    *leveldb.DB
	rOpts *opt.ReadOptions
	wOpts *opt.WriteOptions
}

// Open opens (or creates) a checkpoint database in the directory at path.
func Open(path string, opts *opt.Options) (*Checkpoint, error) {
	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening checkpoint %s", path)
	}

	return New(db), nil
}

// New returns a Checkpoint backed by an already opened database.
func New(db *leveldb.DB) *Checkpoint {
	return &Checkpoint{
		db:    db,
		wOpts: &opt.WriteOptions{Sync: true},
	}
}

// Close implements io.Closer.
func (c *Checkpoint) Close() error {
	return c.db.Close()
}

// Exists reports whether a complete checkpoint has been saved.
func (c *Checkpoint) Exists() (bool, error) {
	return c.db.Has([]byte(stateKey), c.rOpts)
}

// Save writes store and state in a single atomic batch, replacing any
// previously saved values.
func (c *Checkpoint) Save(store *cfr.Store, state cfr.State) error {
	batch := new(leveldb.Batch)
	for _, key := range store.Keys() {
		is := store.Get(key)
		batch.Put([]byte(regretPrefix+key), encodeF64s(is.RegretSum))
		batch.Put([]byte(strategySumPrefix+key), encodeF64s(is.StrategySum))
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return errors.Wrap(err, "encoding trainer state")
	}

	batch.Put([]byte(stateKey), buf.Bytes())
	if err := c.db.Write(batch, c.wOpts); err != nil {
		return errors.Wrap(err, "writing checkpoint")
	}

	glog.V(1).Infof("Saved checkpoint at iteration %d with %d infosets",
		state.Iteration, store.Len())
	return nil
}

// Load reads back the most recently saved store and state.
func (c *Checkpoint) Load() (*cfr.Store, cfr.State, error) {
	var state cfr.State
	buf, err := c.db.Get([]byte(stateKey), c.rOpts)
	if err != nil {
		return nil, state, errors.Wrap(err, "reading trainer state")
	}

	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&state); err != nil {
		return nil, state, errors.Wrap(err, "decoding trainer state")
	}

	store := cfr.NewStore()
	iter := c.db.NewIterator(util.BytesPrefix([]byte(regretPrefix)), c.rOpts)
	defer iter.Release()
	for iter.Next() {
		key := string(iter.Key()[len(regretPrefix):])
		regretSum, err := decodeF64s(iter.Value())
		if err != nil {
			return nil, state, errors.Wrapf(err, "decoding regrets of %q", key)
		}

		strategySum, err := c.getFloatSlice(strategySumPrefix + key)
		if err != nil {
			return nil, state, errors.Wrapf(err, "decoding strategy sum of %q", key)
		}

		if len(strategySum) != len(regretSum) {
			return nil, state, &cfr.ArityMismatchError{
				Key:  key,
				Have: len(strategySum),
				Want: len(regretSum),
			}
		}

		store.Put(key, &cfr.InfoSet{
			RegretSum:   regretSum,
			StrategySum: strategySum,
		})
	}

	if err := iter.Error(); err != nil {
		return nil, state, errors.Wrap(err, "iterating checkpoint")
	}

	glog.V(1).Infof("Loaded checkpoint at iteration %d with %d infosets",
		state.Iteration, store.Len())
	return store, state, nil
}

func (c *Checkpoint) getFloatSlice(key string) ([]float64, error) {
	buf, err := c.db.Get([]byte(key), c.rOpts)
	if err != nil {
		return nil, err
	}

	return decodeF64s(buf)
}

func encodeF64s(v []float64) []byte {
	result := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(result[8*i:8*(i+1)], math.Float64bits(x))
	}

	return result
}

func decodeF64s(buf []byte) ([]float64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("invalid encoded buffer of floats has len %d", len(buf))
	}

	n := len(buf) / 8
	result := make([]float64, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint64(buf[8*i : 8*(i+1)])
		result[i] = math.Float64frombits(bits)
	}

	return result, nil
}
