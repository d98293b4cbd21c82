package cfr

import (
	"runtime"
)

// Mode selects how each training iteration explores the game tree.
type Mode int

const (
	// ModeVanilla walks the full tree of one uniformly drawn deal per iteration.
	ModeVanilla Mode = iota
	// ModeFullEnumeration walks the full tree of every deal in each iteration.
	ModeFullEnumeration
	// ModeExternalSampling walks one uniformly drawn deal per iteration,
	// exploring every action of the updating player and a single sampled
	// action of the opponent.
	ModeExternalSampling
)

var modeNames = [...]string{
	"vanilla",
	"full",
	"external",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}

	return modeNames[m]
}

// ParseMode returns the Mode with the given name.
func ParseMode(name string) (Mode, error) {
	for i, s := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}

	return 0, &ConfigurationError{Field: "mode", Reason: "must be one of vanilla, full, external; got " + name}
}

// Params are the configuration options for a training run.
type Params struct {
	Mode       Mode
	Iterations int
	// Prune skips subtrees that neither player can reach this iteration.
	// It has no effect in ModeExternalSampling.
	Prune bool
	// BatchSize is the number of iterations that walk the same frozen
	// snapshot of the store before their updates are committed.
	// Zero means 1: every iteration sees the previous one's updates.
	BatchSize int
	// Workers bounds the number of concurrent walks within a batch.
	// Zero means runtime.NumCPU().
	Workers int
	// Seed is the master seed from which every iteration's random source
	// is derived. Zero picks a seed from the clock.
	Seed int64
	// LogEvery controls how often progress is logged and reported,
	// in iterations. Zero means Iterations/10.
	LogEvery int
}

// DefaultParams returns the parameters for a serial vanilla CFR run.
func DefaultParams(iterations int) Params {
	return Params{
		Mode:       ModeVanilla,
		Iterations: iterations,
		BatchSize:  1,
		Workers:    1,
	}
}

// Validate returns a *ConfigurationError if the parameters cannot be used.
func (p Params) Validate() error {
	if p.Iterations <= 0 {
		return &ConfigurationError{Field: "iterations", Reason: "must be > 0"}
	}
	if p.Mode < ModeVanilla || p.Mode > ModeExternalSampling {
		return &ConfigurationError{Field: "mode", Reason: "is not a known mode"}
	}
	if p.BatchSize < 0 {
		return &ConfigurationError{Field: "batch_size", Reason: "cannot be negative"}
	}
	if p.Workers < 0 {
		return &ConfigurationError{Field: "workers", Reason: "cannot be negative"}
	}
	if p.LogEvery < 0 {
		return &ConfigurationError{Field: "log_every", Reason: "cannot be negative"}
	}

	return nil
}

func (p Params) batchSize() int {
	if p.BatchSize <= 0 {
		return 1
	}

	return p.BatchSize
}

func (p Params) workers() int {
	if p.Workers <= 0 {
		return runtime.NumCPU()
	}

	return p.Workers
}

func (p Params) logEvery() int {
	if p.LogEvery > 0 {
		return p.LogEvery
	}
	if n := p.Iterations / 10; n > 0 {
		return n
	}

	return 1
}
