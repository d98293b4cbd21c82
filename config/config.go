// Package config loads training runs described in HCL files.
//
// A config file looks like:
//
//	game = "leduc"
//
//	training {
//	  mode       = "external"
//	  iterations = 100000
//	  batch_size = 16
//	  workers    = 4
//	  seed       = 42
//	}
//
//	output {
//	  save       = "leduc.gob"
//	  checkpoint = "leduc.ldb"
//	}
package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"

	"github.com/timpalpant/cfrsolve"
	"github.com/timpalpant/cfrsolve/games"
)

// Config is the complete description of a training run.
type Config struct {
	Game     string    `hcl:"game"`
	Training *Training `hcl:"training,block"`
	Output   *Output   `hcl:"output,block"`
}

// Training holds the CFR parameters. Omitted values take their defaults.
type Training struct {
	Mode       string `hcl:"mode,optional"`
	Iterations int    `hcl:"iterations,optional"`
	Prune      bool   `hcl:"prune,optional"`
	BatchSize  int    `hcl:"batch_size,optional"`
	Workers    int    `hcl:"workers,optional"`
	Seed       int64  `hcl:"seed,optional"`
	LogEvery   int    `hcl:"log_every,optional"`
}

// Output controls where results are written.
type Output struct {
	// Save is the path of a gob snapshot of the final store.
	Save string `hcl:"save,optional"`
	// Checkpoint is the path of a LevelDB checkpoint directory.
	Checkpoint string `hcl:"checkpoint,optional"`
}

// Load reads and decodes the HCL config file at filename.
func Load(filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	return decode(file.Body)
}

// Parse decodes an HCL config from src. filename is only used in
// diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("failed to parse HCL: %s", diags.Error())
	}

	return decode(file.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var config Config
	if diags := gohcl.DecodeBody(body, nil, &config); diags.HasErrors() {
		return nil, errors.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Training == nil {
		config.Training = &Training{}
	}
	if config.Output == nil {
		config.Output = &Output{}
	}

	return &config, nil
}

// Params returns the training parameters for the configured game.
// Omitted iterations default to the game's registered iteration count.
func (c *Config) Params() (cfr.Params, error) {
	entry, err := games.Lookup(c.Game)
	if err != nil {
		return cfr.Params{}, err
	}

	params := cfr.DefaultParams(entry.DefaultIterations)
	t := c.Training
	if t.Mode != "" {
		mode, err := cfr.ParseMode(t.Mode)
		if err != nil {
			return cfr.Params{}, err
		}

		params.Mode = mode
	}
	if t.Iterations != 0 {
		params.Iterations = t.Iterations
	}
	if t.BatchSize != 0 {
		params.BatchSize = t.BatchSize
	}
	if t.Workers != 0 {
		params.Workers = t.Workers
	}

	params.Prune = t.Prune
	params.Seed = t.Seed
	params.LogEvery = t.LogEvery
	if err := params.Validate(); err != nil {
		return cfr.Params{}, err
	}

	return params, nil
}
