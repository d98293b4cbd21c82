// Command cfr solves the bundled poker games with counterfactual regret
// minimization and prints the resulting average strategy.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/timpalpant/cfrsolve"
	"github.com/timpalpant/cfrsolve/config"
	"github.com/timpalpant/cfrsolve/games"
	"github.com/timpalpant/cfrsolve/ldbstore"
	"github.com/timpalpant/cfrsolve/tree"
)

var cli struct {
	Verbosity int `help:"glog verbosity level" short:"v" default:"0"`

	Train TrainCmd `cmd:"" help:"train a strategy and print it"`
	Count CountCmd `cmd:"" help:"count the nodes and info sets of a game"`
}

type TrainCmd struct {
	Config     string `help:"HCL file describing the run; replaces the training flags" type:"existingfile"`
	Game       string `help:"game to solve" enum:"kuhn,leduc" default:"kuhn"`
	Iterations int    `help:"number of iterations (0 uses the game's default)" default:"0"`
	Mode       string `help:"traversal mode (vanilla|full|external)" enum:"vanilla,full,external" default:"vanilla"`
	Prune      bool   `help:"skip subtrees that neither player reaches"`
	Seed       int64  `help:"random seed; 0 uses time seed" default:"0"`
	BatchSize  int    `help:"iterations that share one snapshot of the store" default:"1"`
	Workers    int    `help:"concurrent walks per batch (0 uses all CPUs)" default:"1"`
	LogEvery   int    `help:"report progress every N iterations (0 => iterations/10)" default:"0"`
	Save       string `help:"path to write a gob snapshot of the final store"`
	Checkpoint string `help:"LevelDB directory to checkpoint to and resume from"`
	Quiet      bool   `help:"do not print the strategy table"`
}

type CountCmd struct {
	Game string `help:"game to count" enum:"kuhn,leduc" default:"kuhn"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("cfr"),
		kong.Description("Counterfactual regret minimization for two-player poker games"),
		kong.UsageOnError(),
	)

	setupLogging(cli.Verbosity)
	defer glog.Flush()

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var err error
	switch ctx.Command() {
	case "train":
		err = cli.Train.Run(runCtx)
	case "count":
		err = cli.Count.Run()
	default:
		err = errors.Errorf("unknown command: %s", ctx.Command())
	}

	if err != nil {
		glog.Flush()
		ctx.FatalIfErrorf(err)
	}
}

func setupLogging(verbosity int) {
	flag.Set("logtostderr", "true")
	flag.Set("v", strconv.Itoa(verbosity))
	// glog complains if it logs before flags have been parsed.
	flag.CommandLine.Parse(nil)
}

func (cmd *TrainCmd) Run(ctx context.Context) error {
	gameName, params, output, err := cmd.resolve()
	if err != nil {
		return err
	}

	entry, err := games.Lookup(gameName)
	if err != nil {
		return err
	}

	game := entry.New()
	var opts []cfr.Option
	var checkpoint *ldbstore.Checkpoint
	if output.Checkpoint != "" {
		checkpoint, err = ldbstore.Open(output.Checkpoint, &opt.Options{})
		if err != nil {
			return err
		}
		defer checkpoint.Close()

		resumeOpts, err := resume(checkpoint)
		if err != nil {
			return err
		}

		opts = append(opts, resumeOpts...)
	}

	// Progress is reported between batches, when the store is not being
	// walked, so it is safe to checkpoint from the callback.
	var trainer *cfr.Trainer
	opts = append(opts, cfr.WithProgress(func(p cfr.Progress) {
		if checkpoint == nil {
			return
		}

		if err := checkpoint.Save(trainer.Store(), trainer.State()); err != nil {
			glog.Errorf("Failed to save checkpoint at iteration %d: %v", p.Iteration, err)
		}
	}))

	trainer, err = cfr.NewTrainer(game, params, opts...)
	if err != nil {
		return err
	}

	if err := trainer.Run(ctx); err != nil {
		return errors.Wrap(err, "training failed")
	}

	if output.Save != "" {
		if err := saveStore(output.Save, trainer.Store()); err != nil {
			return err
		}
	}

	profile, err := cfr.ExtractStrategy(game, trainer.Store())
	if err != nil {
		return err
	}

	ev, err := tree.ExpectedValue(game, profile.Policy)
	if err != nil {
		return err
	}

	fmt.Printf("Average game value for player 0: %.5f\n", trainer.State().AverageUtility())
	fmt.Printf("Value of the average strategy:   %.5f\n", ev)
	if !cmd.Quiet {
		for _, key := range profile.Keys() {
			fmt.Printf("%-12s %v\n", key, profile.Get(key))
		}
	}

	return nil
}

// resolve returns the game, parameters and outputs of the run, either
// from the config file or from the command line flags.
func (cmd *TrainCmd) resolve() (string, cfr.Params, config.Output, error) {
	if cmd.Config != "" {
		c, err := config.Load(cmd.Config)
		if err != nil {
			return "", cfr.Params{}, config.Output{}, err
		}

		params, err := c.Params()
		if err != nil {
			return "", cfr.Params{}, config.Output{}, err
		}

		output := *c.Output
		if cmd.Save != "" {
			output.Save = cmd.Save
		}
		if cmd.Checkpoint != "" {
			output.Checkpoint = cmd.Checkpoint
		}

		return c.Game, params, output, nil
	}

	c := &config.Config{
		Game: cmd.Game,
		Training: &config.Training{
			Mode:       cmd.Mode,
			Iterations: cmd.Iterations,
			Prune:      cmd.Prune,
			BatchSize:  cmd.BatchSize,
			Workers:    cmd.Workers,
			Seed:       cmd.Seed,
			LogEvery:   cmd.LogEvery,
		},
	}

	params, err := c.Params()
	if err != nil {
		return "", cfr.Params{}, config.Output{}, err
	}

	// On the command line, zero workers means all CPUs.
	if cmd.Workers == 0 {
		params.Workers = 0
	}

	return cmd.Game, params, config.Output{Save: cmd.Save, Checkpoint: cmd.Checkpoint}, nil
}

func resume(checkpoint *ldbstore.Checkpoint) ([]cfr.Option, error) {
	exists, err := checkpoint.Exists()
	if err != nil || !exists {
		return nil, err
	}

	store, state, err := checkpoint.Load()
	if err != nil {
		return nil, err
	}

	glog.Infof("Resuming from iteration %d (seed=%d)", state.Iteration, state.Seed)
	return []cfr.Option{cfr.WithResume(store, state)}, nil
}

func saveStore(path string, store *cfr.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := store.MarshalTo(f); err != nil {
		return errors.Wrapf(err, "saving store to %s", path)
	}

	glog.Infof("Saved %d infosets to %s", store.Len(), path)
	return f.Close()
}

func (cmd *CountCmd) Run() error {
	entry, err := games.Lookup(cmd.Game)
	if err != nil {
		return err
	}

	game := entry.New()
	nNodes, err := tree.CountNodes(game)
	if err != nil {
		return err
	}

	nTerminal, err := tree.CountTerminalNodes(game)
	if err != nil {
		return err
	}

	nInfoSets, err := tree.CountInfoSets(game)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d deals, %d nodes, %d terminal nodes, %d info sets\n",
		cmd.Game, len(game.Deals().All()), nNodes, nTerminal, nInfoSets)
	return nil
}
