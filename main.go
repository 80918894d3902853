package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/sergev/quirkbot/commands"
	"github.com/sergev/quirkbot/dispatch"
	"github.com/sergev/quirkbot/internal/config"
	"github.com/sergev/quirkbot/internal/logging"
	"github.com/sergev/quirkbot/lexer"
)

type options struct {
	configPath string
	prefix     string
	debug      bool
	seed       uint64
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "quirkbot [message...]",
		Short: "Answer prefixed chat commands such as >roll 2d6",
		Long: `quirkbot reads chat messages and answers the ones that start with the
command prefix. Other messages are echoed back unchanged.

Commands:
  roll  - roll dice, e.g. >roll 3d6+2
  calc  - add and subtract numbers, e.g. >calc 1.5 - 2
  pick  - choose one of several options, e.g. >pick tea "hot cocoa"
  help  - list commands or show the usage of one

With message arguments each one is answered on its own line.
Without arguments quirkbot runs an interactive console.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			d, err := newDispatcher(cfg, opts.seed, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if len(args) > 0 {
				out := cmd.OutOrStdout()
				for _, msg := range args {
					fmt.Fprintln(out, d.Dispatch(msg))
				}
				return nil
			}
			return runREPL(d, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (.toml, .yaml or .yml)")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "command prefix (overrides the config file)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log every dispatch stage to stderr")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed for reproducible rolls (0 picks one)")
	return cmd
}

func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	if cmd.Flags().Changed("prefix") {
		cfg.Prefix = opts.prefix
	}
	if opts.debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newDispatcher(cfg *config.Config, seed uint64, logw io.Writer) (*dispatch.Dispatcher, error) {
	logger, err := logging.New(logw, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	limits := commands.RollLimits{MaxDice: cfg.Roll.MaxDice, MaxFaces: cfg.Roll.MaxFaces}

	reg, err := dispatch.NewRegistry(commands.Standard(rng, limits)...)
	if err != nil {
		return nil, err
	}
	lx := lexer.Default(lexer.WithLogger(logger.With("component", "lexer")))
	return dispatch.New(cfg.Prefix, reg,
		dispatch.WithLogger(logger.With("component", "dispatch")),
		dispatch.WithLexer(lx),
	)
}
