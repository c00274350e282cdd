package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	bloom "github.com/naivewong/dynbloom"
	"github.com/naivewong/dynbloom/internal/config"
	"github.com/naivewong/dynbloom/internal/logging"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "bloomctl",
		Short:         "Auto-scaling bloom filter tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "config file (yaml, json or toml)")
	pf.Uint64P("expected", "n", 1000, "expected elements per segment")
	pf.Float64P("fp-rate", "p", 0.01, "target false positive rate per segment")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.Bool("log-json", false, "log as JSON")

	root.AddCommand(
		newServeCommand(a),
		newLoadCommand(a),
		newBenchCommand(a),
	)
	return root
}

// newFilter builds a filter from the resolved configuration.
func (a *app) newFilter(opts ...bloom.Option) (*bloom.DynamicFilter, error) {
	opts = append([]bloom.Option{bloom.WithLogger(a.log.Named("bloom"))}, opts...)
	return bloom.New(a.cfg.Filter.ExpectedElements, a.cfg.Filter.FalsePositiveRate, opts...)
}

// exitError logs the error a command returned. Config and flag errors can
// fail before the configured logger exists; those go to a default one.
func (a *app) exitError(err error) {
	log := a.log
	if log == nil {
		var lerr error
		if log, lerr = logging.New(logging.Config{}); lerr != nil {
			log = zap.NewExample()
		}
	}
	log.Error("command failed", zap.Error(err))
	_ = log.Sync()
}
