package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/milden6/gaddag/internal/config"
)

// cli holds what every subcommand shares once the root flags are parsed.
type cli struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "gaddag",
		Short: "Build and query GADDAG word indexes",
		Long: `gaddag compiles a word list into a compact GADDAG automaton and answers
membership, prefix, suffix, substring and hook queries against it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(
		newBuildCmd(c),
		newQueryCmd(c),
		newDumpCmd(c),
		newServeCmd(c),
	)
	return root
}

func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}

	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logger
	return nil
}
