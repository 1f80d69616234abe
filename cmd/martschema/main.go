// Package main provides the martschema command line.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tordrt/martschema"
	"github.com/tordrt/martschema/internal/config"
	"github.com/tordrt/martschema/internal/logging"
	"github.com/tordrt/martschema/internal/schema"
)

// Version is set at build time.
var Version = "dev"

// app holds what PersistentPreRunE resolves for the subcommands.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
	cleanup func()
}

func (a *app) options() *martschema.Options {
	return &martschema.Options{
		SchemaFile:      a.cfg.SchemaFile,
		MartPrefix:      a.cfg.MartPrefix,
		DimensionMarker: a.cfg.DimensionMarker,
		Logger:          a.logger,
	}
}

func (a *app) close() {
	if a.cleanup != nil {
		a.cleanup()
	}
}

// NewRootCmd creates the root command and its subcommands.
func NewRootCmd() *cobra.Command {
	a := &app{}
	return newRootCmd(a)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "martschema",
		Short: "Describe dbt mart tables for AI agents",
		Long: `martschema reads a dbt manifest and the relationship tests in models/marts/schema.yml
and describes every mart_ table (columns, foreign keys, unique keys) in a compact
report an SQL agent can read before writing queries.`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger, cleanup, err := logging.Setup(cmd.ErrOrStderr(), cfg.LogLevel, cfg.SeqURL)
			if err != nil {
				return err
			}

			a.cfg, a.logger, a.cleanup = cfg, logger, cleanup
			logger.Debug("configuration loaded",
				"config_file", cfg.FileUsed,
				"manifest", cfg.Manifest,
				"mart_prefix", cfg.MartPrefix)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Config file (default: martschema.yaml in the working directory)")
	flags.String("manifest", config.DefaultManifest, "Path to the dbt manifest.json")
	flags.String("schema-file", "", "Path to the marts schema.yml (default: <project>/models/marts/schema.yml)")
	flags.String("mart-prefix", schema.DefaultMartPrefix, "Name prefix of the tables to describe")
	flags.String("dimension-marker", schema.DefaultDimensionMarker, "Substring that marks a table as a dimension")
	flags.String("database-url", "", "Warehouse URL (duckdb://, sqlite://, postgres://, mysql://)")
	flags.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	flags.String("seq-url", "", "Seq server to ship logs to")

	rootCmd.AddCommand(
		newDescribeCmd(a),
		newToolCmd(a),
		newQueryCmd(a),
		newCheckCmd(a),
		newPromptCmd(),
		newAnswerCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// no config needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "martschema %s\n", Version)
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	a.close()
	stop()

	if err != nil {
		os.Exit(1)
	}
}
