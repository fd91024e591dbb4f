package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/worklens-org/worklens/dataset"
	"github.com/worklens-org/worklens/internal/config"
	"github.com/worklens-org/worklens/internal/printer"
	"github.com/worklens-org/worklens/landscape"
	"github.com/worklens-org/worklens/schema"
)

var (
	version string
	commit  string
	date    string
)

// Global flags.
var (
	cfgPath string
	dataDir string
	offline bool
	seed    int64
	timeout string
	verbose bool
)

// Session state built once per invocation by the root PersistentPreRunE.
var (
	logger *zap.Logger
	cfg    config.Config
	loader *dataset.Loader
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "worklens",
	Short: "WorkLens - explore the task automation landscape",
	Long: `WorkLens joins worker automation-desire surveys with expert capability
ratings, one row per occupational task, and places every task in a
desire/capability quadrant.

The tables come from the published WORKBank dataset. When no source is
reachable, a seeded synthetic dataset of the same shape stands in, so
every command keeps working offline.`,
	Version:           version,
	PersistentPreRunE: initSession,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no subcommand is specified, show help
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Silence Cobra's default error and usage printing; the printer package
	// prints formatted colored errors directly
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return printer.Error("Invalid arguments", err.Error(), []string{
			fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()),
		})
	})
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "Path to worklens.yml (default: built-in settings)")
	pf.StringVar(&dataDir, "data", "", "Read the source tables from a local directory")
	pf.BoolVar(&offline, "offline", false, "Skip all sources and use synthetic tables")
	pf.Int64Var(&seed, "seed", 1, "Seed for the synthetic tables")
	pf.StringVar(&timeout, "timeout", "", "Fetch timeout per table, e.g. 30s")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// initSession loads the configuration, applies flag overrides, and prepares
// the logger and loader every data command shares.
func initSession(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	var err error
	logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err = config.Load(cfgPath)
	if err != nil {
		return printer.Error("Configuration rejected", err.Error(), []string{
			"Check the file passed with --config",
			"Check WORKLENS_* environment variables",
		})
	}

	flags := cmd.Root().PersistentFlags()
	if flags.Changed("data") {
		cfg.Dataset.Dir = dataDir
	}
	if flags.Changed("offline") {
		cfg.Dataset.Offline = offline
	}
	if flags.Changed("seed") {
		cfg.Synthetic.Seed = seed
	}
	if flags.Changed("timeout") {
		cfg.Dataset.Timeout = timeout
	}
	if err := cfg.Validate(); err != nil {
		return printer.Error("Configuration rejected", err.Error(), nil)
	}

	loader = dataset.NewLoader(cfg.Registry(), append(cfg.LoaderOptions(), dataset.WithLogger(logger))...)
	return nil
}

// buildView loads the session tables and derives the full landscape view.
func buildView(ctx context.Context) (landscape.View, error) {
	tables, err := loader.Load(ctx)
	if err != nil {
		return landscape.View{}, describeError(err)
	}
	if tables.Source == dataset.SourceSynthetic && !cfg.Dataset.Offline {
		printer.Warning("no source reachable; showing synthetic tables (seed %d)\n", cfg.Synthetic.Seed)
	}

	ls, err := landscape.Derive(tables, cfg.Params())
	if err != nil {
		return landscape.View{}, describeError(err)
	}
	return ls.All(), nil
}

// describeError prints a pipeline failure with its structured context and
// returns the short error Cobra sees.
func describeError(err error) error {
	var dup *landscape.DuplicateKeyError
	if errors.As(err, &dup) {
		return printer.ErrorWithContext("Duplicate task keys",
			"The task table must identify every task exactly once.",
			map[string]string{"keys": strings.Join(dup.Keys, ", ")},
			[]string{"Deduplicate the task rows in the source data"})
	}

	var mismatch *schema.MismatchError
	if errors.As(err, &mismatch) {
		return printer.ErrorWithContext("Schema mismatch",
			"A source table does not carry the columns the pipeline needs.",
			map[string]string{
				"table":   mismatch.Table,
				"missing": strings.Join(mismatch.Missing, ", "),
			},
			nil)
	}

	var invalid *landscape.InvalidFilterError
	if errors.As(err, &invalid) {
		return printer.Error("Invalid filter", invalid.Error(), nil)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return printer.Error("Canceled", err.Error(), nil)
	}

	return printer.Error("Command failed", err.Error(), nil)
}
