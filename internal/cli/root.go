// Package cli provides the rotfig command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/HamletTheHamster/rotation-percentiles/internal/catalog"
	"github.com/HamletTheHamster/rotation-percentiles/internal/cds"
	"github.com/HamletTheHamster/rotation-percentiles/internal/config"
	"github.com/HamletTheHamster/rotation-percentiles/internal/pipeline"
)

// Version is set at build time.
var Version = "0.1.0"

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "rotfig",
		Short: "Rotation-period figures for Kepler field stars",
		Long: `rotfig draws the rotation-period versus effective-temperature figures
comparing the LAMOST–McQuillan and California–Kepler Survey samples with the
standard and weakened magnetic braking model populations.

The model populations are read as Parquet or CSV (by extension). The
published populations are HDF5 tables under the key "sample"; convert each
once before the first run:

  python -c "import pandas as pd; pd.read_hdf('standard_population.h5', key='sample').to_parquet('standard_population.parquet')"
  python -c "import pandas as pd; pd.read_hdf('rocrit_population.h5', key='sample').to_parquet('rocrit_population.parquet')"`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./rotfig.yaml)")
	pf.String("data-dir", config.DefaultDataDir, "directory holding the input tables")
	pf.String("figures-dir", config.DefaultFiguresDir, "directory the figures are written to")
	pf.String("cache-dir", "", "download cache (default: <data-dir>/cache)")
	pf.String("logs-dir", config.DefaultLogsDir, "root of the dated run logs")
	pf.Uint64("seed", 0, "bootstrap seed, 0 for a random one")
	pf.StringSlice("formats", nil, "extra formats written next to each PDF (png, svg, ...)")
	pf.BoolP("verbose", "v", false, "debug logging")
	pf.String("note", "", "note appended to the run log directory name")

	rootCmd.AddCommand(newPercentilesCommand())
	rootCmd.AddCommand(newShiftedCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// getConfig retrieves the config from the command context.
func getConfig(ctx context.Context) (*config.Config, error) {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c, nil
	}
	return config.Load("", nil)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadDatasets opens an in-memory DuckDB and reads every input of a run.
// lamost selects the LAMOST file, which differs between the two figures.
func loadDatasets(
	ctx context.Context,
	cfg *config.Config,
	lamost string,
	logger *slog.Logger,
) (
	*pipeline.Datasets, error,
) {

	store, err := catalog.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	src := pipeline.Sources{
		CKS:       cfg.DataPath(cfg.Inputs.CKS),
		Lamost:    cfg.DataPath(lamost),
		McQuillan: cfg.DataPath(cfg.Inputs.McQuillan),
		Standard:  cfg.DataPath(cfg.Inputs.Standard),
		WMB:       cfg.DataPath(cfg.Inputs.Rocrit),
		KOITable:  cfg.Inputs.KOITable,
		KOIReadme: cfg.Inputs.KOIReadme,
	}

	return pipeline.LoadDatasets(ctx, store, cds.NewFetcher(cfg.CacheDir(), logger), src, logger)
}

// finish saves the run log.
func finish(env *pipeline.Env) error {
	if err := env.Log.Write(); err != nil {
		return err
	}
	env.Logger.Info("run log saved", "dir", env.Log.Dir)
	return nil
}
