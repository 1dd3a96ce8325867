package cli

import (
	"github.com/spf13/cobra"

	"github.com/HamletTheHamster/rotation-percentiles/internal/pipeline"
)

// PercentilesOptions holds the percentiles command options that are not
// part of the configuration.
type PercentilesOptions struct {
	Preview    string
	Table      bool
	Export     string
	Replicates string
}

func newPercentilesCommand() *cobra.Command {
	opts := &PercentilesOptions{}

	cmd := &cobra.Command{
		Use:   "percentiles",
		Short: "Draw the bootstrapped rotation-period percentiles",
		Long: `Bootstrap the 90th and 10th rotation-period percentiles of the cleaned
LAMOST–McQuillan sample in 20 K bins, compare them with the standard and WMB
model populations, print the chi-squared of each model and write
percentiles.pdf.`,
		Example: `  # Published figure
  rotfig percentiles

  # Reproducible run with the per-bin table and an XLSX export
  rotfig percentiles --seed 1 --table --export out/percentiles.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPercentiles(cmd, opts)
		},
	}

	cmd.Flags().Int("samples", 100, "bootstrap replicates per bin")
	cmd.Flags().Float64("fraction", 0.5, "fraction of a bin drawn per replicate")
	cmd.Flags().StringVar(&opts.Preview, "preview", "", "also write a gnuplot preview PNG to this path (needs -tags gnuplot)")
	cmd.Flags().BoolVar(&opts.Table, "table", false, "print the per-bin and chi-squared tables")
	cmd.Flags().StringVar(&opts.Export, "export", "", "export the per-bin results (.csv or .xlsx)")
	cmd.Flags().StringVar(&opts.Replicates, "replicates", "", "draw the bootstrap replicate spread to this path")

	return cmd
}

func runPercentiles(cmd *cobra.Command, opts *PercentilesOptions) error {
	ctx := cmd.Context()
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	env := pipeline.NewEnv(cmd.OutOrStdout(), cfg.Paths.Logs, cfg.Note, logger)
	env.Logger.Info("percentiles run", "data", cfg.Paths.Data, "figures", cfg.Paths.Figures)

	d, err := loadDatasets(ctx, cfg, cfg.Inputs.Lamost, env.Logger)
	if err != nil {
		return err
	}

	_, err = pipeline.RunPercentiles(ctx, env, d, pipeline.PercentileOptions{
		Samples:  cfg.Bootstrap.Samples,
		Fraction: cfg.Bootstrap.Fraction,
		Window:   cfg.Bootstrap.Window,
		RoMax:    cfg.Bootstrap.RoMax,
		Seed:     cfg.Bootstrap.Seed,
		Figure:   cfg.FigurePath("percentiles.pdf"),
		Formats:  cfg.Formats,
		Table:    opts.Table,
		Export:   opts.Export,
		Preview:  opts.Preview,

		Replicates: opts.Replicates,
	})
	if err != nil {
		return err
	}

	return finish(env)
}
