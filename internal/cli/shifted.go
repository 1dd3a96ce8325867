package cli

import (
	"github.com/spf13/cobra"

	"github.com/HamletTheHamster/rotation-percentiles/internal/pipeline"
)

func newShiftedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shifted",
		Short: "Draw the Teff-shifted samples over the model populations",
		Long: `Shift the CKS and LAMOST dwarfs (log g > 4.1) in temperature and draw
them over 2-D histograms of the standard and WMB model populations, writing
std-model-cks-shifted.pdf, wmb-model-cks-shifted.pdf,
std-model-lamost-shifted.pdf and wmb-model-lamost-shifted.pdf.`,
		Args: cobra.NoArgs,
		RunE: runShifted,
	}

	cmd.Flags().Float64("cks-shift", 111, "temperature offset added to CKS stars [K]")
	cmd.Flags().Float64("lamost-shift", 116, "temperature offset added to LAMOST stars [K]")

	return cmd
}

func runShifted(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	env := pipeline.NewEnv(cmd.OutOrStdout(), cfg.Paths.Logs, cfg.Note, logger)
	env.Logger.Info("shifted run", "cks_shift", cfg.Shift.CKS, "lamost_shift", cfg.Shift.Lamost)

	d, err := loadDatasets(ctx, cfg, cfg.Inputs.LamostCSV, env.Logger)
	if err != nil {
		return err
	}

	_, err = pipeline.RunShifted(ctx, env, d, pipeline.ShiftedOptions{
		CKSShift:    cfg.Shift.CKS,
		LamostShift: cfg.Shift.Lamost,
		FiguresDir:  cfg.Paths.Figures,
		Formats:     cfg.Formats,
		Window:      cfg.Bootstrap.Window,
	})
	if err != nil {
		return err
	}

	return finish(env)
}
