package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/revoult/savings/internal/config"
	"github.com/revoult/savings/internal/report"
	"github.com/revoult/savings/internal/runner"
)

func newReportCommand(verbose *bool) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "report [directory]",
		Short: "Print funding, cashout and interest for every <dd_mm_yyyy>__<dd_mm_yyyy>.csv statement",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg, err := config.Resolve(cfgFile, absDir)
			if err != nil {
				return err
			}

			applyOverrides(cmd.Flags(), cfg)

			f, err := report.ParseFormat(cfg.Report.Format)
			if err != nil {
				return err
			}

			r := &runner.Runner{
				Layout:    cfg.Columns,
				Currency:  cfg.Currency,
				Format:    f,
				Jobs:      cfg.Report.Jobs,
				KeepGoing: cfg.Report.KeepGoing,
				Logger:    newLogger(cmd.ErrOrStderr(), *verbose),
			}
			return r.Run(cmd.Context(), absDir, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default is <directory>/"+config.FileName+" when present)")
	cmd.Flags().String("format", "text", "output format: text or csv")
	cmd.Flags().String("currency", "PLN", "currency suffix of amounts")
	cmd.Flags().IntP("jobs", "j", 1, "files processed concurrently")
	cmd.Flags().Bool("keep-going", false, "report every valid file and list the failed ones")

	return cmd
}

// applyOverrides copies flags that were given on the command line over cfg.
func applyOverrides(flags *pflag.FlagSet, cfg *config.Config) {
	if flags.Changed("format") {
		cfg.Report.Format, _ = flags.GetString("format")
	}
	if flags.Changed("currency") {
		cfg.Currency, _ = flags.GetString("currency")
	}
	if flags.Changed("jobs") {
		cfg.Report.Jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("keep-going") {
		cfg.Report.KeepGoing, _ = flags.GetBool("keep-going")
	}
}
