package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abstat/abstat/internal/analyzer"
	"github.com/abstat/abstat/internal/stats"
	"github.com/abstat/abstat/internal/store"
)

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}

func newAnalyzeCmd() *cobra.Command {
	var (
		control   string
		treatment string
		csvPath   string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "analyze <experiment>",
		Short: "Run statistical analysis for one experiment",
		Long: `Analyze one experiment's control/treatment pair: chi-square and
z-test on conversion rates, Mann-Whitney U on revenue per visitor, and
a combined recommendation.

Examples:
  abstat analyze checkout-banner
  abstat analyze checkout-banner --control Original --treatment "Variant B"
  abstat analyze checkout-banner --csv backup.csv --out report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			experiment := args[0]

			a := newAnalyzer()
			ctx := context.Background()

			var loadErr error
			if csvPath != "" {
				loadErr = a.Load(ctx, store.CSVSource{Path: csvPath})
			} else {
				loadErr = withStore(func(s *store.SQLiteStore) error {
					return a.Load(ctx, s)
				})
			}
			if loadErr != nil {
				return loadErr
			}

			// Auto-detect the treatment when not named: the first
			// variation that isn't the control.
			if treatment == "" {
				variations, err := a.Variations(experiment)
				if err != nil {
					return fmt.Errorf("experiment '%s' not found", experiment)
				}
				for _, v := range variations {
					if v != control {
						treatment = v
						break
					}
				}
				if treatment == "" {
					return fmt.Errorf("experiment '%s' has no variation besides '%s'", experiment, control)
				}
			}

			report, err := a.Analyze(experiment, control, treatment)
			if err != nil {
				return err
			}

			renderReport(cmd, report)

			if outPath != "" {
				if err := analyzer.ExportReport(report, outPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nReport exported to %s\n", outPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&control, "control", "c", "Original", "control variation name")
	cmd.Flags().StringVarP(&treatment, "treatment", "t", "", "treatment variation name (auto-detected if omitted)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "analyze an extraction CSV instead of the warehouse")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "export the report as JSON to this path")

	return cmd
}

func renderReport(cmd *cobra.Command, r *analyzer.AnalysisReport) {
	out := cmd.OutOrStdout()
	rule := strings.Repeat("─", 64)

	fmt.Fprintf(out, "EXPERIMENT: %s\n", r.Experiment)
	fmt.Fprintf(out, "CONFIDENCE: %.0f%%\n\n", (1-r.Alpha)*100)

	fmt.Fprintln(out, "CONVERSION RATE")
	fmt.Fprintln(out, rule)
	if r.Conversion.Undefined {
		fmt.Fprintf(out, "  Test undefined: %s\n", r.Conversion.Reason)
	} else {
		z := r.Conversion.ZTest
		printProportion(out, z.Control, r.Alpha)
		printProportion(out, z.Treatment, r.Alpha)
		if z.LiftDefined {
			fmt.Fprintf(out, "  Relative lift: %+.1f%%\n", z.Lift*100)
		} else {
			fmt.Fprintln(out, "  Relative lift: n/a (control rate is 0)")
		}
		chi := r.Conversion.ChiSquare
		yates := ""
		if chi.YatesCorrected {
			yates = ", Yates corrected"
		}
		fmt.Fprintf(out, "  Chi-square: %.4f (p=%.4f%s)   z: %.4f (p=%.4f)\n",
			chi.Statistic, chi.PValue, yates, z.ZStatistic, z.PValue)
		printVerdict(out, r.Significant, r.Winner)
	}

	fmt.Fprintf(out, "\nREVENUE PER VISITOR\n")
	fmt.Fprintln(out, rule)
	rev := r.Revenue
	printRevenue(out, rev.Control)
	printRevenue(out, rev.Treatment)
	if rev.LiftDefined {
		fmt.Fprintf(out, "  Relative lift: %+.1f%%\n", rev.Lift*100)
	}
	fmt.Fprintf(out, "  Mann-Whitney U: %.1f (p=%.4f)\n", rev.U, rev.PValue)
	printVerdict(out, rev.Significant, rev.Winner)

	fmt.Fprintf(out, "\nRECOMMENDATION\n")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "  [%s] %s\n", r.Recommendation.Action, r.Recommendation.Summary)
	if plan := r.Recommendation.SampleSize; plan != nil {
		fmt.Fprintf(out, "  Current sample: %s visitors; %s needed to detect a %.0f%% lift\n",
			formatNumber(r.Control.Visitors+r.Treatment.Visitors),
			formatNumber(plan.Total),
			plan.MDE*100)
	}
}

func printProportion(out io.Writer, p stats.ProportionEstimate, alpha float64) {
	fmt.Fprintf(out, "  %-16s %s (%s/%s)   %.0f%% CI [%.2f%%, %.2f%%]\n",
		p.Label,
		formatPercent(p.Rate),
		formatNumber(p.Conversions),
		formatNumber(p.Visitors),
		(1-alpha)*100,
		p.CILower*100,
		p.CIUpper*100,
	)
}

func printRevenue(out io.Writer, s stats.RevenueSummary) {
	fmt.Fprintf(out, "  %-16s $%.2f/visitor (median $%.2f, total $%.2f)\n",
		s.Label, s.Mean, s.Median, s.Total)
}

func printVerdict(out io.Writer, significant bool, winner string) {
	if significant {
		fmt.Fprintf(out, "  Result: SIGNIFICANT, winner %q\n", winner)
	} else {
		fmt.Fprintln(out, "  Result: not significant")
	}
}
