package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/abstat/abstat/internal/stats"
)

func init() {
	rootCmd.AddCommand(newSampleSizeCmd())
}

func newSampleSizeCmd() *cobra.Command {
	var (
		baseline    float64
		mde         float64
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "samplesize",
		Short: "Plan the sample size for an upcoming test",
		Long: `Compute how many visitors each variation needs before a given
relative lift over the baseline conversion rate becomes detectable.

Without flags, prints a table of common scenarios.

Examples:
  abstat samplesize
  abstat samplesize --baseline 0.03 --mde 0.10
  abstat samplesize --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				var err error
				baseline, mde, err = promptPlanInputs()
				if err != nil {
					return err
				}
			}

			if baseline == 0 && mde == 0 {
				return printScenarios(cmd)
			}
			if mde == 0 {
				mde = 0.10
			}

			plan, err := stats.SampleSize(baseline, mde, cfg.Power, cfg.Alpha)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"Baseline %.2f%% -> target %.2f%% (%.0f%% relative lift)\n",
				plan.BaselineRate*100, plan.TargetRate*100, plan.MDE*100)
			fmt.Fprintf(cmd.OutOrStdout(),
				"Power %.0f%%, alpha %.2f\n\n", plan.Power*100, plan.Alpha)
			fmt.Fprintf(cmd.OutOrStdout(),
				"Per variation: %s visitors\nTotal:         %s visitors\n",
				formatNumber(plan.PerVariation), formatNumber(plan.Total))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&baseline, "baseline", "b", 0, "baseline conversion rate, e.g. 0.03")
	cmd.Flags().Float64VarP(&mde, "mde", "m", 0, "minimum detectable relative effect, e.g. 0.10 (default 0.10)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for inputs")

	return cmd
}

func printScenarios(cmd *cobra.Command) error {
	scenarios := []struct {
		baseline float64
		mde      float64
	}{
		{0.02, 0.10},
		{0.03, 0.10},
		{0.03, 0.05},
		{0.05, 0.10},
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BASELINE\tMDE\tPER VARIATION\tTOTAL")
	for _, s := range scenarios {
		plan, err := stats.SampleSize(s.baseline, s.mde, cfg.Power, cfg.Alpha)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%.1f%%\t%.0f%%\t%s\t%s\n",
			s.baseline*100, s.mde*100,
			formatNumber(plan.PerVariation), formatNumber(plan.Total))
	}
	return w.Flush()
}

func promptPlanInputs() (baseline, mde float64, err error) {
	baseline, err = promptRate("Baseline conversion rate (e.g. 0.03)")
	if err != nil {
		return 0, 0, err
	}
	mde, err = promptRate("Minimum detectable relative effect (e.g. 0.10)")
	if err != nil {
		return 0, 0, err
	}
	return baseline, mde, nil
}

func promptRate(label string) (float64, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			v, err := strconv.ParseFloat(input, 64)
			if err != nil {
				return fmt.Errorf("not a number")
			}
			if v <= 0 || v >= 1 {
				return fmt.Errorf("must be between 0 and 1")
			}
			return nil
		},
	}

	raw, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return 0, err
	}

	return strconv.ParseFloat(raw, 64)
}
