package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abstat/abstat/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List experiments in the visit warehouse",
	Long:  `List all experiments present in the local visit warehouse with their aggregate statistics.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	return withStore(func(s *store.SQLiteStore) error {
		ctx := context.Background()

		experiments, err := s.ListExperiments(ctx)
		if err != nil {
			return fmt.Errorf("failed to list experiments: %w", err)
		}

		if len(experiments) == 0 {
			fmt.Println("No visit data yet.")
			fmt.Println()
			fmt.Println("Load an extraction CSV first:")
			fmt.Println("  abstat import matomo_ab_test_data_20260830.csv")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "EXPERIMENT\tVARIATIONS\tVISITORS\tCONVERSIONS\tRATE\tREVENUE")

		for _, e := range experiments {
			rate := 0.0
			if e.Visitors > 0 {
				rate = float64(e.Conversions) / float64(e.Visitors)
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t$%.2f\n",
				e.Experiment,
				e.Variations,
				formatNumber(e.Visitors),
				formatNumber(e.Conversions),
				formatPercent(rate),
				e.Revenue,
			)
		}

		return w.Flush()
	})
}
