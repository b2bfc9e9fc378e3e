package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abstat/abstat/internal/store"
)

func init() {
	rootCmd.AddCommand(newImportCmd())
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <csv>",
		Short: "Import an extraction CSV into the visit warehouse",
		Long: `Import visit records from an extraction backup CSV into the local
warehouse. Rows already present (same experiment, variation and
visitor) are skipped.

Example:
  abstat import matomo_ab_test_data_20260830.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			records, err := store.CSVSource{Path: args[0]}.Visits(ctx)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				return fmt.Errorf("%s: no visit records", args[0])
			}

			visits := make([]store.Visit, len(records))
			for i, r := range records {
				visits[i] = store.Visit{
					Experiment: r.Experiment,
					Variation:  r.Variation,
					VisitorID:  r.VisitorID,
					Converted:  r.Converted,
					Revenue:    r.Revenue,
				}
			}

			return withStore(func(s *store.SQLiteStore) error {
				if err := s.InsertVisits(ctx, visits); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s visit records from %s\n",
					formatNumber(len(visits)), args[0])
				return nil
			})
		},
	}

	return cmd
}
