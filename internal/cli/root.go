package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abstat/abstat/internal/config"
)

var (
	cfgPath string
	dbPath  string
	alpha   float64
	power   float64
	verbose bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "abstat",
	Short: "Statistical analysis for A/B test experiments",
	Long: `abstat analyzes A/B test visit records (variation, conversion,
revenue) and reports statistical significance: chi-square and z-test
on conversion rates, Mann-Whitney U on revenue per visitor, Wilson
confidence intervals, plus a sample size planner for upcoming tests.

Data comes from the local visit warehouse (see 'abstat import') or
directly from an extraction CSV.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", getEnvOrDefault("ABSTAT_CONFIG", ""), "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", getEnvOrDefault("ABSTAT_DB_PATH", ""), "database path")
	rootCmd.PersistentFlags().Float64Var(&alpha, "alpha", 0, "significance level (default 0.05)")
	rootCmd.PersistentFlags().Float64Var(&power, "power", 0, "statistical power for planning (default 0.8)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadConfig resolves defaults < config file < flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg = config.Default()

	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if cmd.Flags().Changed("alpha") {
		cfg.Alpha = alpha
	}
	if cmd.Flags().Changed("power") {
		cfg.Power = power
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
