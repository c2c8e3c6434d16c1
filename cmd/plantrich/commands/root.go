package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
	style      string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plantrich",
	Short: "Plantrich - allocation & projection engine",
	Long: `Plantrich Advisory CLI

Risk-profile allocation, Product Vault filtering and compound growth
projections over the Plantrich spreadsheets.

Usage:
  go run ./cmd/plantrich [command]

Examples:
  go run ./cmd/plantrich api
  go run ./cmd/plantrich allocate --profile Moderate --amount 500000
  go run ./cmd/plantrich products mf --category Debt --min-rating 4
  go run ./cmd/plantrich recommend --profile Moderate --amount 500000 \
      --pick "Axis Bluechip Fund=100000" --out plan.xlsx`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of rendered markdown")
	rootCmd.PersistentFlags().StringVar(&style, "style", "", "glamour style (dark|light|notty|ascii), auto when empty")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
