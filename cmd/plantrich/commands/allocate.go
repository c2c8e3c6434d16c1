package commands

import (
	"github.com/spf13/cobra"

	"github.com/Plantrich-blimp/plantrich-app/internal/report"
)

var (
	profileName string
	amount      float64
)

// allocateCmd splits an investment across a profile's categories
var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "카테고리별 배분 계산",
	Example: `  go run ./cmd/plantrich allocate --profile Moderate --amount 500000
  go run ./cmd/plantrich allocate -p aggressive -a 100000 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.advisor.Allocate(cmd.Context(), profileName, amount)
		if err != nil {
			return err
		}
		return printResult(res, func() (string, error) {
			return report.AllocationMarkdown(res)
		})
	},
}

func init() {
	rootCmd.AddCommand(allocateCmd)

	allocateCmd.Flags().StringVarP(&profileName, "profile", "p", "Moderate", "risk profile")
	allocateCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "investment amount (INR)")
	allocateCmd.MarkFlagRequired("amount")
}
