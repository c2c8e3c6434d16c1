package commands

import (
	"github.com/spf13/cobra"

	"github.com/Plantrich-blimp/plantrich-app/internal/advisor"
	"github.com/Plantrich-blimp/plantrich-app/internal/report"
)

var (
	principal float64
	rate      float64
	years     int
)

// projectCmd prints a compound growth series
var projectCmd = &cobra.Command{
	Use:     "project",
	Short:   "복리 성장 예측",
	Example: `  go run ./cmd/plantrich project --principal 100000 --rate 12 --years 10`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		req := advisor.ProjectionRequest{Principal: principal, Rate: rate}
		if cmd.Flags().Changed("years") {
			req.Years = &years
		}

		series, err := a.advisor.Project(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printResult(series, func() (string, error) {
			return report.ProjectionMarkdown(principal, rate, series)
		})
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.Flags().Float64Var(&principal, "principal", 0, "starting amount (INR)")
	projectCmd.Flags().Float64Var(&rate, "rate", 0, "annual growth rate (%)")
	projectCmd.Flags().IntVar(&years, "years", 0, "horizon in years (default PROJECTION_YEARS)")
	projectCmd.MarkFlagRequired("principal")
	projectCmd.MarkFlagRequired("rate")
}
