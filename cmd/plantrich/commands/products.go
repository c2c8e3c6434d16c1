package commands

import (
	"github.com/spf13/cobra"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
	"github.com/Plantrich-blimp/plantrich-app/internal/report"
)

var criteria = contracts.DefaultFilterCriteria()

// productsCmd filters one Product Vault section
var productsCmd = &cobra.Command{
	Use:   "products [type]",
	Short: "Product Vault 필터링",
	Long: `상품 유형(mf, aif, pms, equity)의 카탈로그를 카테고리, CAGR 범위, 최소 평점으로 필터링합니다.
CAGR 또는 평점이 없는 상품은 결과에서 제외됩니다.`,
	Example: `  go run ./cmd/plantrich products mf --category Debt --min-rating 4
  go run ./cmd/plantrich products aif --min-cagr 12`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		productType := string(contracts.ProductMutualFunds)
		if len(args) == 1 {
			productType = args[0]
		}

		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		outcome, err := a.advisor.Products(cmd.Context(), productType, criteria)
		if err != nil {
			return err
		}
		return printResult(outcome, func() (string, error) {
			return report.ProductsMarkdown(outcome)
		})
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)

	productsCmd.Flags().StringVar(&criteria.Category, "category", criteria.Category, `category or "All"`)
	productsCmd.Flags().Float64Var(&criteria.MinCAGR, "min-cagr", criteria.MinCAGR, "minimum CAGR (%)")
	productsCmd.Flags().Float64Var(&criteria.MaxCAGR, "max-cagr", criteria.MaxCAGR, "maximum CAGR (%)")
	productsCmd.Flags().Float64Var(&criteria.MinRating, "min-rating", criteria.MinRating, "minimum Plantrich rating")
}
