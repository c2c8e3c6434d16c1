package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Plantrich-blimp/plantrich-app/internal/advisor"
	"github.com/Plantrich-blimp/plantrich-app/internal/catalog"
	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
	"github.com/Plantrich-blimp/plantrich-app/internal/report"
)

var (
	productType  string
	picks        []string
	outPath      string
	historyLimit int
)

// recommendCmd builds a recommendation from picked funds
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "선택한 상품으로 추천안 생성",
	Long: `프로파일 배분 후 선택한 상품(--pick "이름=금액")으로 추천안을 만듭니다.
요약 표, 구성 비율, 상품별/합산 성장 예측을 출력하고 --out 으로 CSV/XLSX 파일을 저장합니다.
DATABASE_URL 이 설정되어 있으면 추천안이 저장됩니다.`,
	Example: `  go run ./cmd/plantrich recommend -p Moderate -a 500000 \
      --pick "Axis Bluechip Fund=1,00,000" --pick "HDFC Gilt Fund=175000" --out plan.xlsx`,
	Args: cobra.NoArgs,
	RunE: runRecommend,
}

var recommendShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "저장된 추천안 조회",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{store: true})
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.advisor.Recommendation(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return outputRecommendation(rec)
	},
}

var recommendHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "추천안 이력",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{store: true})
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.advisor.History(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(list)
		}

		var b strings.Builder
		b.WriteString("# Recommendations\n\n| ID | Profile | Type | Amount | Created |\n|:---|:---|:---|---:|:---|\n")
		for _, s := range list {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				s.ID, s.Profile, s.ProductType, report.FormatINR(s.Amount), s.CreatedAt.Format("2006-01-02 15:04"))
		}
		return printMarkdown(b.String())
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.AddCommand(recommendShowCmd)
	recommendCmd.AddCommand(recommendHistoryCmd)

	recommendCmd.Flags().StringVarP(&profileName, "profile", "p", "Moderate", "risk profile")
	recommendCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "investment amount (INR)")
	recommendCmd.Flags().StringVarP(&productType, "type", "t", string(contracts.ProductMutualFunds), "product type")
	recommendCmd.Flags().IntVar(&years, "years", 0, "projection horizon (default PROJECTION_YEARS)")
	recommendCmd.Flags().StringArrayVar(&picks, "pick", nil, `selected fund as "Fund Name=Amount" (repeatable)`)
	recommendCmd.Flags().StringVarP(&outPath, "out", "o", "", "export file (.csv or .xlsx)")
	recommendCmd.MarkFlagRequired("amount")

	recommendHistoryCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of entries")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	parsed, err := parsePicks(picks)
	if err != nil {
		return err
	}
	if outPath != "" {
		if _, err := exportWriter(outPath); err != nil {
			return err
		}
	}

	a, err := newApp(cmd.Context(), appOptions{store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	req := advisor.RecommendRequest{
		Profile:     profileName,
		Amount:      amount,
		ProductType: productType,
		Picks:       parsed,
	}
	if cmd.Flags().Changed("years") {
		req.Years = &years
	}

	rec, err := a.advisor.Recommend(cmd.Context(), req)
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := writeExport(outPath, rec); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✅ Exported %s\n", outPath)
	}

	return outputRecommendation(rec)
}

func outputRecommendation(rec *contracts.Recommendation) error {
	if err := printResult(rec, func() (string, error) {
		return report.RecommendationMarkdown(rec)
	}); err != nil {
		return err
	}
	printWarnings(rec.Warnings)
	return nil
}

// parsePicks reads "Fund Name=Amount" pairs. The last '=' separates the
// amount so fund names may contain one; amounts accept ₹ and commas.
func parsePicks(raw []string) ([]advisor.Pick, error) {
	out := make([]advisor.Pick, 0, len(raw))
	for _, r := range raw {
		i := strings.LastIndex(r, "=")
		if i <= 0 {
			return nil, fmt.Errorf("invalid --pick %q: want \"Fund Name=Amount\"", r)
		}

		fund := strings.TrimSpace(r[:i])
		value := catalog.ParseNumber(r[i+1:])
		if fund == "" || value == nil {
			return nil, fmt.Errorf("invalid --pick %q: want \"Fund Name=Amount\"", r)
		}
		out = append(out, advisor.Pick{Fund: fund, Amount: *value})
	}
	return out, nil
}

type exportFunc func(w io.Writer, rec *contracts.Recommendation) error

// exportWriter picks the exporter from the file extension
func exportWriter(path string) (exportFunc, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return report.WriteCSV, nil
	case ".xlsx":
		return report.WriteXLSX, nil
	default:
		return nil, fmt.Errorf("unsupported export %q: use .csv or .xlsx", filepath.Ext(path))
	}
}

func writeExport(path string, rec *contracts.Recommendation) error {
	write, err := exportWriter(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := write(f, rec); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}
