package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Plantrich-blimp/plantrich-app/internal/report"
)

// onboardingCmd browses the onboarding workbook
var onboardingCmd = &cobra.Command{
	Use:   "onboarding [section]",
	Short: "Onboarding 시트 조회",
	Long: `섹션 이름 없이 실행하면 Onboarding 워크북의 시트 목록을,
섹션 이름을 주면 해당 시트를 표로 출력합니다.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			sections, err := a.onboarding.Sheets(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(sections, func() (string, error) {
				var b strings.Builder
				b.WriteString("# Onboarding\n\n")
				for _, s := range sections {
					b.WriteString("- " + s + "\n")
				}
				return b.String(), nil
			})
		}

		table, err := a.onboarding.Section(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(table, func() (string, error) {
			return report.TableMarkdown(table)
		})
	},
}

func init() {
	rootCmd.AddCommand(onboardingCmd)
}
