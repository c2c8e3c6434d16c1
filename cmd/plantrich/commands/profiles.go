package commands

import (
	"github.com/spf13/cobra"

	"github.com/Plantrich-blimp/plantrich-app/internal/report"
)

// profilesCmd lists the risk profiles
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "리스크 프로파일 목록",
	Long: `Aggressive / Moderate / Conservative 프로파일의 카테고리 비중을 출력합니다.
PROFILES_PATH 가 설정되면 해당 YAML 파일을 사용합니다.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		profiles := a.advisor.Profiles()
		return printResult(profiles, func() (string, error) {
			return report.ProfilesMarkdown(profiles), nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}
