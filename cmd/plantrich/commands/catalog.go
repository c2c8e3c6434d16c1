package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
	"github.com/Plantrich-blimp/plantrich-app/pkg/redis"
)

// catalogCmd groups Product Vault maintenance commands
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Product Vault 관리",
}

var catalogRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Product Vault 재적재",
	Long: `모든 상품 유형을 소스에서 다시 읽어 Redis 캐시를 갱신합니다.
REDIS_ENABLED=true 이면 실행 중인 API 서버도 새 fingerprint 의 캐시를 사용합니다.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		fingerprint, err := a.catalogs.Source().Fingerprint(ctx)
		if err != nil {
			return err
		}

		a.catalogs.Invalidate()

		type loaded struct {
			ProductType contracts.ProductType `json:"product_type"`
			Products    int                   `json:"products"`
			CacheKey    string                `json:"cache_key"`
		}
		results := make([]loaded, 0, len(contracts.ProductTypes))
		for _, pt := range contracts.ProductTypes {
			c, err := a.catalogs.Load(ctx, pt)
			if err != nil {
				return err
			}
			results = append(results, loaded{
				ProductType: pt,
				Products:    c.Len(),
				CacheKey:    redis.CatalogKey(string(pt), c.Fingerprint),
			})
		}

		if jsonOutput {
			return printJSON(map[string]interface{}{"fingerprint": fingerprint, "catalogs": results})
		}

		md := fmt.Sprintf("# Product Vault\n\nSource `%s` (fingerprint `%s`)\n\n| Type | Products |\n|:---|---:|\n",
			a.catalogs.Source(), fingerprint)
		for _, r := range results {
			md += fmt.Sprintf("| %s | %d |\n", r.ProductType, r.Products)
		}
		return printMarkdown(md)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogRefreshCmd)
}
