package contracts

import (
	"math"
	"strings"
)

// ProductType is a Product Vault section (one workbook sheet each)
type ProductType string

const (
	ProductMutualFunds  ProductType = "Mutual Funds"
	ProductAIF          ProductType = "AIF"
	ProductPMS          ProductType = "PMS"
	ProductDirectEquity ProductType = "Direct Equity"
)

// ProductTypes lists the vault sections in navigation order
var ProductTypes = []ProductType{
	ProductMutualFunds,
	ProductAIF,
	ProductPMS,
	ProductDirectEquity,
}

// ParseProductType resolves a product type case-insensitively.
// URL-friendly aliases ("mutual-funds", "direct_equity", "mf") are accepted.
func ParseProductType(s string) (ProductType, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	switch norm {
	case "mf", "mutual funds", "mutual fund":
		return ProductMutualFunds, true
	case "aif":
		return ProductAIF, true
	case "pms":
		return ProductPMS, true
	case "direct equity", "equity", "de":
		return ProductDirectEquity, true
	}
	return "", false
}

// Product is a single investable instrument from the catalog.
// ⭐ 계약: CAGR/Rating 이 nil 이면 "값 없음" → 계산에서 제외 (에러 아님)
type Product struct {
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	CAGR          *float64          `json:"cagr,omitempty"`   // 퍼센트 (12.5 = 12.5%)
	Rating        *float64          `json:"rating,omitempty"` // 필터 전용
	ExitLoad      string            `json:"exit_load,omitempty"`
	MinInvestment *float64          `json:"min_investment,omitempty"`
	Horizon       string            `json:"horizon,omitempty"`
	Rationale     string            `json:"rationale,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"` // 계약 외 컬럼 (표시용)
}

// Float returns a pointer to v, for optional numeric fields
func Float(v float64) *float64 {
	return &v
}

// ValidCAGR returns the CAGR when present and finite
func (p Product) ValidCAGR() (float64, bool) {
	return finite(p.CAGR)
}

// ValidRating returns the rating when present and finite
func (p Product) ValidRating() (float64, bool) {
	return finite(p.Rating)
}

func finite(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

// AnyCategory matches every category in a filter
const AnyCategory = "All"

// FilterCriteria is the product filter predicate
type FilterCriteria struct {
	Category  string  `json:"category"` // "" 또는 "All" = 전체
	MinCAGR   float64 `json:"min_cagr"`
	MaxCAGR   float64 `json:"max_cagr"`
	MinRating float64 `json:"min_rating"`
}

// DefaultCAGRFloor is the lowest CAGR a default listing shows: a total loss.
// Loss-making products stay visible unless the user narrows the range.
const DefaultCAGRFloor = -100

// DefaultFilterCriteria matches every product with a CAGR in [-100, 100]
func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{
		Category:  AnyCategory,
		MinCAGR:   DefaultCAGRFloor,
		MaxCAGR:   100,
		MinRating: 0,
	}
}

// MatchesAnyCategory reports whether the criteria do not restrict the category
func (f FilterCriteria) MatchesAnyCategory() bool {
	return f.Category == "" || strings.EqualFold(f.Category, AnyCategory)
}

// FilterOutcome is a filter result for presentation.
// Empty=true 는 "조건에 맞는 상품 없음" 정상 상태 (에러 아님)
type FilterOutcome struct {
	ProductType ProductType    `json:"product_type"`
	Criteria    FilterCriteria `json:"criteria"`
	Products    []Product      `json:"products"`
	Total       int            `json:"total"` // 필터 전 카탈로그 크기
	Empty       bool           `json:"empty"`
}

// Catalog is the read-only product table of one product type
type Catalog struct {
	ProductType ProductType `json:"product_type"`
	Products    []Product   `json:"products"`
	Fingerprint string      `json:"fingerprint"`
}

// Len returns the number of products
func (c Catalog) Len() int {
	return len(c.Products)
}

// Categories returns distinct categories in first-seen order
func (c Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.Products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}

// Find returns the first product with the given name (case-insensitive)
func (c Catalog) Find(name string) (Product, bool) {
	for _, p := range c.Products {
		if strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Product{}, false
}
