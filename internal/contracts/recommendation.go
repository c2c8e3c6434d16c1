package contracts

import "time"

// Selection is one fund picked by the user with the amount allocated to it.
// ⭐ 전제조건: 카테고리별 Amount 합 <= 해당 카테고리 배분액 (엔진은 재검증하지 않음)
type Selection struct {
	Product Product `json:"product"`
	Amount  float64 `json:"amount"`
}

// SummaryRow is one row of the recommendation table (and of the export)
type SummaryRow struct {
	Category string   `json:"category"`
	FundName string   `json:"fund_name"`
	CAGR     *float64 `json:"cagr,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	ExitLoad string   `json:"exit_load,omitempty"`
	Amount   float64  `json:"amount"`
}

// CompositionSlice is one slice of the composition pie chart
type CompositionSlice struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// ProductProjection is the growth curve of one selected product
type ProductProjection struct {
	Name   string           `json:"name"`
	CAGR   float64          `json:"cagr"`
	Series ProjectionSeries `json:"series"`
}

// Recommendation is the aggregated view of the user's selections
type Recommendation struct {
	ID          string              `json:"id,omitempty"`
	Profile     string              `json:"profile,omitempty"`
	ProfileHash string              `json:"profile_hash,omitempty"`
	ProductType ProductType         `json:"product_type,omitempty"`
	Allocation  *AllocationResult   `json:"allocation,omitempty"`
	Rows        []SummaryRow        `json:"rows"`
	Composition []CompositionSlice  `json:"composition"`
	Projections []ProductProjection `json:"projections"`
	Skipped     []string            `json:"skipped,omitempty"` // CAGR 없어 곡선에서 제외된 상품
	Years       int                 `json:"years"`
	Warnings    []string            `json:"warnings,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// TotalAmount returns the sum of all selected amounts
func (r *Recommendation) TotalAmount() float64 {
	total := 0.0
	for _, row := range r.Rows {
		total += row.Amount
	}
	return total
}

// AmountByCategory sums selected amounts per category, in first-seen order
func (r *Recommendation) AmountByCategory() []AllocationEntry {
	index := make(map[string]int)
	var out []AllocationEntry
	for _, row := range r.Rows {
		i, ok := index[row.Category]
		if !ok {
			i = len(out)
			index[row.Category] = i
			out = append(out, AllocationEntry{Category: row.Category})
		}
		out[i].Amount += row.Amount
	}
	return out
}

// CombinedProjection sums the individual curves on the shared x-axis
func (r *Recommendation) CombinedProjection() ProjectionSeries {
	combined := make(ProjectionSeries, r.Years+1)
	for y := range combined {
		combined[y].Year = y
	}
	for _, p := range r.Projections {
		for _, pt := range p.Series {
			if pt.Year >= 0 && pt.Year < len(combined) {
				combined[pt.Year].Value += pt.Value
			}
		}
	}
	return combined
}
