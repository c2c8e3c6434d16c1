package contracts

import "strings"

// CategoryWeight is one bucket of a risk profile
type CategoryWeight struct {
	Category string  `json:"category" yaml:"category"`
	Weight   float64 `json:"weight" yaml:"weight"` // 퍼센트 (합 = 100)
}

// AllocationProfile is a named policy mapping categories to percentage weights.
// ⭐ 순서 보존: Weights 의 정의 순서가 결과 표시 순서
type AllocationProfile struct {
	Name    string           `json:"name" yaml:"name"`
	Weights []CategoryWeight `json:"weights" yaml:"weights"`
}

// TotalWeight returns the sum of all category weights
func (p AllocationProfile) TotalWeight() float64 {
	total := 0.0
	for _, w := range p.Weights {
		total += w.Weight
	}
	return total
}

// Weight returns the weight of a category
func (p AllocationProfile) Weight(category string) (float64, bool) {
	for _, w := range p.Weights {
		if strings.EqualFold(w.Category, category) {
			return w.Weight, true
		}
	}
	return 0, false
}

// AllocationEntry is one row of an allocation table
type AllocationEntry struct {
	Category      string  `json:"category"`
	WeightPercent float64 `json:"weight_percent"`
	Amount        float64 `json:"amount"`
}

// AllocationResult is computed once per (profile, investment amount)
type AllocationResult struct {
	Profile          string            `json:"profile"`
	InvestmentAmount float64           `json:"investment_amount"`
	Entries          []AllocationEntry `json:"entries"`
}

// TotalAmount returns the sum of all category amounts
func (r *AllocationResult) TotalAmount() float64 {
	total := 0.0
	for _, e := range r.Entries {
		total += e.Amount
	}
	return total
}

// Count returns the number of categories
func (r *AllocationResult) Count() int {
	return len(r.Entries)
}

// Budget returns the amount allocated to a category (case-insensitive)
func (r *AllocationResult) Budget(category string) (float64, bool) {
	for _, e := range r.Entries {
		if strings.EqualFold(e.Category, category) {
			return e.Amount, true
		}
	}
	return 0, false
}
