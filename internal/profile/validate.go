package profile

import (
	"fmt"
	"math"
	"strings"
)

// SumTolerance is how far a profile's weights may drift from 100
const SumTolerance = 0.01

// ValidationError 검증 실패 (로드 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks every profile in the set.
// 실패 시 첫 번째 위반을 반환
func Validate(set *Set) error {
	if set == nil || len(set.Profiles) == 0 {
		return ValidationError{"profiles", "at least one profile is required"}
	}

	names := make(map[string]bool, len(set.Profiles))
	for i, p := range set.Profiles {
		field := fmt.Sprintf("profiles[%d]", i)

		name := strings.TrimSpace(p.Name)
		if name == "" {
			return ValidationError{field + ".name", "required"}
		}
		key := strings.ToLower(name)
		if names[key] {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate profile %q", p.Name)}
		}
		names[key] = true

		if len(p.Weights) == 0 {
			return ValidationError{field + ".weights", "at least one category is required"}
		}

		categories := make(map[string]bool, len(p.Weights))
		for j, w := range p.Weights {
			wField := fmt.Sprintf("%s.weights[%d]", field, j)

			cat := strings.ToLower(strings.TrimSpace(w.Category))
			if cat == "" {
				return ValidationError{wField + ".category", "required"}
			}
			if categories[cat] {
				return ValidationError{wField + ".category", fmt.Sprintf("duplicate category %q", w.Category)}
			}
			categories[cat] = true

			if math.IsNaN(w.Weight) || math.IsInf(w.Weight, 0) {
				return ValidationError{wField + ".weight", "must be finite"}
			}
			if w.Weight < 0 {
				return ValidationError{wField + ".weight", fmt.Sprintf("must be >= 0, got %v", w.Weight)}
			}
		}

		if err := validateWeightsSum(p.TotalWeight(), 100, SumTolerance); err != nil {
			return ValidationError{field + ".weights", err.Error()}
		}
	}

	return nil
}

func validateWeightsSum(sum, expected, tolerance float64) error {
	if math.Abs(sum-expected) > tolerance {
		return fmt.Errorf("sum must be %.0f, got %.4f", expected, sum)
	}
	return nil
}
