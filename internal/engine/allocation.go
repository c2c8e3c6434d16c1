// Package engine is the allocation and projection core.
//
// Every function is pure: it reads only its arguments, never mutates them,
// never logs and returns identical output for identical input. Callers own
// catalog loading, presentation and persistence.
package engine

import (
	"strings"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

// ComputeCategoryAllocation splits amount across the profile's categories.
// amount_i = weight_i * amount / 100, in profile order. Weights are trusted
// to sum to ~100 and are not re-normalised; rounding residue is not redistributed.
func ComputeCategoryAllocation(profile contracts.AllocationProfile, amount float64) (*contracts.AllocationResult, error) {
	if err := checkAmount("investment amount", amount); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(profile.Weights))
	entries := make([]contracts.AllocationEntry, 0, len(profile.Weights))

	for _, w := range profile.Weights {
		key := strings.ToLower(strings.TrimSpace(w.Category))
		if key == "" {
			return nil, invalid("profile %q has an empty category", profile.Name)
		}
		if seen[key] {
			return nil, invalid("profile %q lists category %q twice", profile.Name, w.Category)
		}
		seen[key] = true

		if !isFinite(w.Weight) || w.Weight < 0 {
			return nil, invalid("profile %q: weight of %q must be a non-negative number, got %v", profile.Name, w.Category, w.Weight)
		}

		entries = append(entries, contracts.AllocationEntry{
			Category:      w.Category,
			WeightPercent: w.Weight,
			Amount:        w.Weight * amount / 100,
		})
	}

	return &contracts.AllocationResult{
		Profile:          profile.Name,
		InvestmentAmount: amount,
		Entries:          entries,
	}, nil
}
