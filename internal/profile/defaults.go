package profile

import "github.com/Plantrich-blimp/plantrich-app/internal/contracts"

// Built-in profile names
const (
	Aggressive   = "Aggressive"
	Moderate     = "Moderate"
	Conservative = "Conservative"
)

// Defaults returns the built-in profiles used when no PROFILES_PATH is set.
// A fresh copy is returned on every call.
func Defaults() *Set {
	return &Set{Profiles: []contracts.AllocationProfile{
		{
			Name: Aggressive,
			Weights: []contracts.CategoryWeight{
				{Category: "LargeCap", Weight: 25},
				{Category: "Midcap", Weight: 20},
				{Category: "SmallCap", Weight: 20},
				{Category: "Flexicap", Weight: 10},
				{Category: "Sector", Weight: 5},
				{Category: "Debt", Weight: 15},
				{Category: "Commodity", Weight: 5},
			},
		},
		{
			Name: Moderate,
			Weights: []contracts.CategoryWeight{
				{Category: "LargeCap", Weight: 30},
				{Category: "Midcap", Weight: 15},
				{Category: "SmallCap", Weight: 5},
				{Category: "Flexicap", Weight: 10},
				{Category: "Debt", Weight: 35},
				{Category: "Commodity", Weight: 5},
			},
		},
		{
			Name: Conservative,
			Weights: []contracts.CategoryWeight{
				{Category: "LargeCap", Weight: 20},
				{Category: "Flexicap", Weight: 10},
				{Category: "Debt", Weight: 60},
				{Category: "Commodity", Weight: 10},
			},
		},
	}}
}
