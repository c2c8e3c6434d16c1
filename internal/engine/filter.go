package engine

import (
	"strings"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

// FilterProducts returns the products matching the criteria, in input order.
// Rows with a missing or non-finite CAGR or rating are dropped, never errored.
// No match yields an empty, non-nil slice.
func FilterProducts(products []contracts.Product, criteria contracts.FilterCriteria) []contracts.Product {
	out := make([]contracts.Product, 0)
	anyCategory := criteria.MatchesAnyCategory()
	target := strings.TrimSpace(criteria.Category)

	for _, p := range products {
		if !anyCategory && !strings.EqualFold(strings.TrimSpace(p.Category), target) {
			continue
		}

		cagr, ok := p.ValidCAGR()
		if !ok || cagr < criteria.MinCAGR || cagr > criteria.MaxCAGR {
			continue
		}

		rating, ok := p.ValidRating()
		if !ok || rating < criteria.MinRating {
			continue
		}

		out = append(out, p)
	}

	return out
}
