package engine

import (
	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

// AggregateSelectedAllocations builds the summary table, the composition
// breakdown and one growth curve per selection on a shared 0..years axis.
//
// It assumes each category's selected amounts stay within that category's
// allocation; the caller owns that check. Selections whose product has no
// usable CAGR keep their summary row and slice but get no curve; their
// names are listed in Skipped.
func AggregateSelectedAllocations(selections []contracts.Selection, years int) (*contracts.Recommendation, error) {
	if years < 0 {
		return nil, invalid("years must be non-negative, got %d", years)
	}

	rec := &contracts.Recommendation{
		Rows:        make([]contracts.SummaryRow, 0, len(selections)),
		Composition: make([]contracts.CompositionSlice, 0, len(selections)),
		Projections: make([]contracts.ProductProjection, 0, len(selections)),
		Years:       years,
	}

	for _, sel := range selections {
		if err := checkAmount("allocated amount of "+sel.Product.Name, sel.Amount); err != nil {
			return nil, err
		}

		rec.Rows = append(rec.Rows, contracts.SummaryRow{
			Category: sel.Product.Category,
			FundName: sel.Product.Name,
			CAGR:     sel.Product.CAGR,
			Rating:   sel.Product.Rating,
			ExitLoad: sel.Product.ExitLoad,
			Amount:   sel.Amount,
		})
		rec.Composition = append(rec.Composition, contracts.CompositionSlice{
			Name:   sel.Product.Name,
			Amount: sel.Amount,
		})

		cagr, ok := sel.Product.ValidCAGR()
		if !ok {
			rec.Skipped = append(rec.Skipped, sel.Product.Name)
			continue
		}

		series, err := ProjectGrowth(sel.Amount, cagr, years)
		if err != nil {
			return nil, err
		}
		rec.Projections = append(rec.Projections, contracts.ProductProjection{
			Name:   sel.Product.Name,
			CAGR:   cagr,
			Series: series,
		})
	}

	return rec, nil
}
