package engine

import (
	"math"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

// ProjectGrowth compounds principal at ratePct for years 0..years.
// Year 0 is the literal principal; later years follow
// principal * (1 + ratePct/100)^year. Zero and negative rates are allowed.
// A horizon whose values leave the float64 range is rejected as invalid input.
func ProjectGrowth(principal, ratePct float64, years int) (contracts.ProjectionSeries, error) {
	if err := checkAmount("principal", principal); err != nil {
		return nil, err
	}
	if !isFinite(ratePct) {
		return nil, invalid("rate must be finite, got %v", ratePct)
	}
	if years < 0 {
		return nil, invalid("years must be non-negative, got %d", years)
	}

	growth := 1 + ratePct/100
	// 최종 값이 유한하면 중간 값도 유한 (|growth|^y 는 단조)
	if final := principal * math.Pow(growth, float64(years)); !isFinite(final) {
		return nil, invalid("projection overflows: %v at %v%% over %d years", principal, ratePct, years)
	}

	series := make(contracts.ProjectionSeries, years+1)
	series[0] = contracts.ProjectionPoint{Year: 0, Value: principal}

	for y := 1; y <= years; y++ {
		series[y] = contracts.ProjectionPoint{
			Year:  y,
			Value: principal * math.Pow(growth, float64(y)),
		}
	}

	return series, nil
}
