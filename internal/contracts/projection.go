package contracts

// DefaultProjectionYears is the default projection horizon
const DefaultProjectionYears = 5

// ProjectionPoint is a (year, value) pair
type ProjectionPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// ProjectionSeries is an ordered growth series for years 0..N
type ProjectionSeries []ProjectionPoint

// Final returns the value at the last year
func (s ProjectionSeries) Final() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Value
}

// At returns the value at the given year
func (s ProjectionSeries) At(year int) (float64, bool) {
	for _, p := range s {
		if p.Year == year {
			return p.Value, true
		}
	}
	return 0, false
}

// Years returns the x-axis of the series
func (s ProjectionSeries) Years() []int {
	years := make([]int, len(s))
	for i, p := range s {
		years[i] = p.Year
	}
	return years
}
