package report

import "github.com/Plantrich-blimp/plantrich-app/internal/contracts"

// PieSlice is one labelled share of a pie chart
type PieSlice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// PieChart is the data behind a composition or allocation pie
type PieChart struct {
	Title  string     `json:"title"`
	Slices []PieSlice `json:"slices"`
}

// LineSeries is one curve of a line chart, aligned with LineChart.X
type LineSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// LineChart is the data behind a growth chart; every series shares X
type LineChart struct {
	Title  string       `json:"title"`
	X      []int        `json:"x"`
	Series []LineSeries `json:"series"`
}

func newPie(title string, labels []string, values []float64) PieChart {
	total := 0.0
	for _, v := range values {
		total += v
	}

	chart := PieChart{Title: title, Slices: make([]PieSlice, 0, len(values))}
	for i, v := range values {
		pct := 0.0
		if total > 0 {
			pct = Round2(v / total * 100)
		}
		chart.Slices = append(chart.Slices, PieSlice{Label: labels[i], Value: Round2(v), Percent: pct})
	}
	return chart
}

// AllocationPie charts the category split of an allocation
func AllocationPie(res *contracts.AllocationResult) PieChart {
	labels := make([]string, 0, len(res.Entries))
	values := make([]float64, 0, len(res.Entries))
	for _, e := range res.Entries {
		labels = append(labels, e.Category)
		values = append(values, e.Amount)
	}
	return newPie(res.Profile+" allocation", labels, values)
}

// CompositionPie charts the fund-level split of a recommendation
func CompositionPie(rec *contracts.Recommendation) PieChart {
	labels := make([]string, 0, len(rec.Composition))
	values := make([]float64, 0, len(rec.Composition))
	for _, s := range rec.Composition {
		labels = append(labels, s.Name)
		values = append(values, s.Amount)
	}
	return newPie("Portfolio composition", labels, values)
}

// ProjectionChart charts every product curve plus their total
func ProjectionChart(rec *contracts.Recommendation) LineChart {
	chart := LineChart{
		Title:  "Projected growth",
		X:      axis(rec.Years),
		Series: make([]LineSeries, 0, len(rec.Projections)+1),
	}

	for _, p := range rec.Projections {
		chart.Series = append(chart.Series, LineSeries{Name: p.Name, Values: values(p.Series, rec.Years)})
	}
	if len(rec.Projections) > 0 {
		chart.Series = append(chart.Series, LineSeries{Name: "Total", Values: values(rec.CombinedProjection(), rec.Years)})
	}
	return chart
}

// SeriesChart charts a single projection
func SeriesChart(name string, series contracts.ProjectionSeries) LineChart {
	years := len(series) - 1
	if years < 0 {
		years = 0
	}
	return LineChart{
		Title:  name,
		X:      axis(years),
		Series: []LineSeries{{Name: name, Values: values(series, years)}},
	}
}

func axis(years int) []int {
	x := make([]int, years+1)
	for i := range x {
		x[i] = i
	}
	return x
}

func values(series contracts.ProjectionSeries, years int) []float64 {
	out := make([]float64, years+1)
	for y := range out {
		v, _ := series.At(y)
		out[y] = Round2(v)
	}
	return out
}
