package report

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

var funcs = template.FuncMap{
	"inr":     FormatINR,
	"pct":     FormatPercent,
	"rating":  FormatRating,
	"fixed":   Fixed2,
	"cell":    escapeCell,
}

const allocationTemplate = `# {{ .Profile }} allocation

Investment: **{{ inr .InvestmentAmount }}**

| Category | Weight | Amount |
|:---|---:|---:|
{{- range .Entries }}
| {{ cell .Category }} | {{ fixed .WeightPercent }}% | {{ inr .Amount }} |
{{- end }}
| **Total** | | **{{ inr .TotalAmount }}** |
`

const productsTemplate = `# {{ .ProductType }}

{{ if .Empty -}}
_No products match the selected filters ({{ .Total }} in catalog)._
{{- else -}}
{{ len .Products }} of {{ .Total }} products

| Fund Name | Category | CAGR | Plantrich Rating | Exit Load |
|:---|:---|---:|---:|:---|
{{- range .Products }}
| {{ cell .Name }} | {{ cell .Category }} | {{ pct .CAGR }} | {{ rating .Rating }} | {{ cell .ExitLoad }} |
{{- end }}
{{- end }}
`

const projectionTemplate = `# Projection

{{ inr .Principal }} at {{ fixed .Rate }}% a year

| Year | Value |
|---:|---:|
{{- range .Series }}
| {{ .Year }} | {{ inr .Value }} |
{{- end }}
`

const recommendationTemplate = `# Recommendation{{ if .Profile }} ({{ .Profile }}){{ end }}
{{ if .ID }}
ID: ` + "`{{ .ID }}`" + `
{{ end }}
| Category | Fund Name | CAGR | Plantrich Rating | Exit Load | Amount Allocated |
|:---|:---|---:|---:|:---|---:|
{{- range .Rows }}
| {{ cell .Category }} | {{ cell .FundName }} | {{ pct .CAGR }} | {{ rating .Rating }} | {{ cell .ExitLoad }} | {{ inr .Amount }} |
{{- end }}
| **Total** | | | | | **{{ inr .TotalAmount }}** |
{{ if .Projections }}
## Projected value after {{ .Years }} years

| Fund Name | CAGR | Final Value |
|:---|---:|---:|
{{- range .Projections }}
| {{ cell .Name }} | {{ fixed .CAGR }}% | {{ inr .Series.Final }} |
{{- end }}
| **Total** | | **{{ inr .CombinedProjection.Final }}** |
{{ end }}
{{- if .Skipped }}
_Not projected (no CAGR): {{ range $i, $n := .Skipped }}{{ if $i }}, {{ end }}{{ $n }}{{ end }}_
{{ end }}
{{- range .Warnings }}
> ⚠️ {{ . }}
{{ end -}}
`

const tableTemplate = `# {{ .Name }}
{{ if .Headers }}
|{{ range .Headers }} {{ cell . }} |{{ end }}
|{{ range .Headers }}:---|{{ end }}
{{- range .Rows }}
|{{ range . }} {{ cell . }} |{{ end }}
{{- end }}
{{ end -}}
`

var templates = template.Must(template.New("report").Funcs(funcs).Parse(`{{ define "allocation" }}` + allocationTemplate + `{{ end }}` +
	`{{ define "products" }}` + productsTemplate + `{{ end }}` +
	`{{ define "projection" }}` + projectionTemplate + `{{ end }}` +
	`{{ define "recommendation" }}` + recommendationTemplate + `{{ end }}` +
	`{{ define "table" }}` + tableTemplate + `{{ end }}`))

func render(name string, data interface{}) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return b.String(), nil
}

// AllocationMarkdown renders a category allocation table
func AllocationMarkdown(res *contracts.AllocationResult) (string, error) {
	return render("allocation", res)
}

// ProductsMarkdown renders a filtered product list
func ProductsMarkdown(outcome contracts.FilterOutcome) (string, error) {
	return render("products", outcome)
}

// ProjectionMarkdown renders a single growth series
func ProjectionMarkdown(principal, rate float64, series contracts.ProjectionSeries) (string, error) {
	return render("projection", struct {
		Principal float64
		Rate      float64
		Series    contracts.ProjectionSeries
	}{principal, rate, series})
}

// RecommendationMarkdown renders the summary table and projected values
func RecommendationMarkdown(rec *contracts.Recommendation) (string, error) {
	return render("recommendation", rec)
}

// TableMarkdown renders a generic sheet (onboarding sections)
func TableMarkdown(t contracts.Table) (string, error) {
	return render("table", t)
}

// ProfilesMarkdown lists profiles with their category weights
func ProfilesMarkdown(profiles []contracts.AllocationProfile) string {
	var b strings.Builder
	b.WriteString("# Risk profiles\n")
	for _, p := range profiles {
		fmt.Fprintf(&b, "\n## %s\n\n| Category | Weight |\n|:---|---:|\n", p.Name)
		for _, w := range p.Weights {
			fmt.Fprintf(&b, "| %s | %s%% |\n", escapeCell(w.Category), Fixed2(w.Weight))
		}
	}
	return b.String()
}

// Render passes markdown through glamour for terminal display.
// An empty style picks one from the terminal background.
func Render(markdown, style string) (string, error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}

	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(120))
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "|", `\|`)
}
