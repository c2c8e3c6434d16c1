package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

type field int

const (
	fieldUnknown field = iota
	fieldName
	fieldCategory
	fieldCAGR
	fieldRating
	fieldExitLoad
	fieldMinInvestment
	fieldHorizon
	fieldRationale
)

// columnAliases maps normalised headers to product fields
var columnAliases = map[string]field{
	"fund name":          fieldName,
	"name":               fieldName,
	"scheme name":        fieldName,
	"stock name":         fieldName,
	"product name":       fieldName,
	"category":           fieldCategory,
	"cagr":               fieldCAGR,
	"cagr (%)":           fieldCAGR,
	"cagr %":             fieldCAGR,
	"plantrich rating":   fieldRating,
	"rating":             fieldRating,
	"exit load":          fieldExitLoad,
	"min investment":     fieldMinInvestment,
	"minimum investment": fieldMinInvestment,
	"horizon":            fieldHorizon,
	"investment horizon": fieldHorizon,
	"rationale":          fieldRationale,
}

// NormalizeHeader trims a header and collapses inner whitespace
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(h), " ")
}

// ParseNumber reads a numeric cell. Percent signs, rupee signs, thousands
// separators and spaces are tolerated; anything else is treated as missing.
func ParseNumber(s string) *float64 {
	cleaned := strings.NewReplacer("%", "", ",", "", "₹", "", " ", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return nil
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ParseProducts converts sheet rows (header first) into products.
// Rows without a name are skipped; a malformed cell never fails the row.
func ParseProducts(rows [][]string) []contracts.Product {
	products := make([]contracts.Product, 0)
	if len(rows) == 0 {
		return products
	}

	headers := make([]string, len(rows[0]))
	fields := make([]field, len(rows[0]))
	assigned := make(map[field]bool)
	for i, h := range rows[0] {
		headers[i] = NormalizeHeader(h)
		f := columnAliases[strings.ToLower(headers[i])]
		// 같은 필드가 두 번 나오면 첫 컬럼이 우선
		if f != fieldUnknown && assigned[f] {
			f = fieldUnknown
		}
		assigned[f] = true
		fields[i] = f
	}

	for _, row := range rows[1:] {
		p := contracts.Product{}
		for i, f := range fields {
			if i >= len(row) {
				break
			}
			cell := strings.TrimSpace(row[i])

			switch f {
			case fieldName:
				p.Name = cell
			case fieldCategory:
				p.Category = cell
			case fieldCAGR:
				p.CAGR = ParseNumber(cell)
			case fieldRating:
				p.Rating = ParseNumber(cell)
			case fieldExitLoad:
				p.ExitLoad = cell
			case fieldMinInvestment:
				p.MinInvestment = ParseNumber(cell)
			case fieldHorizon:
				p.Horizon = cell
			case fieldRationale:
				p.Rationale = cell
			default:
				if headers[i] == "" || cell == "" {
					continue
				}
				if p.Extra == nil {
					p.Extra = make(map[string]string)
				}
				p.Extra[headers[i]] = cell
			}
		}

		if p.Name == "" {
			continue
		}
		products = append(products, p)
	}

	return products
}

// ParseTable converts sheet rows into a display table.
// Headers are trimmed, rows are padded to the widest row and blank rows dropped.
func ParseTable(name string, rows [][]string) contracts.Table {
	table := contracts.Table{Name: name, Headers: []string{}, Rows: [][]string{}}
	if len(rows) == 0 {
		return table
	}

	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	table.Headers = make([]string, width)
	for i, h := range rows[0] {
		table.Headers[i] = NormalizeHeader(h)
	}

	for _, r := range rows[1:] {
		if isBlank(r) {
			continue
		}
		padded := make([]string, width)
		copy(padded, r)
		table.Rows = append(table.Rows, padded)
	}

	return table
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
