// Package report renders allocations, product lists, projections and
// recommendations as CSV, XLSX, markdown and chart data.
package report

import (
	"math"
	"strconv"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the ISO code every amount is reported in
const Currency = "INR"

// missingMark stands in for absent or non-finite numbers in human-readable output
const missingMark = "-"

// decimal cannot represent NaN or ±Inf
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Round2 rounds half away from zero to two decimals.
// NaN and ±Inf are returned unchanged.
func Round2(v float64) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Fixed2 formats v with exactly two decimals ("NaN", "+Inf", "-Inf" otherwise)
func Fixed2(v float64) string {
	if !finite(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatINR formats an amount with the rupee sign and separators.
// Non-finite amounts render as "-"; amounts beyond int64 paise lose the separators.
func FormatINR(amount float64) string {
	if !finite(amount) {
		return missingMark
	}
	minor := decimal.NewFromFloat(amount).Shift(2).Round(0)
	if !minor.BigInt().IsInt64() {
		return money.GetCurrency(Currency).Grapheme + minor.Shift(-2).StringFixed(2)
	}
	return money.New(minor.IntPart(), Currency).Display()
}

// FormatPercent formats an optional percentage, "-" when missing
func FormatPercent(v *float64) string {
	if v == nil || !finite(*v) {
		return missingMark
	}
	return decimal.NewFromFloat(*v).StringFixed(2) + "%"
}

// FormatRating formats an optional rating, "-" when missing
func FormatRating(v *float64) string {
	if v == nil || !finite(*v) {
		return missingMark
	}
	return decimal.NewFromFloat(*v).String()
}

// optional formats an optional number for machine-readable exports, "" when missing
func optional(v *float64) string {
	if v == nil || !finite(*v) {
		return ""
	}
	return decimal.NewFromFloat(*v).String()
}
