// Package catalog loads the Product Vault and onboarding workbooks into
// typed catalogs and tables.
package catalog

import (
	"context"
	"strings"
)

// Source is a read-only collection of named sheets
// ⭐ SSOT: 워크북 파일 접근은 Source 구현체에서만
type Source interface {
	// Sheets lists sheet names in workbook order
	Sheets(ctx context.Context) ([]string, error)

	// Rows returns every row of a sheet, header row first.
	// A missing sheet yields ErrSheetNotFound.
	Rows(ctx context.Context, sheet string) ([][]string, error)

	// Fingerprint identifies the current version of the source.
	// It changes whenever the content may have changed.
	Fingerprint(ctx context.Context) (string, error)

	// String describes the source for logs and errors
	String() string
}

// resolveSheet finds a sheet by name, ignoring case and surrounding spaces
func resolveSheet(sheets []string, name string) (string, bool) {
	want := strings.TrimSpace(name)
	for _, s := range sheets {
		if strings.EqualFold(strings.TrimSpace(s), want) {
			return s, true
		}
	}
	return "", false
}
