package catalog

import (
	"context"
	"fmt"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

// OnboardingBook exposes every sheet of the onboarding workbook as a table
type OnboardingBook struct {
	source Source
}

// NewOnboardingBook wraps source
func NewOnboardingBook(source Source) *OnboardingBook {
	return &OnboardingBook{source: source}
}

// Sheets lists the onboarding sections in workbook order
func (b *OnboardingBook) Sheets(ctx context.Context) ([]string, error) {
	sheets, err := b.source.Sheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list onboarding sections: %w", err)
	}
	return sheets, nil
}

// Section returns one section as a table.
// Unknown sections yield ErrSheetNotFound.
func (b *OnboardingBook) Section(ctx context.Context, name string) (contracts.Table, error) {
	sheets, err := b.Sheets(ctx)
	if err != nil {
		return contracts.Table{}, err
	}

	sheet, ok := resolveSheet(sheets, name)
	if !ok {
		return contracts.Table{}, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}

	rows, err := b.source.Rows(ctx, sheet)
	if err != nil {
		return contracts.Table{}, fmt.Errorf("read onboarding section %q: %w", sheet, err)
	}

	return ParseTable(sheet, rows), nil
}
