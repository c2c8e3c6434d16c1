package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

// SummaryHeader is the column order of the recommendation export
var SummaryHeader = []string{"Category", "Fund Name", "CAGR", "Plantrich Rating", "Exit Load", "Amount Allocated"}

// WriteCSV writes the recommendation summary table
func WriteCSV(w io.Writer, rec *contracts.Recommendation) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(SummaryHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rec.Rows {
		if err := cw.Write(summaryRecord(row)); err != nil {
			return fmt.Errorf("write csv row %q: %w", row.FundName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func summaryRecord(row contracts.SummaryRow) []string {
	return []string{
		row.Category,
		row.FundName,
		optional(row.CAGR),
		optional(row.Rating),
		row.ExitLoad,
		Fixed2(row.Amount),
	}
}
