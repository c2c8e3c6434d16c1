package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Plantrich-blimp/plantrich-app/internal/contracts"
)

// Sheet names of the XLSX export
const (
	SummarySheet    = "Recommendation"
	ProjectionSheet = "Projection"
)

// WriteXLSX writes the summary table and a year-by-fund projection sheet
func WriteXLSX(w io.Writer, rec *contracts.Recommendation) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeSummarySheet(f, rec); err != nil {
		return err
	}
	if err := writeProjectionSheet(f, rec); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, rec *contracts.Recommendation) error {
	header := make([]interface{}, len(SummaryHeader))
	for i, h := range SummaryHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &header); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}

	for i, row := range rec.Rows {
		values := []interface{}{
			row.Category,
			row.FundName,
			cellValue(row.CAGR),
			cellValue(row.Rating),
			row.ExitLoad,
			Round2(row.Amount),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &values); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeProjectionSheet(f *excelize.File, rec *contracts.Recommendation) error {
	if _, err := f.NewSheet(ProjectionSheet); err != nil {
		return fmt.Errorf("create projection sheet: %w", err)
	}

	header := []interface{}{"Year"}
	for _, p := range rec.Projections {
		header = append(header, p.Name)
	}
	header = append(header, "Total")
	if err := f.SetSheetRow(ProjectionSheet, "A1", &header); err != nil {
		return fmt.Errorf("write projection header: %w", err)
	}

	combined := rec.CombinedProjection()
	for y := 0; y <= rec.Years; y++ {
		values := []interface{}{y}
		for _, p := range rec.Projections {
			v, _ := p.Series.At(y)
			values = append(values, Round2(v))
		}
		total, _ := combined.At(y)
		values = append(values, Round2(total))

		cell, err := excelize.CoordinatesToCellName(1, y+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ProjectionSheet, cell, &values); err != nil {
			return fmt.Errorf("write projection year %d: %w", y, err)
		}
	}
	return nil
}

func cellValue(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
