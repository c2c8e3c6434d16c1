package catalog

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type testSheet struct {
	name string
	rows [][]interface{}
}

func newWorkbook(t *testing.T, sheets ...testSheet) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	for _, s := range sheets {
		_, err := f.NewSheet(s.name)
		require.NoError(t, err)
		for i, row := range s.rows {
			row := row
			cell := fmt.Sprintf("A%d", i+1)
			require.NoError(t, f.SetSheetRow(s.name, cell, &row))
		}
	}
	return f
}

func writeWorkbook(t *testing.T, sheets ...testSheet) string {
	t.Helper()

	f := newWorkbook(t, sheets...)
	defer f.Close()

	path := filepath.Join(t.TempDir(), "product_vault.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func workbookBytes(t *testing.T, sheets ...testSheet) []byte {
	t.Helper()

	f := newWorkbook(t, sheets...)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.Clone(buf.Bytes())
}

func mutualFundsSheet() testSheet {
	return testSheet{
		name: "Mutual Funds",
		rows: [][]interface{}{
			{" Fund Name ", "Category", "CAGR ", "Plantrich Rating", "Exit Load", "Fund Manager"},
			{"Alpha Bluechip", "LargeCap", 14.2, 4.5, "1% < 1Y", "R. Iyer"},
			{"Beta Emerging", "Midcap", "21%", "4", "Nil", ""},
			{"Gamma New", "Midcap", "N/A", 3, "", ""},
			{"", "Debt", 7, 3, "", ""},
		},
	}
}
