package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads sheets from a workbook on disk.
// The file is reopened on every call so edits are picked up after Refresh.
type XLSXSource struct {
	path string
}

// NewXLSXSource creates a source for the workbook at path
func NewXLSXSource(path string) *XLSXSource {
	return &XLSXSource{path: path}
}

func (s *XLSXSource) String() string {
	return s.path
}

// Sheets lists the workbook's sheets
func (s *XLSXSource) Sheets(ctx context.Context) ([]string, error) {
	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// Rows returns all rows of sheet
func (s *XLSXSource) Rows(ctx context.Context, sheet string) ([][]string, error) {
	f, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return workbookRows(f, sheet)
}

// Fingerprint combines modification time and size
func (s *XLSXSource) Fingerprint(ctx context.Context) (string, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, s.path)
	}
	if err != nil {
		return "", fmt.Errorf("stat workbook: %w", err)
	}
	return fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size()), nil
}

func (s *XLSXSource) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	return f, nil
}

// readWorkbook opens an in-memory workbook
func readWorkbook(r io.Reader) (*excelize.File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	return f, nil
}

func workbookRows(f *excelize.File, sheet string) ([][]string, error) {
	name, ok := resolveSheet(f.GetSheetList(), sheet)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	return rows, nil
}
