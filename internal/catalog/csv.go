package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const csvExt = ".csv"

// CSVSource reads sheets from a directory holding one <sheet>.csv per sheet
type CSVSource struct {
	dir string
}

// NewCSVSource creates a source over dir
func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

func (s *CSVSource) String() string {
	return s.dir
}

// Sheets lists the CSV files (without extension) in name order
func (s *CSVSource) Sheets(ctx context.Context) ([]string, error) {
	entries, err := s.entries()
	if err != nil {
		return nil, err
	}

	sheets := make([]string, 0, len(entries))
	for _, e := range entries {
		sheets = append(sheets, sheetName(e))
	}
	return sheets, nil
}

// Rows parses <sheet>.csv
func (s *CSVSource) Rows(ctx context.Context, sheet string) ([][]string, error) {
	entries, err := s.entries()
	if err != nil {
		return nil, err
	}

	var file string
	for _, e := range entries {
		if strings.EqualFold(sheetName(e), strings.TrimSpace(sheet)) {
			file = e.Name()
			break
		}
	}
	if file == "" {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	f, err := os.Open(filepath.Join(s.dir, file))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}
	return rows, nil
}

// Fingerprint hashes name, size and mtime of every CSV file
func (s *CSVSource) Fingerprint(ctx context.Context) (string, error) {
	entries, err := s.entries()
	if err != nil {
		return "", err
	}

	h := sha256.New()
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		fmt.Fprintf(h, "%s|%d|%d\n", e.Name(), info.Size(), info.ModTime().UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

func (s *CSVSource) entries() ([]fs.DirEntry, error) {
	all, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, s.dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", s.dir, err)
	}

	var out []fs.DirEntry
	for _, e := range all {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), csvExt) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

func sheetName(e fs.DirEntry) string {
	return strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
}
