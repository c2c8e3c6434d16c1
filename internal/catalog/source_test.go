package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Plantrich-blimp/plantrich-app/pkg/httputil"
	"github.com/Plantrich-blimp/plantrich-app/pkg/logger"
)

func TestXLSXSource(t *testing.T) {
	ctx := context.Background()
	path := writeWorkbook(t, mutualFundsSheet())
	src := NewXLSXSource(path)

	sheets, err := src.Sheets(ctx)
	require.NoError(t, err)
	assert.Contains(t, sheets, "Mutual Funds")

	rows, err := src.Rows(ctx, "mutual funds")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "14.2", rows[1][2])

	_, err = src.Rows(ctx, "AIF")
	assert.ErrorIs(t, err, ErrSheetNotFound)

	fp1, err := src.Fingerprint(ctx)
	require.NoError(t, err)
	fp2, err := src.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
}

func TestXLSXSource_Missing(t *testing.T) {
	src := NewXLSXSource(filepath.Join(t.TempDir(), "nope.xlsx"))

	_, err := src.Fingerprint(context.Background())
	assert.ErrorIs(t, err, ErrSourceNotFound)

	_, err = src.Sheets(context.Background())
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestCSVSource(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "PMS.csv"),
		[]byte("Fund Name, Category,CAGR\n\"Omega, Focused\",Multicap,18.5\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	src := NewCSVSource(dir)

	sheets, err := src.Sheets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"PMS"}, sheets)

	rows, err := src.Rows(ctx, "pms")
	require.NoError(t, err)
	products := ParseProducts(rows)
	require.Len(t, products, 1)
	assert.Equal(t, "Omega, Focused", products[0].Name)
	assert.Equal(t, "Multicap", products[0].Category)

	_, err = src.Rows(ctx, "AIF")
	assert.ErrorIs(t, err, ErrSheetNotFound)

	fp1, err := src.Fingerprint(ctx)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AIF.csv"), []byte("Fund Name\nX\n"), 0o644))
	fp2, err := src.Fingerprint(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp2)

	_, err = NewCSVSource(filepath.Join(dir, "missing")).Sheets(ctx)
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestRemoteSource(t *testing.T) {
	ctx := context.Background()
	body := workbookBytes(t, mutualFundsSheet())

	var downloads atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		downloads.Add(1)
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write(body)
	}))
	defer server.Close()

	src := NewRemoteSource(server.URL, httputil.New(logger.Nop()).DisableRetry())

	rows, err := src.Rows(ctx, "Mutual Funds")
	require.NoError(t, err)
	assert.Len(t, ParseProducts(rows), 3)

	fp, err := src.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, `etag:"v1"`, fp)

	sheets, err := src.Sheets(ctx)
	require.NoError(t, err)
	assert.Contains(t, sheets, "Mutual Funds")

	assert.Equal(t, int32(1), downloads.Load(), "revalidation must not redownload")
}

func TestRemoteSource_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	src := NewRemoteSource(server.URL, httputil.New(logger.Nop()).DisableRetry())
	_, err := src.Fingerprint(context.Background())
	assert.ErrorIs(t, err, ErrSourceNotFound)
	assert.NotErrorIs(t, err, ErrSourceUnavailable)
}

func TestRemoteSource_FailuresOtherThanMissing(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusInternalServerError},
		{"bad gateway", http.StatusBadGateway},
		{"forbidden", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			src := NewRemoteSource(server.URL, httputil.New(logger.Nop()).DisableRetry())
			_, err := src.Fingerprint(context.Background())
			assert.ErrorIs(t, err, ErrSourceUnavailable)
			assert.NotErrorIs(t, err, ErrSourceNotFound)
		})
	}
}

func TestRemoteSource_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := httputil.New(logger.Nop()).DisableRetry().WithTimeout(50 * time.Millisecond)
	_, err := NewRemoteSource(server.URL, client).Fingerprint(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.NotErrorIs(t, err, ErrSourceNotFound)
}
