package catalog

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Plantrich-blimp/plantrich-app/pkg/httputil"
)

// RemoteSource downloads a workbook over HTTP and serves sheets from the
// last downloaded copy. Fingerprint performs a conditional GET.
type RemoteSource struct {
	url    string
	client *httputil.Client

	mu          sync.Mutex
	body        []byte
	etag        string
	fingerprint string
}

// NewRemoteSource creates a source for the workbook at url
func NewRemoteSource(url string, client *httputil.Client) *RemoteSource {
	return &RemoteSource{url: url, client: client}
}

func (s *RemoteSource) String() string {
	return s.url
}

// Sheets lists sheets of the downloaded workbook
func (s *RemoteSource) Sheets(ctx context.Context) ([]string, error) {
	body, err := s.ensure(ctx)
	if err != nil {
		return nil, err
	}

	f, err := readWorkbook(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// Rows returns all rows of sheet from the downloaded workbook
func (s *RemoteSource) Rows(ctx context.Context, sheet string) ([][]string, error) {
	body, err := s.ensure(ctx)
	if err != nil {
		return nil, err
	}

	f, err := readWorkbook(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return workbookRows(f, sheet)
}

// Fingerprint revalidates the workbook. ETag is preferred, then
// Last-Modified, then a content hash.
func (s *RemoteSource) Fingerprint(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fetchLocked(ctx); err != nil {
		return "", err
	}
	return s.fingerprint, nil
}

func (s *RemoteSource) ensure(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.body == nil {
		if err := s.fetchLocked(ctx); err != nil {
			return nil, err
		}
	}
	return s.body, nil
}

func (s *RemoteSource) fetchLocked(ctx context.Context) error {
	etag := ""
	if s.body != nil {
		etag = s.etag
	}

	dl, err := s.client.Fetch(ctx, s.url, etag)
	if err != nil {
		return s.fetchError(err)
	}
	if dl.NotModified {
		return nil
	}

	s.body = dl.Body
	s.etag = dl.ETag
	switch {
	case dl.ETag != "":
		s.fingerprint = "etag:" + dl.ETag
	case dl.LastModified != "":
		s.fingerprint = "lm:" + dl.LastModified
	default:
		sum := sha256.Sum256(dl.Body)
		s.fingerprint = "sha:" + hex.EncodeToString(sum[:8])
	}
	return nil
}

// fetchError keeps ErrSourceNotFound for a 404 answer only
func (s *RemoteSource) fetchError(err error) error {
	var status *httputil.StatusError
	if errors.As(err, &status) && status.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, s.url)
	}
	return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, s.url, err)
}
