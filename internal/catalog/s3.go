package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Plantrich-blimp/plantrich-app/pkg/httputil"
)

// ObjectAPI is the part of the S3 client an S3Source calls.
// *s3.Client satisfies it.
type ObjectAPI interface {
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source serves a workbook stored in an S3 (or R2) bucket.
// The object is downloaded again only when its ETag changes.
type S3Source struct {
	api    ObjectAPI
	bucket string
	key    string

	mu          sync.Mutex
	body        []byte
	fingerprint string
}

// NewS3Source creates a source for s3://bucket/key
func NewS3Source(api ObjectAPI, bucket, key string) *S3Source {
	return &S3Source{api: api, bucket: bucket, key: key}
}

func (s *S3Source) String() string {
	return "s3://" + s.bucket + "/" + s.key
}

// Sheets lists sheets of the downloaded workbook
func (s *S3Source) Sheets(ctx context.Context) ([]string, error) {
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
func (s *S3Source) Rows(ctx context.Context, sheet string) ([][]string, error) {
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

// Fingerprint asks S3 for the object's current version without downloading it
func (s *S3Source) Fingerprint(ctx context.Context) (string, error) {
	return s.head(ctx)
}

func (s *S3Source) head(ctx context.Context) (string, error) {
	out, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return "", s.objectError(err)
	}

	if etag := aws.ToString(out.ETag); etag != "" {
		return "etag:" + etag, nil
	}
	return fmt.Sprintf("lm:%d-%d", aws.ToTime(out.LastModified).UnixNano(), aws.ToInt64(out.ContentLength)), nil
}

func (s *S3Source) ensure(ctx context.Context) ([]byte, error) {
	fingerprint, err := s.head(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.body != nil && s.fingerprint == fingerprint {
		return s.body, nil
	}

	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, s.objectError(err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(io.LimitReader(out.Body, httputil.MaxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", s, err)
	}
	if len(body) > httputil.MaxDownloadBytes {
		return nil, fmt.Errorf("download %s: workbook exceeds %d bytes", s, httputil.MaxDownloadBytes)
	}

	s.body = body
	s.fingerprint = fingerprint
	return body, nil
}

// objectError keeps ErrSourceNotFound for a missing bucket or object
func (s *S3Source) objectError(err error) error {
	var (
		notFound *types.NotFound
		noKey    *types.NoSuchKey
		noBucket *types.NoSuchBucket
		status   interface{ HTTPStatusCode() int }
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &noKey), errors.As(err, &noBucket):
		return fmt.Errorf("%w: %s", ErrSourceNotFound, s)
	case errors.As(err, &status) && status.HTTPStatusCode() == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrSourceNotFound, s)
	}
	return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, s, err)
}
