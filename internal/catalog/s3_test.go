package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	body    []byte
	etag    string
	missing bool
	err     error

	heads int
	gets  int
}

func (f *fakeObjects) HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.heads++
	if f.err != nil {
		return nil, f.err
	}
	if f.missing {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{ETag: aws.String(f.etag), ContentLength: aws.Int64(int64(len(f.body)))}, nil
}

func (f *fakeObjects) GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gets++
	if f.err != nil {
		return nil, f.err
	}
	if f.missing {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body)), ETag: aws.String(f.etag)}, nil
}

func TestS3Source(t *testing.T) {
	ctx := context.Background()
	objects := &fakeObjects{
		body: workbookBytes(t, mutualFundsSheet()),
		etag: `"v1"`,
	}
	src := NewS3Source(objects, "vault", "product_vault.xlsx")

	assert.Equal(t, "s3://vault/product_vault.xlsx", src.String())

	fp, err := src.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, `etag:"v1"`, fp)
	assert.Zero(t, objects.gets, "fingerprint must not download")

	sheets, err := src.Sheets(ctx)
	require.NoError(t, err)
	assert.Contains(t, sheets, "Mutual Funds")

	rows, err := src.Rows(ctx, " mutual funds ")
	require.NoError(t, err)
	assert.Len(t, ParseProducts(rows), 3)
	assert.Equal(t, 1, objects.gets, "unchanged object is downloaded once")

	_, err = src.Rows(ctx, "AIF")
	assert.ErrorIs(t, err, ErrSheetNotFound)

	// A new ETag triggers a new download
	objects.body = workbookBytes(t, testSheet{name: "AIF", rows: [][]interface{}{{"Fund Name", "Category"}}})
	objects.etag = `"v2"`

	sheets, err = src.Sheets(ctx)
	require.NoError(t, err)
	assert.Contains(t, sheets, "AIF")
	assert.NotContains(t, sheets, "Mutual Funds")
	assert.Equal(t, 2, objects.gets)
}

func TestS3Source_Missing(t *testing.T) {
	src := NewS3Source(&fakeObjects{missing: true}, "vault", "nope.xlsx")

	_, err := src.Fingerprint(context.Background())
	assert.ErrorIs(t, err, ErrSourceNotFound)

	_, err = src.Sheets(context.Background())
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestS3Source_UnavailableIsNotMissing(t *testing.T) {
	src := NewS3Source(&fakeObjects{err: errors.New("operation error S3: HeadObject, request timeout")}, "vault", "product_vault.xlsx")

	_, err := src.Fingerprint(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	assert.NotErrorIs(t, err, ErrSourceNotFound)
}
