package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "plantrich.db")

	conn, err := OpenSQLite(ctx, path)
	require.NoError(t, err)

	var n int
	require.NoError(t, conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM recommendations`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, conn.Close())

	// Reopening keeps the schema idempotent
	conn, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	assert.NoError(t, conn.Close())
}
