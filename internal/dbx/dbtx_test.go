package dbx

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func insert(ctx context.Context, q DBTX, v string) error {
	_, err := q.ExecContext(ctx, `INSERT INTO kv(v) VALUES (?)`, v)
	return err
}

func count(ctx context.Context, q DBTX) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&n)
	return n, err
}

func TestDBTX_SatisfiedByDBAndTx(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "dbx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE kv (v TEXT)`)
	require.NoError(t, err)

	require.NoError(t, insert(ctx, db, "a"))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, insert(ctx, tx, "b"))
	n, err := count(ctx, tx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.NoError(t, tx.Rollback())

	n, err = count(ctx, db)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
