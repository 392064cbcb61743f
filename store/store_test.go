package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	_, err = s.Exec(context.Background(),
		"CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)")
	require.NoError(t, err)
	return s
}

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rivulet.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)

	// Opening an existing database succeeds too.
	s2, err := Open(path)
	require.NoError(t, err)
	s2.Close()
}

func TestOpen_AppliesPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rivulet.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var mode string
	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestStore_ExecQueryRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	res, err := s.Exec(ctx, "INSERT INTO kv (key, value) VALUES (?, ?)", "a", "1")
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := s.Query(ctx, "SELECT value FROM kv WHERE key = ?", "a")
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var value string
	require.NoError(t, rows.Scan(&value))
	assert.Equal(t, "1", value)
	assert.False(t, rows.Next())
	require.NoError(t, rows.Err())
}

func TestStore_StatementCacheReuse(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const stmt = "INSERT INTO kv (key, value) VALUES (?, ?)"
	_, err := s.Exec(ctx, stmt, "a", "1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.stmts.Len(), "create + insert")

	// Same text again: no new cache entry.
	_, err = s.Exec(ctx, stmt, "b", "2")
	require.NoError(t, err)
	assert.Equal(t, 2, s.stmts.Len())

	_, err = s.Exec(ctx, "DELETE FROM kv WHERE key = ?", "a")
	require.NoError(t, err)
	assert.Equal(t, 3, s.stmts.Len())
}

func TestStore_TransactionCommit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, "INSERT INTO kv (key, value) VALUES (?, ?)", "a", "1")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM kv").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStore_TransactionRollback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, "INSERT INTO kv (key, value) VALUES (?, ?)", "a", "1")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM kv").Scan(&count))
	assert.Zero(t, count)
}

func TestStore_CloseIsIdempotentOnNilDB(t *testing.T) {
	var s Store
	assert.NoError(t, s.Close())
}
