package store

import (
	"context"
	"database/sql"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/rivulet/query"
)

// stmtCacheSize bounds the prepared-statement cache. Statement text repeats
// heavily (watch subscriptions re-execute the same select on every relevant
// write), so preparing once per distinct text pays off quickly.
const stmtCacheSize = 128

// Store provides SQLite-backed statement execution.
// Uses WAL mode for concurrent read access during writes.
type Store struct {
	db    *sql.DB
	stmts *lru.Cache[string, *sql.Stmt]
}

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1) // Single writer to avoid SQLITE_BUSY errors
	db.SetMaxIdleConns(1) // Keep one connection ready

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	stmts, err := lru.NewWithEvict[string, *sql.Stmt](stmtCacheSize, func(_ string, stmt *sql.Stmt) {
		stmt.Close()
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create statement cache: %w", err)
	}

	return &Store{db: db, stmts: stmts}, nil
}

// OpenInMemory opens a private in-memory database. Useful for tests and
// ephemeral workloads; contents vanish on Close.
func OpenInMemory() (*Store, error) {
	return Open(":memory:")
}

// Close closes the database connection after releasing all cached
// prepared statements.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	s.stmts.Purge()
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer the builder API when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// prepare returns a cached prepared statement for the given text, preparing
// and caching it on first use. Evicted statements are closed by the cache.
func (s *Store) prepare(ctx context.Context, queryText string) (*sql.Stmt, error) {
	if stmt, ok := s.stmts.Get(queryText); ok {
		return stmt, nil
	}
	stmt, err := s.db.PrepareContext(ctx, queryText)
	if err != nil {
		return nil, err
	}
	s.stmts.Add(queryText, stmt)
	return stmt, nil
}

// Query executes a statement that returns rows.
// Callers are responsible for closing the returned rows.
func (s *Store) Query(ctx context.Context, queryText string, args ...any) (*sql.Rows, error) {
	stmt, err := s.prepare(ctx, queryText)
	if err != nil {
		return nil, err
	}
	return stmt.QueryContext(ctx, args...)
}

// Exec executes a statement that mutates data or schema.
func (s *Store) Exec(ctx context.Context, queryText string, args ...any) (sql.Result, error) {
	stmt, err := s.prepare(ctx, queryText)
	if err != nil {
		return nil, err
	}
	return stmt.ExecContext(ctx, args...)
}

// Begin opens a transaction for the batch executor.
func (s *Store) Begin(ctx context.Context) (query.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a SQLite transaction. Statements inside a transaction are not
// routed through the statement cache; transactions are short-lived and the
// cache belongs to the connection.
type Tx struct {
	tx *sql.Tx
}

// Exec executes a statement inside the transaction.
func (t *Tx) Exec(ctx context.Context, queryText string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, queryText, args...)
}

// Commit commits the transaction.
func (t *Tx) Commit() error { return t.tx.Commit() }

// Rollback aborts the transaction.
func (t *Tx) Rollback() error { return t.tx.Rollback() }

var _ query.Executor = (*Store)(nil)

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
