package query

import (
	"context"
	"database/sql"
)

// Executor is the storage-engine collaborator: it executes parameterized SQL
// text and returns rows or mutation results. Storage-level errors (constraint
// violations, I/O failures) pass through this layer unchanged so callers can
// inspect the underlying cause.
type Executor interface {
	// Query executes a statement that returns rows. The caller closes the
	// returned rows.
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)

	// Exec executes a statement that mutates data.
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)

	// Begin opens a transaction. Used by the batch executor; single
	// statements rely on the storage engine's per-statement atomicity.
	Begin(ctx context.Context) (Tx, error)
}

// Tx is a storage-engine transaction. Commit or Rollback must be called
// exactly once.
type Tx interface {
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)
	Commit() error
	Rollback() error
}
