package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/roach88/rivulet/expr"
	"github.com/roach88/rivulet/schema"
)

// Batch groups heterogeneous insert/update/delete operations into one atomic
// unit: either every operation applies or none does. On failure the whole
// batch rolls back and the error reports the failing operation's index.
//
// After a successful commit the notifier is informed once per distinct table
// touched, coalesced, so a bulk write does not trigger a re-execution storm.
type Batch struct {
	sess *Session
	ops  []batchOp
}

// batchOp defers compilation to Commit so that validation errors carry the
// operation's index.
type batchOp struct {
	table   string
	compile func() (string, []any, error)
}

// Insert appends an insert of one companion. The target table is the
// companion's table.
func (b *Batch) Insert(c *schema.Companion) *Batch {
	t := c.Table()
	b.ops = append(b.ops, batchOp{
		table: t.Name,
		compile: func() (string, []any, error) {
			return compileInsert(t, ConflictAbort, c)
		},
	})
	return b
}

// InsertAll appends one insert per companion. All companions must target the
// same table; each companion is its own operation for failure reporting.
func (b *Batch) InsertAll(cs ...*schema.Companion) *Batch {
	var first *schema.Table
	for _, c := range cs {
		c := c
		t := c.Table()
		if first == nil {
			first = t
		}
		want := first
		b.ops = append(b.ops, batchOp{
			table: t.Name,
			compile: func() (string, []any, error) {
				if t != want {
					return "", nil, fmt.Errorf("insertAll mixes tables %q and %q", want.Name, t.Name)
				}
				return compileInsert(t, ConflictAbort, c)
			},
		})
	}
	return b
}

// Update appends an update of the companion's present slots under the given
// filter. A nil filter is rejected at Commit; use UpdateAll for a deliberate
// full-table write.
func (b *Batch) Update(c *schema.Companion, filter expr.Expr) *Batch {
	t := c.Table()
	b.ops = append(b.ops, batchOp{
		table: t.Name,
		compile: func() (string, []any, error) {
			return compileUpdate(t, filter, false, c)
		},
	})
	return b
}

// UpdateAll appends an explicit full-table update.
func (b *Batch) UpdateAll(c *schema.Companion) *Batch {
	t := c.Table()
	b.ops = append(b.ops, batchOp{
		table: t.Name,
		compile: func() (string, []any, error) {
			return compileUpdate(t, nil, true, c)
		},
	})
	return b
}

// Delete appends a filtered delete. A nil filter is rejected at Commit; use
// DeleteAll for a deliberate full-table delete.
func (b *Batch) Delete(t *schema.Table, filter expr.Expr) *Batch {
	b.ops = append(b.ops, batchOp{
		table: t.Name,
		compile: func() (string, []any, error) {
			return compileDelete(t, filter, false)
		},
	})
	return b
}

// DeleteAll appends an explicit full-table delete.
func (b *Batch) DeleteAll(t *schema.Table) *Batch {
	b.ops = append(b.ops, batchOp{
		table: t.Name,
		compile: func() (string, []any, error) {
			return compileDelete(t, nil, true)
		},
	})
	return b
}

// Commit compiles and executes every operation inside one transaction.
//
// All operations are compiled and validated before the transaction opens, so
// an invalid companion fails the batch without any storage-engine call. Any
// execution failure rolls the whole transaction back; no partial state is
// ever observable. The returned error is a *BatchError naming the failing
// operation.
func (b *Batch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}

	type compiled struct {
		index  int
		table  string
		sql    string
		params []any
	}
	stmts := make([]compiled, 0, len(b.ops))
	for i, op := range b.ops {
		sql, params, err := op.compile()
		if err != nil {
			return &BatchError{Index: i, Err: err}
		}
		if sql == "" {
			// No-op update (companion with no present slots).
			continue
		}
		stmts = append(stmts, compiled{index: i, table: op.table, sql: sql, params: params})
	}
	if len(stmts) == 0 {
		return nil
	}

	tx, err := b.sess.exec.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	for _, st := range stmts {
		if _, err := tx.Exec(ctx, st.sql, st.params...); err != nil {
			tx.Rollback()
			return &BatchError{Index: st.index, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("commit batch: %w", err)
	}

	// Coalesced notification: once per distinct table, not once per row.
	seen := make(map[string]struct{})
	var tables []string
	for _, st := range stmts {
		if _, ok := seen[st.table]; !ok {
			seen[st.table] = struct{}{}
			tables = append(tables, st.table)
		}
	}
	sort.Strings(tables)
	b.sess.notify(tables...)
	return nil
}
