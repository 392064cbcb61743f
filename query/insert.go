package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/rivulet/schema"
)

// ConflictPolicy selects the insert conflict mode.
type ConflictPolicy int

const (
	// ConflictAbort is the default: a constraint violation fails the insert.
	ConflictAbort ConflictPolicy = iota
	// ConflictReplace replaces the conflicting row (INSERT OR REPLACE).
	ConflictReplace
	// ConflictIgnore silently skips the conflicting row (INSERT OR IGNORE).
	ConflictIgnore
)

// InsertBuilder composes a single insert statement from a companion.
type InsertBuilder struct {
	sess     *Session
	table    *schema.Table
	conflict ConflictPolicy
}

// OrReplace makes the insert replace a conflicting row.
func (b *InsertBuilder) OrReplace() *InsertBuilder {
	b.conflict = ConflictReplace
	return b
}

// OrIgnore makes the insert skip a conflicting row.
func (b *InsertBuilder) OrIgnore() *InsertBuilder {
	b.conflict = ConflictIgnore
	return b
}

// Insert validates the companion and executes the statement, returning the
// storage-engine-assigned row identifier.
//
// Validation happens before any storage-engine call: every non-nullable
// column without a default or engine-assigned value must be present in the
// companion, or the insert fails with a MissingRequiredFieldError naming the
// column. Absent columns with defaults keep their defaults; Present(null)
// writes an explicit NULL.
func (b *InsertBuilder) Insert(ctx context.Context, c *schema.Companion) (int64, error) {
	sql, params, err := compileInsert(b.table, b.conflict, c)
	if err != nil {
		return 0, err
	}
	res, err := b.sess.exec.Exec(ctx, sql, params...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		// The engine executed the insert; treat a missing id as "no id".
		id = 0
	}
	b.sess.notify(b.table.Name)
	return id, nil
}

// compileInsert validates and renders an INSERT statement. Shared with the
// batch executor.
func compileInsert(t *schema.Table, policy ConflictPolicy, c *schema.Companion) (string, []any, error) {
	if err := c.Err(); err != nil {
		return "", nil, err
	}
	if c.Table() != t {
		return "", nil, fmt.Errorf("companion targets table %q, insert targets %q", c.Table().Name, t.Name)
	}
	for _, col := range t.Columns {
		if col.Required() && !c.Slot(col.Name).Present() {
			return "", nil, &MissingRequiredFieldError{Table: t.Name, Column: col.Name}
		}
	}

	verb := "INSERT"
	switch policy {
	case ConflictReplace:
		verb = "INSERT OR REPLACE"
	case ConflictIgnore:
		verb = "INSERT OR IGNORE"
	}

	cols := c.PresentColumns()
	if len(cols) == 0 {
		return fmt.Sprintf("%s INTO %s DEFAULT VALUES", verb, t.Name), nil, nil
	}

	params := make([]any, len(cols))
	holes := make([]string, len(cols))
	for i, name := range cols {
		params[i] = c.Slot(name).Get()
		holes[i] = "?"
	}
	sql := fmt.Sprintf("%s INTO %s (%s) VALUES (%s)",
		verb, t.Name, strings.Join(cols, ", "), strings.Join(holes, ", "))
	return sql, params, nil
}
