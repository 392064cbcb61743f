package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/rivulet/expr"
	"github.com/roach88/rivulet/schema"
)

// UpdateBuilder composes a single update statement. Write applies the present
// slots of a companion to every matched row; Replace rewrites a full entity
// keyed by its primary key. Executing without Where or AllRows fails with
// ErrNoPredicate.
type UpdateBuilder struct {
	sess    *Session
	table   *schema.Table
	filter  expr.Expr
	allRows bool
}

// Where adds a boolean filter. Successive calls are conjoined with AND.
func (b *UpdateBuilder) Where(e expr.Expr) *UpdateBuilder {
	if b.filter == nil {
		b.filter = e
	} else {
		b.filter = expr.And(b.filter, e)
	}
	return b
}

// AllRows is the explicit full-table marker. An update with neither Where
// nor AllRows does not execute.
func (b *UpdateBuilder) AllRows() *UpdateBuilder {
	b.allRows = true
	return b
}

// Write applies the present slots of c to every matched row and returns the
// affected-row count. A companion with no present slots is a no-op: zero
// rows affected, no statement executed, no notification.
func (b *UpdateBuilder) Write(ctx context.Context, c *schema.Companion) (int64, error) {
	sql, params, err := compileUpdate(b.table, b.filter, b.allRows, c)
	if err != nil {
		return 0, err
	}
	if sql == "" {
		return 0, nil
	}
	res, err := b.sess.exec.Exec(ctx, sql, params...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	b.sess.notify(b.table.Name)
	return n, nil
}

// Replace rewrites the row identified by the entity's primary key with the
// entity's non-key fields. The filter is derived implicitly from the primary
// key; combining Replace with Where or AllRows fails with a
// ConflictingFilterError. The entity must be a full row: every column of the
// table must be bound.
func (b *UpdateBuilder) Replace(ctx context.Context, entity schema.Row) (int64, error) {
	if b.filter != nil || b.allRows {
		return 0, &ConflictingFilterError{Table: b.table.Name}
	}
	pk := b.table.PrimaryKey()
	if len(pk) == 0 {
		return 0, fmt.Errorf("replace on %q: table has no primary key", b.table.Name)
	}

	conds := make([]expr.Expr, 0, len(pk))
	for _, col := range pk {
		v, ok := entity[col.Name]
		if !ok || v == nil {
			return 0, fmt.Errorf("replace on %q: entity is missing primary key column %q", b.table.Name, col.Name)
		}
		conds = append(conds, expr.Eq(col, v))
	}

	c := schema.NewCompanion(b.table)
	for _, col := range b.table.Columns {
		if col.IsPrimaryKey {
			continue
		}
		v, ok := entity[col.Name]
		if !ok {
			return 0, fmt.Errorf("replace on %q: entity is missing column %q", b.table.Name, col.Name)
		}
		c.Set(col, schema.V(v))
	}

	sql, params, err := compileUpdate(b.table, expr.And(conds...), false, c)
	if err != nil {
		return 0, err
	}
	if sql == "" {
		return 0, nil
	}
	res, err := b.sess.exec.Exec(ctx, sql, params...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	b.sess.notify(b.table.Name)
	return n, nil
}

// compileUpdate renders an UPDATE statement. An empty statement ("") with a
// nil error marks the no-present-slots no-op. Shared with the batch executor.
func compileUpdate(t *schema.Table, filter expr.Expr, allRows bool, c *schema.Companion) (string, []any, error) {
	if err := c.Err(); err != nil {
		return "", nil, err
	}
	if c.Table() != t {
		return "", nil, fmt.Errorf("companion targets table %q, update targets %q", c.Table().Name, t.Name)
	}

	cols := c.PresentColumns()
	if len(cols) == 0 {
		return "", nil, nil
	}

	var sb strings.Builder
	var params []any
	fmt.Fprintf(&sb, "UPDATE %s SET ", t.Name)
	for i, name := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(" = ?")
		params = append(params, c.Slot(name).Get())
	}

	whereSQL, whereParams, err := compilePredicate(t, filter, allRows, "update")
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(whereSQL)
	params = append(params, whereParams...)

	return sb.String(), params, nil
}

// compilePredicate renders the WHERE clause for update and delete, enforcing
// the explicit all-rows contract and the target-table invariant on the
// filter's column references.
func compilePredicate(t *schema.Table, filter expr.Expr, allRows bool, op string) (string, []any, error) {
	if filter == nil {
		if !allRows {
			return "", nil, ErrNoPredicate
		}
		return "", nil, nil
	}
	for _, dep := range expr.Tables(filter) {
		if dep != t.Name {
			return "", nil, fmt.Errorf("%s on %q: filter references table %q", op, t.Name, dep)
		}
	}
	sql, params, err := expr.CompileBool(filter)
	if err != nil {
		return "", nil, err
	}
	return " WHERE " + sql, params, nil
}
