package query

import (
	"context"
	"fmt"

	"github.com/roach88/rivulet/expr"
	"github.com/roach88/rivulet/schema"
)

// DeleteBuilder composes a single delete statement. Executing without Where
// or AllRows fails with ErrNoPredicate.
type DeleteBuilder struct {
	sess    *Session
	table   *schema.Table
	filter  expr.Expr
	allRows bool
}

// Where adds a boolean filter. Successive calls are conjoined with AND.
func (b *DeleteBuilder) Where(e expr.Expr) *DeleteBuilder {
	if b.filter == nil {
		b.filter = e
	} else {
		b.filter = expr.And(b.filter, e)
	}
	return b
}

// AllRows is the explicit full-table marker.
func (b *DeleteBuilder) AllRows() *DeleteBuilder {
	b.allRows = true
	return b
}

// Go executes the delete and returns the number of deleted rows.
func (b *DeleteBuilder) Go(ctx context.Context) (int64, error) {
	sql, params, err := compileDelete(b.table, b.filter, b.allRows)
	if err != nil {
		return 0, err
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

// compileDelete renders a DELETE statement. Shared with the batch executor.
func compileDelete(t *schema.Table, filter expr.Expr, allRows bool) (string, []any, error) {
	whereSQL, params, err := compilePredicate(t, filter, allRows, "delete")
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("DELETE FROM %s%s", t.Name, whereSQL), params, nil
}
