package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/rivulet/expr"
	"github.com/roach88/rivulet/schema"
	"github.com/roach88/rivulet/stream"
)

// SelectBuilder composes a single select statement: an optional filter, an
// ordered sequence of ordering terms, and an optional limit/offset window.
// The builder is consumed by Get/GetSingle/Watch/WatchSingle and not retained
// afterwards.
type SelectBuilder struct {
	sess     *Session
	table    *schema.Table
	filter   expr.Expr
	ordering []expr.OrderingTerm
	limit    int // -1 = unset
	offset   int // -1 = unset

	transform func(schema.Row) schema.Row

	err error // first builder misuse, surfaced at compile
}

// compiledSelect is the opaque executable unit: statement text, parameters,
// the target table for row materialization, and the dependency-table set
// that drives reactive re-execution.
type compiledSelect struct {
	sql    string
	params []any
	table  *schema.Table
	tables []string
}

// Where adds a boolean filter. Successive calls are conjoined with AND.
// Absence of any filter means "all rows match".
func (b *SelectBuilder) Where(e expr.Expr) *SelectBuilder {
	if b.filter == nil {
		b.filter = e
	} else {
		b.filter = expr.And(b.filter, e)
	}
	return b
}

// OrderBy appends ordering terms. Term order is significant: the first term
// is the primary sort key. No ordering means storage-engine-defined order.
func (b *SelectBuilder) OrderBy(terms ...expr.OrderingTerm) *SelectBuilder {
	b.ordering = append(b.ordering, terms...)
	return b
}

// Limit caps the number of returned rows. n must be non-negative.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	if n < 0 && b.err == nil {
		b.err = fmt.Errorf("limit must be non-negative, got %d", n)
	}
	b.limit = n
	return b
}

// Offset skips the first n rows. n must be non-negative. Offset without
// Limit means "skip n, return the rest".
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	if n < 0 && b.err == nil {
		b.err = fmt.Errorf("offset must be non-negative, got %d", n)
	}
	b.offset = n
	return b
}

// Map composes a pure row transform, applied to each materialized row before
// delivery on both the one-shot and the streaming path. The transform never
// re-executes the query. Successive Map calls compose in order.
func (b *SelectBuilder) Map(fn func(schema.Row) schema.Row) *SelectBuilder {
	if prev := b.transform; prev != nil {
		b.transform = func(r schema.Row) schema.Row { return fn(prev(r)) }
	} else {
		b.transform = fn
	}
	return b
}

// compile renders the builder to a single parameterized statement and
// extracts the dependency-table set.
func (b *SelectBuilder) compile() (*compiledSelect, error) {
	if b.err != nil {
		return nil, b.err
	}

	names := make([]string, len(b.table.Columns))
	for i, c := range b.table.Columns {
		names[i] = c.Name
	}

	var sb strings.Builder
	var params []any
	fmt.Fprintf(&sb, "SELECT %s FROM %s", strings.Join(names, ", "), b.table.Name)

	if b.filter != nil {
		filterSQL, filterParams, err := expr.CompileBool(b.filter)
		if err != nil {
			return nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(filterSQL)
		params = append(params, filterParams...)
	}

	if len(b.ordering) > 0 {
		orderSQL, orderParams, err := expr.CompileOrdering(b.ordering)
		if err != nil {
			return nil, err
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderSQL)
		params = append(params, orderParams...)
	}

	switch {
	case b.limit >= 0:
		sb.WriteString(" LIMIT ?")
		params = append(params, int64(b.limit))
	case b.offset >= 0:
		// SQLite requires a LIMIT clause before OFFSET; -1 means unbounded.
		sb.WriteString(" LIMIT -1")
	}
	if b.offset >= 0 {
		sb.WriteString(" OFFSET ?")
		params = append(params, int64(b.offset))
	}

	deps := []expr.Expr{b.filter}
	for _, term := range b.ordering {
		deps = append(deps, term.Expr)
	}
	tables := expr.Tables(deps...)
	if !containsString(tables, b.table.Name) {
		tables = append(tables, b.table.Name)
	}

	return &compiledSelect{
		sql:    sb.String(),
		params: params,
		table:  b.table,
		tables: tables,
	}, nil
}

func containsString(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

// applyTransform runs the composed Map transform over materialized rows.
func (b *SelectBuilder) applyTransform(rows []schema.Row) []schema.Row {
	if b.transform == nil {
		return rows
	}
	out := make([]schema.Row, len(rows))
	for i, r := range rows {
		out[i] = b.transform(r)
	}
	return out
}

// Get executes the statement once and returns the materialized rows.
func (b *SelectBuilder) Get(ctx context.Context) ([]schema.Row, error) {
	cs, err := b.compile()
	if err != nil {
		return nil, err
	}
	rows, err := b.sess.selectRows(ctx, cs)
	if err != nil {
		return nil, err
	}
	return b.applyTransform(rows), nil
}

// GetSingle executes the statement once under a single-row contract: zero
// rows yields (zero, false, nil), exactly one yields (row, true, nil), and
// more than one fails with a CardinalityViolationError.
func (b *SelectBuilder) GetSingle(ctx context.Context) (schema.Row, bool, error) {
	rows, err := b.Get(ctx)
	if err != nil {
		return nil, false, err
	}
	switch len(rows) {
	case 0:
		return nil, false, nil
	case 1:
		return rows[0], true, nil
	default:
		return nil, false, &CardinalityViolationError{Table: b.table.Name, Count: len(rows)}
	}
}

// Watch turns the statement into a live stream. The compiled statement
// executes once immediately; afterwards every write to a dependency table
// triggers a serialized re-execution, and the new result is delivered only
// when it differs from the last delivered one (see package stream).
//
// Cancel the returned subscription to detach it from the notifier.
func (b *SelectBuilder) Watch(ctx context.Context) (*stream.Subscription[[]schema.Row], error) {
	cs, err := b.compile()
	if err != nil {
		return nil, err
	}
	if b.sess.notifier == nil {
		return nil, fmt.Errorf("session has no notifier; Watch is unavailable")
	}
	run := func(ctx context.Context) ([]schema.Row, string, error) {
		rows, err := b.sess.selectRows(ctx, cs)
		if err != nil {
			return nil, "", err
		}
		// Fingerprint the raw result; the transform is presentation only.
		return b.applyTransform(rows), stream.Fingerprint(rows), nil
	}
	return stream.Watch(ctx, b.sess.notifier, cs.tables, run)
}

// SingleResult is one emission of WatchSingle. OK is false when no row
// matched; Row is valid only when OK is true.
type SingleResult struct {
	Row schema.Row
	OK  bool
}

// WatchSingle layers the single-row contract of GetSingle over every
// emission of Watch: zero rows emits an absent marker, one row emits it,
// and more than one terminates the stream with a CardinalityViolationError
// instead of emitting a value.
func (b *SelectBuilder) WatchSingle(ctx context.Context) (*stream.Subscription[SingleResult], error) {
	cs, err := b.compile()
	if err != nil {
		return nil, err
	}
	if b.sess.notifier == nil {
		return nil, fmt.Errorf("session has no notifier; WatchSingle is unavailable")
	}
	run := func(ctx context.Context) (SingleResult, string, error) {
		rows, err := b.sess.selectRows(ctx, cs)
		if err != nil {
			return SingleResult{}, "", err
		}
		if len(rows) > 1 {
			return SingleResult{}, "", &CardinalityViolationError{Table: b.table.Name, Count: len(rows)}
		}
		fp := stream.Fingerprint(rows)
		if len(rows) == 0 {
			return SingleResult{}, fp, nil
		}
		out := rows[0]
		if b.transform != nil {
			out = b.transform(out)
		}
		return SingleResult{Row: out, OK: true}, fp, nil
	}
	return stream.Watch(ctx, b.sess.notifier, cs.tables, run)
}
