package query

import (
	"context"
	"fmt"

	"github.com/roach88/rivulet/schema"
	"github.com/roach88/rivulet/stream"
)

// Session composes a storage engine with a change notifier and hands out
// statement builders. It holds no per-statement state and is safe for
// concurrent use; all locking is delegated to the storage engine's
// transaction mechanism during execution.
type Session struct {
	exec     Executor
	notifier *stream.Notifier
}

// NewSession creates a session. The notifier may be nil, in which case writes
// execute normally but nothing is broadcast and Watch is unavailable.
func NewSession(exec Executor, notifier *stream.Notifier) *Session {
	return &Session{exec: exec, notifier: notifier}
}

// Notifier returns the session's change notifier (nil if none was supplied).
func (s *Session) Notifier() *stream.Notifier { return s.notifier }

// Select starts a select builder against t.
func (s *Session) Select(t *schema.Table) *SelectBuilder {
	return &SelectBuilder{sess: s, table: t, limit: -1, offset: -1}
}

// Update starts an update builder against t.
func (s *Session) Update(t *schema.Table) *UpdateBuilder {
	return &UpdateBuilder{sess: s, table: t}
}

// DeleteFrom starts a delete builder against t.
func (s *Session) DeleteFrom(t *schema.Table) *DeleteBuilder {
	return &DeleteBuilder{sess: s, table: t}
}

// InsertInto starts an insert builder against t.
func (s *Session) InsertInto(t *schema.Table) *InsertBuilder {
	return &InsertBuilder{sess: s, table: t}
}

// Batch starts an empty batch bound to this session.
func (s *Session) Batch() *Batch {
	return &Batch{sess: s}
}

// CreateTables executes idempotent CREATE TABLE statements for the given
// descriptors. DDL does not notify: subscriptions depend on rows, and a
// freshly created table has none.
func (s *Session) CreateTables(ctx context.Context, tables ...*schema.Table) error {
	for _, t := range tables {
		if _, err := s.exec.Exec(ctx, schema.CreateSQL(t)); err != nil {
			return fmt.Errorf("create table %q: %w", t.Name, err)
		}
	}
	return nil
}

// notify broadcasts mutated tables if a notifier is attached.
func (s *Session) notify(tables ...string) {
	if s.notifier != nil {
		s.notifier.Notify(tables...)
	}
}

// selectRows executes a compiled select and materializes every row fully.
func (s *Session) selectRows(ctx context.Context, cs *compiledSelect) ([]schema.Row, error) {
	rows, err := s.exec.Query(ctx, cs.sql, cs.params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := cs.table.Columns
	var out []schema.Row
	for rows.Next() {
		raw := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		r := make(schema.Row, len(cols))
		for i, c := range cols {
			r[c.Name] = normalizeValue(c, raw[i])
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// normalizeValue coerces driver values onto the column's semantic type:
// booleans arrive as INTEGER 0/1, text may arrive as []byte. Blobs are
// copied because the driver may reuse its scan buffer.
func normalizeValue(c *schema.Column, v any) any {
	if v == nil {
		return nil
	}
	switch c.Type {
	case schema.TypeBool:
		switch val := v.(type) {
		case bool:
			return val
		case int64:
			return val != 0
		}
	case schema.TypeText:
		if b, ok := v.([]byte); ok {
			return string(b)
		}
	case schema.TypeBlob:
		if b, ok := v.([]byte); ok {
			cp := make([]byte, len(b))
			copy(cp, b)
			return cp
		}
	case schema.TypeFloat:
		if n, ok := v.(int64); ok {
			return float64(n)
		}
	}
	return v
}
