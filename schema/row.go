package schema

import "time"

// Row is a fully materialized record: every column of the source table bound
// to a concrete value (which may be nil for NULL). Rows are the output of
// read operations and are never partial.
//
// The typed accessors return the zero value for NULL or missing columns; use
// IsNull to distinguish when it matters.
type Row map[string]any

// Value returns the raw value for a column.
func (r Row) Value(name string) any { return r[name] }

// IsNull reports whether the column is present and NULL.
func (r Row) IsNull(name string) bool {
	v, ok := r[name]
	return ok && v == nil
}

// Int returns the column as int64.
func (r Row) Int(name string) int64 {
	if v, ok := r[name].(int64); ok {
		return v
	}
	return 0
}

// Text returns the column as string.
func (r Row) Text(name string) string {
	if v, ok := r[name].(string); ok {
		return v
	}
	return ""
}

// Bool returns the column as bool.
func (r Row) Bool(name string) bool {
	if v, ok := r[name].(bool); ok {
		return v
	}
	return false
}

// Float returns the column as float64.
func (r Row) Float(name string) float64 {
	if v, ok := r[name].(float64); ok {
		return v
	}
	return 0
}

// Bytes returns the column as []byte.
func (r Row) Bytes(name string) []byte {
	if v, ok := r[name].([]byte); ok {
		return v
	}
	return nil
}

// Time returns the column as time.Time.
func (r Row) Time(name string) time.Time {
	if v, ok := r[name].(time.Time); ok {
		return v
	}
	return time.Time{}
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
