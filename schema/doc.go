// Package schema defines the descriptors that the rest of rivulet builds on:
// tables, typed columns, tri-state value slots, companions, and materialized
// rows.
//
// Tables and columns are immutable schema descriptors created once at startup,
// either directly in Go (NewTable, Int, Text, ...) or from a YAML declaration
// file validated against an embedded CUE schema (LoadDeclarations). They are
// never mutated afterwards.
//
// The Value type is deliberately tri-state: Absent, Present(value), and
// Present(null) are all distinct. Absent means "leave this column alone",
// Present(null) means "set this column to NULL". Collapsing the two would
// silently turn partial updates into NULL writes, so the distinction is
// preserved through the whole write path.
package schema
