package schema

import (
	"fmt"
	"time"
)

// ColumnType is the semantic type of a column.
//
// The set is closed: every value flowing through companions, expressions and
// rows must map onto one of these. There is no dynamic "any" column.
type ColumnType int

const (
	TypeInt ColumnType = iota + 1
	TypeText
	TypeBool
	TypeFloat
	TypeBlob
	TypeTime
)

// String returns the declaration name of the type ("int", "text", ...).
func (t ColumnType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeText:
		return "text"
	case TypeBool:
		return "bool"
	case TypeFloat:
		return "float"
	case TypeBlob:
		return "blob"
	case TypeTime:
		return "time"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// SQLType returns the SQLite storage class used in DDL for this type.
func (t ColumnType) SQLType() string {
	switch t {
	case TypeInt, TypeBool:
		return "INTEGER"
	case TypeText:
		return "TEXT"
	case TypeFloat:
		return "REAL"
	case TypeBlob:
		return "BLOB"
	case TypeTime:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

// Accepts reports whether a Go value can be bound to a column of this type.
// nil is accepted by every type; nullability is enforced separately by the
// storage engine, not here.
func (t ColumnType) Accepts(v any) bool {
	if v == nil {
		return true
	}
	switch t {
	case TypeInt:
		switch v.(type) {
		case int, int32, int64:
			return true
		}
	case TypeText:
		_, ok := v.(string)
		return ok
	case TypeBool:
		_, ok := v.(bool)
		return ok
	case TypeFloat:
		switch v.(type) {
		case float32, float64:
			return true
		}
	case TypeBlob:
		_, ok := v.([]byte)
		return ok
	case TypeTime:
		_, ok := v.(time.Time)
		return ok
	}
	return false
}

// Column describes a single column of a table.
//
// A Column is created by one of the typed constructors (Int, Text, Bool,
// Float, Blob, Time), optionally refined with the chainable modifiers, and
// then frozen by attaching it to a table via NewTable. The Table field is set
// at attach time; a column belongs to exactly one table.
type Column struct {
	Table           string
	Name            string
	Type            ColumnType
	Nullable        bool
	HasDefault      bool
	DefaultValue    any
	IsPrimaryKey    bool
	IsAutoIncrement bool
}

// Int declares an integer column. Columns are NOT NULL unless AsNullable is
// applied.
func Int(name string) *Column { return &Column{Name: name, Type: TypeInt} }

// Text declares a text column.
func Text(name string) *Column { return &Column{Name: name, Type: TypeText} }

// Bool declares a boolean column (stored as INTEGER 0/1).
func Bool(name string) *Column { return &Column{Name: name, Type: TypeBool} }

// Float declares a floating-point column.
func Float(name string) *Column { return &Column{Name: name, Type: TypeFloat} }

// Blob declares a binary column.
func Blob(name string) *Column { return &Column{Name: name, Type: TypeBlob} }

// Time declares a timestamp column.
func Time(name string) *Column { return &Column{Name: name, Type: TypeTime} }

// AsNullable marks the column as accepting NULL.
func (c *Column) AsNullable() *Column {
	c.Nullable = true
	return c
}

// Default sets the column's default value, used when an insert companion
// leaves the column absent.
func (c *Column) Default(v any) *Column {
	c.HasDefault = true
	c.DefaultValue = v
	return c
}

// PrimaryKey marks the column as part of the table's primary key.
func (c *Column) PrimaryKey() *Column {
	c.IsPrimaryKey = true
	return c
}

// AutoIncrement marks an integer primary key as storage-engine assigned.
// Implies PrimaryKey.
func (c *Column) AutoIncrement() *Column {
	c.IsPrimaryKey = true
	c.IsAutoIncrement = true
	return c
}

// Required reports whether an insert companion must provide a value for this
// column: non-nullable, no default, and not assigned by the storage engine.
func (c *Column) Required() bool {
	return !c.Nullable && !c.HasDefault && !c.IsAutoIncrement
}

// Table is a named relation with an ordered set of columns.
//
// Tables are immutable after construction and live for the process lifetime.
type Table struct {
	Name    string
	Columns []*Column

	byName map[string]*Column
}

// NewTable builds a table descriptor from the given columns, attaching each
// column to the table. Column order is significant and preserved.
func NewTable(name string, cols ...*Column) (*Table, error) {
	if name == "" {
		return nil, fmt.Errorf("table name must not be empty")
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q must have at least one column", name)
	}
	t := &Table{Name: name, Columns: cols, byName: make(map[string]*Column, len(cols))}
	for _, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("table %q has a column with an empty name", name)
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, fmt.Errorf("table %q declares column %q twice", name, c.Name)
		}
		if c.Table != "" && c.Table != name {
			return nil, fmt.Errorf("column %q already belongs to table %q", c.Name, c.Table)
		}
		if c.IsAutoIncrement && c.Type != TypeInt {
			return nil, fmt.Errorf("column %q: auto-increment requires an integer column", c.Name)
		}
		if c.HasDefault && !c.Type.Accepts(c.DefaultValue) {
			return nil, &TypeMismatchError{
				Op:     "default",
				Column: c.Name,
				Want:   c.Type.String(),
				Got:    fmt.Sprintf("%T", c.DefaultValue),
			}
		}
		c.Table = name
		t.byName[c.Name] = c
	}
	return t, nil
}

// MustTable is NewTable that panics on error. Intended for package-level
// schema declarations where a bad descriptor is a programming error.
func MustTable(name string, cols ...*Column) *Table {
	t, err := NewTable(name, cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Column returns the column with the given name, if any.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// PrimaryKey returns the primary-key columns in declaration order.
func (t *Table) PrimaryKey() []*Column {
	var pk []*Column
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			pk = append(pk, c)
		}
	}
	return pk
}
