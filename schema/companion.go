package schema

import (
	"fmt"
	"sort"
)

// Companion maps columns of one table to tri-state value slots for a single
// row. It is the unit of partial writes: an update applies only the present
// slots, an insert requires every required column to be present.
//
// Set validates eagerly. A column from the wrong table or a value of the
// wrong type records an error on the companion; the statement builders refuse
// to execute a companion whose Err is non-nil, so bad companions never reach
// the storage engine.
type Companion struct {
	table *Table
	slots map[string]Value
	err   error
}

// NewCompanion creates an empty companion for the given table. Every slot
// starts absent.
func NewCompanion(t *Table) *Companion {
	return &Companion{table: t, slots: make(map[string]Value)}
}

// Set assigns a slot for the given column and returns the companion for
// chaining. The column must belong to the companion's table and a present,
// non-null value must match the column type.
func (c *Companion) Set(col *Column, v Value) *Companion {
	if c.err != nil {
		return c
	}
	if col.Table != c.table.Name {
		c.err = fmt.Errorf("column %q belongs to table %q, not %q", col.Name, col.Table, c.table.Name)
		return c
	}
	if v.Present() && !v.IsNull() && !col.Type.Accepts(v.Get()) {
		c.err = &TypeMismatchError{
			Op:     "set",
			Column: col.Name,
			Want:   col.Type.String(),
			Got:    fmt.Sprintf("%T", v.Get()),
		}
		return c
	}
	c.slots[col.Name] = v
	return c
}

// Table returns the table this companion writes to.
func (c *Companion) Table() *Table { return c.table }

// Err returns the first validation error recorded by Set, if any.
func (c *Companion) Err() error { return c.err }

// Slot returns the slot for the named column. A column never passed to Set
// reports the absent slot.
func (c *Companion) Slot(name string) Value {
	return c.slots[name]
}

// PresentColumns returns the names of all present slots, sorted for
// deterministic statement text.
func (c *Companion) PresentColumns() []string {
	names := make([]string, 0, len(c.slots))
	for name, v := range c.slots {
		if v.Present() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
