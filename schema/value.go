package schema

import "fmt"

// Value is a tri-state slot for one column of a companion.
//
// The three states are:
//
//	Absent()  - do not touch this column
//	Null()    - set this column to NULL explicitly
//	V(x)      - set this column to x
//
// The zero Value is Absent. Absent and Null must never be conflated: an
// absent slot is skipped by the write path entirely, a null slot writes an
// explicit NULL.
type Value struct {
	present bool
	v       any
}

// V returns a present Value holding v. Passing nil yields Null().
func V(v any) Value {
	return Value{present: true, v: v}
}

// Null returns a present Value holding an explicit NULL.
func Null() Value {
	return Value{present: true, v: nil}
}

// Absent returns the absent Value. Equivalent to the zero Value.
func Absent() Value {
	return Value{}
}

// Present reports whether the slot carries a value (possibly NULL).
func (v Value) Present() bool { return v.present }

// IsNull reports whether the slot carries an explicit NULL.
func (v Value) IsNull() bool { return v.present && v.v == nil }

// Get returns the held value. Only meaningful when Present is true.
func (v Value) Get() any { return v.v }

// String renders the slot state for diagnostics.
func (v Value) String() string {
	switch {
	case !v.present:
		return "absent"
	case v.v == nil:
		return "null"
	default:
		return fmt.Sprintf("%v", v.v)
	}
}
