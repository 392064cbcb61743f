package schema

import (
	"errors"
	"fmt"
)

// TypeMismatchError reports a value or operand whose type does not match the
// column or expression it is combined with.
//
// Type mismatches are detected at construction time (expression constructors,
// Companion.Set, column defaults) and surfaced before any statement reaches
// the storage engine. They never escape to execution.
type TypeMismatchError struct {
	// Op names the construction site ("eq", "and", "set", "default", ...).
	Op string

	// Column is the column involved, when there is one.
	Column string

	// Want and Got describe the expected and actual types.
	Want string
	Got  string
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("type mismatch in %s: column %q wants %s, got %s", e.Op, e.Column, e.Want, e.Got)
	}
	return fmt.Sprintf("type mismatch in %s: want %s, got %s", e.Op, e.Want, e.Got)
}

// IsTypeMismatch reports whether err is (or wraps) a TypeMismatchError.
func IsTypeMismatch(err error) bool {
	var tm *TypeMismatchError
	return errors.As(err, &tm)
}
