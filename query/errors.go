package query

import (
	"errors"
	"fmt"
)

// ErrNoPredicate is returned when an update or delete is executed without
// either a Where filter or the explicit AllRows marker. Full-table mutation
// must be asked for, never implied.
var ErrNoPredicate = errors.New("update/delete requires Where or an explicit AllRows marker")

// CardinalityViolationError reports that a single-row contract was broken by
// the data: a GetSingle or WatchSingle query matched more than one row.
//
// This is not a programming error but a data-shape assertion failure; a
// stream that hits it terminates rather than truncating the result.
type CardinalityViolationError struct {
	Table string
	Count int
}

// Error implements the error interface.
func (e *CardinalityViolationError) Error() string {
	return fmt.Sprintf("query on %q expected at most one row, matched %d", e.Table, e.Count)
}

// IsCardinalityViolation reports whether err is (or wraps) a
// CardinalityViolationError.
func IsCardinalityViolation(err error) bool {
	var cv *CardinalityViolationError
	return errors.As(err, &cv)
}

// MissingRequiredFieldError reports an insert companion that leaves a
// non-nullable, no-default column absent. Raised during validation, before
// any storage-engine call.
type MissingRequiredFieldError struct {
	Table  string
	Column string
}

// Error implements the error interface.
func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("insert into %q: required column %q is absent", e.Table, e.Column)
}

// IsMissingRequiredField reports whether err is (or wraps) a
// MissingRequiredFieldError.
func IsMissingRequiredField(err error) bool {
	var mf *MissingRequiredFieldError
	return errors.As(err, &mf)
}

// ConflictingFilterError reports a Replace combined with an explicit filter
// or AllRows marker. Replace derives its filter from the entity's primary
// key; the two modes are mutually exclusive.
type ConflictingFilterError struct {
	Table string
}

// Error implements the error interface.
func (e *ConflictingFilterError) Error() string {
	return fmt.Sprintf("replace on %q cannot be combined with an explicit filter", e.Table)
}

// IsConflictingFilter reports whether err is (or wraps) a
// ConflictingFilterError.
func IsConflictingFilter(err error) bool {
	var cf *ConflictingFilterError
	return errors.As(err, &cf)
}

// BatchError wraps the failure of one operation inside a batch. Index is the
// zero-based position of the failing operation in submission order; the batch
// was rolled back, so none of its effects are observable.
type BatchError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	return fmt.Sprintf("batch operation %d: %v", e.Index, e.Err)
}

// Unwrap exposes the underlying operation error for errors.Is/As.
func (e *BatchError) Unwrap() error { return e.Err }
