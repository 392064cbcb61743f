// Package store is the SQLite binding of the storage-engine contract.
//
// It implements query.Executor: parameterized statement execution,
// transactions for the batch executor, and nothing else. Query construction,
// validation and change notification all live above this package; storage
// errors (constraint violations, I/O failures) are returned unchanged so
// callers can inspect the underlying cause.
package store
