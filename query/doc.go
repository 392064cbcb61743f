// Package query is the public surface of rivulet: typed statement builders
// that compile to parameterized SQL, execute against a storage engine, and
// keep live subscriptions consistent with writes.
//
// A Session composes an Executor (the storage engine, usually store.Store)
// with a stream.Notifier. Builders obtained from the session compile exactly
// one statement each:
//
//	rows, err := sess.Select(todos).
//		Where(expr.Eq(title, "A")).
//		OrderBy(expr.Asc(expr.Column(title))).
//		Get(ctx)
//
// Builders are consumed by compilation; they are not retained or reused after
// Get/Write/Go/Insert/Watch.
//
// Update and Delete refuse to run without a predicate: either Where or the
// explicit AllRows marker must be present. A silent full-table mutation is
// the classic misuse of this kind of API, so the all-rows case is a
// deliberate, visible call, not a default.
//
// Writes that succeed notify the session's notifier with the affected table,
// which drives re-execution of any Watch/WatchSingle subscriptions reading
// that table.
package query
