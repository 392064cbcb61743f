// Package rivulet is a typed query-construction and reactive-result layer
// over an embedded SQLite store.
//
// Statements are built through typed builders instead of string
// concatenation, writes broadcast table-level change notifications, and any
// select can be watched as a live stream that re-executes and re-emits
// whenever a table it reads from is mutated.
//
//	db, err := rivulet.Open("app.db")
//	if err != nil { ... }
//	defer db.Close()
//
//	sub, err := db.Select(todos).
//		Where(expr.Eq(category, "inbox")).
//		Watch(ctx)
//	for rows := range sub.Updates() {
//		render(rows)
//	}
//
// The heavy lifting lives in the subpackages: schema (tables, columns,
// companions, tri-state value slots), expr (the expression tree), query
// (builders and the batch executor), stream (the notifier and watch loop),
// and store (the SQLite binding). This package only wires them together.
package rivulet
