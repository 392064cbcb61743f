// Package expr provides the typed expression tree used for filters, ordering
// terms and computed operands.
//
// Expressions are data, not closures: a filter is an explicit tree of tagged
// nodes built through typed constructor functions. That makes two things
// possible that opaque predicates would rule out: the tree can be introspected
// to extract the set of tables a statement depends on (Tables), and it can be
// rendered to parameterized SQL (CompileBool, Compile) without ever
// interpolating a value into statement text.
//
// The Expr interface is sealed: only nodes built by this package implement
// it. Type checking happens at construction. A constructor given mismatched
// operand types returns a poisoned node carrying a *schema.TypeMismatchError;
// the error is reported by Err and by compilation, before anything reaches
// the storage engine.
package expr
