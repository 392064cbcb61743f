package expr

import "sort"

// Tables returns the sorted, distinct names of all tables referenced by the
// given expressions. Nil expressions are skipped.
//
// This is how a compiled select derives its dependency-table set: the tree is
// data, so the walk sees every column reference, including those inside
// ordering terms and arithmetic.
func Tables(exprs ...Expr) []string {
	seen := make(map[string]struct{})
	for _, e := range exprs {
		walkTables(e, seen)
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func walkTables(e Expr, seen map[string]struct{}) {
	switch n := e.(type) {
	case columnRef:
		seen[n.col.Table] = struct{}{}
	case compare:
		walkTables(n.l, seen)
		walkTables(n.r, seen)
	case logical:
		for _, op := range n.operands {
			walkTables(op, seen)
		}
	case negation:
		walkTables(n.e, seen)
	case arith:
		walkTables(n.l, seen)
		walkTables(n.r, seen)
	case nullCheck:
		seen[n.col.Table] = struct{}{}
	case inList:
		seen[n.col.Table] = struct{}{}
	case like:
		seen[n.col.Table] = struct{}{}
	}
}
