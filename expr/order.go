package expr

import (
	"strings"
)

// Direction orders a sort key ascending or descending.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns the SQL keyword for the direction.
func (d Direction) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// OrderingTerm pairs an expression with a sort direction. A select statement
// holds an ordered sequence of these; the first term is the primary key of
// the sort.
type OrderingTerm struct {
	Expr      Expr
	Direction Direction
}

// Asc orders by e ascending.
func Asc(e Expr) OrderingTerm { return OrderingTerm{Expr: e, Direction: Ascending} }

// Desc orders by e descending.
func Desc(e Expr) OrderingTerm { return OrderingTerm{Expr: e, Direction: Descending} }

// CompileOrdering renders ordering terms to an ORDER BY body ("a ASC, b DESC")
// plus the parameters of any literal operands. Term order is preserved.
func CompileOrdering(terms []OrderingTerm) (string, []any, error) {
	var params []any
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		if err := Err(term.Expr); err != nil {
			return "", nil, err
		}
		s, err := render(term.Expr, &params)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, s+" "+term.Direction.String())
	}
	return strings.Join(parts, ", "), params, nil
}
