package expr

import (
	"fmt"
	"strings"

	"github.com/roach88/rivulet/schema"
)

// CompileBool renders a boolean expression to a parameterized SQL fragment.
// Values are never interpolated into the text; every literal becomes a ?
// placeholder with a matching entry in the returned parameter slice.
//
// Grouped operands (AND/OR/NOT, arithmetic) are always parenthesized, so
// mixing conjunctions and disjunctions can never change meaning regardless
// of the storage engine's precedence rules.
func CompileBool(e Expr) (string, []any, error) {
	if e == nil {
		return "", nil, fmt.Errorf("cannot compile nil expression")
	}
	if err := Err(e); err != nil {
		return "", nil, err
	}
	if kindOf(e) != kindBool {
		return "", nil, &schema.TypeMismatchError{
			Op:   "filter",
			Want: "bool",
			Got:  kindOf(e).String(),
		}
	}
	return Compile(e)
}

// Compile renders any well-formed expression to a parameterized SQL fragment.
func Compile(e Expr) (string, []any, error) {
	if e == nil {
		return "", nil, fmt.Errorf("cannot compile nil expression")
	}
	if err := Err(e); err != nil {
		return "", nil, err
	}
	var params []any
	sql, err := render(e, &params)
	if err != nil {
		return "", nil, err
	}
	return sql, params, nil
}

func render(e Expr, params *[]any) (string, error) {
	switch n := e.(type) {
	case columnRef:
		return n.col.Name, nil

	case literal:
		*params = append(*params, n.v)
		return "?", nil

	case compare:
		l, err := render(n.l, params)
		if err != nil {
			return "", err
		}
		r, err := render(n.r, params)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", l, n.op, r), nil

	case logical:
		// Vacuous truth for an empty conjunction, same shape the engine
		// uses for an absent filter.
		if len(n.operands) == 0 {
			return "1 = 1", nil
		}
		parts := make([]string, 0, len(n.operands))
		for _, op := range n.operands {
			s, err := render(op, params)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "(" + strings.Join(parts, " "+n.op+" ") + ")", nil

	case negation:
		inner, err := render(n.e, params)
		if err != nil {
			return "", err
		}
		return "NOT (" + inner + ")", nil

	case arith:
		l, err := render(n.l, params)
		if err != nil {
			return "", err
		}
		r, err := render(n.r, params)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", l, n.op, r), nil

	case nullCheck:
		if n.negate {
			return n.col.Name + " IS NOT NULL", nil
		}
		return n.col.Name + " IS NULL", nil

	case inList:
		if len(n.vals) == 0 {
			return "1 = 0", nil
		}
		holes := make([]string, len(n.vals))
		for i, v := range n.vals {
			*params = append(*params, v.v)
			holes[i] = "?"
		}
		return fmt.Sprintf("%s IN (%s)", n.col.Name, strings.Join(holes, ", ")), nil

	case like:
		*params = append(*params, n.pattern)
		return n.col.Name + " LIKE ?", nil

	case invalid:
		return "", n.err

	default:
		return "", fmt.Errorf("unsupported expression node: %T", e)
	}
}
