package expr

import (
	"fmt"

	"github.com/roach88/rivulet/schema"
)

// CompareOp identifies a comparison operator.
type CompareOp string

const (
	OpEq CompareOp = "="
	OpNe CompareOp = "<>"
	OpLt CompareOp = "<"
	OpLe CompareOp = "<="
	OpGt CompareOp = ">"
	OpGe CompareOp = ">="
)

// Column references a column as a scalar operand.
func Column(c *schema.Column) Expr {
	return columnRef{col: c}
}

// Lit wraps a Go value as a literal operand. Supported types: int variants,
// string, bool, float variants, []byte, time.Time.
func Lit(v any) Expr {
	k, norm, ok := kindOfValue(v)
	if !ok {
		return invalid{err: &schema.TypeMismatchError{
			Op:   "literal",
			Want: "int, text, bool, float, blob or time",
			Got:  fmt.Sprintf("%T", v),
		}}
	}
	return literal{k: k, v: norm}
}

// litForColumn builds a literal checked against a column's type.
func litForColumn(op string, c *schema.Column, v any) Expr {
	if v == nil {
		return invalid{err: &schema.TypeMismatchError{
			Op:     op,
			Column: c.Name,
			Want:   c.Type.String(),
			Got:    "nil (use IsNull/IsNotNull)",
		}}
	}
	if !c.Type.Accepts(v) {
		return invalid{err: &schema.TypeMismatchError{
			Op:     op,
			Column: c.Name,
			Want:   c.Type.String(),
			Got:    fmt.Sprintf("%T", v),
		}}
	}
	_, norm, _ := kindOfValue(v)
	return literal{k: kindOfColumn(c.Type), v: norm}
}

// Eq builds column = value.
func Eq(c *schema.Column, v any) Expr { return Cmp(OpEq, Column(c), litForColumn("eq", c, v)) }

// Ne builds column <> value.
func Ne(c *schema.Column, v any) Expr { return Cmp(OpNe, Column(c), litForColumn("ne", c, v)) }

// Lt builds column < value.
func Lt(c *schema.Column, v any) Expr { return Cmp(OpLt, Column(c), litForColumn("lt", c, v)) }

// Le builds column <= value.
func Le(c *schema.Column, v any) Expr { return Cmp(OpLe, Column(c), litForColumn("le", c, v)) }

// Gt builds column > value.
func Gt(c *schema.Column, v any) Expr { return Cmp(OpGt, Column(c), litForColumn("gt", c, v)) }

// Ge builds column >= value.
func Ge(c *schema.Column, v any) Expr { return Cmp(OpGe, Column(c), litForColumn("ge", c, v)) }

// ColsEq builds columnA = columnB, usable across tables.
func ColsEq(a, b *schema.Column) Expr { return Cmp(OpEq, Column(a), Column(b)) }

// Cmp builds a comparison between two scalar operands. Operand kinds must
// match; ordering comparisons additionally require an orderable kind.
func Cmp(op CompareOp, l, r Expr) Expr {
	if err := Err(l); err != nil {
		return invalid{err: err}
	}
	if err := Err(r); err != nil {
		return invalid{err: err}
	}
	lk, rk := kindOf(l), kindOf(r)
	if lk != rk {
		return invalid{err: &schema.TypeMismatchError{
			Op:   "compare " + string(op),
			Want: lk.String(),
			Got:  rk.String(),
		}}
	}
	if op != OpEq && op != OpNe && !orderable(lk) {
		return invalid{err: &schema.TypeMismatchError{
			Op:   "compare " + string(op),
			Want: "int, float, text or time",
			Got:  lk.String(),
		}}
	}
	return compare{op: op, l: l, r: r}
}

func orderable(k kind) bool {
	switch k {
	case kindInt, kindFloat, kindText, kindTime:
		return true
	default:
		return false
	}
}

// And builds a conjunction. All operands must be boolean. And() with no
// operands is vacuously true, matching the absent-filter contract.
func And(operands ...Expr) Expr { return combine("AND", operands) }

// Or builds a disjunction. All operands must be boolean.
func Or(operands ...Expr) Expr { return combine("OR", operands) }

func combine(op string, operands []Expr) Expr {
	for _, o := range operands {
		if err := Err(o); err != nil {
			return invalid{err: err}
		}
		if kindOf(o) != kindBool {
			return invalid{err: &schema.TypeMismatchError{
				Op:   op,
				Want: "bool",
				Got:  kindOf(o).String(),
			}}
		}
	}
	return logical{op: op, operands: operands}
}

// Not inverts a boolean expression.
func Not(e Expr) Expr {
	if err := Err(e); err != nil {
		return invalid{err: err}
	}
	if kindOf(e) != kindBool {
		return invalid{err: &schema.TypeMismatchError{
			Op:   "not",
			Want: "bool",
			Got:  kindOf(e).String(),
		}}
	}
	return negation{e: e}
}

// Add builds l + r over matching numeric operands.
func Add(l, r Expr) Expr { return arithOp("+", l, r) }

// Sub builds l - r over matching numeric operands.
func Sub(l, r Expr) Expr { return arithOp("-", l, r) }

// Mul builds l * r over matching numeric operands.
func Mul(l, r Expr) Expr { return arithOp("*", l, r) }

// Div builds l / r over matching numeric operands.
func Div(l, r Expr) Expr { return arithOp("/", l, r) }

// Mod builds l % r over integer operands.
func Mod(l, r Expr) Expr { return arithOp("%", l, r) }

func arithOp(op string, l, r Expr) Expr {
	if err := Err(l); err != nil {
		return invalid{err: err}
	}
	if err := Err(r); err != nil {
		return invalid{err: err}
	}
	lk, rk := kindOf(l), kindOf(r)
	if lk != rk {
		return invalid{err: &schema.TypeMismatchError{
			Op:   "arith " + op,
			Want: lk.String(),
			Got:  rk.String(),
		}}
	}
	if lk != kindInt && lk != kindFloat {
		return invalid{err: &schema.TypeMismatchError{
			Op:   "arith " + op,
			Want: "int or float",
			Got:  lk.String(),
		}}
	}
	if op == "%" && lk != kindInt {
		return invalid{err: &schema.TypeMismatchError{
			Op:   "arith %",
			Want: "int",
			Got:  lk.String(),
		}}
	}
	return arith{op: op, l: l, r: r}
}

// IsNull builds column IS NULL.
func IsNull(c *schema.Column) Expr { return nullCheck{col: c} }

// IsNotNull builds column IS NOT NULL.
func IsNotNull(c *schema.Column) Expr { return nullCheck{col: c, negate: true} }

// In builds a membership test. Every value must match the column type.
// An empty value list is always false.
func In(c *schema.Column, vals ...any) Expr {
	lits := make([]literal, 0, len(vals))
	for _, v := range vals {
		le := litForColumn("in", c, v)
		if err := Err(le); err != nil {
			return invalid{err: err}
		}
		lits = append(lits, le.(literal))
	}
	return inList{col: c, vals: lits}
}

// Like builds a pattern match on a text column.
func Like(c *schema.Column, pattern string) Expr {
	if c.Type != schema.TypeText {
		return invalid{err: &schema.TypeMismatchError{
			Op:     "like",
			Column: c.Name,
			Want:   "text",
			Got:    c.Type.String(),
		}}
	}
	return like{col: c, pattern: pattern}
}
