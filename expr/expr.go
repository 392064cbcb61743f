package expr

import (
	"time"

	"github.com/roach88/rivulet/schema"
)

// Expr is a node in the expression tree.
//
// This is a sealed interface: only types in this package implement it. The
// marker method pattern prevents external implementations and keeps the type
// switches in the compiler exhaustive.
type Expr interface {
	exprNode()
}

// kind is the value type an expression evaluates to.
type kind int

const (
	kindInvalid kind = iota
	kindBool
	kindInt
	kindText
	kindFloat
	kindBlob
	kindTime
)

func (k kind) String() string {
	switch k {
	case kindBool:
		return "bool"
	case kindInt:
		return "int"
	case kindText:
		return "text"
	case kindFloat:
		return "float"
	case kindBlob:
		return "blob"
	case kindTime:
		return "time"
	default:
		return "invalid"
	}
}

func kindOfColumn(t schema.ColumnType) kind {
	switch t {
	case schema.TypeInt:
		return kindInt
	case schema.TypeText:
		return kindText
	case schema.TypeBool:
		return kindBool
	case schema.TypeFloat:
		return kindFloat
	case schema.TypeBlob:
		return kindBlob
	case schema.TypeTime:
		return kindTime
	default:
		return kindInvalid
	}
}

// kindOfValue maps a Go literal to its expression kind and a normalized
// parameter value (ints widen to int64, floats to float64).
func kindOfValue(v any) (kind, any, bool) {
	switch val := v.(type) {
	case int:
		return kindInt, int64(val), true
	case int32:
		return kindInt, int64(val), true
	case int64:
		return kindInt, val, true
	case string:
		return kindText, val, true
	case bool:
		return kindBool, val, true
	case float32:
		return kindFloat, float64(val), true
	case float64:
		return kindFloat, val, true
	case []byte:
		return kindBlob, val, true
	case time.Time:
		return kindTime, val, true
	default:
		return kindInvalid, nil, false
	}
}

// columnRef references a column of a table.
type columnRef struct {
	col *schema.Column
}

func (columnRef) exprNode() {}

// literal is a constant operand, always rendered as a ? parameter.
type literal struct {
	k kind
	v any
}

func (literal) exprNode() {}

// compare is a binary comparison producing a boolean.
type compare struct {
	op   CompareOp
	l, r Expr
}

func (compare) exprNode() {}

// logical is an AND/OR conjunction over boolean operands.
type logical struct {
	op       string // "AND" or "OR"
	operands []Expr
}

func (logical) exprNode() {}

// negation inverts a boolean operand.
type negation struct {
	e Expr
}

func (negation) exprNode() {}

// arith is a binary arithmetic operation over numeric operands.
type arith struct {
	op   string // "+", "-", "*", "/", "%"
	l, r Expr
}

func (arith) exprNode() {}

// nullCheck is IS NULL / IS NOT NULL on a column.
type nullCheck struct {
	col    *schema.Column
	negate bool
}

func (nullCheck) exprNode() {}

// inList is a membership test against a list of literals.
type inList struct {
	col  *schema.Column
	vals []literal
}

func (inList) exprNode() {}

// like is a text pattern match.
type like struct {
	col     *schema.Column
	pattern string
}

func (like) exprNode() {}

// invalid carries a construction-time error through the tree. Compilation
// surfaces the error; the node never reaches the storage engine.
type invalid struct {
	err error
}

func (invalid) exprNode() {}

// kindOf computes the result kind of a node.
func kindOf(e Expr) kind {
	switch n := e.(type) {
	case columnRef:
		return kindOfColumn(n.col.Type)
	case literal:
		return n.k
	case compare, logical, negation, nullCheck, inList, like:
		return kindBool
	case arith:
		return kindOf(n.l)
	default:
		return kindInvalid
	}
}

// Err returns the first construction error recorded anywhere in the tree,
// or nil if the expression is well-formed. A nil expression is well-formed.
func Err(e Expr) error {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case invalid:
		return n.err
	case compare:
		if err := Err(n.l); err != nil {
			return err
		}
		return Err(n.r)
	case logical:
		for _, op := range n.operands {
			if err := Err(op); err != nil {
				return err
			}
		}
		return nil
	case negation:
		return Err(n.e)
	case arith:
		if err := Err(n.l); err != nil {
			return err
		}
		return Err(n.r)
	default:
		return nil
	}
}
