package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rivulet/schema"
)

func fixtureColumns(t *testing.T) (id, title, done *schema.Column) {
	t.Helper()
	id = schema.Int("id").AutoIncrement()
	title = schema.Text("title")
	done = schema.Bool("done").Default(false)
	schema.MustTable("todos", id, title, done)
	return id, title, done
}

func TestEq_WellTyped(t *testing.T) {
	_, title, _ := fixtureColumns(t)
	assert.NoError(t, Err(Eq(title, "A")))
}

func TestEq_TypeMismatch(t *testing.T) {
	_, title, _ := fixtureColumns(t)

	err := Err(Eq(title, 42))
	require.Error(t, err)
	assert.True(t, schema.IsTypeMismatch(err))
}

func TestEq_NilValue(t *testing.T) {
	_, title, _ := fixtureColumns(t)

	err := Err(Eq(title, nil))
	require.Error(t, err)
	assert.True(t, schema.IsTypeMismatch(err), "nil comparand must point at IsNull")
}

func TestLogical_RequiresBooleanOperands(t *testing.T) {
	id, title, _ := fixtureColumns(t)

	for name, e := range map[string]Expr{
		"and over column": And(Eq(title, "A"), Column(id)),
		"or over literal": Or(Lit(1), Eq(title, "A")),
		"not of column":   Not(Column(id)),
	} {
		t.Run(name, func(t *testing.T) {
			err := Err(e)
			require.Error(t, err)
			assert.True(t, schema.IsTypeMismatch(err))
		})
	}
}

func TestCmp_KindMismatch(t *testing.T) {
	id, _, _ := fixtureColumns(t)

	err := Err(Cmp(OpEq, Column(id), Lit("x")))
	require.Error(t, err)
	assert.True(t, schema.IsTypeMismatch(err))
}

func TestCmp_OrderingOnBool(t *testing.T) {
	_, _, done := fixtureColumns(t)

	err := Err(Cmp(OpLt, Column(done), Lit(true)))
	require.Error(t, err)
	assert.True(t, schema.IsTypeMismatch(err))
}

func TestArith(t *testing.T) {
	id, title, _ := fixtureColumns(t)

	assert.NoError(t, Err(Add(Column(id), Lit(1))))
	assert.NoError(t, Err(Mod(Column(id), Lit(2))))

	assert.Error(t, Err(Add(Column(id), Lit(1.5))), "int and float do not mix")
	assert.Error(t, Err(Add(Column(title), Lit("x"))), "no text arithmetic")
	assert.Error(t, Err(Mod(Lit(1.0), Lit(2.0))), "modulo is integer only")
}

func TestLike_TextOnly(t *testing.T) {
	id, title, _ := fixtureColumns(t)

	assert.NoError(t, Err(Like(title, "a%")))
	assert.Error(t, Err(Like(id, "a%")))
}

func TestIn_TypeChecked(t *testing.T) {
	id, _, _ := fixtureColumns(t)

	assert.NoError(t, Err(In(id, 1, 2, 3)))
	assert.Error(t, Err(In(id, 1, "two")))
}

func TestLit_UnsupportedType(t *testing.T) {
	err := Err(Lit(struct{}{}))
	require.Error(t, err)
	assert.True(t, schema.IsTypeMismatch(err))
}

func TestErr_PropagatesThroughTree(t *testing.T) {
	id, title, _ := fixtureColumns(t)

	// The poisoned leaf surfaces from an arbitrarily nested tree.
	bad := Eq(title, 42)
	tree := And(Eq(id, 1), Or(Not(bad), Eq(id, 2)))
	assert.Error(t, Err(tree))
}

func TestErr_NilExpression(t *testing.T) {
	assert.NoError(t, Err(nil))
}
