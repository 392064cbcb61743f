package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) (*Table, *Column, *Column) {
	t.Helper()
	title := Text("title")
	count := Int("count").AsNullable()
	tbl := MustTable("things", Int("id").AutoIncrement(), title, count)
	return tbl, title, count
}

func TestCompanion_SetAndSlots(t *testing.T) {
	tbl, title, count := testTable(t)

	c := NewCompanion(tbl).
		Set(title, V("A")).
		Set(count, Null())
	require.NoError(t, c.Err())

	assert.Equal(t, V("A"), c.Slot("title"))
	assert.True(t, c.Slot("count").IsNull())
	assert.False(t, c.Slot("id").Present(), "untouched slot is absent")

	// Sorted for deterministic statement text.
	assert.Equal(t, []string{"count", "title"}, c.PresentColumns())
}

func TestCompanion_AbsentSlotNotPresent(t *testing.T) {
	tbl, title, count := testTable(t)

	c := NewCompanion(tbl).
		Set(title, V("A")).
		Set(count, Absent())
	require.NoError(t, c.Err())

	assert.Equal(t, []string{"title"}, c.PresentColumns())
}

func TestCompanion_TypeMismatch(t *testing.T) {
	tbl, title, _ := testTable(t)

	c := NewCompanion(tbl).Set(title, V(42))
	require.Error(t, c.Err())
	assert.True(t, IsTypeMismatch(c.Err()))
}

func TestCompanion_WrongTable(t *testing.T) {
	tbl, _, _ := testTable(t)
	other := Text("name")
	MustTable("others", other)

	c := NewCompanion(tbl).Set(other, V("x"))
	assert.Error(t, c.Err())
}

func TestCompanion_ErrSticks(t *testing.T) {
	tbl, title, count := testTable(t)

	c := NewCompanion(tbl).
		Set(title, V(42)). // mismatch
		Set(count, V(1))   // valid, but after the error
	require.Error(t, c.Err())
	assert.False(t, c.Slot("count").Present(), "sets after an error are ignored")
}
