package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const todosDecl = `
tables:
  - name: todos
    columns:
      - name: id
        type: int
        primary_key: true
        auto_increment: true
      - name: title
        type: text
      - name: content
        type: text
        default: ""
      - name: category
        type: text
        nullable: true
  - name: counters
    columns:
      - name: key
        type: text
        primary_key: true
      - name: value
        type: int
        default: 0
`

func TestLoadDeclarations(t *testing.T) {
	tables, err := LoadDeclarations([]byte(todosDecl))
	require.NoError(t, err)
	require.Len(t, tables, 2)

	todos := tables[0]
	assert.Equal(t, "todos", todos.Name)
	require.Len(t, todos.Columns, 4)

	id, ok := todos.Column("id")
	require.True(t, ok)
	assert.Equal(t, TypeInt, id.Type)
	assert.True(t, id.IsAutoIncrement)

	content, ok := todos.Column("content")
	require.True(t, ok)
	assert.True(t, content.HasDefault)
	assert.Equal(t, "", content.DefaultValue)

	category, ok := todos.Column("category")
	require.True(t, ok)
	assert.True(t, category.Nullable)

	// YAML integers widen to the int64 the rest of the module uses.
	counters := tables[1]
	value, ok := counters.Column("value")
	require.True(t, ok)
	assert.Equal(t, int64(0), value.DefaultValue)
}

func TestLoadDeclarations_UnknownType(t *testing.T) {
	_, err := LoadDeclarations([]byte(`
tables:
  - name: t
    columns:
      - name: a
        type: varchar
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid declarations")
}

func TestLoadDeclarations_MissingColumnName(t *testing.T) {
	_, err := LoadDeclarations([]byte(`
tables:
  - name: t
    columns:
      - type: int
`))
	assert.Error(t, err)
}

func TestLoadDeclarations_EmptyTables(t *testing.T) {
	_, err := LoadDeclarations([]byte(`tables: []`))
	assert.Error(t, err, "a declaration file must declare at least one table")
}

func TestLoadDeclarationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(todosDecl), 0o644))

	tables, err := LoadDeclarationFile(path)
	require.NoError(t, err)
	assert.Len(t, tables, 2)

	_, err = LoadDeclarationFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
