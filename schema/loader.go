package schema

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed declaration.cue
var declarationSchema string

// declaration mirrors the YAML shape accepted by LoadDeclarations.
type declaration struct {
	Tables []tableDecl `yaml:"tables"`
}

type tableDecl struct {
	Name    string       `yaml:"name"`
	Columns []columnDecl `yaml:"columns"`
}

type columnDecl struct {
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	Nullable      bool   `yaml:"nullable"`
	PrimaryKey    bool   `yaml:"primary_key"`
	AutoIncrement bool   `yaml:"auto_increment"`
	Default       any    `yaml:"default"`
}

// LoadDeclarations parses a YAML table-declaration document, validates it
// against the embedded CUE schema, and returns the resulting table
// descriptors.
//
// Validation happens before any descriptor is built, so a declaration file
// either yields a complete, well-formed schema or nothing.
func LoadDeclarations(data []byte) ([]*Table, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse declarations: %w", err)
	}

	ctx := cuecontext.New()
	schemaVal := ctx.CompileString(declarationSchema)
	if err := schemaVal.Err(); err != nil {
		return nil, fmt.Errorf("compile declaration schema: %w", err)
	}

	docVal := ctx.Encode(raw)
	if err := docVal.Err(); err != nil {
		return nil, fmt.Errorf("encode declarations: %w", err)
	}

	unified := schemaVal.Unify(docVal)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return nil, fmt.Errorf("invalid declarations: %s", cueerrors.Details(err, nil))
	}

	var decl declaration
	if err := yaml.Unmarshal(data, &decl); err != nil {
		return nil, fmt.Errorf("decode declarations: %w", err)
	}

	tables := make([]*Table, 0, len(decl.Tables))
	for _, td := range decl.Tables {
		t, err := buildDeclaredTable(td)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// LoadDeclarationFile reads and parses a declaration file from disk.
func LoadDeclarationFile(path string) ([]*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read declarations: %w", err)
	}
	return LoadDeclarations(data)
}

func buildDeclaredTable(td tableDecl) (*Table, error) {
	cols := make([]*Column, 0, len(td.Columns))
	for _, cd := range td.Columns {
		typ, err := parseColumnType(cd.Type)
		if err != nil {
			return nil, fmt.Errorf("table %q, column %q: %w", td.Name, cd.Name, err)
		}
		col := &Column{Name: cd.Name, Type: typ}
		if cd.Nullable {
			col.AsNullable()
		}
		if cd.PrimaryKey {
			col.PrimaryKey()
		}
		if cd.AutoIncrement {
			col.AutoIncrement()
		}
		if cd.Default != nil {
			col.Default(normalizeDeclaredDefault(typ, cd.Default))
		}
		cols = append(cols, col)
	}
	return NewTable(td.Name, cols...)
}

func parseColumnType(s string) (ColumnType, error) {
	switch s {
	case "int":
		return TypeInt, nil
	case "text":
		return TypeText, nil
	case "bool":
		return TypeBool, nil
	case "float":
		return TypeFloat, nil
	case "blob":
		return TypeBlob, nil
	case "time":
		return TypeTime, nil
	default:
		return 0, fmt.Errorf("unknown column type %q", s)
	}
}

// normalizeDeclaredDefault widens YAML scalar types to the column's Go type.
// YAML decodes integers as int; integer columns use int64 internally.
func normalizeDeclaredDefault(t ColumnType, v any) any {
	switch t {
	case TypeInt:
		if n, ok := v.(int); ok {
			return int64(n)
		}
	case TypeFloat:
		if n, ok := v.(int); ok {
			return float64(n)
		}
	}
	return v
}
