package schema

import (
	"fmt"
	"strings"
	"time"
)

// CreateSQL renders an idempotent CREATE TABLE statement for the table.
//
// Defaults are rendered as literals in the DDL; everything else the module
// executes is parameterized, but SQLite does not accept parameters in DDL.
func CreateSQL(t *Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (", t.Name)

	pk := t.PrimaryKey()
	singleIntPK := len(pk) == 1 && pk[0].IsAutoIncrement

	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.Name)
		b.WriteString(" ")
		b.WriteString(c.Type.SQLType())
		if singleIntPK && c == pk[0] {
			b.WriteString(" PRIMARY KEY AUTOINCREMENT")
			continue
		}
		if !c.Nullable {
			b.WriteString(" NOT NULL")
		}
		if c.HasDefault {
			b.WriteString(" DEFAULT ")
			b.WriteString(defaultLiteral(c.DefaultValue))
		}
	}

	if !singleIntPK && len(pk) > 0 {
		names := make([]string, len(pk))
		for i, c := range pk {
			names[i] = c.Name
		}
		fmt.Fprintf(&b, ", PRIMARY KEY (%s)", strings.Join(names, ", "))
	}

	b.WriteString(")")
	return b.String()
}

// defaultLiteral renders a default value as a SQLite literal.
func defaultLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case bool:
		if val {
			return "1"
		}
		return "0"
	case int:
		return fmt.Sprintf("%d", val)
	case int32:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return fmt.Sprintf("%v", val)
	case time.Time:
		return "'" + val.UTC().Format(time.RFC3339Nano) + "'"
	default:
		return fmt.Sprintf("'%v'", val)
	}
}
