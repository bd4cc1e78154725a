package schema

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// PostgreSQL rendering for the closed set of schema operations. Each
// function returns exactly one statement; the migration runner executes them
// inside the unit's transaction.

func quoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func quoteIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

func storageType(f Field) string {
	if f.DBType != "" {
		return f.DBType
	}
	switch f.Type {
	case TypeInteger:
		if f.AutoIncrement {
			return "BIGINT GENERATED BY DEFAULT AS IDENTITY"
		}
		return "BIGINT"
	case TypeString:
		return "TEXT"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeTimestamp:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

// ColumnDef renders one column definition as used in CREATE TABLE and
// ALTER TABLE ... ADD COLUMN.
func ColumnDef(f Field) string {
	parts := []string{quoteIdent(f.Name), storageType(f)}
	if f.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	} else {
		if !f.Nullable {
			parts = append(parts, "NOT NULL")
		}
		if f.Unique {
			parts = append(parts, "UNIQUE")
		}
	}
	if f.Default != nil {
		if f.Default.Now {
			parts = append(parts, "DEFAULT CURRENT_TIMESTAMP")
		} else {
			parts = append(parts, "DEFAULT "+f.Default.Literal)
		}
	}
	return strings.Join(parts, " ")
}

func foreignKeyClause(fk ForeignKey) string {
	clause := fmt.Sprintf("CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		quoteIdent(fk.Name), quoteIdents(fk.Columns), quoteIdent(fk.RefTable), quoteIdents(fk.RefColumns))
	if fk.OnDelete != "" {
		clause += " ON DELETE " + string(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		clause += " ON UPDATE " + string(fk.OnUpdate)
	}
	return clause
}

// UniqueTogetherName builds the constraint name for a unique-together group.
func UniqueTogetherName(table string, columns []string) string {
	return "uq_" + table + "_" + strings.Join(columns, "_")
}

// CreateTableSQL renders the full CREATE TABLE statement for a definition,
// including foreign keys and unique-together constraints.
func CreateTableSQL(t *Table) string {
	defs := make([]string, 0, len(t.Fields)+len(t.ForeignKeys)+len(t.UniqueTogether))
	for _, f := range t.Fields {
		defs = append(defs, ColumnDef(f))
	}
	for _, group := range t.UniqueTogether {
		defs = append(defs, fmt.Sprintf("CONSTRAINT %s UNIQUE (%s)",
			quoteIdent(UniqueTogetherName(t.Name, group)), quoteIdents(group)))
	}
	for _, fk := range t.ForeignKeys {
		defs = append(defs, foreignKeyClause(fk))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", quoteIdent(t.Name), strings.Join(defs, ",\n\t"))
}

// DropTableSQL renders the DROP TABLE statement.
func DropTableSQL(name string) string {
	return "DROP TABLE " + quoteIdent(name)
}

// AddColumnSQL renders the ALTER TABLE statement adding one column.
func AddColumnSQL(table string, f Field) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", quoteIdent(table), ColumnDef(f))
}

// DropColumnSQL renders the ALTER TABLE statement dropping one column.
func DropColumnSQL(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", quoteIdent(table), quoteIdent(column))
}

// AddForeignKeySQL renders the ALTER TABLE statement attaching a constraint.
func AddForeignKeySQL(table string, fk ForeignKey) string {
	return fmt.Sprintf("ALTER TABLE %s ADD %s", quoteIdent(table), foreignKeyClause(fk))
}

// DropForeignKeySQL renders the ALTER TABLE statement dropping a constraint.
func DropForeignKeySQL(table, constraint string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", quoteIdent(table), quoteIdent(constraint))
}
