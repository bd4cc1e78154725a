package migrate

import "blog/internal/schema"

// Operation is one declarative schema mutation from the closed set the
// runner understands. Apply validates and mutates the in-memory model; SQL
// renders the single statement the storage engine executes. Inverses are
// declared on the unit (Down), never derived from the forward operations.
type Operation interface {
	Apply(m *schema.Model) error
	SQL() string
}

// CreateTable creates a table with its full definition, constraints
// included.
type CreateTable struct {
	Table schema.Table
}

func (op CreateTable) Apply(m *schema.Model) error {
	return m.RegisterTable(op.Table)
}

func (op CreateTable) SQL() string {
	t := op.Table
	return schema.CreateTableSQL(&t)
}

// DropTable removes a table.
type DropTable struct {
	Table string
}

func (op DropTable) Apply(m *schema.Model) error {
	return m.DropTable(op.Table)
}

func (op DropTable) SQL() string {
	return schema.DropTableSQL(op.Table)
}

// AddColumn appends a column to an existing table.
type AddColumn struct {
	Table string
	Field schema.Field
}

func (op AddColumn) Apply(m *schema.Model) error {
	return m.AddField(op.Table, op.Field)
}

func (op AddColumn) SQL() string {
	return schema.AddColumnSQL(op.Table, op.Field)
}

// DropColumn removes a column.
type DropColumn struct {
	Table  string
	Column string
}

func (op DropColumn) Apply(m *schema.Model) error {
	return m.DropField(op.Table, op.Column)
}

func (op DropColumn) SQL() string {
	return schema.DropColumnSQL(op.Table, op.Column)
}

// AddForeignKey attaches a named constraint to an existing table.
type AddForeignKey struct {
	Table      string
	ForeignKey schema.ForeignKey
}

func (op AddForeignKey) Apply(m *schema.Model) error {
	return m.AddForeignKey(op.Table, op.ForeignKey)
}

func (op AddForeignKey) SQL() string {
	return schema.AddForeignKeySQL(op.Table, op.ForeignKey)
}

// DropForeignKey removes a named constraint.
type DropForeignKey struct {
	Table      string
	Constraint string
}

func (op DropForeignKey) Apply(m *schema.Model) error {
	return m.DropForeignKey(op.Table, op.Constraint)
}

func (op DropForeignKey) SQL() string {
	return schema.DropForeignKeySQL(op.Table, op.Constraint)
}
