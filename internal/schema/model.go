package schema

import (
	"reflect"
	"slices"
)

// Model is the registry of table definitions. Migration operations are its
// only mutators; request-serving code reads it through Table and Tables.
type Model struct {
	tables map[string]*Table
	order  []string
}

// NewModel returns an empty registry.
func NewModel() *Model {
	return &Model{tables: make(map[string]*Table)}
}

// Table returns the definition registered under name.
func (m *Model) Table(name string) (*Table, bool) {
	t, ok := m.tables[name]
	return t, ok
}

// Tables returns all definitions in registration order.
func (m *Model) Tables() []*Table {
	out := make([]*Table, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.tables[name])
	}
	return out
}

// RegisterTable adds a new table definition. The definition is copied, so
// later changes to the argument do not leak into the model. Foreign keys may
// reference the table itself or any table registered earlier.
func (m *Model) RegisterTable(t Table) error {
	if _, ok := m.tables[t.Name]; ok {
		return &DuplicateTableError{Table: t.Name}
	}
	if err := t.validate(); err != nil {
		return err
	}
	for _, fk := range t.ForeignKeys {
		if err := m.checkReference(t.Name, &t, fk); err != nil {
			return err
		}
	}
	c := t.clone()
	m.tables[t.Name] = c
	m.order = append(m.order, t.Name)
	return nil
}

// DropTable removes a table definition. It fails if any other table still
// declares a foreign key against it.
func (m *Model) DropTable(name string) error {
	if _, ok := m.tables[name]; !ok {
		return &UnknownTableError{Table: name}
	}
	for _, other := range m.order {
		if other == name {
			continue
		}
		for _, fk := range m.tables[other].ForeignKeys {
			if fk.RefTable == name {
				return &ReferencedTableError{Table: name, RefBy: other, Constraint: fk.Name}
			}
		}
	}
	delete(m.tables, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
	return nil
}

// AddField appends a column to an existing table.
func (m *Model) AddField(table string, f Field) error {
	t, ok := m.tables[table]
	if !ok {
		return &UnknownTableError{Table: table}
	}
	if _, ok := t.Field(f.Name); ok {
		return &DuplicateColumnError{Table: table, Column: f.Name}
	}
	if f.PrimaryKey {
		return &PrimaryKeyCountError{Table: table, Count: 2}
	}
	t.Fields = append(t.Fields, f.clone())
	return nil
}

// DropField removes a column. It fails for the primary key and for columns
// still used by a foreign key on either end.
func (m *Model) DropField(table, column string) error {
	t, ok := m.tables[table]
	if !ok {
		return &UnknownTableError{Table: table}
	}
	f, ok := t.Field(column)
	if !ok {
		return &UnknownColumnError{Table: table, Column: column}
	}
	if f.PrimaryKey {
		return &PrimaryKeyCountError{Table: table, Count: 0}
	}
	for _, fk := range t.ForeignKeys {
		if slices.Contains(fk.Columns, column) {
			return &ReferencedTableError{Table: table, Column: column, RefBy: table, Constraint: fk.Name}
		}
	}
	for _, other := range m.order {
		for _, fk := range m.tables[other].ForeignKeys {
			if fk.RefTable == table && slices.Contains(fk.RefColumns, column) {
				return &ReferencedTableError{Table: table, Column: column, RefBy: other, Constraint: fk.Name}
			}
		}
	}
	t.Fields = slices.DeleteFunc(t.Fields, func(f Field) bool { return f.Name == column })
	return nil
}

// AddForeignKey attaches a constraint to an existing table.
func (m *Model) AddForeignKey(table string, fk ForeignKey) error {
	t, ok := m.tables[table]
	if !ok {
		return &UnknownTableError{Table: table}
	}
	if _, ok := t.ForeignKey(fk.Name); ok {
		return &DuplicateConstraintError{Table: table, Constraint: fk.Name}
	}
	for _, col := range fk.Columns {
		if _, ok := t.Field(col); !ok {
			return &UnknownColumnError{Table: table, Column: col}
		}
	}
	if err := m.checkReference(table, t, fk); err != nil {
		return err
	}
	t.ForeignKeys = append(t.ForeignKeys, fk.clone())
	return nil
}

// DropForeignKey removes a constraint from an existing table.
func (m *Model) DropForeignKey(table, name string) error {
	t, ok := m.tables[table]
	if !ok {
		return &UnknownTableError{Table: table}
	}
	if _, ok := t.ForeignKey(name); !ok {
		return &UnknownConstraintError{Table: table, Constraint: name}
	}
	t.ForeignKeys = slices.DeleteFunc(t.ForeignKeys, func(fk ForeignKey) bool { return fk.Name == name })
	return nil
}

// checkReference validates the referenced side of fk. self is the table the
// constraint hangs off, which may not be registered yet during RegisterTable.
func (m *Model) checkReference(selfName string, self *Table, fk ForeignKey) error {
	ref := self
	if fk.RefTable != selfName {
		var ok bool
		ref, ok = m.tables[fk.RefTable]
		if !ok {
			return &UnknownReferencedTableError{Table: selfName, Constraint: fk.Name, RefTable: fk.RefTable}
		}
	}
	for _, col := range fk.RefColumns {
		if _, ok := ref.Field(col); !ok {
			return &UnknownColumnError{Table: fk.RefTable, Column: col}
		}
	}
	return nil
}

// Clone returns a deep copy. Migration transactions stage their mutations on
// a clone and adopt it only after the transaction commits.
func (m *Model) Clone() *Model {
	c := NewModel()
	for _, name := range m.order {
		c.tables[name] = m.tables[name].clone()
		c.order = append(c.order, name)
	}
	return c
}

// Equal reports structural equality: the same tables, registered in the same
// order, with deeply equal definitions.
func (m *Model) Equal(other *Model) bool {
	if !slices.Equal(m.order, other.order) {
		return false
	}
	for _, name := range m.order {
		if !reflect.DeepEqual(m.tables[name], other.tables[name]) {
			return false
		}
	}
	return true
}
