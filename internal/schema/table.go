package schema

import "slices"

// ForeignKey declares a named reference from local columns to columns of
// another table, with the referential actions to run on delete and update.
type ForeignKey struct {
	Name       string
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   RefAction
	OnUpdate   RefAction
}

func (fk ForeignKey) clone() ForeignKey {
	c := fk
	c.Columns = slices.Clone(fk.Columns)
	c.RefColumns = slices.Clone(fk.RefColumns)
	return c
}

// Table is one table definition: ordered fields (slice order is column
// order), foreign keys, and optional unique-together column groups.
type Table struct {
	Name           string
	Fields         []Field
	ForeignKeys    []ForeignKey
	UniqueTogether [][]string
}

// Field returns the field with the given name.
func (t *Table) Field(name string) (*Field, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

// PrimaryKey returns the table's primary-key field.
func (t *Table) PrimaryKey() (*Field, bool) {
	for i := range t.Fields {
		if t.Fields[i].PrimaryKey {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

// ForeignKey returns the foreign key with the given constraint name.
func (t *Table) ForeignKey(name string) (*ForeignKey, bool) {
	for i := range t.ForeignKeys {
		if t.ForeignKeys[i].Name == name {
			return &t.ForeignKeys[i], true
		}
	}
	return nil, false
}

func (t *Table) clone() *Table {
	c := &Table{Name: t.Name}
	c.Fields = make([]Field, len(t.Fields))
	for i, f := range t.Fields {
		c.Fields[i] = f.clone()
	}
	c.ForeignKeys = make([]ForeignKey, len(t.ForeignKeys))
	for i, fk := range t.ForeignKeys {
		c.ForeignKeys[i] = fk.clone()
	}
	c.UniqueTogether = make([][]string, len(t.UniqueTogether))
	for i, group := range t.UniqueTogether {
		c.UniqueTogether[i] = slices.Clone(group)
	}
	return c
}

// validate checks the table-local invariants: unique field names, exactly
// one primary key, and every constraint column declared on the table.
func (t *Table) validate() error {
	seen := make(map[string]bool, len(t.Fields))
	pks := 0
	for _, f := range t.Fields {
		if seen[f.Name] {
			return &DuplicateColumnError{Table: t.Name, Column: f.Name}
		}
		seen[f.Name] = true
		if f.PrimaryKey {
			pks++
		}
	}
	if pks != 1 {
		return &PrimaryKeyCountError{Table: t.Name, Count: pks}
	}
	names := make(map[string]bool, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		if names[fk.Name] {
			return &DuplicateConstraintError{Table: t.Name, Constraint: fk.Name}
		}
		names[fk.Name] = true
		for _, col := range fk.Columns {
			if !seen[col] {
				return &UnknownColumnError{Table: t.Name, Column: col}
			}
		}
	}
	for _, group := range t.UniqueTogether {
		for _, col := range group {
			if !seen[col] {
				return &UnknownColumnError{Table: t.Name, Column: col}
			}
		}
	}
	return nil
}
