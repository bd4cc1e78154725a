package schema

import (
	"fmt"
	"strings"
)

// DuplicateTableError reports a table registration under a name that is
// already taken.
type DuplicateTableError struct {
	Table string
}

func (e *DuplicateTableError) Error() string {
	return fmt.Sprintf("schema: table %q already registered", e.Table)
}

// UnknownTableError reports an operation against a table the model does not
// know.
type UnknownTableError struct {
	Table string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("schema: unknown table %q", e.Table)
}

// UnknownColumnError reports a reference to a column the named table does
// not declare.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("schema: unknown column %q on table %q", e.Column, e.Table)
}

// UnknownReferencedTableError reports a foreign key whose referenced table
// does not exist in the model.
type UnknownReferencedTableError struct {
	Table      string
	Constraint string
	RefTable   string
}

func (e *UnknownReferencedTableError) Error() string {
	return fmt.Sprintf("schema: constraint %q on table %q references unknown table %q",
		e.Constraint, e.Table, e.RefTable)
}

// DuplicateColumnError reports a column added under a name the table already
// declares.
type DuplicateColumnError struct {
	Table  string
	Column string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("schema: column %q already declared on table %q", e.Column, e.Table)
}

// UnknownConstraintError reports a drop of a constraint the table does not
// carry.
type UnknownConstraintError struct {
	Table      string
	Constraint string
}

func (e *UnknownConstraintError) Error() string {
	return fmt.Sprintf("schema: unknown constraint %q on table %q", e.Constraint, e.Table)
}

// DuplicateConstraintError reports a constraint added under a name the table
// already carries.
type DuplicateConstraintError struct {
	Table      string
	Constraint string
}

func (e *DuplicateConstraintError) Error() string {
	return fmt.Sprintf("schema: constraint %q already declared on table %q", e.Constraint, e.Table)
}

// PrimaryKeyCountError reports a mutation that would leave a table with
// anything other than exactly one primary-key field.
type PrimaryKeyCountError struct {
	Table string
	Count int
}

func (e *PrimaryKeyCountError) Error() string {
	return fmt.Sprintf("schema: table %q would have %d primary-key fields, want exactly 1",
		e.Table, e.Count)
}

// ReferencedTableError reports a drop blocked because a foreign key still
// points at the table or column being removed.
type ReferencedTableError struct {
	Table      string
	Column     string // empty when a whole table is being dropped
	RefBy      string
	Constraint string
}

func (e *ReferencedTableError) Error() string {
	target := fmt.Sprintf("table %q", e.Table)
	if e.Column != "" {
		target = fmt.Sprintf("column %q", strings.Join([]string{e.Table, e.Column}, "."))
	}
	return fmt.Sprintf("schema: %s is still referenced by constraint %q on table %q",
		target, e.Constraint, e.RefBy)
}
