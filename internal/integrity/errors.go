package integrity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// UniqueViolationError reports a write whose value collides with an
// existing row on a unique field or unique-together group.
type UniqueViolationError struct {
	Table      string
	Columns    []string
	Constraint string
}

func (e *UniqueViolationError) Error() string {
	if len(e.Columns) > 0 {
		return fmt.Sprintf("integrity: duplicate value for %s.%s", e.Table, strings.Join(e.Columns, "+"))
	}
	return fmt.Sprintf("integrity: unique constraint %q violated on %s", e.Constraint, e.Table)
}

// ForeignKeyViolationError reports a foreign-key value pointing at a row
// that does not exist in the referenced table.
type ForeignKeyViolationError struct {
	Table      string
	Columns    []string
	Constraint string
	RefTable   string
}

func (e *ForeignKeyViolationError) Error() string {
	if len(e.Columns) > 0 {
		return fmt.Sprintf("integrity: %s.%s references a missing row in %s",
			e.Table, strings.Join(e.Columns, "+"), e.RefTable)
	}
	return fmt.Sprintf("integrity: foreign key %q violated on %s", e.Constraint, e.Table)
}

// NotNullViolationError reports a null (or omitted) value for a
// non-nullable field.
type NotNullViolationError struct {
	Table  string
	Column string
}

func (e *NotNullViolationError) Error() string {
	return fmt.Sprintf("integrity: %s.%s must not be null", e.Table, e.Column)
}

// PostgreSQL error codes for the constraint failures the taxonomy covers.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	notNullViolationCode    = "23502"
)

// MapError converts PostgreSQL constraint failures into the integrity
// taxonomy, so violations the pre-checks cannot see (two inserts racing on
// one unique value) surface exactly like checked ones. Every other error
// passes through unchanged.
func MapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolationCode:
		return &UniqueViolationError{Table: pgErr.TableName, Constraint: pgErr.ConstraintName}
	case foreignKeyViolationCode:
		return &ForeignKeyViolationError{Table: pgErr.TableName, Constraint: pgErr.ConstraintName}
	case notNullViolationCode:
		return &NotNullViolationError{Table: pgErr.TableName, Column: pgErr.ColumnName}
	}
	return err
}
