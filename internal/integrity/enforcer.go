// Package integrity enforces row-level constraints against the registered
// schema model: uniqueness, foreign-key existence and cascading deletes that
// remove dependents before the rows they reference.
package integrity

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"

	"blog/internal/database"
	"blog/internal/schema"
)

// Enforcer checks writes against the schema model and walks the
// relationship graph for deletes. The model must not change after
// construction; migrations run before any enforcer exists.
type Enforcer struct {
	model *schema.Model
	graph *schema.Graph
}

func NewEnforcer(model *schema.Model) *Enforcer {
	return &Enforcer{model: model, graph: schema.BuildGraph(model)}
}

// CheckInsert verifies that inserting values into table would violate no
// constraint: every named column exists, non-nullable fields without a
// default are present and non-null, unique fields and unique-together
// groups collide with no existing row, and every fully populated foreign
// key points at an existing referenced row.
func (e *Enforcer) CheckInsert(ctx context.Context, q database.Querier, table string, values map[string]any) error {
	td, ok := e.model.Table(table)
	if !ok {
		return &schema.UnknownTableError{Table: table}
	}
	if err := checkColumns(td, values); err != nil {
		return err
	}
	for _, f := range td.Fields {
		v, present := values[f.Name]
		if present && isNil(v) && !f.Nullable {
			return &NotNullViolationError{Table: td.Name, Column: f.Name}
		}
		if !present && !f.Nullable && f.Default == nil && !f.AutoIncrement && !f.PrimaryKey {
			return &NotNullViolationError{Table: td.Name, Column: f.Name}
		}
	}
	if err := e.checkUnique(ctx, q, td, values, nil); err != nil {
		return err
	}
	return e.checkForeignKeys(ctx, q, td, values)
}

// CheckUpdate verifies the same constraints as CheckInsert for an update of
// the row identified by pk. Columns absent from values are unchanged and
// not checked; uniqueness lookups exclude the row being updated.
// Unique-together groups are checked when the write provides every column
// of the group.
func (e *Enforcer) CheckUpdate(ctx context.Context, q database.Querier, table string, pk any, values map[string]any) error {
	td, ok := e.model.Table(table)
	if !ok {
		return &schema.UnknownTableError{Table: table}
	}
	if err := checkColumns(td, values); err != nil {
		return err
	}
	for _, f := range td.Fields {
		if v, present := values[f.Name]; present && isNil(v) && !f.Nullable {
			return &NotNullViolationError{Table: td.Name, Column: f.Name}
		}
	}
	if err := e.checkUnique(ctx, q, td, values, pk); err != nil {
		return err
	}
	return e.checkForeignKeys(ctx, q, td, values)
}

// Delete removes the row identified by pk and, before it, every row that
// transitively references it, leaf dependents first. It returns the total
// number of rows deleted, zero when the row does not exist. Callers wanting
// atomicity run it inside database.RunInTx.
func (e *Enforcer) Delete(ctx context.Context, q database.Querier, table string, pk any) (int64, error) {
	if _, ok := e.model.Table(table); !ok {
		return 0, &schema.UnknownTableError{Table: table}
	}
	return e.deleteRow(ctx, q, table, pk, make(map[string]bool))
}

func (e *Enforcer) deleteRow(ctx context.Context, q database.Querier, table string, pk any, visited map[string]bool) (int64, error) {
	key := fmt.Sprintf("%s\x00%v", table, pk)
	if visited[key] {
		return 0, nil
	}
	visited[key] = true

	td, _ := e.model.Table(table)
	pkField, ok := td.PrimaryKey()
	if !ok {
		return 0, &schema.PrimaryKeyCountError{Table: table, Count: 0}
	}

	var exists bool
	sel := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", ident(table), ident(pkField.Name))
	if err := q.QueryRow(ctx, sel, pk).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, nil
	}

	edges := e.graph.Dependents(table)
	parentVals, err := e.fetchReferencedValues(ctx, q, td, pkField.Name, pk, edges)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, edge := range edges {
		childIDs, err := e.dependentRows(ctx, q, edge, parentVals)
		if err != nil {
			return 0, err
		}
		for _, childID := range childIDs {
			n, err := e.deleteRow(ctx, q, edge.Child, childID, visited)
			if err != nil {
				return 0, err
			}
			total += n
		}
	}

	tag, err := q.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ident(table), ident(pkField.Name)), pk)
	if err != nil {
		return 0, err
	}
	return total + tag.RowsAffected(), nil
}

// fetchReferencedValues resolves the parent-side column values that
// dependent edges join on. The primary key is already known; any other
// referenced column is read from the row itself.
func (e *Enforcer) fetchReferencedValues(ctx context.Context, q database.Querier, td *schema.Table, pkName string, pk any, edges []schema.Edge) (map[string]any, error) {
	vals := map[string]any{pkName: pk}
	var extra []string
	for _, edge := range edges {
		for _, rc := range edge.FK.RefColumns {
			if rc != pkName && !slices.Contains(extra, rc) {
				extra = append(extra, rc)
			}
		}
	}
	if len(extra) == 0 {
		return vals, nil
	}

	cols := make([]string, len(extra))
	dest := make([]any, len(extra))
	row := make([]any, len(extra))
	for i, c := range extra {
		cols[i] = ident(c)
		dest[i] = &row[i]
	}
	sel := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		strings.Join(cols, ", "), ident(td.Name), ident(pkName))
	if err := q.QueryRow(ctx, sel, pk).Scan(dest...); err != nil {
		return nil, err
	}
	for i, c := range extra {
		vals[c] = row[i]
	}
	return vals, nil
}

// dependentRows returns the primary keys of every row in edge.Child whose
// foreign-key columns match the parent values.
func (e *Enforcer) dependentRows(ctx context.Context, q database.Querier, edge schema.Edge, parentVals map[string]any) ([]any, error) {
	childTD, ok := e.model.Table(edge.Child)
	if !ok {
		return nil, &schema.UnknownTableError{Table: edge.Child}
	}
	childPK, ok := childTD.PrimaryKey()
	if !ok {
		return nil, &schema.PrimaryKeyCountError{Table: edge.Child, Count: 0}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE ", ident(childPK.Name), ident(edge.Child))
	args := make([]any, len(edge.FK.Columns))
	for i, col := range edge.FK.Columns {
		if i > 0 {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "%s = $%d", ident(col), i+1)
		args[i] = parentVals[edge.FK.RefColumns[i]]
	}

	rows, err := q.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []any
	for rows.Next() {
		var id any
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (e *Enforcer) checkUnique(ctx context.Context, q database.Querier, td *schema.Table, values map[string]any, excludePK any) error {
	for _, f := range td.Fields {
		if !f.Unique {
			continue
		}
		v, present := values[f.Name]
		if !present || isNil(v) {
			continue
		}
		taken, err := e.valueExists(ctx, q, td, []string{f.Name}, []any{v}, excludePK)
		if err != nil {
			return err
		}
		if taken {
			return &UniqueViolationError{Table: td.Name, Columns: []string{f.Name}}
		}
	}
	for _, group := range td.UniqueTogether {
		vals := make([]any, 0, len(group))
		for _, col := range group {
			v, present := values[col]
			if !present || isNil(v) {
				vals = nil
				break
			}
			vals = append(vals, v)
		}
		if vals == nil {
			continue
		}
		taken, err := e.valueExists(ctx, q, td, group, vals, excludePK)
		if err != nil {
			return err
		}
		if taken {
			return &UniqueViolationError{
				Table:      td.Name,
				Columns:    slices.Clone(group),
				Constraint: schema.UniqueTogetherName(td.Name, group),
			}
		}
	}
	return nil
}

func (e *Enforcer) checkForeignKeys(ctx context.Context, q database.Querier, td *schema.Table, values map[string]any) error {
	for _, fk := range td.ForeignKeys {
		args := make([]any, 0, len(fk.Columns))
		for _, col := range fk.Columns {
			v, present := values[col]
			if !present || isNil(v) {
				args = nil
				break
			}
			args = append(args, v)
		}
		if args == nil {
			continue
		}

		var b strings.Builder
		fmt.Fprintf(&b, "SELECT EXISTS (SELECT 1 FROM %s WHERE ", ident(fk.RefTable))
		for i, rc := range fk.RefColumns {
			if i > 0 {
				b.WriteString(" AND ")
			}
			fmt.Fprintf(&b, "%s = $%d", ident(rc), i+1)
		}
		b.WriteString(")")

		var exists bool
		if err := q.QueryRow(ctx, b.String(), args...).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return &ForeignKeyViolationError{
				Table:      td.Name,
				Columns:    slices.Clone(fk.Columns),
				Constraint: fk.Name,
				RefTable:   fk.RefTable,
			}
		}
	}
	return nil
}

// valueExists reports whether some row already carries the given values in
// the given columns. When excludePK is non-nil the row with that primary
// key is ignored, so updates do not collide with themselves.
func (e *Enforcer) valueExists(ctx context.Context, q database.Querier, td *schema.Table, cols []string, vals []any, excludePK any) (bool, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT EXISTS (SELECT 1 FROM %s WHERE ", ident(td.Name))
	for i, col := range cols {
		if i > 0 {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "%s = $%d", ident(col), i+1)
	}
	args := slices.Clone(vals)
	if excludePK != nil {
		pkField, ok := td.PrimaryKey()
		if !ok {
			return false, &schema.PrimaryKeyCountError{Table: td.Name, Count: 0}
		}
		fmt.Fprintf(&b, " AND %s <> $%d", ident(pkField.Name), len(args)+1)
		args = append(args, excludePK)
	}
	b.WriteString(")")

	var exists bool
	err := q.QueryRow(ctx, b.String(), args...).Scan(&exists)
	return exists, err
}

func checkColumns(td *schema.Table, values map[string]any) error {
	for name := range values {
		if _, ok := td.Field(name); !ok {
			return &schema.UnknownColumnError{Table: td.Name, Column: name}
		}
	}
	return nil
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// isNil treats both untyped nil and nil-valued pointers as null, so callers
// can pass optional fields as *int64 without normalizing first.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
