package migrate_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"blog/internal/migrate"
	"blog/internal/migrations"
	"blog/internal/schema"
	"blog/internal/testutil"
)

func newRunner(t *testing.T, pool *pgxpool.Pool, units []*migrate.Migration) *migrate.Runner {
	t.Helper()
	runner, err := migrate.NewRunner(pool, units)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return runner
}

func tableExists(t *testing.T, pool *pgxpool.Pool, name string) bool {
	t.Helper()
	var exists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)`,
		name).Scan(&exists)
	if err != nil {
		t.Fatalf("check table %s: %v", name, err)
	}
	return exists
}

func ledgerNames(t *testing.T, pool *pgxpool.Pool) []string {
	t.Helper()
	rows, err := pool.Query(context.Background(), `SELECT name FROM _migrations ORDER BY applied_at, name`)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			t.Fatalf("scan ledger row: %v", err)
		}
		names = append(names, n)
	}
	return names
}

func widgetsTable() schema.Table {
	return schema.Table{
		Name: "widgets",
		Fields: []schema.Field{
			{Name: "id", Type: schema.TypeInteger, PrimaryKey: true, AutoIncrement: true},
			{Name: "name", Type: schema.TypeString},
		},
	}
}

func TestApplyAndRerun(t *testing.T) {
	pool := testutil.StartPostgres(t)
	ctx := context.Background()

	runner := newRunner(t, pool, migrations.All())
	n, err := runner.Apply(ctx, "")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 units applied, got %d", n)
	}
	for _, name := range []string{"users", "posts", "comments", "tags", "post_tags"} {
		if !tableExists(t, pool, name) {
			t.Errorf("table %s missing after apply", name)
		}
	}
	if got := len(runner.Model().Tables()); got != 5 {
		t.Errorf("model has %d tables, want 5", got)
	}

	// A fresh runner against the same database finds nothing to do.
	again := newRunner(t, pool, migrations.All())
	n, err = again.Apply(ctx, "")
	if err != nil {
		t.Fatalf("rerun Apply: %v", err)
	}
	if n != 0 {
		t.Errorf("rerun applied %d units, want 0", n)
	}
	if got := len(again.Model().Tables()); got != 5 {
		t.Errorf("rerun model has %d tables, want 5", got)
	}

	applied, pending, err := again.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(applied) != 4 || len(pending) != 0 {
		t.Errorf("status: %d applied, %d pending; want 4 and 0", len(applied), len(pending))
	}
}

func TestApplyToTarget(t *testing.T) {
	pool := testutil.StartPostgres(t)
	ctx := context.Background()

	runner := newRunner(t, pool, migrations.All())
	n, err := runner.Apply(ctx, "0002_create_posts_table")
	if err != nil {
		t.Fatalf("Apply to target: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 units applied, got %d", n)
	}
	if !tableExists(t, pool, "posts") || tableExists(t, pool, "comments") {
		t.Error("database should hold exactly the first two units")
	}

	if _, err := runner.Apply(ctx, "no_such_unit"); err == nil {
		t.Fatal("expected error for unknown target")
	} else {
		var unknown *migrate.UnknownMigrationError
		if !errors.As(err, &unknown) {
			t.Fatalf("expected UnknownMigrationError, got %v", err)
		}
	}

	n, err = runner.Apply(ctx, "")
	if err != nil {
		t.Fatalf("Apply rest: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 remaining units applied, got %d", n)
	}
}

func TestRevertRestoresPriorShape(t *testing.T) {
	pool := testutil.StartPostgres(t)
	ctx := context.Background()

	runner := newRunner(t, pool, migrations.All())
	if _, err := runner.Apply(ctx, "0003_create_comments_table"); err != nil {
		t.Fatalf("Apply to 0003: %v", err)
	}
	snapshot := runner.Model().Clone()

	if _, err := runner.Apply(ctx, ""); err != nil {
		t.Fatalf("Apply rest: %v", err)
	}
	if !tableExists(t, pool, "post_tags") {
		t.Fatal("post_tags missing after full apply")
	}

	n, err := runner.Revert(ctx, "0003_create_comments_table")
	if err != nil {
		t.Fatalf("Revert: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 unit reverted, got %d", n)
	}
	if tableExists(t, pool, "post_tags") || tableExists(t, pool, "tags") {
		t.Error("tags tables should be gone after revert")
	}
	if !runner.Model().Equal(snapshot) {
		t.Error("model after revert differs from the model before the unit was applied")
	}

	// Reverting everything leaves an empty ledger; a reapply starts over.
	n, err = runner.Revert(ctx, "")
	if err != nil {
		t.Fatalf("Revert all: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 units reverted, got %d", n)
	}
	if names := ledgerNames(t, pool); len(names) != 0 {
		t.Errorf("ledger should be empty, has %v", names)
	}
	if got := len(runner.Model().Tables()); got != 0 {
		t.Errorf("model should be empty, has %d tables", got)
	}
	n, err = runner.Apply(ctx, "")
	if err != nil {
		t.Fatalf("reapply: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 units reapplied, got %d", n)
	}
}

func TestRevertTargetValidation(t *testing.T) {
	pool := testutil.StartPostgres(t)
	ctx := context.Background()

	runner := newRunner(t, pool, migrations.All())
	if _, err := runner.Apply(ctx, "0002_create_posts_table"); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	var unknown *migrate.UnknownMigrationError
	if _, err := runner.Revert(ctx, "no_such_unit"); !errors.As(err, &unknown) {
		t.Errorf("expected UnknownMigrationError, got %v", err)
	}
	if _, err := runner.Revert(ctx, "0004_create_tags_table"); err == nil {
		t.Error("expected error reverting to a unit that was never applied")
	}
}

func TestFailingUnitRollsBack(t *testing.T) {
	pool := testutil.StartPostgres(t)
	ctx := context.Background()

	good := &migrate.Migration{
		Name: "0001_create_widgets",
		Up:   []migrate.Operation{migrate.CreateTable{Table: widgetsTable()}},
		Down: []migrate.Operation{migrate.DropTable{Table: "widgets"}},
	}
	// The second operation renders invalid SQL, so the unit fails after its
	// first statement already ran inside the transaction.
	bad := &migrate.Migration{
		Name:      "0002_break",
		DependsOn: "0001_create_widgets",
		Up: []migrate.Operation{
			migrate.AddColumn{Table: "widgets", Field: schema.Field{Name: "size", Type: schema.TypeInteger, Nullable: true}},
			migrate.AddColumn{Table: "widgets", Field: schema.Field{
				Name: "broken", Type: schema.TypeString, Nullable: true, Default: schema.DefaultLiteral("((nonsense"),
			}},
		},
		Down: []migrate.Operation{
			migrate.DropColumn{Table: "widgets", Column: "broken"},
			migrate.DropColumn{Table: "widgets", Column: "size"},
		},
	}

	runner := newRunner(t, pool, []*migrate.Migration{good, bad})
	n, err := runner.Apply(ctx, "")
	if err == nil {
		t.Fatal("expected the second unit to fail")
	}
	if n != 1 {
		t.Fatalf("expected 1 unit applied before the failure, got %d", n)
	}
	if names := ledgerNames(t, pool); len(names) != 1 || names[0] != "0001_create_widgets" {
		t.Errorf("ledger = %v, want only the first unit", names)
	}

	// Nothing from the failed unit may remain.
	var hasSize bool
	err = pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'widgets' AND column_name = 'size')`,
	).Scan(&hasSize)
	if err != nil {
		t.Fatalf("check column: %v", err)
	}
	if hasSize {
		t.Error("column from the failed unit survived the rollback")
	}

	// A corrected replacement unit picks up where the ledger stops.
	fixed := &migrate.Migration{
		Name:      "0002_break",
		DependsOn: "0001_create_widgets",
		Up: []migrate.Operation{
			migrate.AddColumn{Table: "widgets", Field: schema.Field{Name: "size", Type: schema.TypeInteger, Nullable: true}},
		},
		Down: []migrate.Operation{
			migrate.DropColumn{Table: "widgets", Column: "size"},
		},
	}
	n, err = newRunner(t, pool, []*migrate.Migration{good, fixed}).Apply(ctx, "")
	if err != nil {
		t.Fatalf("apply fixed chain: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 unit applied, got %d", n)
	}
}

func TestHistoryDrift(t *testing.T) {
	pool := testutil.StartPostgres(t)
	ctx := context.Background()

	a := &migrate.Migration{
		Name: "0001_create_widgets",
		Up:   []migrate.Operation{migrate.CreateTable{Table: widgetsTable()}},
		Down: []migrate.Operation{migrate.DropTable{Table: "widgets"}},
	}
	b := &migrate.Migration{
		Name:      "0002_add_size",
		DependsOn: "0001_create_widgets",
		Up: []migrate.Operation{
			migrate.AddColumn{Table: "widgets", Field: schema.Field{Name: "size", Type: schema.TypeInteger, Nullable: true}},
		},
		Down: []migrate.Operation{migrate.DropColumn{Table: "widgets", Column: "size"}},
	}
	if _, err := newRunner(t, pool, []*migrate.Migration{a, b}).Apply(ctx, ""); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	var drift *migrate.HistoryDriftError

	// Ledger longer than the known chain.
	if _, err := newRunner(t, pool, []*migrate.Migration{a}).Apply(ctx, ""); !errors.As(err, &drift) {
		t.Errorf("short chain: expected HistoryDriftError, got %v", err)
	}

	// Same name, different operations.
	mutated := &migrate.Migration{
		Name: "0001_create_widgets",
		Up: []migrate.Operation{
			migrate.CreateTable{Table: widgetsTable()},
			migrate.AddColumn{Table: "widgets", Field: schema.Field{Name: "extra", Type: schema.TypeString, Nullable: true}},
		},
		Down: []migrate.Operation{migrate.DropTable{Table: "widgets"}},
	}
	if _, err := newRunner(t, pool, []*migrate.Migration{mutated, b}).Apply(ctx, ""); !errors.As(err, &drift) {
		t.Errorf("mutated unit: expected HistoryDriftError, got %v", err)
	}
}

func TestConcurrentApply(t *testing.T) {
	pool := testutil.StartPostgres(t)
	ctx := context.Background()

	r1 := newRunner(t, pool, migrations.All())
	r2 := newRunner(t, pool, migrations.All())

	var wg sync.WaitGroup
	var n1, n2 int
	var err1, err2 error
	wg.Add(2)
	go func() {
		defer wg.Done()
		n1, err1 = r1.Apply(ctx, "")
	}()
	go func() {
		defer wg.Done()
		n2, err2 = r2.Apply(ctx, "")
	}()
	wg.Wait()

	if err1 != nil || err2 != nil {
		t.Fatalf("concurrent apply failed: %v / %v", err1, err2)
	}
	if n1+n2 != 4 {
		t.Errorf("units applied across both runners = %d, want 4", n1+n2)
	}
	if names := ledgerNames(t, pool); len(names) != 4 {
		t.Errorf("ledger has %d rows, want 4", len(names))
	}
}
