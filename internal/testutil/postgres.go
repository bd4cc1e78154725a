// Package testutil provides disposable PostgreSQL instances for integration
// tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"blog/internal/migrate"
	"blog/internal/migrations"
	"blog/internal/schema"
)

// StartPostgres runs a throwaway PostgreSQL container and returns a pool
// connected to it. Container and pool are torn down when the test finishes.
// Tests calling it are skipped in -short mode.
func StartPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()
	ctr, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("blog_test"),
		postgres.WithUsername("blog"),
		postgres.WithPassword("blog"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("container connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect to postgres: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		t.Fatalf("ping postgres: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// MigratedPool starts a container and applies the full registered migration
// chain, returning the pool and the schema model the chain produces.
func MigratedPool(t *testing.T) (*pgxpool.Pool, *schema.Model) {
	t.Helper()
	pool := StartPostgres(t)

	runner, err := migrate.NewRunner(pool, migrations.All())
	if err != nil {
		t.Fatalf("build migration runner: %v", err)
	}
	if _, err := runner.Apply(context.Background(), ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return pool, runner.Model()
}
