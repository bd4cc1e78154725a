package migrate

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/jackc/pgx/v5/pgxpool"
)

const lockName = "blog.migrations"

// acquireLock takes the session-scoped advisory lock serializing migration
// runs against one database. Advisory locks belong to a connection, so the
// lock lives on a dedicated pooled connection until release returns it.
func acquireLock(ctx context.Context, pool *pgxpool.Pool) (release func(), err error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection for migration lock: %w", err)
	}

	key := hashLockKey(lockName)
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", key); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire migration lock: %w", err)
	}

	return func() {
		// unlock on a fresh context so a canceled run still releases
		_, _ = conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", key)
		conn.Release()
	}, nil
}

// hashLockKey folds a lock name into the bigint key space advisory locks
// use.
func hashLockKey(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64())
}
