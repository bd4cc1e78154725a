package migrate

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"blog/internal/database"
)

// AppliedMigration is one row of the durable applied-migration record.
type AppliedMigration struct {
	Name      string
	Checksum  string
	AppliedAt time.Time
}

// Ledger is the persisted migration history. Reads go through the pool;
// writes go through the transaction of the unit they belong to, so a failed
// unit leaves no ledger trace.
type Ledger struct {
	pool *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

// Init creates the ledger table on first contact with a database. An absent
// table means an empty-schema starting state.
func (l *Ledger) Init(ctx context.Context) error {
	_, err := l.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS _migrations (
			name TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// Applied returns the ledger contents in application order.
func (l *Ledger) Applied(ctx context.Context) ([]AppliedMigration, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT name, checksum, applied_at
		FROM _migrations
		ORDER BY applied_at, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var rec AppliedMigration
		if err := rows.Scan(&rec.Name, &rec.Checksum, &rec.AppliedAt); err != nil {
			return nil, err
		}
		applied = append(applied, rec)
	}
	return applied, rows.Err()
}

// Record marks a unit applied, inside that unit's transaction.
func (l *Ledger) Record(ctx context.Context, q database.Querier, name, checksum string) error {
	_, err := q.Exec(ctx, `INSERT INTO _migrations (name, checksum) VALUES ($1, $2)`, name, checksum)
	return err
}

// Remove deletes a unit's ledger row, inside the downgrade transaction.
func (l *Ledger) Remove(ctx context.Context, q database.Querier, name string) error {
	_, err := q.Exec(ctx, `DELETE FROM _migrations WHERE name = $1`, name)
	return err
}
