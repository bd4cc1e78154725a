package migrate

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog/internal/schema"
)

// Runner applies and reverts migration units against one database, keeping
// the ledger and the in-memory schema model in step with it.
type Runner struct {
	pool   *pgxpool.Pool
	ledger *Ledger
	chain  []*Migration
	model  *schema.Model
}

// NewRunner resolves the unit set up front, so graph errors surface here,
// before anything touches the database.
func NewRunner(pool *pgxpool.Pool, units []*Migration) (*Runner, error) {
	chain, err := Resolve(units)
	if err != nil {
		return nil, err
	}
	return &Runner{
		pool:   pool,
		ledger: NewLedger(pool),
		chain:  chain,
		model:  schema.NewModel(),
	}, nil
}

// Model returns the schema model as of the last Apply or Revert on this
// runner. It is read-only for everyone downstream.
func (r *Runner) Model() *schema.Model {
	return r.model
}

// Chain returns the resolved application order.
func (r *Runner) Chain() []*Migration {
	return slices.Clone(r.chain)
}

// load reconciles the ledger with the resolved chain. Applied history must
// be a chain prefix with matching checksums; the model the applied prefix
// produces is rebuilt by replaying its Up operations.
func (r *Runner) load(ctx context.Context) ([]AppliedMigration, *schema.Model, error) {
	if err := r.ledger.Init(ctx); err != nil {
		return nil, nil, fmt.Errorf("init migration ledger: %w", err)
	}
	applied, err := r.ledger.Applied(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("read migration ledger: %w", err)
	}
	if len(applied) > len(r.chain) {
		extra := applied[len(r.chain)]
		return nil, nil, &HistoryDriftError{Name: extra.Name, Detail: "applied but not part of the known chain"}
	}

	model := schema.NewModel()
	for i, rec := range applied {
		unit := r.chain[i]
		if rec.Name != unit.Name {
			return nil, nil, &HistoryDriftError{
				Name:   rec.Name,
				Detail: fmt.Sprintf("applied at position %d where the chain has %q", i+1, unit.Name),
			}
		}
		if sum := unit.Checksum(); sum != rec.Checksum {
			return nil, nil, &HistoryDriftError{Name: rec.Name, Detail: "checksum changed since application"}
		}
		for _, op := range unit.Up {
			if err := op.Apply(model); err != nil {
				return nil, nil, fmt.Errorf("replay %s: %w", unit.Name, err)
			}
		}
	}
	return applied, model, nil
}

func (r *Runner) indexOf(name string) int {
	for i, u := range r.chain {
		if u.Name == name {
			return i
		}
	}
	return -1
}

// Apply runs every pending unit up to and including target, in chain order.
// An empty target means latest. Each unit executes as one transaction that
// also writes its ledger row, so a mid-unit failure rolls the whole unit
// back and halts the run with the ledger untouched. Returns the number of
// units applied; zero with a nil error when already up to date.
func (r *Runner) Apply(ctx context.Context, target string) (int, error) {
	release, err := acquireLock(ctx, r.pool)
	if err != nil {
		return 0, err
	}
	defer release()

	applied, model, err := r.load(ctx)
	if err != nil {
		return 0, err
	}

	end := len(r.chain)
	if target != "" {
		idx := r.indexOf(target)
		if idx < 0 {
			return 0, &UnknownMigrationError{Name: target}
		}
		end = idx + 1
	}

	n := 0
	for i := len(applied); i < end; i++ {
		unit := r.chain[i]
		next, err := r.applyUnit(ctx, unit, model)
		if err != nil {
			return n, fmt.Errorf("apply %s: %w", unit.Name, err)
		}
		model = next
		log.Printf("Applied migration %s", unit.Name)
		n++
	}
	r.model = model
	return n, nil
}

func (r *Runner) applyUnit(ctx context.Context, unit *Migration, model *schema.Model) (*schema.Model, error) {
	staged := model.Clone()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, op := range unit.Up {
		if err := op.Apply(staged); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, op.SQL()); err != nil {
			return nil, err
		}
	}
	if err := r.ledger.Record(ctx, tx, unit.Name, unit.Checksum()); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return staged, nil
}

// Revert walks the applied suffix newest-first down to, but not including,
// target, running each unit's Down operations and removing its ledger row in
// the same transaction. An empty target reverts the whole history. Returns
// the number of units reverted.
func (r *Runner) Revert(ctx context.Context, target string) (int, error) {
	release, err := acquireLock(ctx, r.pool)
	if err != nil {
		return 0, err
	}
	defer release()

	applied, model, err := r.load(ctx)
	if err != nil {
		return 0, err
	}

	keep := 0
	if target != "" {
		idx := r.indexOf(target)
		if idx < 0 {
			return 0, &UnknownMigrationError{Name: target}
		}
		if idx >= len(applied) {
			return 0, fmt.Errorf("migrate: revert target %q has not been applied", target)
		}
		keep = idx + 1
	}

	n := 0
	for i := len(applied) - 1; i >= keep; i-- {
		unit := r.chain[i]
		next, err := r.revertUnit(ctx, unit, model)
		if err != nil {
			return n, fmt.Errorf("revert %s: %w", unit.Name, err)
		}
		model = next
		log.Printf("Reverted migration %s", unit.Name)
		n++
	}
	r.model = model
	return n, nil
}

func (r *Runner) revertUnit(ctx context.Context, unit *Migration, model *schema.Model) (*schema.Model, error) {
	staged := model.Clone()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	for _, op := range unit.Down {
		if err := op.Apply(staged); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, op.SQL()); err != nil {
			return nil, err
		}
	}
	if err := r.ledger.Remove(ctx, tx, unit.Name); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return staged, nil
}

// Status reports the applied ledger rows and the names still pending, in
// chain order.
func (r *Runner) Status(ctx context.Context) ([]AppliedMigration, []string, error) {
	applied, _, err := r.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	var pending []string
	for _, u := range r.chain[len(applied):] {
		pending = append(pending, u.Name)
	}
	return applied, pending, nil
}
