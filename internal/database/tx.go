package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionAbortedError wraps any failure inside a unit of work, surfaced
// only after the transaction has been rolled back. Unwrap exposes the cause
// so callers can still match the underlying integrity or storage error.
type TransactionAbortedError struct {
	Cause error
}

func (e *TransactionAbortedError) Error() string {
	return fmt.Sprintf("transaction aborted: %v", e.Cause)
}

func (e *TransactionAbortedError) Unwrap() error {
	return e.Cause
}

type txKey struct{}

// From returns the transaction carried by ctx when a unit of work is active,
// or the pool otherwise. Repository methods route all row I/O through it, so
// writes inside a unit of work see the rows the same unit produced earlier.
func From(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// RunInTx executes fn as one unit of work: every write inside it either
// commits with the rest or rolls back with the rest. A nested call joins the
// caller's transaction instead of opening an independent commit point. Any
// failure, including context cancellation, surfaces as
// TransactionAbortedError.
func RunInTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return &TransactionAbortedError{Cause: err}
	}
	defer tx.Rollback(ctx)

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return &TransactionAbortedError{Cause: err}
	}
	if err := ctx.Err(); err != nil {
		return &TransactionAbortedError{Cause: err}
	}
	if err := tx.Commit(ctx); err != nil {
		return &TransactionAbortedError{Cause: err}
	}
	return nil
}
