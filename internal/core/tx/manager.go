// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces so the reverse+apply pair of a
// stock edit can run inside one transactional boundary without knowing the
// database implementation.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// Implementations handle BEGIN, COMMIT, ROLLBACK, and nested calls.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with snapshot-read support.
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	// Attempts to modify data will fail.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error

	// Snapshot executes fn in a read-only repeatable-read transaction.
	// Reporting reads use this so the current quantity and the event list
	// come from one consistent point in time.
	Snapshot(ctx context.Context, fn func(ctx context.Context) error) error
}
