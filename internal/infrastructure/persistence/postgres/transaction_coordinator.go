package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repos bundles transaction-bound repository instances.
type Repos struct {
	Orders   *OrderRepository
	Payments *PaymentRepository
	Samples  *SampleRepository
	Results  *ResultRepository
}

// TransactionCoordinator runs multi-entity mutations inside one database
// transaction. Combined with FOR UPDATE on the order row this serializes
// all writers of a given aggregate while leaving other orders untouched.
type TransactionCoordinator struct {
	pool *pgxpool.Pool
}

func NewTransactionCoordinator(db *DB) *TransactionCoordinator {
	return &TransactionCoordinator{pool: db.Pool}
}

// WithTransaction executes fn inside a transaction. The repositories passed
// to fn use the transaction; any error rolls everything back.
func (tc *TransactionCoordinator) WithTransaction(
	ctx context.Context,
	fn func(ctx context.Context, repos Repos) error,
) error {
	tx, err := tc.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	repos := Repos{
		Orders:   &OrderRepository{q: tx},
		Payments: &PaymentRepository{q: tx},
		Samples:  &SampleRepository{q: tx},
		Results:  &ResultRepository{q: tx},
	}

	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
