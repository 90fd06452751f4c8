package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"freightpay/internal/repository"
)

// UnitOfWork runs repository operations inside a single database
// transaction.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork creates a new UnitOfWork.
func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do begins a transaction, hands transaction-scoped repositories to fn, and
// commits if fn returns nil. Any error from fn or commit rolls everything
// back.
func (u *UnitOfWork) Do(ctx context.Context, fn func(tx repository.TxRepositories) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	repos := repository.TxRepositories{
		Deliveries: NewDeliveryRepositoryWithTx(tx),
		Proofs:     NewProofRepositoryWithTx(tx),
		Receipts:   NewReceiptRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)
