package repository

import "context"

// TxRepositories bundles the repositories scoped to a single transaction.
type TxRepositories struct {
	Deliveries DeliveryRepository
	Proofs     ProofRepository
	Receipts   ReceiptRepository
}

// UnitOfWork runs a function against transaction-scoped repositories. The
// transaction commits when fn returns nil and rolls back otherwise, so a
// multi-row proof transition is applied entirely or not at all.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx TxRepositories) error) error
}
