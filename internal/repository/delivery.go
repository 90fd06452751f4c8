package repository

import (
	"context"
	"time"

	"freightpay/internal/domain"
)

// DeliveryRepository defines the persistence operations for deliveries.
//
// The payment-status mutators (MarkPendingVerification, MarkPaid,
// ReleaseProof) are the only writers of a delivery's payment state and are
// called exclusively by the proof service inside a transaction.
type DeliveryRepository interface {
	// Create persists a new delivery.
	Create(ctx context.Context, delivery *domain.Delivery) error

	// GetByID retrieves a delivery by ID.
	GetByID(ctx context.Context, id string) (*domain.Delivery, error)

	// GetByClientID retrieves all deliveries for a client.
	GetByClientID(ctx context.Context, clientID string) ([]*domain.Delivery, error)

	// GetByIDs retrieves the deliveries with the given IDs. When called on a
	// transaction-scoped repository the rows are locked for update, ordered
	// by ID so concurrent callers cannot deadlock. Missing IDs are simply
	// absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Delivery, error)

	// UpdateDeliveryStatus updates the operational status of a delivery.
	UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus) error

	// CancelDelivery marks a delivery cancelled, excluding it from billing.
	CancelDelivery(ctx context.Context, id string) error

	// MarkPendingVerification flips the given deliveries into the
	// pending-verification state, referencing the proof that covers them.
	MarkPendingVerification(ctx context.Context, ids []string, proofID string, at time.Time) error

	// MarkPaid flips the given deliveries to paid, stamping the paid and
	// approved timestamps.
	MarkPaid(ctx context.Context, ids []string, at time.Time) error

	// ReleaseProof resets the given deliveries to pending and clears the
	// proof reference so the client can resubmit.
	ReleaseProof(ctx context.Context, ids []string, rejectionReason string) error
}
