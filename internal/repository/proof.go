package repository

import (
	"context"
	"time"

	"freightpay/internal/domain"
)

// ProofRepository defines the persistence operations for payment proofs.
type ProofRepository interface {
	// Create persists a new proof in the PENDING state.
	Create(ctx context.Context, proof *domain.PaymentProof) error

	// GetByID retrieves a proof by ID.
	GetByID(ctx context.Context, id string) (*domain.PaymentProof, error)

	// List retrieves proofs filtered by client and/or status. Empty filter
	// values match everything. Results are ordered by creation time, newest
	// first.
	List(ctx context.Context, clientID string, status domain.ProofStatus) ([]*domain.PaymentProof, error)

	// Approve transitions a PENDING proof to APPROVED. Returns ErrNotFound
	// if the proof does not exist or is no longer pending.
	Approve(ctx context.Context, id, processedBy string, at time.Time) error

	// Reject transitions a PENDING proof to REJECTED with the given reason.
	// Returns ErrNotFound if the proof does not exist or is no longer
	// pending.
	Reject(ctx context.Context, id, processedBy, reason string, at time.Time) error

	// SetReceiptNumber records the generated receipt number on the proof.
	SetReceiptNumber(ctx context.Context, id, receiptNumber string) error
}

// ReceiptRepository defines the persistence operations for payment receipts.
type ReceiptRepository interface {
	// Create persists a new receipt index record.
	Create(ctx context.Context, receipt *domain.PaymentReceipt) error

	// GetByProofID retrieves the receipt generated for a proof.
	GetByProofID(ctx context.Context, proofID string) (*domain.PaymentReceipt, error)
}
