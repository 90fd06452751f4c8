package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"freightpay/internal/domain"
	"freightpay/internal/repository"
)

// ReceiptRepository is a PostgreSQL implementation of repository.ReceiptRepository.
type ReceiptRepository struct {
	q Querier
}

// NewReceiptRepository creates a new PostgreSQL receipt repository.
func NewReceiptRepository(db *sql.DB) *ReceiptRepository {
	return &ReceiptRepository{q: db}
}

// NewReceiptRepositoryWithTx creates a receipt repository using a transaction.
func NewReceiptRepositoryWithTx(tx *sql.Tx) *ReceiptRepository {
	return &ReceiptRepository{q: tx}
}

// Create persists a new receipt index record. The unique constraint on
// proof_id enforces at most one receipt per approved proof.
func (r *ReceiptRepository) Create(ctx context.Context, receipt *domain.PaymentReceipt) error {
	query := `
		INSERT INTO payment_receipts (
			id, receipt_number, proof_id, client_id, client_name,
			total_amount, delivery_ids, file_path, approved_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		receipt.ID,
		receipt.ReceiptNumber,
		receipt.ProofID,
		receipt.ClientID,
		receipt.ClientName,
		receipt.TotalAmount,
		pq.Array(receipt.DeliveryIDs),
		receipt.FilePath,
		receipt.ApprovedBy,
		receipt.CreatedAt,
	)

	return err
}

// GetByProofID retrieves the receipt generated for a proof.
func (r *ReceiptRepository) GetByProofID(ctx context.Context, proofID string) (*domain.PaymentReceipt, error) {
	query := `
		SELECT id, receipt_number, proof_id, client_id, client_name,
		       total_amount, delivery_ids, file_path, approved_by, created_at
		FROM payment_receipts WHERE proof_id = $1
	`

	var (
		receipt     domain.PaymentReceipt
		deliveryIDs pq.StringArray
	)
	err := r.q.QueryRowContext(ctx, query, proofID).Scan(
		&receipt.ID,
		&receipt.ReceiptNumber,
		&receipt.ProofID,
		&receipt.ClientID,
		&receipt.ClientName,
		&receipt.TotalAmount,
		&deliveryIDs,
		&receipt.FilePath,
		&receipt.ApprovedBy,
		&receipt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	receipt.DeliveryIDs = deliveryIDs
	return &receipt, nil
}
