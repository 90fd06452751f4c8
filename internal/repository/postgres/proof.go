package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"freightpay/internal/domain"
	"freightpay/internal/repository"
)

const proofColumns = `
	id, client_id, delivery_ids, file_path, file_name, content_type,
	total_amount, status, reference_number, notes, rejection_reason,
	processed_by, processed_at, receipt_number, created_at
`

// ProofRepository is a PostgreSQL implementation of repository.ProofRepository.
type ProofRepository struct {
	q Querier
}

// NewProofRepository creates a new PostgreSQL proof repository.
func NewProofRepository(db *sql.DB) *ProofRepository {
	return &ProofRepository{q: db}
}

// NewProofRepositoryWithTx creates a proof repository using a transaction.
func NewProofRepositoryWithTx(tx *sql.Tx) *ProofRepository {
	return &ProofRepository{q: tx}
}

// Create persists a new proof in the PENDING state.
func (r *ProofRepository) Create(ctx context.Context, proof *domain.PaymentProof) error {
	query := `
		INSERT INTO payment_proofs (
			id, client_id, delivery_ids, file_path, file_name, content_type,
			total_amount, status, reference_number, notes, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		proof.ID,
		proof.ClientID,
		pq.Array(proof.DeliveryIDs),
		proof.FilePath,
		proof.FileName,
		proof.ContentType,
		proof.TotalAmount,
		proof.Status,
		proof.ReferenceNumber,
		proof.Notes,
		proof.CreatedAt,
	)

	return err
}

// GetByID retrieves a proof by ID.
func (r *ProofRepository) GetByID(ctx context.Context, id string) (*domain.PaymentProof, error) {
	query := `SELECT ` + proofColumns + ` FROM payment_proofs WHERE id = $1`

	proof, err := scanProof(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return proof, nil
}

// List retrieves proofs filtered by client and/or status, newest first.
func (r *ProofRepository) List(ctx context.Context, clientID string, status domain.ProofStatus) ([]*domain.PaymentProof, error) {
	query := `
		SELECT ` + proofColumns + `
		FROM payment_proofs
		WHERE ($1 = '' OR client_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, clientID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proofs []*domain.PaymentProof
	for rows.Next() {
		proof, err := scanProof(rows)
		if err != nil {
			return nil, err
		}
		proofs = append(proofs, proof)
	}

	return proofs, rows.Err()
}

// Approve transitions a PENDING proof to APPROVED. The status guard in the
// WHERE clause makes the terminal-once rule hold even under concurrency.
func (r *ProofRepository) Approve(ctx context.Context, id, processedBy string, at time.Time) error {
	query := `
		UPDATE payment_proofs
		SET status = $1, processed_by = $2, processed_at = $3
		WHERE id = $4 AND status = $5
	`

	return r.execExpectingRow(ctx, query,
		domain.ProofStatusApproved, processedBy, at, id, domain.ProofStatusPending)
}

// Reject transitions a PENDING proof to REJECTED with the given reason.
func (r *ProofRepository) Reject(ctx context.Context, id, processedBy, reason string, at time.Time) error {
	query := `
		UPDATE payment_proofs
		SET status = $1, processed_by = $2, processed_at = $3, rejection_reason = $4
		WHERE id = $5 AND status = $6
	`

	return r.execExpectingRow(ctx, query,
		domain.ProofStatusRejected, processedBy, at, reason, id, domain.ProofStatusPending)
}

// SetReceiptNumber records the generated receipt number on the proof.
func (r *ProofRepository) SetReceiptNumber(ctx context.Context, id, receiptNumber string) error {
	query := `UPDATE payment_proofs SET receipt_number = $1 WHERE id = $2`

	return r.execExpectingRow(ctx, query, receiptNumber, id)
}

func (r *ProofRepository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// scanProof maps one row to a domain proof.
func scanProof(row rowScanner) (*domain.PaymentProof, error) {
	var (
		proof           domain.PaymentProof
		deliveryIDs     pq.StringArray
		referenceNumber sql.NullString
		notes           sql.NullString
		rejectionReason sql.NullString
		processedBy     sql.NullString
		processedAt     sql.NullTime
		receiptNumber   sql.NullString
	)

	err := row.Scan(
		&proof.ID,
		&proof.ClientID,
		&deliveryIDs,
		&proof.FilePath,
		&proof.FileName,
		&proof.ContentType,
		&proof.TotalAmount,
		&proof.Status,
		&referenceNumber,
		&notes,
		&rejectionReason,
		&processedBy,
		&processedAt,
		&receiptNumber,
		&proof.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	proof.DeliveryIDs = deliveryIDs
	proof.ReferenceNumber = referenceNumber.String
	proof.Notes = notes.String
	proof.RejectionReason = rejectionReason.String
	proof.ProcessedBy = processedBy.String
	proof.ProcessedAt = timeOrZero(processedAt)
	proof.ReceiptNumber = receiptNumber.String

	return &proof, nil
}
