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

const deliveryColumns = `
	id, client_id, truck_plate, pickup_location, delivery_address,
	amount, delivery_date, due_date, delivery_status, payment_status,
	proof_id, proof_uploaded_at, proof_approved_at, proof_rejection_reason,
	paid_at, created_at
`

// DeliveryRepository is a PostgreSQL implementation of repository.DeliveryRepository.
type DeliveryRepository struct {
	q    Querier
	inTx bool
}

// NewDeliveryRepository creates a new PostgreSQL delivery repository.
func NewDeliveryRepository(db *sql.DB) *DeliveryRepository {
	return &DeliveryRepository{q: db}
}

// NewDeliveryRepositoryWithTx creates a delivery repository using a transaction.
func NewDeliveryRepositoryWithTx(tx *sql.Tx) *DeliveryRepository {
	return &DeliveryRepository{q: tx, inTx: true}
}

// Create persists a new delivery.
func (r *DeliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	query := `
		INSERT INTO deliveries (
			id, client_id, truck_plate, pickup_location, delivery_address,
			amount, delivery_date, due_date, delivery_status, payment_status,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		delivery.ID,
		delivery.ClientID,
		delivery.TruckPlate,
		delivery.PickupLocation,
		delivery.DeliveryAddress,
		delivery.Amount,
		nullTime(delivery.DeliveryDate),
		nullTime(delivery.DueDate),
		delivery.DeliveryStatus,
		delivery.PaymentStatus,
		delivery.CreatedAt,
	)

	return err
}

// GetByID retrieves a delivery by ID.
func (r *DeliveryRepository) GetByID(ctx context.Context, id string) (*domain.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1`

	delivery, err := scanDelivery(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return delivery, nil
}

// GetByClientID retrieves all deliveries for a client, newest first.
func (r *DeliveryRepository) GetByClientID(ctx context.Context, clientID string) ([]*domain.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries
		WHERE client_id = $1
		ORDER BY COALESCE(delivery_date, created_at) DESC
	`

	rows, err := r.q.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeliveries(rows)
}

// GetByIDs retrieves the deliveries with the given IDs, ordered by ID. On a
// transaction-scoped repository the rows are locked with FOR UPDATE so
// concurrent proof operations over the same deliveries serialize; the ID
// ordering keeps lock acquisition deadlock-free.
func (r *DeliveryRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Delivery, error) {
	query := `
		SELECT ` + deliveryColumns + `
		FROM deliveries
		WHERE id = ANY($1)
		ORDER BY id
	`
	if r.inTx {
		query += ` FOR UPDATE`
	}

	rows, err := r.q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeliveries(rows)
}

// UpdateDeliveryStatus updates the operational status of a delivery.
func (r *DeliveryRepository) UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus) error {
	query := `UPDATE deliveries SET delivery_status = $1 WHERE id = $2`

	return r.execExpectingRow(ctx, query, status, id)
}

// CancelDelivery marks a delivery cancelled on both status axes so it never
// contributes to billable totals again.
func (r *DeliveryRepository) CancelDelivery(ctx context.Context, id string) error {
	query := `
		UPDATE deliveries
		SET delivery_status = $1, payment_status = $2
		WHERE id = $3
	`

	return r.execExpectingRow(ctx, query, domain.DeliveryStatusCancelled, domain.PaymentStatusCancelled, id)
}

// MarkPendingVerification flips the given deliveries into the
// pending-verification state, referencing the covering proof.
func (r *DeliveryRepository) MarkPendingVerification(ctx context.Context, ids []string, proofID string, at time.Time) error {
	query := `
		UPDATE deliveries
		SET payment_status = $1, proof_id = $2, proof_uploaded_at = $3
		WHERE id = ANY($4)
	`

	return r.execExpectingRows(ctx, len(ids), query,
		domain.PaymentStatusPendingVerification, proofID, at, pq.Array(ids))
}

// MarkPaid flips the given deliveries to paid, stamping both timestamps.
func (r *DeliveryRepository) MarkPaid(ctx context.Context, ids []string, at time.Time) error {
	query := `
		UPDATE deliveries
		SET payment_status = $1, paid_at = $2, proof_approved_at = $2
		WHERE id = ANY($3)
	`

	return r.execExpectingRows(ctx, len(ids), query,
		domain.PaymentStatusPaid, at, pq.Array(ids))
}

// ReleaseProof resets the given deliveries to pending and clears the proof
// reference so the client can upload again.
func (r *DeliveryRepository) ReleaseProof(ctx context.Context, ids []string, rejectionReason string) error {
	query := `
		UPDATE deliveries
		SET payment_status = $1, proof_id = NULL, proof_uploaded_at = NULL,
		    proof_rejection_reason = $2
		WHERE id = ANY($3)
	`

	return r.execExpectingRows(ctx, len(ids), query,
		domain.PaymentStatusPending, rejectionReason, pq.Array(ids))
}

func (r *DeliveryRepository) execExpectingRow(ctx context.Context, query string, args ...any) error {
	return r.execExpectingRows(ctx, 1, query, args...)
}

func (r *DeliveryRepository) execExpectingRows(ctx context.Context, want int, query string, args ...any) error {
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if int(affected) != want {
		return repository.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanDelivery maps one row to a domain delivery, collapsing NULL columns
// to the domain's zero-value conventions in a single place.
func scanDelivery(row rowScanner) (*domain.Delivery, error) {
	var (
		delivery        domain.Delivery
		deliveryDate    sql.NullTime
		dueDate         sql.NullTime
		proofID         sql.NullString
		proofUploadedAt sql.NullTime
		proofApprovedAt sql.NullTime
		rejectionReason sql.NullString
		paidAt          sql.NullTime
	)

	err := row.Scan(
		&delivery.ID,
		&delivery.ClientID,
		&delivery.TruckPlate,
		&delivery.PickupLocation,
		&delivery.DeliveryAddress,
		&delivery.Amount,
		&deliveryDate,
		&dueDate,
		&delivery.DeliveryStatus,
		&delivery.PaymentStatus,
		&proofID,
		&proofUploadedAt,
		&proofApprovedAt,
		&rejectionReason,
		&paidAt,
		&delivery.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	delivery.DeliveryDate = timeOrZero(deliveryDate)
	delivery.DueDate = timeOrZero(dueDate)
	delivery.ProofID = proofID.String
	delivery.ProofUploadedAt = timeOrZero(proofUploadedAt)
	delivery.ProofApprovedAt = timeOrZero(proofApprovedAt)
	delivery.ProofRejectionReason = rejectionReason.String
	delivery.PaidAt = timeOrZero(paidAt)

	return &delivery, nil
}

func scanDeliveries(rows *sql.Rows) ([]*domain.Delivery, error) {
	var deliveries []*domain.Delivery
	for rows.Next() {
		delivery, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, delivery)
	}
	return deliveries, rows.Err()
}
