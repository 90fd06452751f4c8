package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryStatus represents the operational status of a delivery.
type DeliveryStatus string

const (
	DeliveryStatusPending    DeliveryStatus = "PENDING"
	DeliveryStatusInProgress DeliveryStatus = "IN_PROGRESS"
	DeliveryStatusCompleted  DeliveryStatus = "COMPLETED"
	DeliveryStatusDelivered  DeliveryStatus = "DELIVERED"
	DeliveryStatusCancelled  DeliveryStatus = "CANCELLED"
)

// PaymentStatus represents the billing status of a delivery.
type PaymentStatus string

const (
	PaymentStatusPending             PaymentStatus = "PENDING"
	PaymentStatusPendingVerification PaymentStatus = "PENDING_VERIFICATION"
	PaymentStatusPaid                PaymentStatus = "PAID"
	PaymentStatusOverdue             PaymentStatus = "OVERDUE"
	PaymentStatusCancelled           PaymentStatus = "CANCELLED"
	PaymentStatusFailed              PaymentStatus = "FAILED"
)

// PaymentTermDays is how long after the delivery date an invoice falls due
// when no explicit due date was agreed.
const PaymentTermDays = 30

// Delivery represents one truck trip billed to a client.
type Delivery struct {
	ID              string
	ClientID        string
	TruckPlate      string
	PickupLocation  string
	DeliveryAddress string
	Amount          decimal.Decimal
	DeliveryDate    time.Time
	DueDate         time.Time // zero means "derive from delivery date"
	DeliveryStatus  DeliveryStatus
	PaymentStatus   PaymentStatus

	ProofID              string // empty unless a proof references this delivery
	ProofUploadedAt      time.Time
	ProofApprovedAt      time.Time
	ProofRejectionReason string
	PaidAt               time.Time

	CreatedAt time.Time
}

// EffectiveDeliveryDate resolves the delivery date, falling back to the
// record's creation time and finally to now. All date handling downstream
// goes through this single normalization point.
func (d *Delivery) EffectiveDeliveryDate(now time.Time) time.Time {
	if !d.DeliveryDate.IsZero() {
		return d.DeliveryDate
	}
	if !d.CreatedAt.IsZero() {
		return d.CreatedAt
	}
	return now
}

// EffectiveDueDate resolves the due date. A stored due date always wins;
// otherwise it is the delivery date plus the standard payment term.
func (d *Delivery) EffectiveDueDate(now time.Time) time.Time {
	if !d.DueDate.IsZero() {
		return d.DueDate
	}
	return d.EffectiveDeliveryDate(now).AddDate(0, 0, PaymentTermDays)
}

// IsCancelled reports whether the delivery is excluded from billing.
func (d *Delivery) IsCancelled() bool {
	return d.DeliveryStatus == DeliveryStatusCancelled || d.PaymentStatus == PaymentStatusCancelled
}

// DerivePaymentStatus computes the billing status as of now. Paid and
// pending-verification states are preserved as stored; anything else is
// overdue once the effective due date has passed, pending otherwise.
func (d *Delivery) DerivePaymentStatus(now time.Time) PaymentStatus {
	switch d.PaymentStatus {
	case PaymentStatusPaid, PaymentStatusPendingVerification, PaymentStatusCancelled:
		return d.PaymentStatus
	}
	if now.After(d.EffectiveDueDate(now)) {
		return PaymentStatusOverdue
	}
	return PaymentStatusPending
}
