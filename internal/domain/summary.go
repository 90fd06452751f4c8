package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SummaryDelivery is a delivery enriched with its derived billing state for
// inclusion in a client payment summary.
type SummaryDelivery struct {
	ID              string
	TruckPlate      string
	PickupLocation  string
	DeliveryAddress string
	Amount          decimal.Decimal
	DeliveryDate    time.Time
	DueDate         time.Time
	DeliveryStatus  DeliveryStatus
	PaymentStatus   PaymentStatus
	ProofID         string
	PaidAt          time.Time
}

// PaymentSummary aggregates a client's billing position across all
// non-cancelled deliveries.
type PaymentSummary struct {
	ClientID        string
	TotalDeliveries int

	PendingCount             int
	PendingVerificationCount int
	PaidCount                int
	OverdueCount             int

	TotalAmountDue  decimal.Decimal
	TotalAmountPaid decimal.Decimal
	OverdueAmount   decimal.Decimal

	// CanBookTrucks is false as soon as the client has any overdue delivery.
	CanBookTrucks bool

	// Deliveries is sorted by delivery date, newest first.
	Deliveries []SummaryDelivery

	GeneratedAt time.Time
}
