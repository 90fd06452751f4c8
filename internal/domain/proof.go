package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProofStatus represents the review status of a payment proof.
type ProofStatus string

const (
	ProofStatusPending  ProofStatus = "PENDING"
	ProofStatusApproved ProofStatus = "APPROVED"
	ProofStatusRejected ProofStatus = "REJECTED"
)

// PaymentProof is a client-submitted evidence file (image or PDF) covering
// a batch of deliveries. DeliveryIDs and TotalAmount are fixed at upload
// time; status is terminal once approved or rejected.
type PaymentProof struct {
	ID              string
	ClientID        string
	DeliveryIDs     []string
	FilePath        string
	FileName        string
	ContentType     string
	TotalAmount     decimal.Decimal
	Status          ProofStatus
	ReferenceNumber string
	Notes           string
	RejectionReason string
	ProcessedBy     string
	ProcessedAt     time.Time
	ReceiptNumber   string
	CreatedAt       time.Time
}

// IsProcessed reports whether the proof has left its pending state.
func (p *PaymentProof) IsProcessed() bool {
	return p.Status != ProofStatusPending
}
