package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentReceipt is the immutable record generated when a proof is approved.
// The rendered HTML document lives in object storage at FilePath; this
// record indexes it.
type PaymentReceipt struct {
	ID            string
	ReceiptNumber string
	ProofID       string
	ClientID      string
	ClientName    string
	TotalAmount   decimal.Decimal
	DeliveryIDs   []string
	FilePath      string
	ApprovedBy    string
	CreatedAt     time.Time
}
