package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"math/rand"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"freightpay/internal/domain"
	"freightpay/internal/repository"
	"freightpay/internal/storage"
)

// ReceiptService renders HTML receipts for approved proofs and persists
// both the document and its index record.
type ReceiptService struct {
	receiptRepo repository.ReceiptRepository
	store       storage.ObjectStorage
}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService(receiptRepo repository.ReceiptRepository, store storage.ObjectStorage) *ReceiptService {
	return &ReceiptService{
		receiptRepo: receiptRepo,
		store:       store,
	}
}

// GenerateReceiptRequest contains the parameters for generating a receipt.
type GenerateReceiptRequest struct {
	Proof      *domain.PaymentProof
	Deliveries []*domain.Delivery
	Client     *domain.Client
	ApprovedBy string
}

// GenerateReceipt renders a self-contained HTML receipt, stores it, and
// inserts the index record. The receipt number carries a random 4-digit
// suffix per day; collisions are possible in principle and accepted.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, req GenerateReceiptRequest) (*domain.PaymentReceipt, error) {
	if req.Proof == nil {
		return nil, ErrInvalidProofID
	}
	if req.Client == nil {
		return nil, ErrInvalidClientID
	}

	now := time.Now()
	receiptNumber := newReceiptNumber(now)

	receipt := &domain.PaymentReceipt{
		ID:            uuid.New().String(),
		ReceiptNumber: receiptNumber,
		ProofID:       req.Proof.ID,
		ClientID:      req.Client.ID,
		ClientName:    req.Client.Name,
		TotalAmount:   req.Proof.TotalAmount,
		DeliveryIDs:   req.Proof.DeliveryIDs,
		ApprovedBy:    req.ApprovedBy,
		CreatedAt:     now,
	}

	html, err := renderReceiptHTML(receipt, req.Deliveries, req.Proof.ReferenceNumber)
	if err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}

	key := path.Join("receipts", now.Format("2006"), now.Format("01"), receiptNumber+".html")
	filePath, err := s.store.Save(ctx, key, "text/html; charset=utf-8", html)
	if err != nil {
		return nil, fmt.Errorf("store receipt: %w", err)
	}
	receipt.FilePath = filePath

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, fmt.Errorf("index receipt: %w", err)
	}

	log.Printf("receipt %s generated for proof %s (client %s, total %s)",
		receiptNumber, req.Proof.ID, req.Client.ID, req.Proof.TotalAmount.StringFixed(2))

	return receipt, nil
}

// GetReceiptByProofID retrieves the receipt record and its rendered HTML
// document for an approved proof.
func (s *ReceiptService) GetReceiptByProofID(ctx context.Context, proofID string) (*domain.PaymentReceipt, []byte, error) {
	if proofID == "" {
		return nil, nil, ErrInvalidProofID
	}

	receipt, err := s.receiptRepo.GetByProofID(ctx, proofID)
	if err != nil {
		return nil, nil, err
	}

	html, err := s.store.Get(ctx, receipt.FilePath)
	if err != nil {
		if err == storage.ErrObjectNotFound {
			return nil, nil, repository.ErrNotFound
		}
		return nil, nil, err
	}

	return receipt, html, nil
}

// newReceiptNumber builds an RCP-YYYYMMDD-#### receipt number.
func newReceiptNumber(now time.Time) string {
	return fmt.Sprintf("RCP-%s-%04d", now.Format("20060102"), rand.Intn(10000))
}

// receiptTemplateData is the payload rendered into the receipt document.
type receiptTemplateData struct {
	ReceiptNumber   string
	ClientName      string
	ReferenceNumber string
	ApprovedBy      string
	IssuedAt        string
	Rows            []receiptRow
	Total           string
}

type receiptRow struct {
	TruckPlate   string
	Route        string
	DeliveryDate string
	Amount       string
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Payment Receipt {{.ReceiptNumber}}</title>
<style>
  body { font-family: Arial, Helvetica, sans-serif; color: #222; margin: 40px; }
  .header { border-bottom: 2px solid #1a5276; padding-bottom: 12px; margin-bottom: 24px; }
  .header h1 { margin: 0; color: #1a5276; font-size: 22px; }
  .meta { margin-bottom: 24px; }
  .meta td { padding: 2px 16px 2px 0; }
  table.deliveries { border-collapse: collapse; width: 100%; }
  table.deliveries th, table.deliveries td { border: 1px solid #ccc; padding: 8px; text-align: left; }
  table.deliveries th { background: #eaf2f8; }
  td.amount { text-align: right; }
  .total { margin-top: 16px; font-size: 16px; font-weight: bold; text-align: right; }
  .footer { margin-top: 40px; font-size: 12px; color: #777; }
</style>
</head>
<body>
<div class="header"><h1>Payment Receipt</h1></div>
<table class="meta">
  <tr><td>Receipt No.</td><td>{{.ReceiptNumber}}</td></tr>
  <tr><td>Client</td><td>{{.ClientName}}</td></tr>
  {{if .ReferenceNumber}}<tr><td>Reference</td><td>{{.ReferenceNumber}}</td></tr>{{end}}
  <tr><td>Approved by</td><td>{{.ApprovedBy}}</td></tr>
  <tr><td>Issued</td><td>{{.IssuedAt}}</td></tr>
</table>
<table class="deliveries">
  <tr><th>Truck</th><th>Route</th><th>Delivery date</th><th>Amount</th></tr>
  {{range .Rows}}
  <tr><td>{{.TruckPlate}}</td><td>{{.Route}}</td><td>{{.DeliveryDate}}</td><td class="amount">{{.Amount}}</td></tr>
  {{end}}
</table>
<div class="total">TOTAL PAID: {{.Total}}</div>
<div class="footer">This receipt confirms payment for the deliveries listed above.</div>
</body>
</html>
`))

// renderReceiptHTML produces the self-contained receipt document.
func renderReceiptHTML(receipt *domain.PaymentReceipt, deliveries []*domain.Delivery, referenceNumber string) ([]byte, error) {
	data := receiptTemplateData{
		ReceiptNumber:   receipt.ReceiptNumber,
		ClientName:      receipt.ClientName,
		ReferenceNumber: referenceNumber,
		ApprovedBy:      receipt.ApprovedBy,
		IssuedAt:        receipt.CreatedAt.Format("Jan 02, 2006 3:04 PM"),
		Total:           formatAmount(receipt.TotalAmount),
	}

	for _, d := range deliveries {
		data.Rows = append(data.Rows, receiptRow{
			TruckPlate:   d.TruckPlate,
			Route:        d.PickupLocation + " → " + d.DeliveryAddress,
			DeliveryDate: d.EffectiveDeliveryDate(receipt.CreatedAt).Format("Jan 02, 2006"),
			Amount:       formatAmount(d.Amount),
		})
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func formatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
