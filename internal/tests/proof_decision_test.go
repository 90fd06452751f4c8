package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"freightpay/internal/domain"
	"freightpay/internal/service"
)

// ──────────────────────────────────────────────
// 3. PROOF APPROVAL AND REJECTION
// ──────────────────────────────────────────────

// uploadedProof runs a real upload through the fixture so the decision
// tests start from the state a client would actually produce.
func uploadedProof(t *testing.T, f *proofFixture, deliveryIDs ...string) *domain.PaymentProof {
	t.Helper()
	resp, err := f.svc.UploadProof(context.Background(), uploadRequest(deliveryIDs...))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	return resp.Proof
}

func TestApprove_MarksDeliveriesPaidAndGeneratesReceipt(t *testing.T) {
	t.Parallel()

	f := newProofFixture()
	f.addPendingDelivery("delivery-1", 500)
	f.addPendingDelivery("delivery-2", 700)
	proof := uploadedProof(t, f, "delivery-1", "delivery-2")

	resp, err := f.svc.ApproveProof(context.Background(), service.ApproveProofRequest{
		ProofID:     proof.ID,
		ProcessedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.DeliveriesUpdated != 2 {
		t.Errorf("expected 2 deliveries updated, got %d", resp.DeliveriesUpdated)
	}
	if !resp.TotalAmount.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("expected total 1200, got %s", resp.TotalAmount)
	}
	if resp.ReceiptNumber == "" {
		t.Error("expected a receipt number")
	}
	if !strings.HasPrefix(resp.ReceiptNumber, "RCP-") {
		t.Errorf("expected receipt number prefixed RCP-, got %s", resp.ReceiptNumber)
	}

	for _, id := range []string{"delivery-1", "delivery-2"} {
		d := f.deliveryRepo.GetDelivery(id)
		if d.PaymentStatus != domain.PaymentStatusPaid {
			t.Errorf("delivery %s: expected PAID, got %s", id, d.PaymentStatus)
		}
		if d.PaidAt.IsZero() {
			t.Errorf("delivery %s: expected paid timestamp", id)
		}
	}

	stored := f.proofRepo.GetProof(proof.ID)
	if stored.Status != domain.ProofStatusApproved {
		t.Errorf("expected proof APPROVED, got %s", stored.Status)
	}
	if stored.ProcessedBy != "admin-1" {
		t.Errorf("expected processor admin-1, got %s", stored.ProcessedBy)
	}
	if stored.ReceiptNumber != resp.ReceiptNumber {
		t.Errorf("expected receipt number recorded on proof, got %s", stored.ReceiptNumber)
	}

	// Receipt record indexed and the HTML document stored alongside the
	// proof file.
	receipt, err := f.receiptRepo.GetByProofID(context.Background(), proof.ID)
	if err != nil {
		t.Fatalf("receipt not indexed: %v", err)
	}
	if !receipt.TotalAmount.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("expected receipt total 1200, got %s", receipt.TotalAmount)
	}
	html, err := f.store.Get(context.Background(), receipt.FilePath)
	if err != nil {
		t.Fatalf("receipt document not stored: %v", err)
	}
	if !strings.Contains(string(html), resp.ReceiptNumber) {
		t.Error("expected rendered receipt to contain its number")
	}
	if !strings.Contains(string(html), "Acme Haulage") {
		t.Error("expected rendered receipt to contain the client name")
	}
}

func TestApprove_SecondDecisionRejected(t *testing.T) {
	t.Parallel()

	f := newProofFixture()
	f.addPendingDelivery("delivery-1", 500)
	proof := uploadedProof(t, f, "delivery-1")

	if _, err := f.svc.ApproveProof(context.Background(), service.ApproveProofRequest{
		ProofID:     proof.ID,
		ProcessedBy: "admin-1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Approve again.
	_, err := f.svc.ApproveProof(context.Background(), service.ApproveProofRequest{
		ProofID:     proof.ID,
		ProcessedBy: "admin-2",
	})
	if !errors.Is(err, service.ErrProofAlreadyProcessed) {
		t.Errorf("expected ErrProofAlreadyProcessed, got %v", err)
	}

	// Reject after approve also fails.
	_, err = f.svc.RejectProof(context.Background(), service.RejectProofRequest{
		ProofID:         proof.ID,
		ProcessedBy:     "admin-2",
		RejectionReason: "changed my mind",
	})
	if !errors.Is(err, service.ErrProofAlreadyProcessed) {
		t.Errorf("expected ErrProofAlreadyProcessed, got %v", err)
	}

	// The first decision stands.
	if stored := f.proofRepo.GetProof(proof.ID); stored.ProcessedBy != "admin-1" {
		t.Errorf("expected original processor admin-1, got %s", stored.ProcessedBy)
	}
}

func TestApprove_RequiresProcessor(t *testing.T) {
	t.Parallel()

	f := newProofFixture()
	f.addPendingDelivery("delivery-1", 500)
	proof := uploadedProof(t, f, "delivery-1")

	_, err := f.svc.ApproveProof(context.Background(), service.ApproveProofRequest{ProofID: proof.ID})
	if !errors.Is(err, service.ErrMissingProcessor) {
		t.Errorf("expected ErrMissingProcessor, got %v", err)
	}
	if d := f.deliveryRepo.GetDelivery("delivery-1"); d.PaymentStatus != domain.PaymentStatusPendingVerification {
		t.Errorf("expected delivery untouched, got %s", d.PaymentStatus)
	}
}

func TestApprove_ConcurrentDecisionDetected(t *testing.T) {
	t.Parallel()

	f := newProofFixture()
	f.addPendingDelivery("delivery-1", 500)
	proof := uploadedProof(t, f, "delivery-1")

	// Another admin's rejection lands between our read and our write. The
	// status guard in the repository catches it.
	if err := f.proofRepo.Reject(context.Background(), proof.ID, "admin-2", "bad scan", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.svc.ApproveProof(context.Background(), service.ApproveProofRequest{
		ProofID:     proof.ID,
		ProcessedBy: "admin-1",
	})
	if !errors.Is(err, service.ErrProofAlreadyProcessed) {
		t.Errorf("expected ErrProofAlreadyProcessed, got %v", err)
	}
	if stored := f.proofRepo.GetProof(proof.ID); stored.Status != domain.ProofStatusRejected {
		t.Errorf("expected rejection to stand, got %s", stored.Status)
	}
}

func TestReject_ReleasesDeliveriesForResubmission(t *testing.T) {
	t.Parallel()

	f := newProofFixture()
	f.addPendingDelivery("delivery-1", 500)
	f.addPendingDelivery("delivery-2", 700)
	proof := uploadedProof(t, f, "delivery-1", "delivery-2")

	resp, err := f.svc.RejectProof(context.Background(), service.RejectProofRequest{
		ProofID:         proof.ID,
		ProcessedBy:     "admin-1",
		RejectionReason: "amount does not match the bank statement",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.DeliveriesUpdated != 2 {
		t.Errorf("expected 2 deliveries released, got %d", resp.DeliveriesUpdated)
	}

	for _, id := range []string{"delivery-1", "delivery-2"} {
		d := f.deliveryRepo.GetDelivery(id)
		if d.PaymentStatus != domain.PaymentStatusPending {
			t.Errorf("delivery %s: expected PENDING, got %s", id, d.PaymentStatus)
		}
		if d.ProofID != "" {
			t.Errorf("delivery %s: expected proof reference cleared, got %s", id, d.ProofID)
		}
		if d.ProofRejectionReason == "" {
			t.Errorf("delivery %s: expected rejection reason recorded", id)
		}
	}

	stored := f.proofRepo.GetProof(proof.ID)
	if stored.Status != domain.ProofStatusRejected {
		t.Errorf("expected proof REJECTED, got %s", stored.Status)
	}
	if stored.RejectionReason == "" {
		t.Error("expected rejection reason on proof")
	}

	// The client can immediately upload a new proof for the released
	// deliveries.
	if _, err := f.svc.UploadProof(context.Background(), uploadRequest("delivery-1", "delivery-2")); err != nil {
		t.Errorf("expected re-upload to succeed, got %v", err)
	}
}

func TestReject_RequiresReason(t *testing.T) {
	t.Parallel()

	f := newProofFixture()
	f.addPendingDelivery("delivery-1", 500)
	proof := uploadedProof(t, f, "delivery-1")

	_, err := f.svc.RejectProof(context.Background(), service.RejectProofRequest{
		ProofID:     proof.ID,
		ProcessedBy: "admin-1",
	})
	if !errors.Is(err, service.ErrMissingRejectionReason) {
		t.Errorf("expected ErrMissingRejectionReason, got %v", err)
	}

	// Nothing moved: the proof is still pending and the delivery still
	// references it.
	if stored := f.proofRepo.GetProof(proof.ID); stored.Status != domain.ProofStatusPending {
		t.Errorf("expected proof still PENDING, got %s", stored.Status)
	}
	if d := f.deliveryRepo.GetDelivery("delivery-1"); d.PaymentStatus != domain.PaymentStatusPendingVerification {
		t.Errorf("expected delivery untouched, got %s", d.PaymentStatus)
	}
}

func TestApprove_ReceiptFailureDoesNotUnwindApproval(t *testing.T) {
	t.Parallel()

	f := newProofFixture()
	f.addPendingDelivery("delivery-1", 500)
	proof := uploadedProof(t, f, "delivery-1")

	// Receipt index insert fails after the approval committed.
	f.receiptRepo.CreateError = errors.New("receipts table unavailable")

	resp, err := f.svc.ApproveProof(context.Background(), service.ApproveProofRequest{
		ProofID:     proof.ID,
		ProcessedBy: "admin-1",
	})
	if err != nil {
		t.Fatalf("expected approval to succeed despite receipt failure, got %v", err)
	}
	if resp.ReceiptNumber != "" {
		t.Errorf("expected no receipt number, got %s", resp.ReceiptNumber)
	}
	if d := f.deliveryRepo.GetDelivery("delivery-1"); d.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("expected delivery PAID, got %s", d.PaymentStatus)
	}
	if stored := f.proofRepo.GetProof(proof.ID); stored.Status != domain.ProofStatusApproved {
		t.Errorf("expected proof APPROVED, got %s", stored.Status)
	}
}
