package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"freightpay/internal/domain"
	"freightpay/internal/repository"
	"freightpay/internal/service"
)

// ──────────────────────────────────────────────
// 1. PAYMENT SUMMARY DERIVATION
// ──────────────────────────────────────────────

func newSummaryFixture() (*service.SummaryService, *MockClientRepository, *MockDeliveryRepository, *MockSummaryCache) {
	clientRepo := NewMockClientRepository()
	deliveryRepo := NewMockDeliveryRepository()
	cache := NewMockSummaryCache()

	clientRepo.AddClient(&domain.Client{
		ID:    "client-1",
		Name:  "Acme Haulage",
		Email: "billing@acme.test",
	})

	return service.NewSummaryService(clientRepo, deliveryRepo, cache), clientRepo, deliveryRepo, cache
}

func TestSummary_OverdueWhenPastDerivedDueDate(t *testing.T) {
	t.Parallel()

	svc, _, deliveryRepo, _ := newSummaryFixture()

	// Delivered 40 days ago with no explicit due date: due 30 days after
	// delivery, so 10 days overdue by now.
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-1",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(1000),
		DeliveryDate:   time.Now().AddDate(0, 0, -40),
		DeliveryStatus: domain.DeliveryStatusDelivered,
		PaymentStatus:  domain.PaymentStatusPending,
	})

	summary, err := svc.GetClientPaymentSummary(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.OverdueCount != 1 {
		t.Errorf("expected 1 overdue delivery, got %d", summary.OverdueCount)
	}
	if !summary.OverdueAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected overdue amount 1000, got %s", summary.OverdueAmount)
	}
	if !summary.TotalAmountDue.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected total due 1000, got %s", summary.TotalAmountDue)
	}
	if summary.CanBookTrucks {
		t.Error("expected booking to be blocked with an overdue delivery")
	}
	if len(summary.Deliveries) != 1 || summary.Deliveries[0].PaymentStatus != domain.PaymentStatusOverdue {
		t.Error("expected the delivery to be reported as overdue")
	}
}

func TestSummary_ExplicitDueDateWinsOverDerived(t *testing.T) {
	t.Parallel()

	svc, _, deliveryRepo, _ := newSummaryFixture()

	// Delivered 40 days ago but a 60-day term was agreed, so not overdue.
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-1",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(500),
		DeliveryDate:   time.Now().AddDate(0, 0, -40),
		DueDate:        time.Now().AddDate(0, 0, 20),
		DeliveryStatus: domain.DeliveryStatusDelivered,
		PaymentStatus:  domain.PaymentStatusPending,
	})

	summary, err := svc.GetClientPaymentSummary(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.OverdueCount != 0 {
		t.Errorf("expected no overdue deliveries, got %d", summary.OverdueCount)
	}
	if summary.PendingCount != 1 {
		t.Errorf("expected 1 pending delivery, got %d", summary.PendingCount)
	}
	if !summary.CanBookTrucks {
		t.Error("expected booking to be allowed with no overdue deliveries")
	}
}

func TestSummary_CancelledDeliveriesExcluded(t *testing.T) {
	t.Parallel()

	svc, _, deliveryRepo, _ := newSummaryFixture()

	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-1",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(800),
		DeliveryDate:   time.Now().AddDate(0, 0, -90),
		DeliveryStatus: domain.DeliveryStatusCancelled,
		PaymentStatus:  domain.PaymentStatusCancelled,
	})
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-2",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(300),
		DeliveryDate:   time.Now().AddDate(0, 0, -5),
		DeliveryStatus: domain.DeliveryStatusDelivered,
		PaymentStatus:  domain.PaymentStatusPending,
	})

	summary, err := svc.GetClientPaymentSummary(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The cancelled delivery contributes to no count and no total, even
	// though it would be long overdue by its date.
	if summary.TotalDeliveries != 1 {
		t.Errorf("expected 1 delivery in summary, got %d", summary.TotalDeliveries)
	}
	if summary.OverdueCount != 0 {
		t.Errorf("expected no overdue deliveries, got %d", summary.OverdueCount)
	}
	if !summary.TotalAmountDue.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected total due 300, got %s", summary.TotalAmountDue)
	}
	if !summary.CanBookTrucks {
		t.Error("expected booking to be allowed")
	}
}

func TestSummary_PendingVerificationStillCountsAsDue(t *testing.T) {
	t.Parallel()

	svc, _, deliveryRepo, _ := newSummaryFixture()

	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-1",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(1200),
		DeliveryDate:   time.Now().AddDate(0, 0, -60),
		DeliveryStatus: domain.DeliveryStatusDelivered,
		PaymentStatus:  domain.PaymentStatusPendingVerification,
		ProofID:        "proof-1",
	})

	summary, err := svc.GetClientPaymentSummary(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Submitting a proof stops the overdue clock but the amount stays on
	// the books until it is approved.
	if summary.PendingVerificationCount != 1 {
		t.Errorf("expected 1 pending-verification delivery, got %d", summary.PendingVerificationCount)
	}
	if summary.OverdueCount != 0 {
		t.Errorf("expected no overdue deliveries, got %d", summary.OverdueCount)
	}
	if !summary.TotalAmountDue.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("expected total due 1200, got %s", summary.TotalAmountDue)
	}
	if !summary.CanBookTrucks {
		t.Error("expected booking to be allowed while verification is pending")
	}
}

func TestSummary_PaidDeliveriesBucketedSeparately(t *testing.T) {
	t.Parallel()

	svc, _, deliveryRepo, _ := newSummaryFixture()

	paidAt := time.Now().AddDate(0, 0, -2)
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-1",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(700),
		DeliveryDate:   time.Now().AddDate(0, 0, -50),
		DeliveryStatus: domain.DeliveryStatusDelivered,
		PaymentStatus:  domain.PaymentStatusPaid,
		PaidAt:         paidAt,
	})
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-2",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(450),
		DeliveryDate:   time.Now().AddDate(0, 0, -3),
		DeliveryStatus: domain.DeliveryStatusDelivered,
		PaymentStatus:  domain.PaymentStatusPending,
	})

	summary, err := svc.GetClientPaymentSummary(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.PaidCount != 1 {
		t.Errorf("expected 1 paid delivery, got %d", summary.PaidCount)
	}
	if !summary.TotalAmountPaid.Equal(decimal.NewFromInt(700)) {
		t.Errorf("expected total paid 700, got %s", summary.TotalAmountPaid)
	}
	if !summary.TotalAmountDue.Equal(decimal.NewFromInt(450)) {
		t.Errorf("expected total due 450, got %s", summary.TotalAmountDue)
	}
}

func TestSummary_DeliveriesSortedNewestFirst(t *testing.T) {
	t.Parallel()

	svc, _, deliveryRepo, _ := newSummaryFixture()

	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-old",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(100),
		DeliveryDate:   time.Now().AddDate(0, 0, -20),
		DeliveryStatus: domain.DeliveryStatusDelivered,
		PaymentStatus:  domain.PaymentStatusPending,
	})
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-new",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(200),
		DeliveryDate:   time.Now().AddDate(0, 0, -1),
		DeliveryStatus: domain.DeliveryStatusDelivered,
		PaymentStatus:  domain.PaymentStatusPending,
	})

	summary, err := svc.GetClientPaymentSummary(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Deliveries) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(summary.Deliveries))
	}
	if summary.Deliveries[0].ID != "delivery-new" {
		t.Errorf("expected newest delivery first, got %s", summary.Deliveries[0].ID)
	}
}

func TestSummary_MissingDeliveryDateFallsBackToCreatedAt(t *testing.T) {
	t.Parallel()

	svc, _, deliveryRepo, _ := newSummaryFixture()

	// Legacy record with no delivery date: created 45 days ago, so the
	// derived due date passed 15 days ago.
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-1",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(250),
		DeliveryStatus: domain.DeliveryStatusDelivered,
		PaymentStatus:  domain.PaymentStatusPending,
		CreatedAt:      time.Now().AddDate(0, 0, -45),
	})

	summary, err := svc.GetClientPaymentSummary(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.OverdueCount != 1 {
		t.Errorf("expected 1 overdue delivery, got %d", summary.OverdueCount)
	}
	if summary.Deliveries[0].DeliveryDate.IsZero() {
		t.Error("expected delivery date to be normalized, got zero")
	}
}

func TestSummary_UnknownClientReturnsNotFound(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newSummaryFixture()

	_, err := svc.GetClientPaymentSummary(context.Background(), "no-such-client")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSummary_CachedResultServedUntilInvalidated(t *testing.T) {
	t.Parallel()

	svc, _, deliveryRepo, cache := newSummaryFixture()

	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-1",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(100),
		DeliveryDate:   time.Now().AddDate(0, 0, -2),
		DeliveryStatus: domain.DeliveryStatusDelivered,
		PaymentStatus:  domain.PaymentStatusPending,
	})

	first, err := svc.GetClientPaymentSummary(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.SetCallCount != 1 {
		t.Errorf("expected summary to be cached once, got %d writes", cache.SetCallCount)
	}

	// A second read is served from cache even though the underlying data
	// changed.
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-2",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(999),
		DeliveryDate:   time.Now(),
		DeliveryStatus: domain.DeliveryStatusDelivered,
		PaymentStatus:  domain.PaymentStatusPending,
	})

	second, err := svc.GetClientPaymentSummary(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.TotalDeliveries != first.TotalDeliveries {
		t.Errorf("expected cached summary with %d deliveries, got %d", first.TotalDeliveries, second.TotalDeliveries)
	}

	// After invalidation the fresh state is visible.
	if err := cache.InvalidateSummary(context.Background(), "client-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	third, err := svc.GetClientPaymentSummary(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if third.TotalDeliveries != 2 {
		t.Errorf("expected 2 deliveries after invalidation, got %d", third.TotalDeliveries)
	}
}

func TestSummary_EmptyClientIDRejected(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newSummaryFixture()

	_, err := svc.GetClientPaymentSummary(context.Background(), "")
	if !errors.Is(err, service.ErrInvalidClientID) {
		t.Errorf("expected ErrInvalidClientID, got %v", err)
	}
}
