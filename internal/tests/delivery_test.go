package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"freightpay/internal/domain"
	"freightpay/internal/service"
)

// ──────────────────────────────────────────────
// 4. DELIVERY LIFECYCLE
// ──────────────────────────────────────────────

func newDeliveryFixture() (*service.DeliveryService, *MockClientRepository, *MockDeliveryRepository, *MockSummaryCache) {
	clientRepo := NewMockClientRepository()
	deliveryRepo := NewMockDeliveryRepository()
	cache := NewMockSummaryCache()

	clientRepo.AddClient(&domain.Client{
		ID:    "client-1",
		Name:  "Acme Haulage",
		Email: "billing@acme.test",
	})

	return service.NewDeliveryService(deliveryRepo, clientRepo, cache), clientRepo, deliveryRepo, cache
}

func TestDelivery_CreateStartsPendingOnBothAxes(t *testing.T) {
	t.Parallel()

	svc, _, deliveryRepo, cache := newDeliveryFixture()

	delivery, err := svc.CreateDelivery(context.Background(), service.CreateDeliveryRequest{
		ClientID:        "client-1",
		TruckPlate:      "B-1234-XY",
		PickupLocation:  "Jakarta",
		DeliveryAddress: "Surabaya",
		Amount:          decimal.NewFromInt(1500),
		DeliveryDate:    time.Now(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if delivery.DeliveryStatus != domain.DeliveryStatusPending {
		t.Errorf("expected delivery status PENDING, got %s", delivery.DeliveryStatus)
	}
	if delivery.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("expected payment status PENDING, got %s", delivery.PaymentStatus)
	}
	if deliveryRepo.CreateCallCount != 1 {
		t.Errorf("expected 1 create call, got %d", deliveryRepo.CreateCallCount)
	}
	if cache.InvalidateCallCount != 1 {
		t.Errorf("expected summary invalidation on create, got %d", cache.InvalidateCallCount)
	}
}

func TestDelivery_CreateRejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newDeliveryFixture()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100)} {
		_, err := svc.CreateDelivery(context.Background(), service.CreateDeliveryRequest{
			ClientID: "client-1",
			Amount:   amount,
		})
		if !errors.Is(err, service.ErrInvalidAmount) {
			t.Errorf("amount %s: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestDelivery_OperationalStatusTransitions(t *testing.T) {
	t.Parallel()

	svc, _, deliveryRepo, _ := newDeliveryFixture()

	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-1",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(100),
		DeliveryStatus: domain.DeliveryStatusPending,
		PaymentStatus:  domain.PaymentStatusPending,
	})

	// Forward chain works.
	if _, err := svc.UpdateDeliveryStatus(context.Background(), "delivery-1", domain.DeliveryStatusInProgress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpdateDeliveryStatus(context.Background(), "delivery-1", domain.DeliveryStatusDelivered); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Going backwards does not.
	_, err := svc.UpdateDeliveryStatus(context.Background(), "delivery-1", domain.DeliveryStatusPending)
	if !errors.Is(err, service.ErrInvalidStatusTransition) {
		t.Errorf("expected ErrInvalidStatusTransition, got %v", err)
	}
}

func TestDelivery_CancelRetiresFromBilling(t *testing.T) {
	t.Parallel()

	svc, _, deliveryRepo, _ := newDeliveryFixture()

	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-1",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(100),
		DeliveryStatus: domain.DeliveryStatusPending,
		PaymentStatus:  domain.PaymentStatusPending,
	})

	delivery, err := svc.UpdateDeliveryStatus(context.Background(), "delivery-1", domain.DeliveryStatusCancelled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delivery.PaymentStatus != domain.PaymentStatusCancelled {
		t.Errorf("expected payment status CANCELLED, got %s", delivery.PaymentStatus)
	}
}

func TestDelivery_CancelBlockedWhileProofPendingOrPaid(t *testing.T) {
	t.Parallel()

	svc, _, deliveryRepo, _ := newDeliveryFixture()

	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-verifying",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(100),
		DeliveryStatus: domain.DeliveryStatusDelivered,
		PaymentStatus:  domain.PaymentStatusPendingVerification,
		ProofID:        "proof-1",
	})
	deliveryRepo.AddDelivery(&domain.Delivery{
		ID:             "delivery-paid",
		ClientID:       "client-1",
		Amount:         decimal.NewFromInt(100),
		DeliveryStatus: domain.DeliveryStatusDelivered,
		PaymentStatus:  domain.PaymentStatusPaid,
	})

	for _, id := range []string{"delivery-verifying", "delivery-paid"} {
		_, err := svc.UpdateDeliveryStatus(context.Background(), id, domain.DeliveryStatusCancelled)
		if !errors.Is(err, service.ErrDeliveryNotCancellable) {
			t.Errorf("delivery %s: expected ErrDeliveryNotCancellable, got %v", id, err)
		}
	}
}

// ──────────────────────────────────────────────
// 5. PAYMENT STATUS DERIVATION
// ──────────────────────────────────────────────

func TestDerivePaymentStatus_Table(t *testing.T) {
	t.Parallel()

	now := time.Now()

	cases := []struct {
		name     string
		delivery domain.Delivery
		want     domain.PaymentStatus
	}{
		{
			name: "recent delivery stays pending",
			delivery: domain.Delivery{
				DeliveryDate:  now.AddDate(0, 0, -5),
				PaymentStatus: domain.PaymentStatusPending,
			},
			want: domain.PaymentStatusPending,
		},
		{
			name: "30-day term elapsed flips to overdue",
			delivery: domain.Delivery{
				DeliveryDate:  now.AddDate(0, 0, -31),
				PaymentStatus: domain.PaymentStatusPending,
			},
			want: domain.PaymentStatusOverdue,
		},
		{
			name: "paid status preserved regardless of age",
			delivery: domain.Delivery{
				DeliveryDate:  now.AddDate(0, 0, -365),
				PaymentStatus: domain.PaymentStatusPaid,
			},
			want: domain.PaymentStatusPaid,
		},
		{
			name: "pending verification preserved regardless of age",
			delivery: domain.Delivery{
				DeliveryDate:  now.AddDate(0, 0, -365),
				PaymentStatus: domain.PaymentStatusPendingVerification,
			},
			want: domain.PaymentStatusPendingVerification,
		},
		{
			name: "failed payment past due flips to overdue",
			delivery: domain.Delivery{
				DeliveryDate:  now.AddDate(0, 0, -31),
				PaymentStatus: domain.PaymentStatusFailed,
			},
			want: domain.PaymentStatusOverdue,
		},
		{
			name: "explicit due date in the future overrides term",
			delivery: domain.Delivery{
				DeliveryDate:  now.AddDate(0, 0, -31),
				DueDate:       now.AddDate(0, 0, 10),
				PaymentStatus: domain.PaymentStatusPending,
			},
			want: domain.PaymentStatusPending,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.delivery.DerivePaymentStatus(now); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
