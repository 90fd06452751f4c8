package service

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"freightpay/internal/domain"
	"freightpay/internal/redis"
	"freightpay/internal/repository"
)

// SummaryService computes client payment summaries from raw delivery
// records. It is read-only; every derived value is recomputed on each call
// so the summary cannot drift from the stored deliveries.
type SummaryService struct {
	clientRepo   repository.ClientRepository
	deliveryRepo repository.DeliveryRepository
	cache        redis.SummaryCacheInterface
}

// NewSummaryService creates a new SummaryService. cache may be nil.
func NewSummaryService(
	clientRepo repository.ClientRepository,
	deliveryRepo repository.DeliveryRepository,
	cache redis.SummaryCacheInterface,
) *SummaryService {
	return &SummaryService{
		clientRepo:   clientRepo,
		deliveryRepo: deliveryRepo,
		cache:        cache,
	}
}

// GetClientPaymentSummary builds the aggregate billing position for a
// client. Cancelled deliveries are excluded entirely; each remaining
// delivery is classified as of now and bucketed into the totals.
func (s *SummaryService) GetClientPaymentSummary(ctx context.Context, clientID string) (*domain.PaymentSummary, error) {
	if clientID == "" {
		return nil, ErrInvalidClientID
	}

	if s.cache != nil {
		cached, err := s.cache.GetSummary(ctx, clientID)
		if err != nil {
			log.Printf("summary cache read failed for client %s: %v", clientID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	deliveries, err := s.deliveryRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	summary := buildSummary(clientID, deliveries, time.Now())

	if s.cache != nil {
		if err := s.cache.SetSummary(ctx, summary); err != nil {
			log.Printf("summary cache write failed for client %s: %v", clientID, err)
		}
	}

	return summary, nil
}

// buildSummary derives per-delivery payment status and the aggregate
// buckets. Money already submitted for verification still counts as due:
// the books stay conservative until an admin approves the proof.
func buildSummary(clientID string, deliveries []*domain.Delivery, now time.Time) *domain.PaymentSummary {
	summary := &domain.PaymentSummary{
		ClientID:        clientID,
		TotalAmountDue:  decimal.Zero,
		TotalAmountPaid: decimal.Zero,
		OverdueAmount:   decimal.Zero,
		GeneratedAt:     now,
	}

	for _, d := range deliveries {
		if d.IsCancelled() {
			continue
		}

		status := d.DerivePaymentStatus(now)

		switch status {
		case domain.PaymentStatusPaid:
			summary.PaidCount++
			summary.TotalAmountPaid = summary.TotalAmountPaid.Add(d.Amount)
		case domain.PaymentStatusPendingVerification:
			summary.PendingVerificationCount++
			summary.TotalAmountDue = summary.TotalAmountDue.Add(d.Amount)
		case domain.PaymentStatusOverdue:
			summary.OverdueCount++
			summary.TotalAmountDue = summary.TotalAmountDue.Add(d.Amount)
			summary.OverdueAmount = summary.OverdueAmount.Add(d.Amount)
		default:
			summary.PendingCount++
			summary.TotalAmountDue = summary.TotalAmountDue.Add(d.Amount)
		}

		summary.TotalDeliveries++
		summary.Deliveries = append(summary.Deliveries, domain.SummaryDelivery{
			ID:              d.ID,
			TruckPlate:      d.TruckPlate,
			PickupLocation:  d.PickupLocation,
			DeliveryAddress: d.DeliveryAddress,
			Amount:          d.Amount,
			DeliveryDate:    d.EffectiveDeliveryDate(now),
			DueDate:         d.EffectiveDueDate(now),
			DeliveryStatus:  d.DeliveryStatus,
			PaymentStatus:   status,
			ProofID:         d.ProofID,
			PaidAt:          d.PaidAt,
		})
	}

	sort.Slice(summary.Deliveries, func(i, j int) bool {
		return summary.Deliveries[i].DeliveryDate.After(summary.Deliveries[j].DeliveryDate)
	})

	summary.CanBookTrucks = summary.OverdueCount == 0

	return summary
}
