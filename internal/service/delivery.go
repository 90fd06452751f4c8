package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"freightpay/internal/domain"
	"freightpay/internal/redis"
	"freightpay/internal/repository"
)

// DeliveryService handles delivery booking and operational status changes.
// Payment status is owned by the proof service; the only payment-state
// write here is the cancellation path, which retires the delivery from
// billing entirely.
type DeliveryService struct {
	deliveryRepo repository.DeliveryRepository
	clientRepo   repository.ClientRepository
	cache        redis.SummaryCacheInterface
}

// NewDeliveryService creates a new DeliveryService. cache may be nil.
func NewDeliveryService(
	deliveryRepo repository.DeliveryRepository,
	clientRepo repository.ClientRepository,
	cache redis.SummaryCacheInterface,
) *DeliveryService {
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		clientRepo:   clientRepo,
		cache:        cache,
	}
}

// CreateDeliveryRequest contains the parameters for booking a delivery.
type CreateDeliveryRequest struct {
	ClientID        string
	TruckPlate      string
	PickupLocation  string
	DeliveryAddress string
	Amount          decimal.Decimal
	DeliveryDate    time.Time
	DueDate         time.Time
}

// CreateDelivery books a new delivery for a client.
func (s *DeliveryService) CreateDelivery(ctx context.Context, req CreateDeliveryRequest) (*domain.Delivery, error) {
	if req.ClientID == "" {
		return nil, ErrInvalidClientID
	}

	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	delivery := &domain.Delivery{
		ID:              uuid.New().String(),
		ClientID:        req.ClientID,
		TruckPlate:      req.TruckPlate,
		PickupLocation:  req.PickupLocation,
		DeliveryAddress: req.DeliveryAddress,
		Amount:          req.Amount,
		DeliveryDate:    req.DeliveryDate,
		DueDate:         req.DueDate,
		DeliveryStatus:  domain.DeliveryStatusPending,
		PaymentStatus:   domain.PaymentStatusPending,
		CreatedAt:       time.Now(),
	}

	if err := s.deliveryRepo.Create(ctx, delivery); err != nil {
		return nil, err
	}

	s.invalidateSummary(ctx, req.ClientID)

	return delivery, nil
}

// allowedStatusTransitions lists the valid operational status changes.
// Cancellation is handled separately because it also retires the payment
// side.
var allowedStatusTransitions = map[domain.DeliveryStatus][]domain.DeliveryStatus{
	domain.DeliveryStatusPending:    {domain.DeliveryStatusInProgress, domain.DeliveryStatusCompleted, domain.DeliveryStatusDelivered},
	domain.DeliveryStatusInProgress: {domain.DeliveryStatusCompleted, domain.DeliveryStatusDelivered},
	domain.DeliveryStatusCompleted:  {domain.DeliveryStatusDelivered},
}

// UpdateDeliveryStatus applies an operational status change.
func (s *DeliveryService) UpdateDeliveryStatus(ctx context.Context, deliveryID string, status domain.DeliveryStatus) (*domain.Delivery, error) {
	if deliveryID == "" {
		return nil, ErrInvalidDeliveryID
	}

	delivery, err := s.deliveryRepo.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if status == domain.DeliveryStatusCancelled {
		return s.cancelDelivery(ctx, delivery)
	}

	if !transitionAllowed(delivery.DeliveryStatus, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, delivery.DeliveryStatus, status)
	}

	if err := s.deliveryRepo.UpdateDeliveryStatus(ctx, deliveryID, status); err != nil {
		return nil, err
	}

	delivery.DeliveryStatus = status
	return delivery, nil
}

// cancelDelivery retires a delivery from operations and billing. A paid or
// already cancelled delivery stays as it is.
func (s *DeliveryService) cancelDelivery(ctx context.Context, delivery *domain.Delivery) (*domain.Delivery, error) {
	if delivery.IsCancelled() || delivery.PaymentStatus == domain.PaymentStatusPaid {
		return nil, ErrDeliveryNotCancellable
	}
	if delivery.PaymentStatus == domain.PaymentStatusPendingVerification {
		// A proof in flight references this delivery; the admin decision
		// has to land first.
		return nil, ErrDeliveryNotCancellable
	}

	if err := s.deliveryRepo.CancelDelivery(ctx, delivery.ID); err != nil {
		return nil, err
	}

	delivery.DeliveryStatus = domain.DeliveryStatusCancelled
	delivery.PaymentStatus = domain.PaymentStatusCancelled

	s.invalidateSummary(ctx, delivery.ClientID)

	return delivery, nil
}

// GetDelivery retrieves a delivery by ID.
func (s *DeliveryService) GetDelivery(ctx context.Context, deliveryID string) (*domain.Delivery, error) {
	if deliveryID == "" {
		return nil, ErrInvalidDeliveryID
	}

	return s.deliveryRepo.GetByID(ctx, deliveryID)
}

// GetClientDeliveries retrieves all deliveries for a client.
func (s *DeliveryService) GetClientDeliveries(ctx context.Context, clientID string) ([]*domain.Delivery, error) {
	if clientID == "" {
		return nil, ErrInvalidClientID
	}

	return s.deliveryRepo.GetByClientID(ctx, clientID)
}

func (s *DeliveryService) invalidateSummary(ctx context.Context, clientID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSummary(ctx, clientID); err != nil {
		log.Printf("summary cache invalidation failed for client %s: %v", clientID, err)
	}
}

func transitionAllowed(from, to domain.DeliveryStatus) bool {
	for _, allowed := range allowedStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
