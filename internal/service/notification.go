package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"freightpay/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationProofSubmitted  NotificationType = "PROOF_SUBMITTED"
	NotificationProofApproved   NotificationType = "PROOF_APPROVED"
	NotificationProofRejected   NotificationType = "PROOF_REJECTED"
	NotificationDeliveryBooked  NotificationType = "DELIVERY_BOOKED"
	NotificationPaymentOverdue  NotificationType = "PAYMENT_OVERDUE"
)

// Notification represents a notification to be sent.
type Notification struct {
	ID          string
	Type        NotificationType
	RecipientID string // Client ID
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery. Every call is
// best-effort from the caller's point of view: proof operations log a
// failure here and carry on.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - SMS client (Twilio)
	// - Email client (SendGrid)
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyProofSubmitted notifies the client that their proof was received.
func (s *NotificationService) NotifyProofSubmitted(ctx context.Context, proof *domain.PaymentProof, clientName string) error {
	notification := Notification{
		Type:        NotificationProofSubmitted,
		RecipientID: proof.ClientID,
		Title:       "Payment Proof Received",
		Message: fmt.Sprintf("We received your payment proof covering %d deliveries (total $%s). It is now awaiting review.",
			len(proof.DeliveryIDs), proof.TotalAmount.StringFixed(2)),
		Data: map[string]interface{}{
			"proof_id":       proof.ID,
			"delivery_count": len(proof.DeliveryIDs),
			"total_amount":   proof.TotalAmount.String(),
			"client_name":    clientName,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyProofApproved notifies the client that their proof was approved.
func (s *NotificationService) NotifyProofApproved(ctx context.Context, proof *domain.PaymentProof, receiptNumber string) error {
	message := fmt.Sprintf("Your payment of $%s has been confirmed. %d deliveries are now marked paid.",
		proof.TotalAmount.StringFixed(2), len(proof.DeliveryIDs))
	if receiptNumber != "" {
		message += " Receipt " + receiptNumber + " is available."
	}

	notification := Notification{
		Type:        NotificationProofApproved,
		RecipientID: proof.ClientID,
		Title:       "Payment Confirmed",
		Message:     message,
		Data: map[string]interface{}{
			"proof_id":       proof.ID,
			"receipt_number": receiptNumber,
			"total_amount":   proof.TotalAmount.String(),
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyProofRejected notifies the client that their proof was rejected,
// including the reason so they can resubmit.
func (s *NotificationService) NotifyProofRejected(ctx context.Context, proof *domain.PaymentProof, reason string) error {
	notification := Notification{
		Type:        NotificationProofRejected,
		RecipientID: proof.ClientID,
		Title:       "Payment Proof Rejected",
		Message:     fmt.Sprintf("Your payment proof was rejected: %s. The covered deliveries are open for a new submission.", reason),
		Data: map[string]interface{}{
			"proof_id": proof.ID,
			"reason":   reason,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	// In a real implementation, this would:
	// 1. Store notification in database
	// 2. Send push notification via FCM/APNS
	// 3. Send email if enabled

	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	return nil
}
