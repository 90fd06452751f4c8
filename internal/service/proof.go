package service

import (
	"context"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"freightpay/internal/domain"
	"freightpay/internal/redis"
	"freightpay/internal/repository"
	"freightpay/internal/storage"
)

const (
	// MaxProofFileSize is the upload size limit for proof files.
	MaxProofFileSize = 5 << 20 // 5 MB

	uploadLockTTL = 30 * time.Second
)

// proofFileExtensions maps the allowed proof MIME types to stored file
// extensions.
var proofFileExtensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"application/pdf": ".pdf",
}

// ProofService handles the payment-proof lifecycle: upload, approval, and
// rejection. It is the single writer of delivery payment status; every
// multi-row transition runs inside one database transaction with the
// covered delivery rows locked, so concurrent uploads or decisions over the
// same deliveries serialize instead of racing.
type ProofService struct {
	uow                 repository.UnitOfWork
	proofRepo           repository.ProofRepository
	deliveryRepo        repository.DeliveryRepository
	clientRepo          repository.ClientRepository
	store               storage.ObjectStorage
	locks               redis.LockStoreInterface
	cache               redis.SummaryCacheInterface
	receiptService      *ReceiptService
	notificationService *NotificationService
}

// NewProofService creates a new ProofService. locks and cache may be nil.
func NewProofService(
	uow repository.UnitOfWork,
	proofRepo repository.ProofRepository,
	deliveryRepo repository.DeliveryRepository,
	clientRepo repository.ClientRepository,
	store storage.ObjectStorage,
	locks redis.LockStoreInterface,
	cache redis.SummaryCacheInterface,
	receiptService *ReceiptService,
	notificationService *NotificationService,
) *ProofService {
	return &ProofService{
		uow:                 uow,
		proofRepo:           proofRepo,
		deliveryRepo:        deliveryRepo,
		clientRepo:          clientRepo,
		store:               store,
		locks:               locks,
		cache:               cache,
		receiptService:      receiptService,
		notificationService: notificationService,
	}
}

// UploadProofRequest contains the parameters for uploading a proof.
type UploadProofRequest struct {
	ClientID        string
	DeliveryIDs     []string
	FileName        string
	ContentType     string
	Data            []byte
	ReferenceNumber string
	Notes           string
}

// UploadProofResponse contains the result of uploading a proof.
type UploadProofResponse struct {
	Proof         *domain.PaymentProof
	DeliveryCount int
	TotalAmount   decimal.Decimal
}

// UploadProof validates and stores one proof file covering a batch of
// deliveries and flips them into pending verification. Any precondition
// violation aborts the whole upload: no file is written and no delivery is
// touched.
func (s *ProofService) UploadProof(ctx context.Context, req UploadProofRequest) (*UploadProofResponse, error) {
	if req.ClientID == "" {
		return nil, ErrInvalidClientID
	}

	ids := dedupe(req.DeliveryIDs)
	if len(ids) == 0 {
		return nil, ErrEmptyDeliveryList
	}

	if len(req.Data) == 0 {
		return nil, ErrEmptyFile
	}

	ext, ok := proofFileExtensions[req.ContentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, req.ContentType)
	}

	if len(req.Data) > MaxProofFileSize {
		return nil, ErrFileTooLarge
	}

	client, err := s.clientRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}

	if s.locks != nil {
		acquired, err := s.locks.AcquireUploadLock(ctx, req.ClientID, uploadLockTTL)
		if err != nil {
			log.Printf("upload lock acquire failed for client %s: %v", req.ClientID, err)
		} else if !acquired {
			return nil, ErrUploadInProgress
		} else {
			defer func() {
				if err := s.locks.ReleaseUploadLock(ctx, req.ClientID); err != nil {
					log.Printf("upload lock release failed for client %s: %v", req.ClientID, err)
				}
			}()
		}
	}

	now := time.Now()
	proof := &domain.PaymentProof{
		ID:              uuid.New().String(),
		ClientID:        req.ClientID,
		DeliveryIDs:     ids,
		FileName:        req.FileName,
		ContentType:     req.ContentType,
		Status:          domain.ProofStatusPending,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		CreatedAt:       now,
	}

	err = s.uow.Do(ctx, func(tx repository.TxRepositories) error {
		// Locks the delivery rows for the rest of the transaction.
		deliveries, err := tx.Deliveries.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}

		if len(deliveries) != len(ids) {
			return fmt.Errorf("%w: one or more deliveries do not exist", repository.ErrNotFound)
		}

		total := decimal.Zero
		for _, d := range deliveries {
			if d.ClientID != req.ClientID {
				return fmt.Errorf("%w: delivery %s", ErrDeliveryNotOwned, d.ID)
			}
			if d.IsCancelled() {
				return fmt.Errorf("%w: delivery %s", ErrDeliveryCancelled, d.ID)
			}
			if d.PaymentStatus == domain.PaymentStatusPendingVerification {
				return fmt.Errorf("%w: delivery %s", ErrProofInFlight, d.ID)
			}
			if d.PaymentStatus == domain.PaymentStatusPaid {
				return fmt.Errorf("%w: delivery %s", ErrDeliveryAlreadyPaid, d.ID)
			}
			total = total.Add(d.Amount)
		}

		// All preconditions passed; the file goes to storage first so the
		// committed proof row always points at an existing object.
		key := path.Join("proofs", now.Format("2006"), now.Format("01"), proof.ID+ext)
		filePath, err := s.store.Save(ctx, key, req.ContentType, req.Data)
		if err != nil {
			return fmt.Errorf("store proof file: %w", err)
		}

		proof.FilePath = filePath
		proof.TotalAmount = total

		if err := tx.Proofs.Create(ctx, proof); err != nil {
			return err
		}

		return tx.Deliveries.MarkPendingVerification(ctx, ids, proof.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateSummary(ctx, req.ClientID)

	if s.notificationService != nil {
		if err := s.notificationService.NotifyProofSubmitted(ctx, proof, client.Name); err != nil {
			log.Printf("proof submitted notification failed for proof %s: %v", proof.ID, err)
		}
	}

	return &UploadProofResponse{
		Proof:         proof,
		DeliveryCount: len(ids),
		TotalAmount:   proof.TotalAmount,
	}, nil
}

// ApproveProofRequest contains the parameters for approving a proof.
type ApproveProofRequest struct {
	ProofID     string
	ProcessedBy string
}

// ApproveProofResponse contains the result of approving a proof.
type ApproveProofResponse struct {
	DeliveriesUpdated int
	TotalAmount       decimal.Decimal
	ReceiptNumber     string
}

// ApproveProof marks a pending proof approved and flips every covered
// delivery to paid in one transaction. Receipt generation and the client
// notification run after commit and are best-effort: their failure is
// logged, never unwound into the approval.
func (s *ProofService) ApproveProof(ctx context.Context, req ApproveProofRequest) (*ApproveProofResponse, error) {
	if req.ProofID == "" {
		return nil, ErrInvalidProofID
	}
	if req.ProcessedBy == "" {
		return nil, ErrMissingProcessor
	}

	proof, err := s.proofRepo.GetByID(ctx, req.ProofID)
	if err != nil {
		return nil, err
	}

	if proof.IsProcessed() {
		return nil, fmt.Errorf("%w: status is %s", ErrProofAlreadyProcessed, proof.Status)
	}

	now := time.Now()
	err = s.uow.Do(ctx, func(tx repository.TxRepositories) error {
		// The status guard inside Approve catches a concurrent decision
		// that won the race since our read above.
		if err := tx.Proofs.Approve(ctx, proof.ID, req.ProcessedBy, now); err != nil {
			if err == repository.ErrNotFound {
				return fmt.Errorf("%w: processed concurrently", ErrProofAlreadyProcessed)
			}
			return err
		}

		return tx.Deliveries.MarkPaid(ctx, proof.DeliveryIDs, now)
	})
	if err != nil {
		return nil, err
	}

	proof.Status = domain.ProofStatusApproved
	proof.ProcessedBy = req.ProcessedBy
	proof.ProcessedAt = now

	s.invalidateSummary(ctx, proof.ClientID)

	receiptNumber := s.generateReceipt(ctx, proof, req.ProcessedBy)

	if s.notificationService != nil {
		if err := s.notificationService.NotifyProofApproved(ctx, proof, receiptNumber); err != nil {
			log.Printf("proof approved notification failed for proof %s: %v", proof.ID, err)
		}
	}

	return &ApproveProofResponse{
		DeliveriesUpdated: len(proof.DeliveryIDs),
		TotalAmount:       proof.TotalAmount,
		ReceiptNumber:     receiptNumber,
	}, nil
}

// RejectProofRequest contains the parameters for rejecting a proof.
type RejectProofRequest struct {
	ProofID         string
	ProcessedBy     string
	RejectionReason string
}

// RejectProofResponse contains the result of rejecting a proof.
type RejectProofResponse struct {
	DeliveriesUpdated int
}

// RejectProof marks a pending proof rejected and releases every covered
// delivery back to pending with the proof reference cleared, so the client
// can resubmit.
func (s *ProofService) RejectProof(ctx context.Context, req RejectProofRequest) (*RejectProofResponse, error) {
	if req.ProofID == "" {
		return nil, ErrInvalidProofID
	}
	if req.ProcessedBy == "" {
		return nil, ErrMissingProcessor
	}
	if req.RejectionReason == "" {
		return nil, ErrMissingRejectionReason
	}

	proof, err := s.proofRepo.GetByID(ctx, req.ProofID)
	if err != nil {
		return nil, err
	}

	if proof.IsProcessed() {
		return nil, fmt.Errorf("%w: status is %s", ErrProofAlreadyProcessed, proof.Status)
	}

	now := time.Now()
	err = s.uow.Do(ctx, func(tx repository.TxRepositories) error {
		if err := tx.Proofs.Reject(ctx, proof.ID, req.ProcessedBy, req.RejectionReason, now); err != nil {
			if err == repository.ErrNotFound {
				return fmt.Errorf("%w: processed concurrently", ErrProofAlreadyProcessed)
			}
			return err
		}

		return tx.Deliveries.ReleaseProof(ctx, proof.DeliveryIDs, req.RejectionReason)
	})
	if err != nil {
		return nil, err
	}

	proof.Status = domain.ProofStatusRejected
	proof.RejectionReason = req.RejectionReason

	s.invalidateSummary(ctx, proof.ClientID)

	if s.notificationService != nil {
		if err := s.notificationService.NotifyProofRejected(ctx, proof, req.RejectionReason); err != nil {
			log.Printf("proof rejected notification failed for proof %s: %v", proof.ID, err)
		}
	}

	return &RejectProofResponse{DeliveriesUpdated: len(proof.DeliveryIDs)}, nil
}

// GetProof retrieves a proof by ID.
func (s *ProofService) GetProof(ctx context.Context, proofID string) (*domain.PaymentProof, error) {
	if proofID == "" {
		return nil, ErrInvalidProofID
	}

	return s.proofRepo.GetByID(ctx, proofID)
}

// ListProofs retrieves proofs filtered by client and/or status.
func (s *ProofService) ListProofs(ctx context.Context, clientID string, status domain.ProofStatus) ([]*domain.PaymentProof, error) {
	return s.proofRepo.List(ctx, clientID, status)
}

// generateReceipt renders and stores the receipt for an approved proof.
// Returns the receipt number, or empty when generation failed.
func (s *ProofService) generateReceipt(ctx context.Context, proof *domain.PaymentProof, approvedBy string) string {
	if s.receiptService == nil {
		return ""
	}

	deliveries, err := s.deliveryRepo.GetByIDs(ctx, proof.DeliveryIDs)
	if err != nil {
		log.Printf("receipt generation failed for proof %s: loading deliveries: %v", proof.ID, err)
		return ""
	}

	client, err := s.clientRepo.GetByID(ctx, proof.ClientID)
	if err != nil {
		log.Printf("receipt generation failed for proof %s: loading client: %v", proof.ID, err)
		return ""
	}

	receipt, err := s.receiptService.GenerateReceipt(ctx, GenerateReceiptRequest{
		Proof:      proof,
		Deliveries: deliveries,
		Client:     client,
		ApprovedBy: approvedBy,
	})
	if err != nil {
		log.Printf("receipt generation failed for proof %s: %v", proof.ID, err)
		return ""
	}

	if err := s.proofRepo.SetReceiptNumber(ctx, proof.ID, receipt.ReceiptNumber); err != nil {
		log.Printf("recording receipt number on proof %s failed: %v", proof.ID, err)
	}
	proof.ReceiptNumber = receipt.ReceiptNumber

	return receipt.ReceiptNumber
}

func (s *ProofService) invalidateSummary(ctx context.Context, clientID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSummary(ctx, clientID); err != nil {
		log.Printf("summary cache invalidation failed for client %s: %v", clientID, err)
	}
}

// dedupe removes duplicate IDs preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
