package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"freightpay/internal/domain"
	"freightpay/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK CLIENT REPOSITORY
// ──────────────────────────────────────────────

// MockClientRepository is a mock implementation of ClientRepository.
type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError  error
	GetByIDError error
}

// NewMockClientRepository creates a new mock client repository.
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		clients: make(map[string]*domain.Client),
	}
}

// AddClient adds a client to the mock repository.
func (m *MockClientRepository) AddClient(client *domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
	return nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	client, ok := m.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *client
	return &copy, nil
}

func (m *MockClientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if c.Email == email {
			copy := *c
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockClientRepository) GetAll(ctx context.Context) ([]*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Client, 0, len(m.clients))
	for _, c := range m.clients {
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK DELIVERY REPOSITORY
// ──────────────────────────────────────────────

// MockDeliveryRepository is a mock implementation of DeliveryRepository.
type MockDeliveryRepository struct {
	mu         sync.RWMutex
	deliveries map[string]*domain.Delivery

	// Counters for verification
	CreateCallCount                  int32
	MarkPendingVerificationCallCount int32
	MarkPaidCallCount                int32
	ReleaseProofCallCount            int32

	// Error injection
	CreateError                  error
	GetByClientIDError           error
	MarkPendingVerificationError error
	MarkPaidError                error
	ReleaseProofError            error
}

// NewMockDeliveryRepository creates a new mock delivery repository.
func NewMockDeliveryRepository() *MockDeliveryRepository {
	return &MockDeliveryRepository{
		deliveries: make(map[string]*domain.Delivery),
	}
}

// AddDelivery adds a delivery to the mock repository.
func (m *MockDeliveryRepository) AddDelivery(delivery *domain.Delivery) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries[delivery.ID] = delivery
}

// GetDelivery returns the stored delivery for test assertions.
func (m *MockDeliveryRepository) GetDelivery(id string) *domain.Delivery {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deliveries[id]
}

func (m *MockDeliveryRepository) Create(ctx context.Context, delivery *domain.Delivery) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries[delivery.ID] = delivery
	return nil
}

func (m *MockDeliveryRepository) GetByID(ctx context.Context, id string) (*domain.Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	delivery, ok := m.deliveries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *delivery
	return &copy, nil
}

func (m *MockDeliveryRepository) GetByClientID(ctx context.Context, clientID string) ([]*domain.Delivery, error) {
	if m.GetByClientIDError != nil {
		return nil, m.GetByClientIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Delivery, 0)
	for _, d := range m.deliveries {
		if d.ClientID == clientID {
			copy := *d
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockDeliveryRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Delivery, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Delivery, 0, len(ids))
	for _, id := range ids {
		if d, ok := m.deliveries[id]; ok {
			copy := *d
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockDeliveryRepository) UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delivery, ok := m.deliveries[id]
	if !ok {
		return repository.ErrNotFound
	}
	delivery.DeliveryStatus = status
	return nil
}

func (m *MockDeliveryRepository) CancelDelivery(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delivery, ok := m.deliveries[id]
	if !ok {
		return repository.ErrNotFound
	}
	delivery.DeliveryStatus = domain.DeliveryStatusCancelled
	delivery.PaymentStatus = domain.PaymentStatusCancelled
	return nil
}

func (m *MockDeliveryRepository) MarkPendingVerification(ctx context.Context, ids []string, proofID string, at time.Time) error {
	atomic.AddInt32(&m.MarkPendingVerificationCallCount, 1)
	if m.MarkPendingVerificationError != nil {
		return m.MarkPendingVerificationError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delivery, ok := m.deliveries[id]
		if !ok {
			return repository.ErrNotFound
		}
		delivery.PaymentStatus = domain.PaymentStatusPendingVerification
		delivery.ProofID = proofID
		delivery.ProofUploadedAt = at
	}
	return nil
}

func (m *MockDeliveryRepository) MarkPaid(ctx context.Context, ids []string, at time.Time) error {
	atomic.AddInt32(&m.MarkPaidCallCount, 1)
	if m.MarkPaidError != nil {
		return m.MarkPaidError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delivery, ok := m.deliveries[id]
		if !ok {
			return repository.ErrNotFound
		}
		delivery.PaymentStatus = domain.PaymentStatusPaid
		delivery.ProofApprovedAt = at
		delivery.PaidAt = at
	}
	return nil
}

func (m *MockDeliveryRepository) ReleaseProof(ctx context.Context, ids []string, rejectionReason string) error {
	atomic.AddInt32(&m.ReleaseProofCallCount, 1)
	if m.ReleaseProofError != nil {
		return m.ReleaseProofError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delivery, ok := m.deliveries[id]
		if !ok {
			return repository.ErrNotFound
		}
		delivery.PaymentStatus = domain.PaymentStatusPending
		delivery.ProofID = ""
		delivery.ProofUploadedAt = time.Time{}
		delivery.ProofRejectionReason = rejectionReason
	}
	return nil
}

// ──────────────────────────────────────────────
// MOCK PROOF REPOSITORY
// ──────────────────────────────────────────────

// MockProofRepository is a mock implementation of ProofRepository.
type MockProofRepository struct {
	mu     sync.RWMutex
	proofs map[string]*domain.PaymentProof

	// Counters for verification
	CreateCallCount  int32
	ApproveCallCount int32
	RejectCallCount  int32

	// Error injection
	CreateError  error
	ApproveError error
	RejectError  error
}

// NewMockProofRepository creates a new mock proof repository.
func NewMockProofRepository() *MockProofRepository {
	return &MockProofRepository{
		proofs: make(map[string]*domain.PaymentProof),
	}
}

// AddProof adds a proof to the mock repository.
func (m *MockProofRepository) AddProof(proof *domain.PaymentProof) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proofs[proof.ID] = proof
}

// GetProof returns the stored proof for test assertions.
func (m *MockProofRepository) GetProof(id string) *domain.PaymentProof {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.proofs[id]
}

func (m *MockProofRepository) Create(ctx context.Context, proof *domain.PaymentProof) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proofs[proof.ID] = proof
	return nil
}

func (m *MockProofRepository) GetByID(ctx context.Context, id string) (*domain.PaymentProof, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	proof, ok := m.proofs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *proof
	return &copy, nil
}

func (m *MockProofRepository) List(ctx context.Context, clientID string, status domain.ProofStatus) ([]*domain.PaymentProof, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.PaymentProof, 0)
	for _, p := range m.proofs {
		if clientID != "" && p.ClientID != clientID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		copy := *p
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockProofRepository) Approve(ctx context.Context, id, processedBy string, at time.Time) error {
	atomic.AddInt32(&m.ApproveCallCount, 1)
	if m.ApproveError != nil {
		return m.ApproveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	proof, ok := m.proofs[id]
	if !ok || proof.Status != domain.ProofStatusPending {
		return repository.ErrNotFound
	}
	proof.Status = domain.ProofStatusApproved
	proof.ProcessedBy = processedBy
	proof.ProcessedAt = at
	return nil
}

func (m *MockProofRepository) Reject(ctx context.Context, id, processedBy, reason string, at time.Time) error {
	atomic.AddInt32(&m.RejectCallCount, 1)
	if m.RejectError != nil {
		return m.RejectError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	proof, ok := m.proofs[id]
	if !ok || proof.Status != domain.ProofStatusPending {
		return repository.ErrNotFound
	}
	proof.Status = domain.ProofStatusRejected
	proof.ProcessedBy = processedBy
	proof.ProcessedAt = at
	proof.RejectionReason = reason
	return nil
}

func (m *MockProofRepository) SetReceiptNumber(ctx context.Context, id, receiptNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	proof, ok := m.proofs[id]
	if !ok {
		return repository.ErrNotFound
	}
	proof.ReceiptNumber = receiptNumber
	return nil
}

// ──────────────────────────────────────────────
// MOCK RECEIPT REPOSITORY
// ──────────────────────────────────────────────

// MockReceiptRepository is a mock implementation of ReceiptRepository.
type MockReceiptRepository struct {
	mu       sync.RWMutex
	receipts map[string]*domain.PaymentReceipt

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockReceiptRepository creates a new mock receipt repository.
func NewMockReceiptRepository() *MockReceiptRepository {
	return &MockReceiptRepository{
		receipts: make(map[string]*domain.PaymentReceipt),
	}
}

func (m *MockReceiptRepository) Create(ctx context.Context, receipt *domain.PaymentReceipt) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts[receipt.ProofID] = receipt
	return nil
}

func (m *MockReceiptRepository) GetByProofID(ctx context.Context, proofID string) (*domain.PaymentReceipt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	receipt, ok := m.receipts[proofID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *receipt
	return &copy, nil
}

// ──────────────────────────────────────────────
// MOCK OBJECT STORAGE
// ──────────────────────────────────────────────

// MockObjectStorage is an in-memory object storage.
type MockObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// Counters for verification
	SaveCallCount int32

	// Error injection
	SaveError error
}

// NewMockObjectStorage creates a new in-memory object storage.
func NewMockObjectStorage() *MockObjectStorage {
	return &MockObjectStorage{
		objects: make(map[string][]byte),
	}
}

func (m *MockObjectStorage) Save(ctx context.Context, key, contentType string, data []byte) (string, error) {
	atomic.AddInt32(&m.SaveCallCount, 1)
	if m.SaveError != nil {
		return "", m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = buf
	return key, nil
}

func (m *MockObjectStorage) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return data, nil
}

func (m *MockObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

// ObjectCount returns the number of stored objects for test assertions.
func (m *MockObjectStorage) ObjectCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// ──────────────────────────────────────────────
// MOCK UNIT OF WORK
// ──────────────────────────────────────────────

// MockUnitOfWork runs the transactional function against the shared mocks.
// It does not roll back: tests that exercise rollback behavior assert on
// the error path before any write happens.
type MockUnitOfWork struct {
	Deliveries *MockDeliveryRepository
	Proofs     *MockProofRepository
	Receipts   *MockReceiptRepository

	// Counters for verification
	DoCallCount int32

	// Error injection
	DoError error
}

// NewMockUnitOfWork creates a unit of work over the given mocks.
func NewMockUnitOfWork(deliveries *MockDeliveryRepository, proofs *MockProofRepository, receipts *MockReceiptRepository) *MockUnitOfWork {
	return &MockUnitOfWork{
		Deliveries: deliveries,
		Proofs:     proofs,
		Receipts:   receipts,
	}
}

func (m *MockUnitOfWork) Do(ctx context.Context, fn func(tx repository.TxRepositories) error) error {
	atomic.AddInt32(&m.DoCallCount, 1)
	if m.DoError != nil {
		return m.DoError
	}
	return fn(repository.TxRepositories{
		Deliveries: m.Deliveries,
		Proofs:     m.Proofs,
		Receipts:   m.Receipts,
	})
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireUploadLock(ctx context.Context, clientID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[clientID] {
		return false, nil
	}
	m.locks[clientID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseUploadLock(ctx context.Context, clientID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, clientID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK SUMMARY CACHE
// ──────────────────────────────────────────────

// MockSummaryCache is a mock implementation of SummaryCacheInterface.
type MockSummaryCache struct {
	mu        sync.RWMutex
	summaries map[string]*domain.PaymentSummary

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockSummaryCache creates a new mock summary cache.
func NewMockSummaryCache() *MockSummaryCache {
	return &MockSummaryCache{
		summaries: make(map[string]*domain.PaymentSummary),
	}
}

func (m *MockSummaryCache) GetSummary(ctx context.Context, clientID string) (*domain.PaymentSummary, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	summary, ok := m.summaries[clientID]
	if !ok {
		return nil, nil
	}
	return summary, nil
}

func (m *MockSummaryCache) SetSummary(ctx context.Context, summary *domain.PaymentSummary) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[summary.ClientID] = summary
	return nil
}

func (m *MockSummaryCache) InvalidateSummary(ctx context.Context, clientID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.summaries, clientID)
	return nil
}
