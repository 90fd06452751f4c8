package redis

import (
	"context"
	"time"

	"freightpay/internal/domain"
)

// SummaryCacheInterface defines the interface for summary caching.
type SummaryCacheInterface interface {
	GetSummary(ctx context.Context, clientID string) (*domain.PaymentSummary, error)
	SetSummary(ctx context.Context, summary *domain.PaymentSummary) error
	InvalidateSummary(ctx context.Context, clientID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireUploadLock(ctx context.Context, clientID string, ttl time.Duration) (bool, error)
	ReleaseUploadLock(ctx context.Context, clientID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ SummaryCacheInterface = (*SummaryCache)(nil)
	_ LockStoreInterface    = (*LockStore)(nil)
)
