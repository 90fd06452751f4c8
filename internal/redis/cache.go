package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"freightpay/internal/domain"
)

// SummaryCache caches client payment summaries in Redis.
type SummaryCache struct {
	client *redis.Client
}

// NewSummaryCache creates a new SummaryCache.
func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{client: client}
}

// SummaryCacheTTL bounds how stale a cached summary can get. Proof
// mutations invalidate eagerly; the TTL covers the overdue boundary, which
// moves with the clock rather than with writes.
const SummaryCacheTTL = 30 * time.Second

const summaryCachePrefix = "cache:summary:"

// GetSummary retrieves a cached summary. Returns nil on a cache miss.
func (s *SummaryCache) GetSummary(ctx context.Context, clientID string) (*domain.PaymentSummary, error) {
	key := summaryCachePrefix + clientID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var summary domain.PaymentSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SetSummary stores a summary in cache.
func (s *SummaryCache) SetSummary(ctx context.Context, summary *domain.PaymentSummary) error {
	key := summaryCachePrefix + summary.ClientID
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, SummaryCacheTTL).Err()
}

// InvalidateSummary removes a client's summary from cache. Called after
// every proof upload, approval, rejection, and delivery mutation.
func (s *SummaryCache) InvalidateSummary(ctx context.Context, clientID string) error {
	key := summaryCachePrefix + clientID
	return s.client.Del(ctx, key).Err()
}
