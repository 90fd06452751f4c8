package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireUploadLock attempts to acquire the proof-upload lock for a client.
// Returns true if the lock was acquired, false if another upload for the
// same client is in flight. Row locks in Postgres are the correctness
// mechanism; this lock just fails duplicate submissions fast.
func (s *LockStore) AcquireUploadLock(ctx context.Context, clientID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:upload:%s", clientID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseUploadLock releases the proof-upload lock for a client.
func (s *LockStore) ReleaseUploadLock(ctx context.Context, clientID string) error {
	key := fmt.Sprintf("lock:upload:%s", clientID)

	return s.client.Del(ctx, key).Err()
}
