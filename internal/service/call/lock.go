package call

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DispatchLock keeps at most one outbound call in flight per record. It is
// cooperative hardening: losing the lock store fails open rather than
// blocking dispatch entirely.
type DispatchLock interface {
	// Acquire reports false when another dispatch holds the record.
	Acquire(ctx context.Context, recordID string) (bool, error)
	Release(ctx context.Context, recordID string)
}

const lockTTL = 2 * time.Minute

type redisLock struct {
	client *redis.Client
}

func NewRedisLock(client *redis.Client) DispatchLock {
	return &redisLock{client: client}
}

func (l *redisLock) Acquire(ctx context.Context, recordID string) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey(recordID), 1, lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire dispatch lock: %w", err)
	}
	return ok, nil
}

func (l *redisLock) Release(ctx context.Context, recordID string) {
	// TTL covers a missed release.
	l.client.Del(ctx, lockKey(recordID))
}

func lockKey(recordID string) string {
	return "dispatch:lock:" + recordID
}
