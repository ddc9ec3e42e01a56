package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"rentalshop-backend/internal/logger"
)

const (
	keyPrefix    = "rentalshop:lock:"
	retryBackoff = 100 * time.Millisecond
)

// RedisLocker shares locks between server replicas through Redis. A lock
// expires after ttl if its holder dies without releasing it.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl}
}

// Obtain retries until the lock is free or ctx is done. Without a deadline on
// ctx a single attempt is made.
func (l *RedisLocker) Obtain(ctx context.Context, key string) (Unlock, error) {
	opts := &redislock.Options{}
	if _, ok := ctx.Deadline(); ok {
		opts.RetryStrategy = redislock.LinearBackoff(retryBackoff)
	}

	lk, err := l.client.Obtain(ctx, keyPrefix+key, l.ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrNotObtained, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	return func() {
		// The caller's ctx may already be cancelled.
		if err := lk.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logger.Warn("Failed to release lock", "key", key, "error", err)
		}
	}, nil
}
