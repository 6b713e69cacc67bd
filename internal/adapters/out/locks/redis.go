// Package locks serialises commands on the same order. RedisOrderLocker works
// across replicas; LocalOrderLocker covers single-process deployments.
package locks

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/logger"
)

const (
	DefaultLockTTL  = 30 * time.Second
	DefaultLockWait = 5 * time.Second

	retryInterval = 50 * time.Millisecond
)

// RedisOrderLocker implements ports.OrderLocker with bsm/redislock.
type RedisOrderLocker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisOrderLocker holds each lock for ttl and waits up to wait to obtain
// it. Zero values select the defaults.
func NewRedisOrderLocker(rdb redis.UniversalClient, ttl, wait time.Duration) *RedisOrderLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	if wait <= 0 {
		wait = DefaultLockWait
	}
	return &RedisOrderLocker{client: redislock.New(rdb), ttl: ttl, wait: wait}
}

// Acquire blocks until the order lock is held. A lock still held by another
// process after the wait is reported as a concurrency conflict.
func (l *RedisOrderLocker) Acquire(ctx context.Context, orderID kernel.UUID) (func(), error) {
	attempts := int(l.wait / retryInterval)
	lock, err := l.client.Obtain(ctx, key(orderID), l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryInterval), attempts),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, errs.NewConcurrencyConflictError("order lock", orderID.String())
	}
	if err != nil {
		return nil, err
	}

	return func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			logger.FromContext(ctx).Warn("release order lock",
				zap.String("order_id", orderID.String()),
				zap.Error(err),
			)
		}
	}, nil
}

func key(orderID kernel.UUID) string {
	return "lock:order:" + orderID.String()
}
