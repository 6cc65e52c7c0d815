// Package access enforces the per-user daily quota on the shopping advisor.
package access

import (
	"context"
	"fmt"
	"time"

	"storefront-be/internal/dto"
	"storefront-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const moduleName = "AssistantLimiter"

// UsageStore counts requests per key and day.
type UsageStore interface {
	// Increment bumps key's counter, expiring it at resetAt, and returns the
	// new value.
	Increment(ctx context.Context, key string, resetAt time.Time) (int64, error)
}

// RedisUsageStore keeps counters in redis with an absolute expiry.
type RedisUsageStore struct {
	rdb *redis.Client
}

func NewRedisUsageStore(rdb *redis.Client) *RedisUsageStore {
	return &RedisUsageStore{rdb: rdb}
}

func (s *RedisUsageStore) Increment(ctx context.Context, key string, resetAt time.Time) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireAt(ctx, key, resetAt)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("increment %s: %w", key, err)
	}
	return incr.Val(), nil
}

type Limiter struct {
	store  UsageStore
	limit  int
	now    func() time.Time
	logger logger.ILogger
}

// NewLimiter allows limit requests per subject per local day. A negative
// limit disables the check.
func NewLimiter(store UsageStore, limit int, logger logger.ILogger) *Limiter {
	return &Limiter{
		store:  store,
		limit:  limit,
		now:    time.Now,
		logger: logger,
	}
}

// Allow consumes one request for subject. It returns *dto.LimitExceededError
// once the quota is spent. Store failures are logged and let the request through.
func (l *Limiter) Allow(ctx context.Context, subject string) error {
	if l == nil || l.store == nil || l.limit < 0 {
		return nil
	}

	now := l.now()
	resetAt := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	key := fmt.Sprintf("assistant:usage:%s:%s", now.Format("2006-01-02"), subject)

	used, err := l.store.Increment(ctx, key, resetAt)
	if err != nil {
		l.logger.Warn(moduleName, "Usage store unavailable, allowing request", map[string]interface{}{
			"subject": subject,
			"error":   err,
		})
		return nil
	}

	if int(used) > l.limit {
		return &dto.LimitExceededError{
			Limit:      l.limit,
			Used:       l.limit,
			ResetAfter: resetAt,
		}
	}
	return nil
}
