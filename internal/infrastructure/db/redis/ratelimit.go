package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitStore is a fixed-window counter shared by every API instance.
// Key format: ratelimit:<scope>:<identifier>:<window_start_unix>
// It satisfies echo's middleware.RateLimiterStore.
type RateLimitStore struct {
	client  *redis.Client
	scope   string
	limit   int64
	window  time.Duration
	timeout time.Duration
	now     func() time.Time
}

// NewRateLimitStore allows limit hits per identifier within each window. A
// burst larger than limit raises the per-window budget to burst.
func NewRateLimitStore(client *redis.Client, scope string, limit, burst int, window time.Duration) *RateLimitStore {
	if window <= 0 {
		window = time.Minute
	}
	if burst > limit {
		limit = burst
	}
	return &RateLimitStore{
		client:  client,
		scope:   scope,
		limit:   int64(limit),
		window:  window,
		timeout: time.Second,
		now:     time.Now,
	}
}

// Allow records a hit for identifier and reports whether it is within the
// window's budget.
func (s *RateLimitStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := s.key(identifier)
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit %s: %w", s.scope, err)
	}
	return incr.Val() <= s.limit, nil
}

func (s *RateLimitStore) key(identifier string) string {
	start := s.now().Truncate(s.window).Unix()
	return fmt.Sprintf("ratelimit:%s:%s:%d", s.scope, identifier, start)
}
