package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitResult is the outcome of a fixed-window counter check.
type RateLimitResult struct {
	Allowed bool
	Current int64
	Limit   int
	Window  time.Duration
	ResetAt time.Time
	// Degraded is set when the counter store was unreachable and the
	// check fell back to allowing the request.
	Degraded bool
}

// RateLimiter implements atomic fixed-window counters on Redis.
//
// The window start is part of the key, so a new window means a new key and
// stale windows self-delete via TTL. Fixed windows trade boundary bursts
// for a single round trip per check.
type RateLimiter struct {
	client *redis.Client
	now    func() time.Time
}

// The INCR and PEXPIRE must be indivisible: two callers racing on a fresh
// key must not observe a counter without a TTL. A Lua script runs both in
// one atomic step.
var incrWithExpiryScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// NewRateLimiter creates a rate limiter backed by the given Redis client.
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client, now: time.Now}
}

// NewRateLimiterWithClock creates a rate limiter with an injected clock (used for testing).
func NewRateLimiterWithClock(client *redis.Client, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{client: client, now: now}
}

// IncrementAndCheck counts one request for key in the current fixed window
// and reports whether it is within limit. A limit <= 0 means unlimited and
// skips the store round trip.
//
// If the store is unreachable the check fails open: the request is allowed,
// Degraded is set, and the store error is returned so callers can surface
// the condition. Availability wins over strict enforcement during outages.
func (r *RateLimiter) IncrementAndCheck(ctx context.Context, name, bucket string, window time.Duration, limit int) (*RateLimitResult, error) {
	now := r.now()

	if limit <= 0 {
		return &RateLimitResult{Allowed: true, Limit: limit, Window: window, ResetAt: now.Add(window)}, nil
	}
	if window <= 0 {
		window = time.Second
	}

	windowStart := now.Truncate(window)
	resetAt := windowStart.Add(window)
	key := fmt.Sprintf("ratelimit:%s:%s:%d", name, bucket, windowStart.UnixMilli())

	current, err := incrWithExpiryScript.Run(ctx, r.client, []string{key}, window.Milliseconds()).Int64()
	if err != nil {
		return &RateLimitResult{
			Allowed:  true,
			Limit:    limit,
			Window:   window,
			ResetAt:  resetAt,
			Degraded: true,
		}, err
	}

	return &RateLimitResult{
		Allowed: current <= int64(limit),
		Current: current,
		Limit:   limit,
		Window:  window,
		ResetAt: resetAt,
	}, nil
}
