package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ipLimitKeyPrefix = "ratelimit:ip:"
	ipLimitKeyTTL    = 10 * time.Second
)

// RateLimitResult reports a single rate limit decision.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// ipBucketScript refills and drains a per-client token bucket in one atomic
// round trip. Returns {allowed, retry_after_seconds, tokens_left}.
var ipBucketScript = redis.NewScript(`
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	local state = redis.call('HMGET', KEYS[1], 'tokens', 'last_update')
	local tokens = tonumber(state[1]) or burst
	local last = tonumber(state[2]) or now

	tokens = math.min(burst, tokens + (now - last) * rate)

	local allowed = 0
	local retry_after = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HMSET', KEYS[1], 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', KEYS[1], tonumber(ARGV[4]))
	return {allowed, retry_after, math.floor(tokens)}
`)

// CheckIPRateLimit runs the token bucket for one client IP. The IP is hashed
// before it becomes a Redis key, so raw addresses are never stored. When
// Redis is unreachable the limiter fails open and admits the request.
func (c *Cache) CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	key := ipLimitKeyPrefix + hashIP(ip)

	vals, err := ipBucketScript.Run(ctx, c.client, []string{key},
		ratePerSecond, burst, time.Now().Unix(), int(ipLimitKeyTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return &RateLimitResult{
			Allowed:   true,
			Remaining: int64(burst),
			ResetAt:   time.Now().Add(time.Minute),
		}, nil
	}

	refillInterval := time.Second / time.Duration(max(ratePerSecond, 1))
	return &RateLimitResult{
		Allowed:    vals[0] == 1,
		Remaining:  vals[2],
		ResetAt:    time.Now().Add(refillInterval),
		RetryAfter: time.Duration(vals[1]) * time.Second,
	}, nil
}

// hashIP truncates a SHA-256 of the address to 16 hex characters, enough to
// keep buckets distinct without persisting the address itself.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}
