package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter increments a windowed counter and returns the new value.
// The first increment of a key must arm its expiry.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RedisCounter implements Counter with INCR and PEXPIRE.
type RedisCounter struct {
	rdb redis.Cmdable
}

// NewRedisCounter wraps rdb.
func NewRedisCounter(rdb redis.Cmdable) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

// Incr implements Counter.
func (c *RedisCounter) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("middleware.RedisCounter.Incr: %w", err)
	}
	if count == 1 {
		if err := c.rdb.PExpire(ctx, key, ttl).Err(); err != nil {
			return count, fmt.Errorf("middleware.RedisCounter.Incr: expire: %w", err)
		}
	}
	return count, nil
}

// RateLimit bounds how many requests one client address may make per window
// under the given scope. Exceeding it answers 429 with Retry-After. When the
// counter is unavailable the request is let through.
type RateLimit struct {
	Scope   string
	Limit   int64
	Window  time.Duration
	Counter Counter
	Logger  *slog.Logger
	Now     func() time.Time // defaults to time.Now
}

// Handler returns the middleware. A non-positive Limit disables limiting.
func (rl RateLimit) Handler(next http.Handler) http.Handler {
	if rl.Limit <= 0 || rl.Counter == nil {
		return next
	}
	if rl.Window <= 0 {
		rl.Window = time.Minute
	}
	now := rl.Now
	if now == nil {
		now = time.Now
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := now()
		window := t.Truncate(rl.Window)
		key := fmt.Sprintf("trip-planner:rate:%s:%s:%d", rl.Scope, clientIP(r), window.Unix())

		count, err := rl.Counter.Incr(r.Context(), key, rl.Window+time.Second)
		if err != nil {
			if rl.Logger != nil {
				rl.Logger.WarnContext(r.Context(), "rate limit counter unavailable", "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}
		if count > rl.Limit {
			retry := int(window.Add(rl.Window).Sub(t).Seconds())
			if retry < 1 {
				retry = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of RemoteAddr. Forwarding headers are never
// read here; RemoteAddr reflects them only when the server was configured to
// trust a proxy and installed chi's RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
