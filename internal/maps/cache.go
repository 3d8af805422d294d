package maps

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Router is the upstream a CachedRouter wraps.
type Router interface {
	Route(ctx context.Context, req domain.RouteRequest) (domain.RouteResult, error)
}

// Cache is the byte store behind CachedRouter. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisCache adapts a go-redis client to Cache.
type RedisCache struct {
	rdb redis.Cmdable
}

// NewRedisCache wraps rdb.
func NewRedisCache(rdb redis.Cmdable) *RedisCache {
	return &RedisCache{rdb: rdb}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("maps.RedisCache.Get: %w", err)
	}
	return b, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("maps.RedisCache.Set: %w", err)
	}
	return nil
}

// CachedRouter memoises successful route responses keyed by the request.
// Cache failures are logged and never fail a route call; errors from the
// upstream are never cached.
type CachedRouter struct {
	next   Router
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedRouter wraps next with cache. A non-positive ttl disables expiry.
func NewCachedRouter(next Router, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedRouter {
	return &CachedRouter{next: next, cache: cache, ttl: ttl, logger: logger}
}

// Route implements the service router contract.
func (r *CachedRouter) Route(ctx context.Context, req domain.RouteRequest) (domain.RouteResult, error) {
	key, err := routeCacheKey(req)
	if err != nil {
		return r.next.Route(ctx, req)
	}

	if raw, ok, err := r.cache.Get(ctx, key); err != nil {
		r.logger.WarnContext(ctx, "route cache read failed", "error", err)
	} else if ok {
		return domain.RouteResult{Raw: raw}, nil
	}

	res, err := r.next.Route(ctx, req)
	if err != nil {
		return domain.RouteResult{}, err
	}

	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := r.cache.Set(ctx, key, res.Raw, ttl); err != nil {
		r.logger.WarnContext(ctx, "route cache write failed", "error", err)
	}
	return res, nil
}

func routeCacheKey(req domain.RouteRequest) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return "route:" + hex.EncodeToString(sum[:]), nil
}
