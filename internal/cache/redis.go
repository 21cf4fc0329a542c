package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is a Cache backed by a redis server.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis connects to the redis server at addr.
func NewRedis(logger *zap.Logger, addr string, ttl time.Duration) *Redis {
	return NewRedisWithOptions(logger, &redis.Options{Addr: addr}, ttl)
}

// NewRedisWithOptions builds a Redis cache from explicit client options. A
// non-positive ttl selects DefaultTTL.
func NewRedisWithOptions(logger *zap.Logger, opts *redis.Options, ttl time.Duration) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: redis.NewClient(opts), ttl: ttl, logger: logger}
}

// Ping checks that the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns the cached value. Backend errors are logged and reported as a
// miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.logger.Warn("redis get failed",
			zap.String("op", "cache.Redis.Get"),
			zap.Error(err),
		)
		return nil, false
	}
	return val, true
}

// Set stores value with the cache TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	return r.client.Close()
}
