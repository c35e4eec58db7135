// Package rediscache provides a Redis-backed cache for computed
// analytics series. Failures degrade to cache misses so a broken Redis
// never fails dashboard reads.
package rediscache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/cafeops/orderdesk/internal/app/services/analytics"
	"github.com/cafeops/orderdesk/pkg/logger"
)

const keyPrefix = "orderdesk:analytics:"

// Cache implements analytics.Cache on Redis with a short TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

var _ analytics.Cache = (*Cache)(nil)

// New connects to Redis and verifies the connection.
func New(addr, password string, ttl time.Duration, log *logger.Logger) (*Cache, error) {
	if log == nil {
		log = logger.NewDefault("rediscache")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Cache{client: client, ttl: ttl, log: log}, nil
}

// Get implements analytics.Cache.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).Debug("cache read failed")
		}
		return nil, false
	}
	return raw, true
}

// Set implements analytics.Cache.
func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
		c.log.WithError(err).Debug("cache write failed")
	}
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
