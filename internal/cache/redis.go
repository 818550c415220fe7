package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProductTTL bounds staleness of cached catalog entries. Stock is only
// authoritative in the database; the cache serves storefront reads.
const ProductTTL = 5 * time.Minute

// ErrMiss is returned when a key is absent. Callers fall through to the store.
var ErrMiss = errors.New("cache: miss")

// Cache is a thin wrapper over a Redis client. A Cache with a nil client is
// valid and behaves as always-miss, so handlers never branch on whether
// Redis is configured.
type Cache struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// InitRedis connects to Redis at addr. An empty addr disables caching.
func InitRedis(addr string, logger *zap.Logger) (*Cache, error) {
	if addr == "" {
		logger.Info("redis disabled, catalog cache off")
		return &Cache{logger: logger}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("redis connection established", zap.String("addr", addr))
	return &Cache{rdb: rdb, logger: logger}, nil
}

// GetProduct loads a cached product into out. Returns ErrMiss when the key
// is absent or the client is disabled.
func (c *Cache) GetProduct(ctx context.Context, id string, out interface{}) error {
	if c == nil || c.rdb == nil {
		return ErrMiss
	}
	data, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// SetProduct stores a product under its id with ProductTTL.
func (c *Cache) SetProduct(ctx context.Context, id string, product interface{}) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productKey(id), data, ProductTTL).Err()
}

// InvalidateProduct drops a product entry after any write to it.
func (c *Cache) InvalidateProduct(ctx context.Context, id string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, productKey(id)).Err()
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}
