package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kindlingapp/kindling-engine/internal/config"
	"github.com/redis/go-redis/v9"
)

// unreadTTL bounds staleness of the derived unread-count cache. The cache
// is invalidated on every message append and marker advance, so the TTL is
// only a safety net.
const unreadTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForUnreadCount generates the Redis key for a reader's unread count
// toward one peer.
func (c *RedisCache) KeyForUnreadCount(readerID, peerID string) string {
	return fmt.Sprintf("unread:count:%s:%s", readerID, peerID)
}

// GetUnreadCount returns (count, true) on a hit, (0, false) on a miss.
// The count stored here is always a value previously derived from the
// message log, never an independently mutated counter.
func (c *RedisCache) GetUnreadCount(ctx context.Context, readerID, peerID string) (int64, bool, error) {
	key := c.KeyForUnreadCount(readerID, peerID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat garbage as a miss
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, unreadTTL).Err()
	return n, true, nil
}

func (c *RedisCache) SetUnreadCount(ctx context.Context, readerID, peerID string, count int64) error {
	key := c.KeyForUnreadCount(readerID, peerID)
	return c.Client.Set(ctx, key, strconv.FormatInt(count, 10), unreadTTL).Err()
}

// InvalidateUnreadCount drops the cached value so the next read recomputes
// from the database. Called on every message append and marker advance.
func (c *RedisCache) InvalidateUnreadCount(ctx context.Context, readerID, peerID string) error {
	return c.Client.Del(ctx, c.KeyForUnreadCount(readerID, peerID)).Err()
}
