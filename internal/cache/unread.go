package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// UnreadCachePrefix is the key prefix for per-user unread message counters
	UnreadCachePrefix = "unread:user:"

	// UnreadCacheTTL bounds staleness; an expired key is rebuilt from the DB
	UnreadCacheTTL = 24 * time.Hour
)

// UnreadCache tracks the unread private-message counter per user. The
// counter is a best-effort cache over the messages table: on any miss or
// error the service falls back to a COUNT query and repairs the key, so the
// cache never needs to be exactly right to keep the API correct.
type UnreadCache interface {
	// Increment bumps the counter if the key exists. A missing key stays
	// missing so the next read repopulates from the DB.
	Increment(ctx context.Context, userID int64) error

	// Get returns the cached count. found=false on a cache miss.
	Get(ctx context.Context, userID int64) (count int64, found bool, err error)

	// Set overwrites the counter with a DB-derived value.
	Set(ctx context.Context, userID int64, count int64) error

	// Invalidate drops the counter after reads change it (mark-read, delete).
	Invalidate(ctx context.Context, userID int64) error
}

// RedisUnreadCache implements UnreadCache on plain Redis strings.
type RedisUnreadCache struct {
	client *redis.Client
}

// NewUnreadCache creates an UnreadCache backed by Redis.
func NewUnreadCache(client *redis.Client) UnreadCache {
	return &RedisUnreadCache{client: client}
}

func unreadKey(userID int64) string {
	return fmt.Sprintf("%s%d", UnreadCachePrefix, userID)
}

func (c *RedisUnreadCache) Increment(ctx context.Context, userID int64) error {
	key := unreadKey(userID)

	// Only bump existing keys. INCR on a missing key would mint a counter of
	// 1 regardless of actual DB state.
	var incremented bool
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if exists == 0 {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, UnreadCacheTTL)
			return nil
		})
		incremented = err == nil
		return err
	}, key)
	if err != nil {
		log.Printf("[UnreadCache] Increment FAILED: user=%d err=%v", userID, err)
		return fmt.Errorf("increment unread counter: %w", err)
	}

	log.Printf("[UnreadCache] Increment: user=%d applied=%t", userID, incremented)
	return nil
}

func (c *RedisUnreadCache) Get(ctx context.Context, userID int64) (int64, bool, error) {
	key := unreadKey(userID)

	count, err := c.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		log.Printf("[UnreadCache] Get FAILED: user=%d err=%v", userID, err)
		return 0, false, fmt.Errorf("get unread counter: %w", err)
	}

	return count, true, nil
}

func (c *RedisUnreadCache) Set(ctx context.Context, userID int64, count int64) error {
	key := unreadKey(userID)

	if err := c.client.Set(ctx, key, count, UnreadCacheTTL).Err(); err != nil {
		log.Printf("[UnreadCache] Set FAILED: user=%d err=%v", userID, err)
		return fmt.Errorf("set unread counter: %w", err)
	}
	return nil
}

func (c *RedisUnreadCache) Invalidate(ctx context.Context, userID int64) error {
	key := unreadKey(userID)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Printf("[UnreadCache] Invalidate FAILED: user=%d err=%v", userID, err)
		return fmt.Errorf("invalidate unread counter: %w", err)
	}
	return nil
}
