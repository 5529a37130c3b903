package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by LinkCache.Get when the short code is absent.
var ErrCacheMiss = errors.New("cache miss")

// CachedLink is the ephemeral cache entry for a short code. It carries just
// enough metadata to serve a redirect and enqueue a click without touching
// the durable store. It is never authoritative: link mutations delete the
// entry, and every cache miss re-validates against the link store.
type CachedLink struct {
	DestinationURL string `json:"destination_url"`
	LinkID         string `json:"link_id"`
	OwnerID        string `json:"owner_id"`
}

// LinkCache maps short codes to cached link entries with independent expiry.
type LinkCache interface {
	Get(ctx context.Context, shortCode string) (*CachedLink, error)
	// Put stores entry under shortCode. A zero ttl means no expiry.
	Put(ctx context.Context, shortCode string, entry CachedLink, ttl time.Duration) error
	Delete(ctx context.Context, shortCode string) error
}

const cacheKeyPrefix = "url:"

type RedisLinkCache struct {
	rdb *redis.Client
}

func NewRedisLinkCache(rdb *redis.Client) *RedisLinkCache {
	return &RedisLinkCache{rdb: rdb}
}

func (c *RedisLinkCache) Get(ctx context.Context, shortCode string) (*CachedLink, error) {
	val, err := c.rdb.Get(ctx, cacheKeyPrefix+shortCode).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var entry CachedLink
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		// A corrupt entry is indistinguishable from a miss for the caller.
		return nil, ErrCacheMiss
	}
	return &entry, nil
}

func (c *RedisLinkCache) Put(ctx context.Context, shortCode string, entry CachedLink, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKeyPrefix+shortCode, data, ttl).Err()
}

func (c *RedisLinkCache) Delete(ctx context.Context, shortCode string) error {
	return c.rdb.Del(ctx, cacheKeyPrefix+shortCode).Err()
}

// NoopLinkCache is used when no cache backend is configured or reachable.
// Every lookup is a miss, so the link store serves all traffic.
type NoopLinkCache struct{}

func NewNoopLinkCache() *NoopLinkCache {
	return &NoopLinkCache{}
}

func (NoopLinkCache) Get(ctx context.Context, shortCode string) (*CachedLink, error) {
	return nil, ErrCacheMiss
}

func (NoopLinkCache) Put(ctx context.Context, shortCode string, entry CachedLink, ttl time.Duration) error {
	return nil
}

func (NoopLinkCache) Delete(ctx context.Context, shortCode string) error {
	return nil
}
