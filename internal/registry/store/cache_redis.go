package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "vaxcert/pkg/domain"
	"vaxcert/pkg/platform/sentinel"
)

const redisOwnerKeyPrefix = "vaxcert:owner:"

// RedisOwnerCache is a read-through cache for owner_of lookups. It never
// holds the source of truth; entries expire after ttl and are dropped when a
// mint or transfer commits.
type RedisOwnerCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisOwnerCache(client redis.Cmdable, ttl time.Duration) *RedisOwnerCache {
	return &RedisOwnerCache{client: client, ttl: ttl}
}

// GetOwner returns sentinel.ErrNotFound on a cache miss.
func (c *RedisOwnerCache) GetOwner(ctx context.Context, tokenID id.TokenID) (id.Identity, error) {
	owner, err := c.client.Get(ctx, ownerKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get cached owner: %w", err)
	}
	return id.Identity(owner), nil
}

func (c *RedisOwnerCache) SetOwner(ctx context.Context, tokenID id.TokenID, owner id.Identity) error {
	if err := c.client.Set(ctx, ownerKey(tokenID), owner.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached owner: %w", err)
	}
	return nil
}

func (c *RedisOwnerCache) InvalidateOwner(ctx context.Context, tokenID id.TokenID) error {
	if err := c.client.Del(ctx, ownerKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached owner: %w", err)
	}
	return nil
}

func ownerKey(tokenID id.TokenID) string {
	return redisOwnerKeyPrefix + tokenID.PaddedString()
}
