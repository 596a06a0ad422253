//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "vaxcert/pkg/domain"
	"vaxcert/pkg/platform/sentinel"
	"vaxcert/pkg/testutil/containers"
)

type RedisOwnerCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *RedisOwnerCache
}

func TestRedisOwnerCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisOwnerCacheSuite))
}

func (s *RedisOwnerCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisOwnerCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.Flush(context.Background()))
	s.cache = NewRedisOwnerCache(s.redis.Client, time.Minute)
}

func (s *RedisOwnerCacheSuite) TestMissReturnsNotFound() {
	_, err := s.cache.GetOwner(context.Background(), 1)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisOwnerCacheSuite) TestSetThenGet() {
	ctx := context.Background()
	s.Require().NoError(s.cache.SetOwner(ctx, 1, "GALICE"))

	owner, err := s.cache.GetOwner(ctx, 1)
	s.Require().NoError(err)
	s.Equal(id.Identity("GALICE"), owner)

	ttl, err := s.redis.Client.TTL(ctx, ownerKey(1)).Result()
	s.Require().NoError(err)
	s.Positive(ttl)
}

func (s *RedisOwnerCacheSuite) TestInvalidateDropsEntry() {
	ctx := context.Background()
	s.Require().NoError(s.cache.SetOwner(ctx, 2, "GALICE"))
	s.Require().NoError(s.cache.InvalidateOwner(ctx, 2))

	_, err := s.cache.GetOwner(ctx, 2)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisOwnerCacheSuite) TestInvalidateMissingKeyIsNoop() {
	s.NoError(s.cache.InvalidateOwner(context.Background(), 99))
}

func (s *RedisOwnerCacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	short := NewRedisOwnerCache(s.redis.Client, 50*time.Millisecond)
	s.Require().NoError(short.SetOwner(ctx, 3, "GALICE"))

	s.Eventually(func() bool {
		_, err := short.GetOwner(ctx, 3)
		return err == sentinel.ErrNotFound
	}, 2*time.Second, 20*time.Millisecond)
}
