//go:build integration

package selection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"groupdeck/pkg/testutil/containers"
)

type RedisStoreIntegrationSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisStore
}

func TestRedisStoreIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreIntegrationSuite))
}

func (s *RedisStoreIntegrationSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = NewRedisStore(s.redis.Client)
}

func (s *RedisStoreIntegrationSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreIntegrationSuite) TestLoad() {
	ctx := context.Background()

	s.Run("unknown panel returns empty without error", func() {
		domain, err := s.store.Load(ctx, "zones")
		s.NoError(err)
		s.Equal("", domain)
	})

	s.Run("saved selection round-trips", func() {
		s.Require().NoError(s.store.Save(ctx, "zones", "light"))

		domain, err := s.store.Load(ctx, "zones")
		s.NoError(err)
		s.Equal("light", domain)
	})
}

func (s *RedisStoreIntegrationSuite) TestSave() {
	ctx := context.Background()

	s.Run("save overwrites the previous selection", func() {
		s.Require().NoError(s.store.Save(ctx, "zones", "light"))
		s.Require().NoError(s.store.Save(ctx, "zones", "switch"))

		domain, err := s.store.Load(ctx, "zones")
		s.NoError(err)
		s.Equal("switch", domain)
	})

	s.Run("panels use distinct keys", func() {
		s.Require().NoError(s.store.Save(ctx, "zones", "light"))
		s.Require().NoError(s.store.Save(ctx, "tags", "cover"))

		domain, err := s.store.Load(ctx, "zones")
		s.NoError(err)
		s.Equal("light", domain)
	})
}
