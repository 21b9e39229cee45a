//go:build integration

package settings_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"paysieve/internal/settings"
	"paysieve/internal/testutil/containers"
	"paysieve/pkg/logger"
)

type StoreIntegrationSuite struct {
	suite.Suite
	pg     *settings.PostgresStore
	cached *settings.CachedStore
	rdb    *redis.Client
}

// interleavedStore runs during once, after its first source read returns.
type interleavedStore struct {
	settings.Store
	once   sync.Once
	during func()
}

func (s *interleavedStore) Get(ctx context.Context, storeID, name string) ([]byte, error) {
	b, err := s.Store.Get(ctx, storeID, name)
	s.once.Do(s.during)
	return b, err
}

func TestStoreIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(StoreIntegrationSuite))
}

func (s *StoreIntegrationSuite) SetupSuite() {
	pool := containers.NewPostgres(s.T())
	s.Require().NoError(settings.EnsureSchema(context.Background(), pool))
	s.Require().NoError(settings.EnsureSchema(context.Background(), pool))
	s.pg = settings.NewPostgresStore(pool)
	s.rdb = containers.NewRedis(s.T())
	s.cached = settings.NewCachedStore(s.pg, s.rdb, time.Minute, logger.Nop())
}

func (s *StoreIntegrationSuite) TestPostgresRoundTrip() {
	ctx := context.Background()
	_, err := s.pg.Get(ctx, "store-a", "methods")
	s.Require().ErrorIs(err, settings.ErrNotFound)

	s.Require().NoError(s.pg.Put(ctx, "store-a", "methods", []byte(`["cod"]`)))
	s.Require().NoError(s.pg.Put(ctx, "store-a", "methods", []byte(`["cod","bacs"]`)))

	raw, err := s.pg.Get(ctx, "store-a", "methods")
	s.Require().NoError(err)
	s.JSONEq(`["cod","bacs"]`, string(raw))
}

func (s *StoreIntegrationSuite) TestCacheEvictedOnPut() {
	ctx := context.Background()
	s.Require().NoError(s.cached.Put(ctx, "store-b", "products", []byte(`[{"id":1}]`)))

	raw, err := s.cached.Get(ctx, "store-b", "products")
	s.Require().NoError(err)
	s.JSONEq(`[{"id":1}]`, string(raw))

	s.Require().NoError(s.cached.Put(ctx, "store-b", "products", []byte(`[{"id":2}]`)))
	raw, err = s.cached.Get(ctx, "store-b", "products")
	s.Require().NoError(err)
	s.JSONEq(`[{"id":2}]`, string(raw))

	_, err = s.cached.Get(ctx, "store-b", "missing")
	s.ErrorIs(err, settings.ErrNotFound)
}

func (s *StoreIntegrationSuite) TestPutDuringFillIsNotOverwritten() {
	ctx := context.Background()
	s.Require().NoError(s.pg.Put(ctx, "store-c", "methods", []byte(`["cod"]`)))

	src := &interleavedStore{Store: s.pg}
	cached := settings.NewCachedStore(src, s.rdb, time.Minute, logger.Nop())
	src.during = func() {
		s.Require().NoError(cached.Put(ctx, "store-c", "methods", []byte(`["bacs"]`)))
	}

	raw, err := cached.Get(ctx, "store-c", "methods")
	s.Require().NoError(err)
	s.JSONEq(`["cod"]`, string(raw))

	raw, err = cached.Get(ctx, "store-c", "methods")
	s.Require().NoError(err)
	s.JSONEq(`["bacs"]`, string(raw))
}
