//go:build integration

package stores_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"paysieve/internal/testutil/containers"
	"paysieve/pkg/logger"
	"paysieve/pkg/stores"
)

type PostgresProviderSuite struct {
	suite.Suite
	prov stores.Provider
}

func TestPostgresProviderSuite(t *testing.T) {
	suite.Run(t, new(PostgresProviderSuite))
}

func (s *PostgresProviderSuite) SetupSuite() {
	pool := containers.NewPostgres(s.T())
	ctx := context.Background()
	s.Require().NoError(stores.EnsureSchema(ctx, pool))
	s.Require().NoError(stores.EnsureSchema(ctx, pool), "schema creation is repeatable")
	s.Require().NoError(stores.SeedFromEnv(ctx, pool,
		`[{"id":"11111111-1111-1111-1111-111111111111","slug":"alpha","host":"alpha.shop","name":"Alpha"}]`))
	s.prov = stores.NewPostgresProvider(pool, logger.Nop())
}

func (s *PostgresProviderSuite) TestResolve() {
	ctx := context.Background()
	byHost, err := s.prov.ResolveStoreByHost(ctx, "alpha.shop")
	s.Require().NoError(err)
	s.Equal("alpha", byHost.Slug)

	bySlug, err := s.prov.ResolveStoreByID(ctx, "alpha")
	s.Require().NoError(err)
	s.Equal(byHost, bySlug)

	_, err = s.prov.ResolveStoreByHost(ctx, "missing.shop")
	s.ErrorIs(err, stores.ErrNotFound)
}
