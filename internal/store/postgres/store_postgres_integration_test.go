//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"storefront/internal/store"
	pgstore "storefront/internal/store/postgres"
	"storefront/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pool  *pgxpool.Pool
	store *pgstore.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()
	pg := containers.NewPostgresContainer(s.T())

	pool, err := pgxpool.New(ctx, pg.DSN)
	s.Require().NoError(err)
	s.pool = pool

	st, err := pgstore.NewWithPool(ctx, pool)
	s.Require().NoError(err)
	s.store = st
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE storefront_kv")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestGetMissingKey() {
	_, err := s.store.Get(context.Background(), "user")
	s.Require().ErrorIs(err, store.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpsertRoundTrip() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "token", "first"))
	s.Require().NoError(s.store.Set(ctx, "token", "second"))

	got, err := s.store.Get(ctx, "token")
	s.Require().NoError(err)
	s.Equal("second", got)
}

func (s *PostgresStoreSuite) TestRemove() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "cart", "[]"))
	s.Require().NoError(s.store.Remove(ctx, "cart"))

	_, err := s.store.Get(ctx, "cart")
	s.Require().ErrorIs(err, store.ErrNotFound)

	// Removing again is a no-op.
	s.Require().NoError(s.store.Remove(ctx, "cart"))
}
