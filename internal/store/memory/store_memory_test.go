package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"storefront/internal/store"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *Store
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = New()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) TestGetMissingKey() {
	_, err := s.store.Get(context.Background(), "token")
	s.Require().ErrorIs(err, store.ErrNotFound)
}

func (s *MemoryStoreSuite) TestSetThenGet() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "token", "abc"))

	got, err := s.store.Get(ctx, "token")
	s.Require().NoError(err)
	s.Equal("abc", got)
}

func (s *MemoryStoreSuite) TestSetOverwrites() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "cart", "[]"))
	s.Require().NoError(s.store.Set(ctx, "cart", `[{"quantity":1}]`))

	got, err := s.store.Get(ctx, "cart")
	s.Require().NoError(err)
	s.Equal(`[{"quantity":1}]`, got)
}

func (s *MemoryStoreSuite) TestRemove() {
	ctx := context.Background()

	s.Require().NoError(s.store.Set(ctx, "user", `{"id":1}`))
	s.Require().NoError(s.store.Remove(ctx, "user"))

	_, err := s.store.Get(ctx, "user")
	s.Require().ErrorIs(err, store.ErrNotFound)
}

func (s *MemoryStoreSuite) TestRemoveMissingKeyIsNoop() {
	s.Require().NoError(s.store.Remove(context.Background(), "never-set"))
}
