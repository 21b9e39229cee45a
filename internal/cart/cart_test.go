package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.ctx = context.Background()
}

func (s *MemoryStoreSuite) TestSaveAndGet() {
	c := New("store-1")
	_, err := c.Add(101, 0, 2)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Save(s.ctx, c))

	got, err := s.store.Get(s.ctx, "store-1", c.ID)
	s.Require().NoError(err)
	s.Equal(c.ID, got.ID)
	s.Require().Len(got.Items, 1)
	s.Equal(int64(101), got.Items[0].ProductID)

	s.Run("returned carts are copies", func() {
		got.Items[0].Quantity = 99
		again, err := s.store.Get(s.ctx, "store-1", c.ID)
		s.Require().NoError(err)
		s.Equal(2, again.Items[0].Quantity)
	})

	s.Run("scoped by store", func() {
		_, err := s.store.Get(s.ctx, "store-2", c.ID)
		s.ErrorIs(err, ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestDelete() {
	c := New("store-1")
	s.Require().NoError(s.store.Save(s.ctx, c))
	s.Require().NoError(s.store.Delete(s.ctx, "store-1", c.ID))
	s.ErrorIs(s.store.Delete(s.ctx, "store-1", c.ID), ErrNotFound)
	_, err := s.store.Get(s.ctx, "store-1", c.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *MemoryStoreSuite) TestAddMergesSameProduct() {
	c := New("store-1")
	first, err := c.Add(101, 0, 1)
	s.Require().NoError(err)
	merged, err := c.Add(101, 0, 3)
	s.Require().NoError(err)
	_, err = c.Add(101, 7, 1)
	s.Require().NoError(err)

	s.Equal(first.Key, merged.Key)
	s.Equal(4, merged.Quantity)
	s.Len(c.Items, 2)
}

func (s *MemoryStoreSuite) TestAddValidates() {
	c := New("store-1")
	_, err := c.Add(0, 0, 1)
	s.ErrorIs(err, ErrInvalidProduct)
	_, err = c.Add(5, 0, 0)
	s.ErrorIs(err, ErrInvalidQuantity)
	s.Empty(c.Items)
}

func (s *MemoryStoreSuite) TestRemove() {
	c := New("store-1")
	a, _ := c.Add(1, 0, 1)
	b, _ := c.Add(2, 0, 1)

	s.True(c.Remove(a.Key))
	s.False(c.Remove(a.Key))
	s.Require().Len(c.Items, 1)
	s.Equal(b.Key, c.Items[0].Key)
}

func (s *MemoryStoreSuite) TestCurrentFromContext() {
	_, ok := ContextProvider{}.Current(s.ctx)
	s.False(ok)

	_, ok = Current(WithCurrent(s.ctx, nil))
	s.False(ok)

	c := New("store-1")
	got, ok := ContextProvider{}.Current(WithCurrent(s.ctx, c))
	s.True(ok)
	s.Same(c, got)
}
