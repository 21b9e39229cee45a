package stores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paysieve/pkg/logger"
)

func TestMemoryProviderDevDefaults(t *testing.T) {
	t.Setenv("STORE_SEED_JSON", "")
	p := NewMemoryProviderFromEnv(logger.Nop())
	ctx := context.Background()

	s, err := p.ResolveStoreByHost(ctx, "localhost")
	require.NoError(t, err)
	assert.Equal(t, DevStoreID, s.ID)

	bySlug, err := p.ResolveStoreByID(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, DevStoreID, bySlug.ID)

	_, err = p.ResolveStoreByHost(ctx, "shop.unknown.example")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryProviderSeed(t *testing.T) {
	t.Setenv("STORE_SEED_JSON", `[{"id":"11111111-1111-1111-1111-111111111111","slug":"acme","host":"shop.acme.example","name":"Acme"}]`)
	p := NewMemoryProviderFromEnv(logger.Nop())

	s, err := p.ResolveStoreByHost(context.Background(), "shop.acme.example")
	require.NoError(t, err)
	assert.Equal(t, Store{ID: "11111111-1111-1111-1111-111111111111", Slug: "acme", Host: "shop.acme.example", Name: "Acme"}, s)

	_, err = p.ResolveStoreByHost(context.Background(), "localhost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContextBinding(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithStore(context.Background(), Store{ID: "s1"})
	s, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "s1", s.ID)
}
