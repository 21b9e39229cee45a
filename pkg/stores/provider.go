package stores

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store not found")

type Provider interface {
	// Resolve store from incoming host.
	ResolveStoreByHost(ctx context.Context, host string) (Store, error)
	// Resolve from id or slug.
	ResolveStoreByID(ctx context.Context, id string) (Store, error)
}

type ctxStoreKey struct{}

// WithStore binds a store to the request context.
func WithStore(ctx context.Context, s Store) context.Context {
	return context.WithValue(ctx, ctxStoreKey{}, s)
}

// FromContext returns the bound store; ok is false outside a store-scoped request.
func FromContext(ctx context.Context) (Store, bool) {
	s, ok := ctx.Value(ctxStoreKey{}).(Store)
	return s, ok
}
