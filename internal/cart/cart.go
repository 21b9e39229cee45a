// Package cart keeps shopper cart sessions.
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("cart not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("product id must be positive")
)

type LineItem struct {
	Key         string `json:"key"`
	ProductID   int64  `json:"product_id"`
	VariationID int64  `json:"variation_id,omitempty"`
	Quantity    int    `json:"quantity"`
}

type Cart struct {
	ID        string     `json:"id"`
	StoreID   string     `json:"store_id"`
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func New(storeID string) *Cart {
	return &Cart{ID: uuid.NewString(), StoreID: storeID, Items: []LineItem{}, UpdatedAt: time.Now().UTC()}
}

// Add appends a line item, or bumps the quantity of an existing one for the same product and variation.
func (c *Cart) Add(productID, variationID int64, qty int) (LineItem, error) {
	if productID <= 0 {
		return LineItem{}, ErrInvalidProduct
	}
	if qty <= 0 {
		return LineItem{}, ErrInvalidQuantity
	}
	c.UpdatedAt = time.Now().UTC()
	for i, it := range c.Items {
		if it.ProductID == productID && it.VariationID == variationID {
			c.Items[i].Quantity += qty
			return c.Items[i], nil
		}
	}
	it := LineItem{Key: uuid.NewString(), ProductID: productID, VariationID: variationID, Quantity: qty}
	c.Items = append(c.Items, it)
	return it, nil
}

// Remove drops the line item with key; it reports whether one was removed.
func (c *Cart) Remove(key string) bool {
	for i, it := range c.Items {
		if it.Key == key {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}

// Store persists carts per store.
type Store interface {
	Get(ctx context.Context, storeID, id string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, storeID, id string) error
}

type ctxCartKey struct{}

// WithCurrent binds the cart loaded for this request.
func WithCurrent(ctx context.Context, c *Cart) context.Context {
	return context.WithValue(ctx, ctxCartKey{}, c)
}

// Current returns the cart bound to ctx; ok is false when no cart session was loaded.
func Current(ctx context.Context) (*Cart, bool) {
	c, ok := ctx.Value(ctxCartKey{}).(*Cart)
	return c, ok && c != nil
}

// ContextProvider exposes the request's cart to extensions.
type ContextProvider struct{}

func (ContextProvider) Current(ctx context.Context) (*Cart, bool) { return Current(ctx) }
