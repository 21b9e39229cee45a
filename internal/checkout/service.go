// Package checkout serves cart sessions and the payment methods offered for them.
package checkout

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"paysieve/internal/cart"
	"paysieve/internal/gateways"
	"paysieve/internal/hooks"
	"paysieve/pkg/logger"
)

// GatewaySource yields the store's enabled gateways for one computation.
type GatewaySource interface {
	Available() gateways.Available
}

type Service struct {
	boot     *hooks.Registry
	carts    cart.Store
	gateways GatewaySource
	log      *zap.SugaredLogger
}

// NewService takes the boot-time hook registry; every request works on a clone of it.
func NewService(boot *hooks.Registry, carts cart.Store, gws GatewaySource, log *zap.SugaredLogger) *Service {
	if boot == nil {
		boot = hooks.New()
	}
	return &Service{boot: boot, carts: carts, gateways: gws, log: logger.Named(log, "checkout")}
}

func (s *Service) CreateCart(ctx context.Context, storeID string) (*cart.Cart, error) {
	c := cart.New(storeID)
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Cart(ctx context.Context, storeID, cartID string) (*cart.Cart, error) {
	return s.carts.Get(ctx, storeID, cartID)
}

func (s *Service) AddItem(ctx context.Context, storeID, cartID string, productID, variationID int64, qty int) (*cart.Cart, error) {
	c, err := s.carts.Get(ctx, storeID, cartID)
	if err != nil {
		return nil, err
	}
	if _, err := c.Add(productID, variationID, qty); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

var ErrItemNotFound = errors.New("line item not found")

func (s *Service) RemoveItem(ctx context.Context, storeID, cartID, key string) (*cart.Cart, error) {
	c, err := s.carts.Get(ctx, storeID, cartID)
	if err != nil {
		return nil, err
	}
	if !c.Remove(key) {
		return nil, ErrItemNotFound
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// PaymentMethods computes the gateways offered for the cart session cartID.
// A missing or unreadable cart session yields the unfiltered gateways.
func (s *Service) PaymentMethods(ctx context.Context, storeID, cartID string) ([]gateways.Gateway, error) {
	var c *cart.Cart
	if cartID != "" {
		loaded, err := s.carts.Get(ctx, storeID, cartID)
		switch {
		case err == nil:
			c = loaded
		case errors.Is(err, cart.ErrNotFound):
		default:
			s.log.Warnw("cart load failed", "store", storeID, "cart", cartID, "err", err)
		}
	}
	return s.offer(ctx, c), nil
}

// Preview computes the gateways a cart holding productIDs would be offered.
func (s *Service) Preview(ctx context.Context, storeID string, productIDs []int64) []gateways.Gateway {
	c := &cart.Cart{ID: "preview", StoreID: storeID, Items: make([]cart.LineItem, 0, len(productIDs))}
	for _, id := range productIDs {
		c.Items = append(c.Items, cart.LineItem{ProductID: id, Quantity: 1})
	}
	return s.offer(ctx, c)
}

// offer runs the available-gateways filter on a clone of the boot hooks.
// Extensions see c through cart.Current and may install filters on the
// clone when the cart-loaded action fires.
func (s *Service) offer(ctx context.Context, c *cart.Cart) []gateways.Gateway {
	req := s.boot.Clone()
	if c != nil {
		ctx = cart.WithCurrent(ctx, c)
		hooks.DoAction(ctx, req, hooks.ActionCartLoaded, req)
	}
	available := hooks.ApplyFilters(ctx, req, hooks.FilterAvailableGateways, s.gateways.Available())
	return available.List()
}
