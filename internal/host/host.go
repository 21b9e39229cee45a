// Package host assembles the storefront runtime shared by the services: the
// store directory, option storage, gateway registry, boot hooks and the
// restriction extension.
package host

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"paysieve/internal/cart"
	"paysieve/internal/checkout"
	"paysieve/internal/gateways"
	"paysieve/internal/hooks"
	"paysieve/internal/restriction"
	"paysieve/internal/settings"
	"paysieve/pkg/config"
	"paysieve/pkg/stores"
)

type Host struct {
	Stores   stores.Provider
	Options  settings.Store
	Fields   *settings.Registry
	Gateways *gateways.Registry
	Hooks    *hooks.Registry
	Carts    cart.Store
	Checkout *checkout.Service
}

// New wires the runtime. A nil pool selects in-memory stores and option
// storage; a nil rdb keeps carts in memory and skips the option cache.
func New(ctx context.Context, cfg config.Config, log *zap.SugaredLogger, pool *pgxpool.Pool, rdb *redis.Client, reg prometheus.Registerer) (*Host, error) {
	h := &Host{Fields: settings.NewRegistry(), Hooks: hooks.New()}

	if pool != nil {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := stores.EnsureSchema(ctx, pool); err != nil {
			return nil, fmt.Errorf("stores schema: %w", err)
		}
		if err := stores.SeedFromEnv(ctx, pool, os.Getenv("STORE_SEED_JSON")); err != nil {
			log.Warnw("store seed failed", "err", err)
		}
		if err := settings.EnsureSchema(ctx, pool); err != nil {
			return nil, fmt.Errorf("settings schema: %w", err)
		}
		h.Stores = stores.NewPostgresProvider(pool, log)
		h.Options = settings.NewPostgresStore(pool)
	} else {
		log.Warnw("no DATABASE_URL: settings and stores are process-local and not shared between services")
		h.Stores = stores.NewMemoryProviderFromEnv(log)
		h.Options = settings.NewMemoryStore()
	}

	if rdb != nil {
		h.Options = settings.NewCachedStore(h.Options, rdb, cfg.SettingsCacheTTL, log)
		h.Carts = cart.NewRedisStore(rdb, cfg.CartTTL)
	} else {
		h.Carts = cart.NewMemoryStore()
	}

	gws, err := gateways.LoadFile(cfg.GatewaysFile)
	if err != nil {
		return nil, err
	}
	h.Gateways = gws

	// The option reader is only handed to the extension when the fields
	// framework is loaded.
	var options restriction.OptionReader
	if cfg.FieldsEnabled {
		options = settings.NewReader(h.Options)
	}
	restriction.New(restriction.Options{
		CommerceActive: cfg.CommerceEnabled,
		Options:        options,
		Carts:          cart.ContextProvider{},
		Gateways:       h.Gateways,
		Log:            log,
		Metrics:        restriction.NewMetrics(reg),
	}).Attach(h.Hooks)

	if cfg.FieldsEnabled {
		hooks.DoAction(ctx, h.Hooks, hooks.ActionFieldsRegister, h.Fields)
	}

	h.Checkout = checkout.NewService(h.Hooks, h.Carts, h.Gateways, log)
	log.Infow("host ready",
		"gateways", len(h.Gateways.PaymentGateways()),
		"commerce", cfg.CommerceEnabled,
		"fields", cfg.FieldsEnabled,
		"persistent", pool != nil,
	)
	return h, nil
}
