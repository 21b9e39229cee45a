package adminapi

import (
	"context"
	"net/http"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"go.uber.org/zap"

	"paysieve/internal/gateways"
	"paysieve/internal/settings"
	"paysieve/pkg/middleware"
	"paysieve/pkg/stores"
)

// Config holds admin-api specific configuration.
type Config struct {
	OIDCIssuer   string
	OIDCAudience string
	JWKSURL      string
	CORSOrigins  []string
	// KeySet overrides JWKSURL; tests use it to avoid network fetches.
	KeySet jwk.Set
}

// Previewer computes the gateways a hypothetical cart would be offered.
type Previewer interface {
	Preview(ctx context.Context, storeID string, productIDs []int64) []gateways.Gateway
}

// App is the admin-api application container.
// Handlers and middleware have methods on this type.
//
// Keep it lean: shared deps and config only.
// Request-scoped work (the managed store, the principal) travels in context.
type App struct {
	log     *zap.SugaredLogger
	options settings.Store
	fields  *settings.Registry
	stores  stores.Provider
	preview Previewer
	auth    func(http.Handler) http.Handler
	cors    []string
}

// New constructs App. The admin JWKS is fetched on first use and refreshed periodically.
func New(log *zap.SugaredLogger, options settings.Store, fields *settings.Registry, prov stores.Provider, preview Previewer, cfg Config) *App {
	if cfg.KeySet == nil && cfg.JWKSURL == "" {
		log.Warn("admin JWKS not configured; stores are selected with the X-Store-ID header")
	}
	return &App{
		log:     log,
		options: options,
		fields:  fields,
		stores:  prov,
		preview: preview,
		cors:    cfg.CORSOrigins,
		auth: middleware.AdminAuth(middleware.AdminAuthConfig{
			Issuer:   cfg.OIDCIssuer,
			Audience: cfg.OIDCAudience,
			JWKSURL:  cfg.JWKSURL,
			KeySet:   cfg.KeySet,
			Stores:   prov,
		}),
	}
}
