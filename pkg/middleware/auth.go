// pkg/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"paysieve/pkg/problems"
	"paysieve/pkg/stores"
)

const (
	RoleStoreAdmin    = "store_admin"
	RolePlatformAdmin = "platform_admin"
)

// jwksCache caches JWKS sets per URL.
type jwksCache struct {
	mu   sync.RWMutex
	sets map[string]cachedJWKS
}

type cachedJWKS struct {
	set     jwk.Set
	expires time.Time
}

func (c *jwksCache) get(ctx context.Context, url string, ttl time.Duration) (jwk.Set, error) {
	c.mu.RLock()
	if e, ok := c.sets[url]; ok && time.Now().Before(e.expires) {
		c.mu.RUnlock()
		return e.set, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sets == nil {
		c.sets = map[string]cachedJWKS{}
	}
	if e, ok := c.sets[url]; ok && time.Now().Before(e.expires) {
		return e.set, nil
	}
	set, err := jwk.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	c.sets[url] = cachedJWKS{set: set, expires: time.Now().Add(ttl)}
	return set, nil
}

type AdminAuthConfig struct {
	Issuer   string
	Audience string
	JWKSURL  string
	// JWKSRefresh bounds how long a fetched key set is trusted (6h when zero).
	JWKSRefresh time.Duration
	// KeySet, when set, is used instead of fetching JWKSURL.
	KeySet jwk.Set
	Stores stores.Provider
}

// Principal is the authenticated administrator.
type Principal struct {
	Subject string
	Role    string
}

type ctxPrincipalKey struct{}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxPrincipalKey{}).(Principal)
	return p, ok
}

// AdminAuth authenticates administrators and binds the store they manage.
// Without a key set (no JWKS configured) the store is taken from X-Store-ID
// and no token is required.
func AdminAuth(cfg AdminAuthConfig) func(http.Handler) http.Handler {
	cache := &jwksCache{}
	jwksTTL := cfg.JWKSRefresh
	if jwksTTL <= 0 {
		jwksTTL = 6 * time.Hour
	}
	dev := cfg.KeySet == nil && cfg.JWKSURL == ""
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			header := strings.TrimSpace(r.Header.Get("X-Store-ID"))
			if dev {
				if header == "" {
					problems.Write(w, http.StatusBadRequest, "missing-store", "Missing store id", "X-Store-ID header is required")
					return
				}
				bindStore(w, r, next, cfg.Stores, header, Principal{Subject: "dev", Role: RolePlatformAdmin})
				return
			}

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				problems.Write(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token", "")
				return
			}
			set := cfg.KeySet
			if set == nil {
				var err error
				if set, err = cache.get(r.Context(), cfg.JWKSURL, jwksTTL); err != nil {
					problems.Write(w, http.StatusServiceUnavailable, "jwks", "Key set unavailable", "")
					return
				}
			}
			opts := []jwt.ParseOption{jwt.WithKeySet(set), jwt.WithValidate(true)}
			if cfg.Issuer != "" {
				opts = append(opts, jwt.WithIssuer(strings.TrimRight(cfg.Issuer, "/")))
			}
			if cfg.Audience != "" {
				opts = append(opts, jwt.WithAudience(cfg.Audience))
			}
			jt, err := jwt.Parse([]byte(strings.TrimSpace(authz[len("Bearer "):])), opts...)
			if err != nil {
				problems.Write(w, http.StatusUnauthorized, "unauthorized", "Invalid token", "")
				return
			}

			role := claimString(jt, "role")
			if role != RoleStoreAdmin && role != RolePlatformAdmin {
				problems.Write(w, http.StatusForbidden, "forbidden", "Administrator role required", "")
				return
			}
			sid := claimString(jt, "sid")
			// Platform administrators may address any store.
			if role == RolePlatformAdmin && header != "" {
				sid = header
			}
			if sid == "" {
				problems.Write(w, http.StatusBadRequest, "missing-store", "Missing store id", "token carries no sid claim")
				return
			}
			bindStore(w, r, next, cfg.Stores, sid, Principal{Subject: jt.Subject(), Role: role})
		})
	}
}

func bindStore(w http.ResponseWriter, r *http.Request, next http.Handler, prov stores.Provider, ref string, p Principal) {
	st, err := prov.ResolveStoreByID(r.Context(), ref)
	if errors.Is(err, stores.ErrNotFound) {
		st, err = prov.ResolveStoreByHost(r.Context(), ref)
	}
	if errors.Is(err, stores.ErrNotFound) {
		problems.Write(w, http.StatusNotFound, "unknown-store", "Unknown store", "")
		return
	}
	if err != nil {
		problems.Write(w, http.StatusServiceUnavailable, "store-lookup", "Store lookup failed", "")
		return
	}
	ctx := stores.WithStore(r.Context(), st)
	ctx = context.WithValue(ctx, ctxPrincipalKey{}, p)
	next.ServeHTTP(w, r.WithContext(ctx))
}

func claimString(jt jwt.Token, name string) string {
	v, ok := jt.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
