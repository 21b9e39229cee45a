// pkg/middleware/store.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"paysieve/pkg/problems"
	"paysieve/pkg/stores"
)

// localHosts resolve to the "localhost" store when they have no entry of their own.
var localHosts = map[string]bool{
	"127.0.0.1":            true,
	"host.docker.internal": true,
	"checkout":             true,
	"admin-api":            true,
}

// WithStore binds the store addressed by the X-Store-ID header, or else by
// the request host, to the request context.
func WithStore(prov stores.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/healthz", "/metrics", "/openapi.json":
				next.ServeHTTP(w, r)
				return
			}

			var (
				st  stores.Store
				err error
			)
			if id := strings.TrimSpace(r.Header.Get("X-Store-ID")); id != "" {
				st, err = prov.ResolveStoreByID(r.Context(), id)
			} else {
				st, err = resolveHost(r, prov)
			}
			if errors.Is(err, stores.ErrNotFound) {
				problems.Write(w, http.StatusNotFound, "unknown-store", "Unknown store", "")
				return
			}
			if err != nil {
				problems.Write(w, http.StatusServiceUnavailable, "store-lookup", "Store lookup failed", "")
				return
			}
			next.ServeHTTP(w, r.WithContext(stores.WithStore(r.Context(), st)))
		})
	}
}

func resolveHost(r *http.Request, prov stores.Provider) (stores.Store, error) {
	host := r.Host
	if i := strings.Index(host, ":"); i > 0 {
		host = host[:i]
	}
	st, err := prov.ResolveStoreByHost(r.Context(), host)
	if errors.Is(err, stores.ErrNotFound) && localHosts[host] {
		return prov.ResolveStoreByHost(r.Context(), "localhost")
	}
	return st, err
}
