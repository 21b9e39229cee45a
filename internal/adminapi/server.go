package adminapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"paysieve/pkg/metrics"
	"paysieve/pkg/middleware"
)

// Handler builds the HTTP handler with routes and middleware.
func (a *App) Handler(m *metrics.ServerMetrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(a.log))
	r.Use(middleware.DebugWriteHeader(a.log))
	if m != nil {
		r.Use(m.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(cors(a.cors))
		ar.Use(a.auth)
		ar.Get("/store/self", a.getStoreSelf)
		ar.Get("/settings/containers", a.listContainers)
		ar.Get("/settings/options", a.listOptions)
		ar.Put("/settings/options/{name}", a.putOption)
		ar.Put("/settings/containers/{key}", a.putContainer)
		ar.Post("/settings/preview", a.previewGateways)
	})
	return r
}
