// cmd/checkout-service/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"paysieve/internal/checkout"
	"paysieve/internal/host"
	"paysieve/pkg/config"
	"paysieve/pkg/db"
	"paysieve/pkg/logger"
	"paysieve/pkg/metrics"
	"paysieve/pkg/middleware"
)

func main() {
	// 1. Load configuration & initialize structured logger.
	cfg := config.Load()
	appLog := logger.New(cfg.Env).With("component", "checkout-service")
	defer func() { _ = appLog.Sync() }()

	// 2. Optional backing services; nil selects in-memory adapters.
	dbPool := db.MustConnect(cfg, appLog)
	rdb := db.MustRedis(cfg, appLog)

	// 3. Store directory, options, gateways, boot hooks and the restriction extension.
	h, err := host.New(context.Background(), cfg, appLog, dbPool, rdb, prometheus.DefaultRegisterer)
	if err != nil {
		appLog.Fatalw("host init", "err", err)
	}
	serverMetrics := metrics.NewServerMetrics(prometheus.DefaultRegisterer, "checkout")

	// 4. Build HTTP router and register middlewares.
	router := chi.NewRouter()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recover(appLog))
	router.Use(middleware.DebugWriteHeader(appLog))
	router.Use(middleware.Tracing("paysieve-checkout", appLog))
	router.Use(serverMetrics.Middleware)
	router.Use(middleware.WithStore(h.Stores))

	// 5. Basic operational endpoints.
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })
	router.Get("/metrics", metrics.Handler(nil).ServeHTTP)
	router.Get("/openapi.json", checkout.Document().ServeHandler("paysieve checkout", "1.0.0"))

	// 6. Cart and checkout routes.
	checkout.RegisterRoutes(router, h.Checkout, appLog)

	// 7. Configure and start HTTP server asynchronously.
	httpServer := &http.Server{Addr: cfg.CheckoutAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		appLog.Infow("checkout-service listening", "addr", cfg.CheckoutAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatalw("ListenAndServe", "err", err)
		}
	}()

	// 8. Wait for termination signal (SIGINT/SIGTERM) to begin graceful shutdown.
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	<-stopCh

	// 9. Graceful shutdown with timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	if rdb != nil {
		_ = rdb.Close()
	}
	if dbPool != nil {
		dbPool.Close()
	}
	appLog.Info("checkout-service stopped")
}
