package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"paysieve/internal/adminapi"
	"paysieve/internal/host"
	"paysieve/pkg/config"
	pdb "paysieve/pkg/db"
	"paysieve/pkg/logger"
	"paysieve/pkg/metrics"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env).With("component", "admin-api")
	defer func() { _ = log.Sync() }()

	dbPool := pdb.MustConnect(cfg, log)
	rdb := pdb.MustRedis(cfg, log)

	h, err := host.New(context.Background(), cfg, log, dbPool, rdb, prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalw("host init", "err", err)
	}

	app := adminapi.New(log, h.Options, h.Fields, h.Stores, h.Checkout, adminapi.Config{
		OIDCIssuer:   cfg.AdminIssuer,
		OIDCAudience: cfg.AdminAudience,
		JWKSURL:      cfg.AdminJWKSURL,
		CORSOrigins:  cfg.AdminCORSOrigins,
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(nil))
	mux.Handle("/", app.Handler(metrics.NewServerMetrics(prometheus.DefaultRegisterer, "admin")))

	srv := &http.Server{Addr: cfg.AdminAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Infof("admin-api listening at %s", cfg.AdminAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	if rdb != nil {
		_ = rdb.Close()
	}
	if dbPool != nil {
		dbPool.Close()
	}
	log.Info("admin-api stopped")
}
