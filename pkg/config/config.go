// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env          string
	CheckoutAddr string // checkout-service
	AdminAddr    string // admin-api-service

	// Redis & Postgres (empty -> in-memory adapters)
	RedisURL    string
	DatabaseURL string

	// Gateway registry (YAML); empty -> built-in defaults
	GatewaysFile string

	// Host capabilities the restriction plugin depends on
	CommerceEnabled bool
	FieldsEnabled   bool

	SettingsCacheTTL time.Duration
	CartTTL          time.Duration

	// Admin bearer validation (no JWKS -> dev header mode)
	AdminIssuer      string
	AdminAudience    string
	AdminJWKSURL     string
	AdminCORSOrigins []string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:              env("PAYSIEVE_ENV", "dev"),
		CheckoutAddr:     env("PAYSIEVE_CHECKOUT_ADDR", ":8080"),
		AdminAddr:        env("PAYSIEVE_ADMIN_ADDR", ":8082"),
		RedisURL:         env("REDIS_URL", ""),
		DatabaseURL:      env("DATABASE_URL", ""),
		GatewaysFile:     env("GATEWAYS_FILE", ""),
		CommerceEnabled:  envBool("COMMERCE_ENABLED", true),
		FieldsEnabled:    envBool("FIELDS_ENABLED", true),
		SettingsCacheTTL: envDur("SETTINGS_CACHE_TTL_SEC", 30) * time.Second,
		CartTTL:          envDur("CART_TTL_SEC", 48*60*60) * time.Second,
		AdminIssuer:      env("ADMIN_OIDC_ISSUER", ""),
		AdminAudience:    env("ADMIN_OIDC_AUDIENCE", "paysieve-admin"),
		AdminJWKSURL:     env("ADMIN_JWKS_URL", ""),
		AdminCORSOrigins: envList("ADMIN_CORS_ORIGINS", []string{"http://localhost:3001"}),
	}
	if cfg.DatabaseURL == "" {
		log.Println("[WARN] DATABASE_URL not set; using in-memory settings and store directory")
	}
	if cfg.RedisURL == "" {
		log.Println("[WARN] REDIS_URL not set; carts are kept in process memory")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return def
		}
		return b
	}
	return def
}
func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil || i < 0 {
			return time.Duration(def)
		}
		return time.Duration(i)
	}
	return time.Duration(def)
}
func envList(k string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
