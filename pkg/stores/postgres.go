// pkg/stores/postgres.go
package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// pgProvider implements Provider backed by PostgreSQL.
type pgProvider struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresProvider constructs a PostgreSQL-backed store provider.
func NewPostgresProvider(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Provider {
	return &pgProvider{dbPool: dbPool, log: log}
}

// EnsureSchema creates the stores table. Safe to call repeatedly.
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS stores (
  id uuid PRIMARY KEY,
  slug text UNIQUE NOT NULL,
  host text UNIQUE NOT NULL,
  name text NOT NULL DEFAULT '',
  created_at timestamptz NOT NULL DEFAULT NOW(),
  updated_at timestamptz NOT NULL DEFAULT NOW()
);
`)
	return err
}

// SeedFromEnv upserts stores from STORE_SEED_JSON:
// [{"id":"...","slug":"...","host":"...","name":"..."}]
func SeedFromEnv(ctx context.Context, dbPool *pgxpool.Pool, jsonSeed string) error {
	if jsonSeed == "" {
		return nil
	}
	var entries []seedEntry
	if err := json.Unmarshal([]byte(jsonSeed), &entries); err != nil {
		return fmt.Errorf("store seed: %w", err)
	}
	for _, e := range entries {
		if _, err := dbPool.Exec(ctx, `INSERT INTO stores(id,slug,host,name) VALUES ($1,$2,$3,$4)
		  ON CONFLICT (id) DO UPDATE SET slug=EXCLUDED.slug,host=EXCLUDED.host,name=EXCLUDED.name,updated_at=NOW()`,
			e.ID, e.Slug, e.Host, e.Name); err != nil {
			return fmt.Errorf("seed store %s: %w", e.Slug, err)
		}
	}
	return nil
}

func (p *pgProvider) ResolveStoreByHost(ctx context.Context, host string) (Store, error) {
	return p.scanOne(ctx, `SELECT id::text,slug,host,name FROM stores WHERE host=$1`, host)
}

// ResolveStoreByID accepts a uuid or a slug.
func (p *pgProvider) ResolveStoreByID(ctx context.Context, id string) (Store, error) {
	return p.scanOne(ctx, `SELECT id::text,slug,host,name FROM stores WHERE id::text=$1 OR slug=$1 LIMIT 1`, id)
}

func (p *pgProvider) scanOne(ctx context.Context, q, arg string) (Store, error) {
	var s Store
	err := p.dbPool.QueryRow(ctx, q, arg).Scan(&s.ID, &s.Slug, &s.Host, &s.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return Store{}, ErrNotFound
	}
	if err != nil {
		p.log.Warnw("store lookup", "err", err)
		return Store{}, err
	}
	return s, nil
}
