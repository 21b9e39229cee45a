package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore { return &PostgresStore{pool: pool} }

// EnsureSchema creates the store_options table if it doesn't exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS store_options (
  store_id TEXT NOT NULL,
  name TEXT NOT NULL,
  value JSONB NOT NULL DEFAULT '[]'::JSONB,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  PRIMARY KEY (store_id, name)
);
`)
	return err
}

func (p *PostgresStore) Get(ctx context.Context, storeID, name string) ([]byte, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx, `SELECT value::text FROM store_options WHERE store_id=$1 AND name=$2`, storeID, name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load option %s: %w", name, err)
	}
	return raw, nil
}

func (p *PostgresStore) Put(ctx context.Context, storeID, name string, value []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO store_options (store_id, name, value)
		VALUES ($1,$2,$3::jsonb)
		ON CONFLICT (store_id, name) DO UPDATE SET
		  value=EXCLUDED.value,
		  updated_at=NOW()
	`, storeID, name, string(value))
	if err != nil {
		return fmt.Errorf("save option %s: %w", name, err)
	}
	return nil
}
