package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS vendor_codes (
	brand       TEXT NOT NULL,
	sku         TEXT NOT NULL,
	vendor_code TEXT NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (brand, sku)
)`

// PGStore serves lookup tables from Postgres so new article mappings can be
// loaded without a redeploy.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.MaxConns = 4
	poolConfig.MaxConnIdleTime = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &PGStore{pool: pool}, nil
}

func (s *PGStore) Close() {
	s.pool.Close()
}

func (s *PGStore) Resolve(ctx context.Context, brand, sku string) (string, bool, error) {
	var code string
	err := s.pool.QueryRow(ctx,
		`SELECT vendor_code FROM vendor_codes WHERE brand = $1 AND sku = $2`,
		strings.ToLower(brand), strings.ToUpper(strings.TrimSpace(sku)),
	).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve vendor code: %w", err)
	}
	return code, true, nil
}

// Import upserts a batch of mappings for one brand.
func (s *PGStore) Import(ctx context.Context, brand string, entries map[string]string) error {
	batch := &pgx.Batch{}
	for sku, code := range entries {
		batch.Queue(
			`INSERT INTO vendor_codes (brand, sku, vendor_code) VALUES ($1, $2, $3)
			 ON CONFLICT (brand, sku) DO UPDATE SET vendor_code = EXCLUDED.vendor_code, updated_at = now()`,
			strings.ToLower(brand), strings.ToUpper(strings.TrimSpace(sku)), code,
		)
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to import vendor code: %w", err)
		}
	}
	return nil
}
