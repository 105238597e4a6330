package db

import (
	"context"
	"fmt"

	"frigora/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool connects to Postgres with the configured pool limits and verifies the
// connection with a ping bounded by the connect timeout.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	pingCtx := ctx
	if d := cfg.ConnectTimeout(); d > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

// PoolConfig parses the URL and overlays the non-zero limits from cfg.
func PoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse DATABASE_URL: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = min(cfg.MinConns, poolCfg.MaxConns)
	}
	if d := cfg.ConnectTimeout(); d > 0 {
		poolCfg.ConnConfig.ConnectTimeout = d
	}
	if d := cfg.MaxConnIdleTime(); d > 0 {
		poolCfg.MaxConnIdleTime = d
	}
	return poolCfg, nil
}
