package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultMaxConnections = 4

// PostgresConfig holds the connection settings for the Postgres image store
type PostgresConfig struct {
	DSN            string
	MaxConnections int
}

// Validate checks that the configuration can be used to open a pool
func (c PostgresConfig) Validate() error {
	if c.DSN == "" {
		return errors.New("postgres dsn is required")
	}
	if c.MaxConnections < 0 {
		return errors.New("max connections cannot be negative")
	}
	return nil
}

const createOptionsTable = `
	CREATE TABLE IF NOT EXISTS options (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ
	)
`

// Connect opens a connection pool, pings it and makes sure the options table exists
func Connect(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	} else {
		poolConfig.MaxConns = defaultMaxConnections
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createOptionsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create options table: %w", err)
	}

	return pool, nil
}
