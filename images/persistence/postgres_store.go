package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/dfryer1193/driveimages/images/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ domain.ImageStore = (*PostgresImageStore)(nil)

// PostgresImageStore implements domain.ImageStore as a single named row in a Postgres options table
type PostgresImageStore struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgresImageStore creates a store that keeps the registry under optionName.
// An empty optionName uses DefaultOptionName.
func NewPostgresImageStore(pool *pgxpool.Pool, optionName string) *PostgresImageStore {
	if optionName == "" {
		optionName = DefaultOptionName
	}
	return &PostgresImageStore{
		pool: pool,
		name: optionName,
	}
}

const getOptionPGQuery = `
	SELECT value FROM options WHERE name = $1
`

// Load reads the registry blob; a missing row is an empty registry
func (s *PostgresImageStore) Load(ctx context.Context) (*domain.Registry, error) {
	var value string
	err := s.pool.QueryRow(ctx, getOptionPGQuery, s.name).Scan(&value)

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewRegistry(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read option %s: %w", s.name, err)
	}

	return decodeRegistry([]byte(value))
}

const upsertOptionPGQuery = `
	INSERT INTO options (name, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (name) DO UPDATE SET
		value = EXCLUDED.value,
		updated_at = EXCLUDED.updated_at
`

// Save replaces the registry blob
func (s *PostgresImageStore) Save(ctx context.Context, reg *domain.Registry) error {
	if reg == nil {
		return fmt.Errorf("registry cannot be nil")
	}

	value, err := encodeRegistry(reg)
	if err != nil {
		return err
	}

	if _, err := s.pool.Exec(ctx, upsertOptionPGQuery, s.name, string(value)); err != nil {
		return fmt.Errorf("failed to upsert option %s: %w", s.name, err)
	}

	return nil
}
