package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dfryer1193/driveimages/images/domain"
	"github.com/dfryer1193/driveimages/shared/db"
)

var _ domain.ImageStore = (*SQLiteImageStore)(nil)

// SQLiteImageStore implements domain.ImageStore as a single named row in the options table
type SQLiteImageStore struct {
	db   *sql.DB
	name string
}

// NewSQLiteImageStore creates a store that keeps the registry under optionName.
// An empty optionName uses DefaultOptionName.
func NewSQLiteImageStore(sqlDB *sql.DB, optionName string) *SQLiteImageStore {
	if optionName == "" {
		optionName = DefaultOptionName
	}
	return &SQLiteImageStore{
		db:   sqlDB,
		name: optionName,
	}
}

const getOptionQuery = `
	SELECT value FROM options WHERE name = ?
`

// Load reads the registry blob; a missing row is an empty registry
func (s *SQLiteImageStore) Load(ctx context.Context) (*domain.Registry, error) {
	var value string
	executor := db.GetExecutor(ctx, s.db)
	err := executor.QueryRowContext(ctx, getOptionQuery, s.name).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewRegistry(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read option %s: %w", s.name, err)
	}

	return decodeRegistry([]byte(value))
}

const upsertOptionQuery = `
	INSERT INTO options (name, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
`

// Save replaces the registry blob within a transaction
func (s *SQLiteImageStore) Save(ctx context.Context, reg *domain.Registry) error {
	if reg == nil {
		return fmt.Errorf("registry cannot be nil")
	}

	value, err := encodeRegistry(reg)
	if err != nil {
		return err
	}

	return db.RunInTransaction(ctx, s.db, func(txCtx context.Context) error {
		executor := db.GetExecutor(txCtx, s.db)
		_, err := executor.ExecContext(txCtx, upsertOptionQuery,
			s.name,
			string(value),
			time.Now().UTC(),
		)

		if err != nil {
			return fmt.Errorf("failed to upsert option %s: %w", s.name, err)
		}

		return nil
	})
}
