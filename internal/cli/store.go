package cli

import (
	"context"
	"fmt"

	"github.com/dfryer1193/driveimages/images/application"
	"github.com/dfryer1193/driveimages/images/domain"
	"github.com/dfryer1193/driveimages/images/persistence"
	"github.com/dfryer1193/driveimages/internal/config"
	"github.com/dfryer1193/driveimages/shared/db/postgres"
	"github.com/dfryer1193/driveimages/shared/db/sqlite"
	"github.com/rs/zerolog/log"
)

// openStore builds the ImageStore selected by storage.driver. The returned
// close func releases whatever connection the store holds.
func openStore(ctx context.Context, cfg config.StorageConfig) (domain.ImageStore, func(), error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.SQLite.Path})
		if err := database.Connect(); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to sqlite: %w", err)
		}
		closeDB := func() {
			if err := database.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close sqlite database")
			}
		}
		return persistence.NewSQLiteImageStore(database.DB(), cfg.OptionName), closeDB, nil

	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.PostgresConfig{
			DSN:            cfg.Postgres.DSN,
			MaxConnections: cfg.Postgres.MaxConnections,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return persistence.NewPostgresImageStore(pool, cfg.OptionName), pool.Close, nil

	case config.DriverFile:
		return persistence.NewFileImageStore(cfg.File.Path), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// withRegistry opens the configured store for the duration of fn
func (a *app) withRegistry(ctx context.Context, fn func(*application.Registry) error) error {
	store, closeStore, err := openStore(ctx, a.cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStore()

	return fn(application.NewRegistry(store))
}
