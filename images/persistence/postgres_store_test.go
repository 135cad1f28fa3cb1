package persistence

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// getTestPool connects to DRIVEIMG_TEST_POSTGRES_DSN, skipping the test when no database is reachable
func getTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DRIVEIMG_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("DRIVEIMG_TEST_POSTGRES_DSN not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Skipf("Could not connect to test database: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Skipf("Could not ping test database: %v", err)
	}

	_, err = pool.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS options (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ
		)
	`)
	if err != nil {
		pool.Close()
		t.Fatalf("Failed to create options table: %v", err)
	}

	return pool
}

func TestPostgresImageStore_SaveAndLoad(t *testing.T) {
	pool := getTestPool(t)
	defer pool.Close()

	const name = "driveimages_test_registry"
	ctx := context.Background()
	t.Cleanup(func() {
		pool.Exec(context.Background(), "DELETE FROM options WHERE name = $1", name)
	})

	store := NewPostgresImageStore(pool, name)

	empty, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if empty.Len() != 0 {
		t.Errorf("Len() = %d, want 0", empty.Len())
	}

	if err := store.Save(ctx, sampleRegistry()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	// Second save exercises the upsert path
	if err := store.Save(ctx, sampleRegistry()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reg, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	keys := reg.Keys()
	if len(keys) != 2 || keys[0] != "sunset" || keys[1] != "beach" {
		t.Errorf("Keys() = %v, want [sunset beach]", keys)
	}
}
