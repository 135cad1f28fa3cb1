package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViper_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v, err := NewViper("")
	require.NoError(t, err)

	cfg, err := New(v)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "gdrive_image_loader_images", cfg.Storage.OptionName)
	assert.Equal(t, "./driveimages.db", cfg.Storage.SQLite.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
}

func TestNewViper_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 9090
storage:
  driver: file
  file:
    path: /var/lib/driveimages/images.json
log:
  level: debug
  format: console
`)
	require.NoError(t, os.WriteFile(path, content, 0644))

	v, err := NewViper(path)
	require.NoError(t, err)

	cfg, err := New(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/driveimages/images.json", cfg.Storage.File.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestNewViper_MissingExplicitFile(t *testing.T) {
	_, err := NewViper(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNewViper_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DRIVEIMG_SERVER_PORT", "7070")
	t.Setenv("DRIVEIMG_STORAGE_DRIVER", "postgres")
	t.Setenv("DRIVEIMG_STORAGE_POSTGRES_DSN", "postgres://localhost/images")

	v, err := NewViper("")
	require.NoError(t, err)

	cfg, err := New(v)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://localhost/images", cfg.Storage.Postgres.DSN)
}

func TestNewViper_LegacySQLitePath(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SQLITE_DB_PATH", "/tmp/legacy.db")

	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := New(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/legacy.db", cfg.Storage.SQLite.Path)

	// The prefixed variable wins over the legacy one
	t.Setenv("DRIVEIMG_STORAGE_SQLITE_PATH", "/tmp/prefixed.db")
	v, err = NewViper("")
	require.NoError(t, err)
	cfg, err = New(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/prefixed.db", cfg.Storage.SQLite.Path)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{Port: 8080},
			Storage: StorageConfig{
				Driver:     DriverSQLite,
				OptionName: "images",
				SQLite:     SQLiteConfig{Path: "x.db"},
			},
			Log: LogConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "redis" }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) { c.Storage.SQLite.Path = "" }, wantErr: true},
		{name: "file without path", mutate: func(c *Config) { c.Storage.Driver = DriverFile }, wantErr: true},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Storage.Driver = DriverPostgres }, wantErr: true},
		{name: "empty option name", mutate: func(c *Config) { c.Storage.OptionName = "" }, wantErr: true},
		{name: "unknown log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
