package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dfryer1193/driveimages/images/persistence"
	"github.com/dfryer1193/driveimages/shared/db/sqlite"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "DRIVEIMG"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverFile     = "file"
)

// Config holds the complete application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig selects and configures the ImageStore backend
type StorageConfig struct {
	Driver     string         `mapstructure:"driver"`
	OptionName string         `mapstructure:"option_name"`
	SQLite     SQLiteConfig   `mapstructure:"sqlite"`
	File       FileConfig     `mapstructure:"file"`
	Postgres   PostgresConfig `mapstructure:"postgres"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type FileConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	DSN            string `mapstructure:"dsn"`
	MaxConnections int    `mapstructure:"max_connections"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.option_name", persistence.DefaultOptionName)
	v.SetDefault("storage.sqlite.path", sqlite.DefaultPath)
	v.SetDefault("storage.file.path", "./images.json")
	v.SetDefault("storage.postgres.dsn", "")
	v.SetDefault("storage.postgres.max_connections", 4)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// NewViper returns a viper instance with defaults, environment overrides and, if present, the config file.
// An explicit cfgFile must exist; otherwise ./configs/config.yaml and ./config.yaml are tried.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// SQLITE_DB_PATH is still honoured when the prefixed variable is unset
	if err := v.BindEnv("storage.sqlite.path", EnvPrefix+"_STORAGE_SQLITE_PATH", "SQLITE_DB_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind sqlite path env: %w", err)
	}

	return v, nil
}

// New decodes and validates the configuration held by v
func New(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("server.port must be between 1 and 65535")
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLite.Path == "" {
			return errors.New("storage.sqlite.path is required")
		}
	case DriverFile:
		if c.Storage.File.Path == "" {
			return errors.New("storage.file.path is required")
		}
	case DriverPostgres:
		if c.Storage.Postgres.DSN == "" {
			return errors.New("storage.postgres.dsn is required")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	if c.Storage.OptionName == "" {
		return errors.New("storage.option_name is required")
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}

	return nil
}
