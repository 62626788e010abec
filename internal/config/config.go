package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Store drivers accepted by StoreConfig.Driver.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMinIO    = "minio"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string `koanf:"host"`
	Port               string `koanf:"port"`
	User               string `koanf:"user"`
	Password           string `koanf:"password"`
	Name               string `koanf:"name"`
	SSLMode            string `koanf:"sslmode"`
	MaxOpenConns       int    `koanf:"max_open_conns"`
	MaxIdleConns       int    `koanf:"max_idle_conns"`
	ConnMaxLifetimeSec int    `koanf:"conn_max_lifetime_sec"`
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Bucket    string `koanf:"bucket"`
	UseSSL    bool   `koanf:"use_ssl"`
}

// StoreConfig selects the key-value backend behind the collections.
type StoreConfig struct {
	Driver     string `koanf:"driver"`
	SQLitePath string `koanf:"sqlite_path"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// AppConfig is the centralized configuration struct for the application.
type AppConfig struct {
	AppHost        string         `koanf:"app_host"`
	Port           string         `koanf:"port"`
	Timezone       string         `koanf:"timezone"`
	MaxUploadBytes int            `koanf:"max_upload_bytes"`
	Log            LogConfig      `koanf:"log"`
	Store          StoreConfig    `koanf:"store"`
	Database       DatabaseConfig `koanf:"database"`
	MinIO          MinIOConfig    `koanf:"minio"`
}

// envKeys maps environment variable names onto config keys.
var envKeys = map[string]string{
	"APP_HOST":                 "app_host",
	"PORT":                     "port",
	"TIMEZONE":                 "timezone",
	"MAX_UPLOAD_BYTES":         "max_upload_bytes",
	"LOG_LEVEL":                "log.level",
	"LOG_FORMAT":               "log.format",
	"STORE_DRIVER":             "store.driver",
	"SQLITE_PATH":              "store.sqlite_path",
	"DB_HOST":                  "database.host",
	"DB_PORT":                  "database.port",
	"DB_USER":                  "database.user",
	"DB_PASSWORD":              "database.password",
	"DB_NAME":                  "database.name",
	"DB_SSLMODE":               "database.sslmode",
	"DB_MAX_OPEN_CONNS":        "database.max_open_conns",
	"DB_MAX_IDLE_CONNS":        "database.max_idle_conns",
	"DB_CONN_MAX_LIFETIME_SEC": "database.conn_max_lifetime_sec",
	"MINIO_ENDPOINT":           "minio.endpoint",
	"MINIO_ACCESS_KEY":         "minio.access_key",
	"MINIO_SECRET_KEY":         "minio.secret_key",
	"MINIO_BUCKET":             "minio.bucket",
	"MINIO_USE_SSL":            "minio.use_ssl",
}

// Default returns the configuration used when nothing overrides it.
func Default() *AppConfig {
	return &AppConfig{
		AppHost:        "localhost:8080",
		Port:           "8080",
		Timezone:       "UTC",
		MaxUploadBytes: 10 * 1024 * 1024,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Store: StoreConfig{
			Driver:     DriverMemory,
			SQLitePath: "data/tradedesk.db",
		},
		Database: DatabaseConfig{
			Port:               "5432",
			SSLMode:            "disable",
			MaxOpenConns:       10,
			MaxIdleConns:       5,
			ConnMaxLifetimeSec: 300,
		},
	}
}

// Load builds the configuration from defaults, then the optional YAML file at path,
// then environment variables. A .env file can be auto-loaded by importing
// _ "github.com/joho/godotenv/autoload"; real environment variables take precedence.
// Empty environment variables are ignored.
func Load(path string) (*AppConfig, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return envKeys[key], value
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

var validDrivers = map[string]bool{
	DriverMemory:   true,
	DriverSQLite:   true,
	DriverPostgres: true,
	DriverMinIO:    true,
}

// Validate checks the values that cannot be defaulted.
func (c *AppConfig) Validate() error {
	c.Store.Driver = strings.ToLower(c.Store.Driver)
	if !validDrivers[c.Store.Driver] {
		return fmt.Errorf("invalid store driver %q: must be one of memory, sqlite, postgres, minio", c.Store.Driver)
	}
	if c.Store.Driver == DriverSQLite && c.Store.SQLitePath == "" {
		return fmt.Errorf("sqlite_path is required for the sqlite driver")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "UTC") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
