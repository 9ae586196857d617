// Package config loads the catalogue service configuration from defaults, an
// optional YAML file and CATALOG_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. CATALOG_DATABASE_DSN.
const EnvPrefix = "CATALOG"

// DefaultPath is read when no explicit path is given. It may be absent.
var DefaultPath = filepath.Join("config", "catalog.yaml")

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"rate_limit"`
	Uploads   UploadsConfig   `yaml:"uploads"`
	Store     StoreConfig     `yaml:"store"`
}

// ServerConfig controls the HTTP listener. AllowedOrigins lists the CORS
// origins; "*" allows any.
type ServerConfig struct {
	Host           string        `yaml:"host" envconfig:"host"`
	Port           int           `yaml:"port" envconfig:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout" envconfig:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout" envconfig:"write_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins" envconfig:"allowed_origins"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects the asset store. Driver "memory" needs no DSN.
type DatabaseConfig struct {
	Driver          string `yaml:"driver" envconfig:"driver"`
	DSN             string `yaml:"dsn" envconfig:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns" envconfig:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns" envconfig:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" envconfig:"conn_max_lifetime"`
	AutoMigrate     bool   `yaml:"auto_migrate" envconfig:"auto_migrate"`
}

// LoggingConfig mirrors logger.LoggingConfig.
type LoggingConfig struct {
	Level      string `yaml:"level" envconfig:"level"`
	Format     string `yaml:"format" envconfig:"format"`
	Output     string `yaml:"output" envconfig:"output"`
	FilePrefix string `yaml:"file_prefix" envconfig:"file_prefix"`
}

// AuthConfig holds the bearer token verification settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" envconfig:"jwt_secret"`
	Issuer    string `yaml:"issuer" envconfig:"issuer"`
}

// RateLimitConfig throttles callers per user id or remote address.
type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second" envconfig:"requests_per_second"`
	Burst             int `yaml:"burst" envconfig:"burst"`
}

// UploadsConfig configures the local upload sink.
type UploadsConfig struct {
	Dir      string `yaml:"dir" envconfig:"dir"`
	MaxBytes int64  `yaml:"max_bytes" envconfig:"max_bytes"`
}

// StoreConfig bounds every store call.
type StoreConfig struct {
	Timeout time.Duration `yaml:"timeout" envconfig:"timeout"`
}

// Default returns a configuration suitable for local development.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           5000,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:          "memory",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			AutoMigrate:     true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		Auth: AuthConfig{
			Issuer: "gassets",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Uploads: UploadsConfig{
			Dir:      "uploads",
			MaxBytes: 256 << 20,
		},
		Store: StoreConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// Load reads .env (if present), then the YAML file at path, then CATALOG_*
// variables. An empty path means DefaultPath, which may be missing; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks the fields that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch strings.ToLower(c.Database.Driver) {
	case "memory":
	case "postgres":
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver %q not supported (memory, postgres)", c.Database.Driver)
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive")
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit values must not be negative")
	}
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("uploads.max_bytes must be positive")
	}
	return nil
}
