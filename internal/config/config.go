// Package config loads server settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Environment variables read by Load.
const (
	EnvAddr      = "FORMBUILDER_ADDR"
	EnvDBDriver  = "FORMBUILDER_DB_DRIVER"
	EnvDBDSN     = "FORMBUILDER_DB_DSN"
	EnvLogLevel  = "FORMBUILDER_LOG_LEVEL"
	EnvLogFormat = "FORMBUILDER_LOG_FORMAT"
	EnvLocale    = "FORMBUILDER_LOCALE"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Locale   string         `yaml:"locale"`
	Cache    CacheConfig    `yaml:"cache"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// AllowedOrigins feeds the websocket origin check.
	AllowedOrigins []string `yaml:"allowed_origins"`
	// AssetPrefix is where theme assets are served from.
	AssetPrefix string `yaml:"asset_prefix"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			AssetPrefix:  "/assets",
		},
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			DSN:          "file:formbuilder.db?_pragma=foreign_keys(1)",
			MaxOpenConns: 1,
		},
		Log:    LogConfig{Level: "info", Format: "text"},
		Locale: "pt-BR",
		Cache:  CacheConfig{Enabled: true},
	}
}

// Load reads path (when non-empty) over the defaults, applies environment
// overrides from getenv and validates the result. A nil getenv uses
// os.Getenv.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg.applyEnv(getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(target *string, key string) {
		if value := strings.TrimSpace(getenv(key)); value != "" {
			*target = value
		}
	}
	set(&c.Server.Addr, EnvAddr)
	set(&c.Database.Driver, EnvDBDriver)
	set(&c.Database.DSN, EnvDBDSN)
	set(&c.Log.Level, EnvLogLevel)
	set(&c.Log.Format, EnvLogFormat)
	set(&c.Locale, EnvLocale)
	if raw := strings.TrimSpace(getenv("FORMBUILDER_CACHE")); raw != "" {
		if enabled, err := strconv.ParseBool(raw); err == nil {
			c.Cache.Enabled = enabled
		}
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q must be %s or %s", c.Database.Driver, DriverSQLite, DriverPostgres))
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w", errors.Join(errs...))
}
