package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	AutoSave  AutoSaveConfig  `yaml:"autosave"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Log       LogConfig       `yaml:"log"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// CORSOrigins limits browser callers. Empty allows any origin.
	CORSOrigins []string `yaml:"cors_origins"`
}

// StorageConfig selects where drafts live. Database is only read for the
// postgres driver.
type StorageConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
	Migrations string `yaml:"migrations"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// AuthConfig holds the optional API key. When empty, write endpoints are
// open.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type AutoSaveConfig struct {
	Interval      time.Duration `yaml:"interval"`
	DraftTTL      time.Duration `yaml:"draft_ttl"`
	MaxFailures   int           `yaml:"max_failures"`
	SweepSchedule string        `yaml:"sweep_schedule"`
}

type CatalogConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// SlogLevel maps the configured level name to a slog.Level. Unknown names
// fall back to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix GYMOVOO_ and underscore-separated paths:
//
//	GYMOVOO_SERVER_HOST, GYMOVOO_SERVER_PORT, GYMOVOO_SERVER_CORS_ORIGINS,
//	GYMOVOO_STORAGE_DRIVER, GYMOVOO_SQLITE_PATH,
//	GYMOVOO_DB_HOST, GYMOVOO_DB_PORT, GYMOVOO_DB_NAME,
//	GYMOVOO_DB_USER, GYMOVOO_DB_PASSWORD, GYMOVOO_DB_SSLMODE,
//	GYMOVOO_AUTH_API_KEY, GYMOVOO_AUTOSAVE_INTERVAL, GYMOVOO_DRAFT_TTL,
//	GYMOVOO_CATALOG_PATH, GYMOVOO_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("GYMOVOO_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("GYMOVOO_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("GYMOVOO_SERVER_CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("GYMOVOO_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("GYMOVOO_SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}
	if v := os.Getenv("GYMOVOO_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("GYMOVOO_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("GYMOVOO_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("GYMOVOO_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("GYMOVOO_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("GYMOVOO_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("GYMOVOO_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("GYMOVOO_AUTOSAVE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GYMOVOO_AUTOSAVE_INTERVAL: %w", err)
		}
		cfg.AutoSave.Interval = d
	}
	if v := os.Getenv("GYMOVOO_DRAFT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GYMOVOO_DRAFT_TTL: %w", err)
		}
		cfg.AutoSave.DraftTTL = d
	}
	if v := os.Getenv("GYMOVOO_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("GYMOVOO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverSQLite
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "gymovoo.db"
	}
	if c.Storage.Migrations == "" {
		c.Storage.Migrations = "migrations"
	}
	if c.AutoSave.Interval == 0 {
		c.AutoSave.Interval = 30 * time.Second
	}
	if c.AutoSave.DraftTTL == 0 {
		c.AutoSave.DraftTTL = 24 * time.Hour
	}
	if c.AutoSave.MaxFailures == 0 {
		c.AutoSave.MaxFailures = 3
	}
	if c.AutoSave.SweepSchedule == "" {
		c.AutoSave.SweepSchedule = "@every 1h"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Tailscale.Hostname == "" {
		c.Tailscale.Hostname = "gymovoo"
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	switch c.Storage.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
	default:
		return fmt.Errorf("storage.driver %q is not one of sqlite, postgres, memory", c.Storage.Driver)
	}
	if c.AutoSave.Interval < time.Second {
		return fmt.Errorf("autosave.interval must be at least 1s")
	}
	if c.AutoSave.DraftTTL < c.AutoSave.Interval {
		return fmt.Errorf("autosave.draft_ttl must not be shorter than autosave.interval")
	}
	if c.AutoSave.MaxFailures < 0 {
		return fmt.Errorf("autosave.max_failures must not be negative")
	}
	return nil
}
