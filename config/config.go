package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Upload   UploadConfig   `yaml:"upload"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
// A non-empty DSN selects PostgreSQL; otherwise SQLitePath is used.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	SQLitePath             string `yaml:"sqlite_path"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogSQL                 bool   `yaml:"log_sql"`
}

// UploadConfig holds the photo storage configuration.
type UploadConfig struct {
	Dir       string `yaml:"dir"`
	MaxSizeMB int64  `yaml:"max_size_mb"`
}

// MaxBytes returns the upload ceiling in bytes.
func (u UploadConfig) MaxBytes() int64 {
	return u.MaxSizeMB << 20
}

// SweeperConfig holds the orphaned photo sweep configuration.
type SweeperConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Schedule     string        `yaml:"schedule"`
	GraceMinutes int           `yaml:"grace_minutes"`
	Grace        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			RateLimitPerSec: 10,
			RateLimitBurst:  5,
			CacheTTLSeconds: 300,
		},
		Database: DatabaseConfig{
			SQLitePath:             "teachers.db",
			MaxOpenConns:           10,
			MaxIdleConns:           5,
			ConnMaxLifetimeMinutes: 30,
		},
		Upload: UploadConfig{
			Dir:       "uploads",
			MaxSizeMB: 16,
		},
		Sweeper: SweeperConfig{
			Enabled:      true,
			Schedule:     "@every 1h",
			GraceMinutes: 30,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration from the given path, falling back to defaults
// when the file does not exist, and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
		log.Printf("config file %s not found; using defaults", path)
	default:
		return nil, err
	}

	// .env is optional and never overrides variables already set.
	_ = godotenv.Load()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	normalize(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.Upload.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid PORT: " + v)
		}
		cfg.Server.Port = port
	}
	return nil
}

func normalize(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "teachers.db"
	}
	if cfg.Upload.Dir == "" {
		cfg.Upload.Dir = "uploads"
	}
	if cfg.Upload.MaxSizeMB <= 0 {
		log.Printf("upload.max_size_mb is not set or invalid; defaulting to 16")
		cfg.Upload.MaxSizeMB = 16
	}
	if cfg.Sweeper.Schedule == "" {
		cfg.Sweeper.Schedule = "@every 1h"
	}
	if cfg.Sweeper.GraceMinutes <= 0 {
		cfg.Sweeper.GraceMinutes = 30
	}
	cfg.Sweeper.Grace = time.Duration(cfg.Sweeper.GraceMinutes) * time.Minute
}
