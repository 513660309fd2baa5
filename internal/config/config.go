// Package config loads and validates application configuration from an
// optional YAML file and environment variables.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backend names accepted by STORAGE_BACKEND and the CLI.
const (
	BackendMemory   = "memory"
	BackendCSV      = "csv"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Backends lists every supported storage backend, in display order.
var Backends = []string{BackendMemory, BackendCSV, BackendSQLite, BackendPostgres}

// Config holds all configuration values for the API server and CLI.
// Priority: environment > YAML file > env-default tags.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	CORS    CORSConfig    `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"15s"`
	// MaxBodyBytes caps request bodies; larger requests get 413.
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"SERVER_MAX_BODY_BYTES" env-default:"1048576"`
}

// StorageConfig selects and locates the task repository.
type StorageConfig struct {
	Backend    string `yaml:"backend"      env:"STORAGE_BACKEND" env-default:"memory"`
	CSVPath    string `yaml:"csv_path"     env:"CSV_PATH"        env-default:"tasks.csv"`
	SQLitePath string `yaml:"sqlite_path"  env:"SQLITE_PATH"     env-default:"tasks.db"`
	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	// Format is json or text.
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	// Origins is a comma-separated list of allowed origins.
	// Defaults to the Vite dev server.
	Origins string `yaml:"origins" env:"CORS_ORIGINS" env-default:"http://localhost:5173"`
}

// AllowedOrigins splits Origins into a trimmed slice, ignoring empty entries.
func (c CORSConfig) AllowedOrigins() []string {
	return splitCSV(c.Origins)
}

// Load reads configuration from a YAML file and environment variables.
// The file path comes from CONFIG_PATH, falling back to ./config.yaml. A
// missing file is only an error when CONFIG_PATH was set explicitly.
func Load() (Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return Config{}, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// Validate checks the rules that struct tags cannot express.
func (c *Config) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text (got %q)", c.Log.Format)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("SERVER_MAX_BODY_BYTES must be > 0 (got %d)", c.Server.MaxBodyBytes)
	}
	return nil
}

// Validate reports an unknown backend, or a postgres backend without
// DATABASE_URL.
func (s StorageConfig) Validate() error {
	if !slices.Contains(Backends, s.Backend) {
		return fmt.Errorf("STORAGE_BACKEND must be one of %s (got %q)", strings.Join(Backends, ", "), s.Backend)
	}
	if s.Backend == BackendPostgres && s.DatabaseURL == "" {
		return fmt.Errorf("required environment variables not set: DATABASE_URL")
	}
	return nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
