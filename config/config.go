// Package config loads service settings from a TOML file, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all cashflow settings.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Storage    StorageConfig    `toml:"storage"`
	Simulation SimulationConfig `toml:"simulation"`
	Cache      CacheConfig      `toml:"cache"`
	Events     EventsConfig     `toml:"events"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port                int      `toml:"port"`
	CORSOrigins         []string `toml:"cors_origins"`
	ReadTimeoutSeconds  int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `toml:"write_timeout_seconds"`
}

// StorageConfig holds the SQLite path.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// SimulationConfig holds engine defaults.
type SimulationConfig struct {
	// Start is the default "YYYY-MM" for scenarios that do not set one.
	Start string `toml:"start"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend    string `toml:"backend"` // memory, redis, none
	RedisAddr  string `toml:"redis_addr,omitempty"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// EventsConfig enables Kafka publishing when brokers are set.
type EventsConfig struct {
	KafkaBrokers []string `toml:"kafka_brokers,omitempty"`
	Topic        string   `toml:"topic"`
}

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:                8080,
			CORSOrigins:         []string{"http://localhost:5173", "http://localhost:3000"},
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 15,
		},
		Storage: StorageConfig{
			DBPath: "cashflow.db",
		},
		Simulation: SimulationConfig{
			Start: "2026-01",
		},
		Cache: CacheConfig{
			Backend:    CacheMemory,
			TTLSeconds: 3600,
		},
		Events: EventsConfig{
			Topic: "simulation_completed",
		},
	}
}

// ReadTimeout and friends convert the second-valued settings.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Load reads the config file at path, returning defaults if it doesn't
// exist. An empty path skips the file. Environment overrides are applied
// afterwards, including any set by a .env file in the working directory.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config: %w", err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}

	if err := ApplyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides cfg from CASHFLOW_* variables read through getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("CASHFLOW_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CASHFLOW_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := getenv("CASHFLOW_DB"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := getenv("CASHFLOW_START"); v != "" {
		cfg.Simulation.Start = v
	}
	if v := getenv("CASHFLOW_CACHE"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := getenv("CASHFLOW_REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
		if getenv("CASHFLOW_CACHE") == "" {
			cfg.Cache.Backend = CacheRedis
		}
	}
	if v := getenv("CASHFLOW_KAFKA_BROKERS"); v != "" {
		cfg.Events.KafkaBrokers = splitList(v)
	}
	return nil
}

// Validate rejects settings the binaries cannot start with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend %q must be memory, redis or none", c.Cache.Backend)
	}
	if _, err := time.Parse("2006-01", c.Simulation.Start); err != nil {
		return fmt.Errorf("simulation.start %q must be YYYY-MM", c.Simulation.Start)
	}
	return nil
}

// Save writes the config to path.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
