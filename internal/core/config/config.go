package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/aevon-lab/project-tally/internal/core/fingerprint"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "TALLY_"

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	CacheNone  = "none"
	CacheLRU   = "lru"
	CacheRedis = "redis"
)

// Config represents the top-level application config.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Store         StoreConfig         `koanf:"store"`
	Idempotency   IdempotencyConfig   `koanf:"idempotency"`
	Normalization NormalizationConfig `koanf:"normalization"`
	Log           LogConfig           `koanf:"log"`
}

type ServerConfig struct {
	Port          int             `koanf:"port"`
	Host          string          `koanf:"host"`
	MaxBodySizeMB int             `koanf:"max_body_size_mb"`
	Mode          string          `koanf:"mode"` // debug | release
	RateLimit     RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig is a per-IP token bucket. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

type StoreConfig struct {
	Type            string        `koanf:"type"` // memory | postgres
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type IdempotencyConfig struct {
	FingerprintMode string      `koanf:"fingerprint_mode"` // verbatim | sorted
	Cache           string      `koanf:"cache"`            // none | lru | redis
	LRUSize         int         `koanf:"lru_size"`
	Redis           RedisConfig `koanf:"redis"`
}

type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

type NormalizationConfig struct {
	// RulesPath points at a YAML rules file. Empty uses built-in rules.
	RulesPath string `koanf:"rules_path"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug | info | warn | error
	Format string `koanf:"format"` // text | json
}

// Addr returns host:port for the HTTP listener.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SlogLevel maps the configured level name onto slog.
func (c LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}
	if c.Server.RateLimit.RPS < 0 {
		return fmt.Errorf("server.rate_limit.rps must be >= 0")
	}
	if c.Server.RateLimit.RPS > 0 && c.Server.RateLimit.Burst <= 0 {
		return fmt.Errorf("server.rate_limit.burst must be > 0 when rate limiting is enabled")
	}

	switch c.Store.Type {
	case StoreMemory:
	case StorePostgres:
		if strings.TrimSpace(c.Store.DSN) == "" {
			return fmt.Errorf("store.dsn is required for the postgres store")
		}
		if c.Store.MaxOpenConns <= 0 {
			return fmt.Errorf("store.max_open_conns must be > 0")
		}
		if c.Store.MaxIdleConns <= 0 {
			return fmt.Errorf("store.max_idle_conns must be > 0")
		}
	default:
		return fmt.Errorf("unsupported store.type %q (must be memory or postgres)", c.Store.Type)
	}

	if !fingerprint.ValidMode(fingerprint.Mode(c.Idempotency.FingerprintMode)) {
		return fmt.Errorf("invalid idempotency.fingerprint_mode %q (must be verbatim or sorted)", c.Idempotency.FingerprintMode)
	}

	switch c.Idempotency.Cache {
	case CacheNone:
	case CacheLRU:
		if c.Idempotency.LRUSize <= 0 {
			return fmt.Errorf("idempotency.lru_size must be > 0")
		}
	case CacheRedis:
		if strings.TrimSpace(c.Idempotency.Redis.Addr) == "" {
			return fmt.Errorf("idempotency.redis.addr is required for the redis cache")
		}
		if c.Idempotency.Redis.TTL <= 0 {
			return fmt.Errorf("idempotency.redis.ttl must be > 0")
		}
		// A redis cache outlives the memory store and would report events
		// from a previous process as already committed.
		if c.Store.Type == StoreMemory {
			return fmt.Errorf("idempotency.cache redis requires store.type postgres")
		}
	default:
		return fmt.Errorf("unsupported idempotency.cache %q (must be none, lru or redis)", c.Idempotency.Cache)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q (must be text or json)", c.Log.Format)
	}

	return nil
}

// Load parses config from defaults, an optional YAML file and TALLY_* env vars,
// then validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                  3001,
		"server.host":                  "0.0.0.0",
		"server.max_body_size_mb":      1,
		"server.mode":                  "release",
		"server.rate_limit.rps":        0,
		"server.rate_limit.burst":      20,
		"store.type":                   StoreMemory,
		"store.dsn":                    "",
		"store.max_open_conns":         25,
		"store.max_idle_conns":         25,
		"store.conn_max_lifetime":      "5m",
		"store.auto_migrate":           true,
		"idempotency.fingerprint_mode": string(fingerprint.ModeVerbatim),
		"idempotency.cache":            CacheLRU,
		"idempotency.lru_size":         10000,
		"idempotency.redis.addr":       "",
		"idempotency.redis.password":   "",
		"idempotency.redis.db":         0,
		"idempotency.redis.ttl":        "24h",
		"normalization.rules_path":     "",
		"log.level":                    "info",
		"log.format":                   "text",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
