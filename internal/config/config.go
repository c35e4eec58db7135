// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/cafeops/orderdesk/pkg/logger"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig selects the order and menu store. An empty DSN keeps
// everything in memory.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_DSN"`
}

// AuthConfig carries the token verification secret.
type AuthConfig struct {
	Secret string `yaml:"secret" env:"AUTH_SECRET"`
}

// CORSConfig lists origins allowed to call the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
}

// RateLimitConfig throttles per-caller request rates.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" env:"RATELIMIT_ENABLED"`
	RequestsPerSecond int  `yaml:"requests_per_second" env:"RATELIMIT_RPS"`
	Burst             int  `yaml:"burst" env:"RATELIMIT_BURST"`
}

// RedisConfig configures the optional analytics cache. An empty address
// disables caching.
type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"REDIS_ADDR"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	TTL      time.Duration `yaml:"ttl" env:"REDIS_TTL"`
}

// ReporterConfig controls the periodic analytics report job.
type ReporterConfig struct {
	Enabled  bool   `yaml:"enabled" env:"REPORTER_ENABLED"`
	Schedule string `yaml:"schedule" env:"REPORTER_SCHEDULE"`
}

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig         `yaml:"server"`
	Database  DatabaseConfig       `yaml:"database"`
	Auth      AuthConfig           `yaml:"auth"`
	CORS      CORSConfig           `yaml:"cors"`
	RateLimit RateLimitConfig      `yaml:"ratelimit"`
	Redis     RedisConfig          `yaml:"redis"`
	Reporter  ReporterConfig       `yaml:"reporter"`
	Logging   logger.LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when neither file nor
// environment say otherwise.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		CORS: CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Redis: RedisConfig{TTL: 30 * time.Second},
		Reporter: ReporterConfig{
			Enabled:  true,
			Schedule: "@hourly",
		},
		Logging: logger.LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// Load starts from defaults, merges the YAML file at path (when
// non-empty and present), then applies environment overrides on top.
// Environment always wins.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// No defaults in the env tags: unset variables keep the file or
	// default values, and an empty environment is not an error.
	if err := envdecode.Decode(cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required (AUTH_SECRET)")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond < 1 {
		return fmt.Errorf("rate limit requests_per_second must be positive")
	}
	return nil
}
