// Package config defines the configuration structures for netmodel. No I/O
// lives here, only plain data types and validation.
package config

import (
	"fmt"
	"regexp"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// MatchingConfig holds all-pairs comparison settings.
type MatchingConfig struct {
	// Workers bounds the number of goroutines comparing row shards.
	Workers int `mapstructure:"workers"`
	// SingleCompartment drops reactions whose equation carries no global
	// compartment prefix before comparison.
	SingleCompartment bool `mapstructure:"single_compartment"`
	// BooleanOnly drops the direction column from match records.
	BooleanOnly bool `mapstructure:"boolean_only"`
}

// CanonicalConfig holds canonical reaction builder settings.
type CanonicalConfig struct {
	// ProtonID is the identifier dropped from canonical reactions. Empty
	// disables elision.
	ProtonID string `mapstructure:"proton_id"`
	// IdentifierPattern selects which resolved identifiers are listed in the
	// metabolite section of a formatted model.
	IdentifierPattern string `mapstructure:"identifier_pattern"`
}

// MinIOConfig holds object storage connection parameters.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	DefaultBucket   string `mapstructure:"default_bucket"`
}

// CacheConfig holds the Redis match-result cache settings.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Mode     string        `mapstructure:"mode"` // "standalone" | "sentinel" | "cluster"
	Addrs    []string      `mapstructure:"addrs"`
	Master   string        `mapstructure:"master_name"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// EventsConfig holds the Kafka run-event publisher settings.
type EventsConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Brokers       []string      `mapstructure:"brokers"`
	Topic         string        `mapstructure:"topic"`
	Acks          string        `mapstructure:"acks"`        // "none" | "one" | "all"
	Compression   string        `mapstructure:"compression"` // "" | "gzip" | "snappy" | "lz4" | "zstd"
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	SASLMechanism string        `mapstructure:"sasl_mechanism"` // "" | "PLAIN" | "SCRAM-SHA-256" | "SCRAM-SHA-512"
	SASLUsername  string        `mapstructure:"sasl_username"`
	SASLPassword  string        `mapstructure:"sasl_password"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Canonical CanonicalConfig `mapstructure:"canonical"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Events    EventsConfig    `mapstructure:"events"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// NewDefaultConfig returns a Config populated entirely from defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{Canonical: CanonicalConfig{ProtonID: DefaultProtonID}}
	ApplyDefaults(cfg)
	return cfg
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config and
// returns the first error encountered.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Matching.Workers < 1 {
		return fmt.Errorf("config: matching.workers must be >= 1, got %d", c.Matching.Workers)
	}

	if _, err := regexp.Compile(c.Canonical.IdentifierPattern); err != nil {
		return fmt.Errorf("config: canonical.identifier_pattern: %w", err)
	}

	if c.Cache.Enabled {
		switch c.Cache.Mode {
		case "standalone", "sentinel", "cluster":
		default:
			return fmt.Errorf("config: cache.mode %q is invalid; expected standalone|sentinel|cluster", c.Cache.Mode)
		}
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("config: cache.addrs is required when the cache is enabled")
		}
		if c.Cache.Mode == "sentinel" && c.Cache.Master == "" {
			return fmt.Errorf("config: cache.master_name is required in sentinel mode")
		}
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("config: cache.ttl must be positive, got %s", c.Cache.TTL)
		}
	}

	if c.Events.Enabled {
		if len(c.Events.Brokers) == 0 {
			return fmt.Errorf("config: events.brokers is required when events are enabled")
		}
		if c.Events.Topic == "" {
			return fmt.Errorf("config: events.topic is required when events are enabled")
		}
		switch c.Events.Acks {
		case "none", "one", "all":
		default:
			return fmt.Errorf("config: events.acks %q is invalid; expected none|one|all", c.Events.Acks)
		}
		switch c.Events.Compression {
		case "", "gzip", "snappy", "lz4", "zstd":
		default:
			return fmt.Errorf("config: events.compression %q is invalid", c.Events.Compression)
		}
		switch c.Events.SASLMechanism {
		case "", "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
		default:
			return fmt.Errorf("config: events.sasl_mechanism %q is invalid", c.Events.SASLMechanism)
		}
	}

	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}

	return nil
}
