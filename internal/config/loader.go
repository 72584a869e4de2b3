package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "NETMODEL"

// newViper builds a Viper instance with YAML file type, NETMODEL_ env prefix,
// automatic env binding, and a "." → "_" key replacer so that nested keys like
// "matching.workers" resolve to "NETMODEL_MATCHING_WORKERS".
//
// Every key is registered with a default so that Unmarshal sees env-only
// overrides.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setViperDefaults(v)
	return v
}

func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.max_body_size", d.Server.MaxBodySize)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output_paths", d.Log.OutputPaths)

	v.SetDefault("matching.workers", d.Matching.Workers)
	v.SetDefault("matching.single_compartment", d.Matching.SingleCompartment)
	v.SetDefault("matching.boolean_only", d.Matching.BooleanOnly)

	v.SetDefault("canonical.proton_id", d.Canonical.ProtonID)
	v.SetDefault("canonical.identifier_pattern", d.Canonical.IdentifierPattern)

	v.SetDefault("minio.endpoint", d.MinIO.Endpoint)
	v.SetDefault("minio.access_key_id", "")
	v.SetDefault("minio.secret_access_key", "")
	v.SetDefault("minio.use_ssl", d.MinIO.UseSSL)
	v.SetDefault("minio.region", d.MinIO.Region)
	v.SetDefault("minio.default_bucket", d.MinIO.DefaultBucket)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.mode", d.Cache.Mode)
	v.SetDefault("cache.addrs", d.Cache.Addrs)
	v.SetDefault("cache.master_name", "")
	v.SetDefault("cache.username", "")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", d.Cache.DB)
	v.SetDefault("cache.prefix", d.Cache.Prefix)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("events.enabled", d.Events.Enabled)
	v.SetDefault("events.brokers", d.Events.Brokers)
	v.SetDefault("events.topic", d.Events.Topic)
	v.SetDefault("events.acks", d.Events.Acks)
	v.SetDefault("events.compression", "")
	v.SetDefault("events.write_timeout", d.Events.WriteTimeout)
	v.SetDefault("events.sasl_mechanism", "")
	v.SetDefault("events.sasl_username", "")
	v.SetDefault("events.sasl_password", "")

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.path", d.Metrics.Path)
}

// Load reads the YAML file at configPath, merges NETMODEL_* environment
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from NETMODEL_* environment variables and
// defaults, with no config file.
//
//	NETMODEL_<SECTION>_<FIELD>   e.g.  NETMODEL_MATCHING_WORKERS
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// LoadFromFile loads configPath when it is non-empty and falls back to
// LoadFromEnv otherwise.
func LoadFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	return Load(configPath)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the re-parsed Config
// whenever the file changes on disk. Callers apply only the subset of
// settings that is safe to change at runtime (the log level).
//
// An edit that fails to parse or validate is reported through onError and
// onChange is not called. onError may be nil.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad wraps Load and panics on error. Intended for main().
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
