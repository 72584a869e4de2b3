package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return NewDefaultConfig()
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	t.Parallel()
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultProtonID, cfg.Canonical.ProtonID)
	assert.Equal(t, DefaultIdentifierPattern, cfg.Canonical.IdentifierPattern)
	assert.GreaterOrEqual(t, cfg.Matching.Workers, 1)
	assert.False(t, cfg.Matching.BooleanOnly)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"no workers", func(c *Config) { c.Matching.Workers = 0 }, "matching.workers"},
		{"bad pattern", func(c *Config) { c.Canonical.IdentifierPattern = "C[0-9" }, "canonical.identifier_pattern"},
		{"bad cache mode", func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.Mode = "replica"
		}, "cache.mode"},
		{"cache without addrs", func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.Addrs = nil
		}, "cache.addrs"},
		{"sentinel without master", func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.Mode = "sentinel"
		}, "cache.master_name"},
		{"cache without ttl", func(c *Config) {
			c.Cache.Enabled = true
			c.Cache.TTL = 0
		}, "cache.ttl"},
		{"events without brokers", func(c *Config) {
			c.Events.Enabled = true
			c.Events.Brokers = nil
		}, "events.brokers"},
		{"events without topic", func(c *Config) {
			c.Events.Enabled = true
			c.Events.Topic = ""
		}, "events.topic"},
		{"bad events acks", func(c *Config) {
			c.Events.Enabled = true
			c.Events.Acks = "two"
		}, "events.acks"},
		{"bad events compression", func(c *Config) {
			c.Events.Enabled = true
			c.Events.Compression = "brotli"
		}, "events.compression"},
		{"bad sasl mechanism", func(c *Config) {
			c.Events.Enabled = true
			c.Events.SASLMechanism = "GSSAPI"
		}, "events.sasl_mechanism"},
		{"metrics without namespace", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Namespace = ""
		}, "metrics.namespace"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	t.Parallel()
	cfg := &Config{
		Server:   ServerConfig{Port: 9090, Mode: "test"},
		Matching: MatchingConfig{Workers: 3},
		Log:      LogConfig{Level: "debug"},
	}
	ApplyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, 3, cfg.Matching.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
	assert.Equal(t, DefaultMinIOBucket, cfg.MinIO.DefaultBucket)
	assert.Empty(t, cfg.Canonical.ProtonID)
	assert.Equal(t, []string{DefaultCacheAddr}, cfg.Cache.Addrs)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{DefaultEventsBroker}, cfg.Events.Brokers)
	assert.Equal(t, DefaultEventsTopic, cfg.Events.Topic)
	assert.False(t, cfg.Events.Enabled)
}

func TestApplyDefaults_Nil(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}
