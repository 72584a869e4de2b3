package config

import (
	"runtime"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 30 * time.Second
	DefaultServerWriteTimeout    = 60 * time.Second
	DefaultServerMaxBodySize     = 32 << 20
	DefaultServerShutdownTimeout = 15 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultProtonID          = "C00080"
	DefaultIdentifierPattern = `^C[0-9]{5}$`

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIORegion   = "us-east-1"
	DefaultMinIOBucket   = "netmodel"

	DefaultCacheMode   = "standalone"
	DefaultCacheAddr   = "localhost:6379"
	DefaultCachePrefix = "netmodel:"
	DefaultCacheTTL    = 15 * time.Minute

	DefaultEventsBroker       = "localhost:9092"
	DefaultEventsTopic        = "netmodel.runs"
	DefaultEventsAcks         = "one"
	DefaultEventsWriteTimeout = 10 * time.Second

	DefaultMetricsNamespace = "netmodel"
	DefaultMetricsPath      = "/metrics"
)

// DefaultMatchingWorkers is the number of comparison goroutines used when
// matching.workers is unset.
func DefaultMatchingWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// ApplyDefaults fills every zero-value field in cfg with its default. Fields
// already set by the caller are left unchanged.
//
// canonical.proton_id is not defaulted here: an explicit empty value disables
// proton elision, so its default is installed through viper instead.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}

	// ── Matching ──────────────────────────────────────────────────────────────
	if cfg.Matching.Workers == 0 {
		cfg.Matching.Workers = DefaultMatchingWorkers()
	}

	// ── Canonical ─────────────────────────────────────────────────────────────
	if cfg.Canonical.IdentifierPattern == "" {
		cfg.Canonical.IdentifierPattern = DefaultIdentifierPattern
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Region == "" {
		cfg.MinIO.Region = DefaultMinIORegion
	}
	if cfg.MinIO.DefaultBucket == "" {
		cfg.MinIO.DefaultBucket = DefaultMinIOBucket
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.Mode == "" {
		cfg.Cache.Mode = DefaultCacheMode
	}
	if len(cfg.Cache.Addrs) == 0 {
		cfg.Cache.Addrs = []string{DefaultCacheAddr}
	}
	if cfg.Cache.Prefix == "" {
		cfg.Cache.Prefix = DefaultCachePrefix
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}

	// ── Events ────────────────────────────────────────────────────────────────
	if len(cfg.Events.Brokers) == 0 {
		cfg.Events.Brokers = []string{DefaultEventsBroker}
	}
	if cfg.Events.Topic == "" {
		cfg.Events.Topic = DefaultEventsTopic
	}
	if cfg.Events.Acks == "" {
		cfg.Events.Acks = DefaultEventsAcks
	}
	if cfg.Events.WriteTimeout == 0 {
		cfg.Events.WriteTimeout = DefaultEventsWriteTimeout
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}
