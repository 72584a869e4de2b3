package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 9090
  mode: test
log:
  level: debug
  format: console
matching:
  workers: 4
  single_compartment: true
  boolean_only: true
canonical:
  proton_id: C00080
minio:
  endpoint: minio.local:9000
  default_bucket: models
metrics:
  enabled: true
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.Equal(t, DefaultServerReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Matching.Workers)
	assert.True(t, cfg.Matching.SingleCompartment)
	assert.True(t, cfg.Matching.BooleanOnly)
	assert.Equal(t, "C00080", cfg.Canonical.ProtonID)
	assert.Equal(t, DefaultIdentifierPattern, cfg.Canonical.IdentifierPattern)
	assert.Equal(t, "minio.local:9000", cfg.MinIO.Endpoint)
	assert.Equal(t, "models", cfg.MinIO.DefaultBucket)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, DefaultMetricsNamespace, cfg.Metrics.Namespace)
}

func TestLoad_EmptyProtonDisablesElision(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, "canonical:\n  proton_id: \"\"\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Canonical.ProtonID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "server: [unclosed"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "log:\n  level: loud\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("NETMODEL_MATCHING_WORKERS", "7")
	t.Setenv("NETMODEL_SERVER_PORT", "8181")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Matching.Workers)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NETMODEL_LOG_LEVEL", "warn")
	t.Setenv("NETMODEL_CANONICAL_PROTON_ID", "h")
	t.Setenv("NETMODEL_MATCHING_BOOLEAN_ONLY", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "h", cfg.Canonical.ProtonID)
	assert.True(t, cfg.Matching.BooleanOnly)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestLoadFromFile_EmptyPathUsesEnv(t *testing.T) {
	cfg, err := LoadFromFile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProtonID, cfg.Canonical.ProtonID)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "missing.yaml"), func(*Config) {}, nil)
	assert.Error(t, err)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	changed := make(chan string, 16)
	require.NoError(t, Watch(path, func(c *Config) {
		select {
		case changed <- c.Log.Level:
		default:
		}
	}, nil))

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))

	// A write may surface as several events; wait for the final content.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case level := <-changed:
			if level == "error" {
				return
			}
		case <-deadline:
			t.Fatal("config change was not observed")
		}
	}
}
