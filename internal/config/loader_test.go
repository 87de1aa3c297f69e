package config

import (
	"context"
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
  cors_origins: ["https://dash.example.com"]
dataset:
  source: file
  path: /data/patents.csv
  encoding: shift_jis
  top_n: 5
upload:
  max_bytes: 1048576
  ttl: 10m
redis:
  addr: redis:6379
log:
  level: debug
  format: text
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	cfg, err := Load(WithConfigPath(createTempConfigFile(t, validConfigYAML)))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://dash.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, DatasetSourceFile, cfg.Dataset.Source)
	assert.Equal(t, "shift_jis", cfg.Dataset.Encoding)
	assert.Equal(t, 5, cfg.Dataset.TopN)
	assert.True(t, cfg.Dataset.StripPrefix)
	assert.False(t, cfg.Upload.StripPrefix)
	assert.Equal(t, 10*time.Minute, cfg.Upload.TTL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_FileOverridesStripPrefix(t *testing.T) {
	path := createTempConfigFile(t, "dataset:\n  strip_prefix: false\nupload:\n  strip_prefix: true\n")
	cfg, err := Load(WithConfigPath(path))
	require.NoError(t, err)
	assert.False(t, cfg.Dataset.StripPrefix)
	assert.True(t, cfg.Upload.StripPrefix)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := Load(WithConfigPath(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.ErrorIs(t, err, ErrConfigFileNotFound)
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	_, err := Load(WithConfigPath(createTempConfigFile(t, "invalid_yaml: [")))
	assert.ErrorIs(t, err, ErrConfigParseError)
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	_, err := Load(WithConfigPath(createTempConfigFile(t, "log:\n  level: loud\n")))
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("KEYIPDASH_SERVER_PORT", "7070")
	t.Setenv("KEYIPDASH_DATASET_SOURCE", "file")
	t.Setenv("KEYIPDASH_DATASET_PATH", "/srv/patents.csv")
	t.Setenv("KEYIPDASH_DATASET_STRIP_PREFIX", "false")
	t.Setenv("KEYIPDASH_UPLOAD_TTL", "5m")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/srv/patents.csv", cfg.Dataset.Path)
	assert.False(t, cfg.Dataset.StripPrefix)
	assert.Equal(t, 5*time.Minute, cfg.Upload.TTL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("KEYIPDASH_DATASET_TOP_N", "3")
	cfg, err := Load(WithConfigPath(createTempConfigFile(t, validConfigYAML)))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Dataset.TopN)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(WithConfigPath("/nonexistent/keyipdash.yaml")) })
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	require.NoError(t, Watch(ctx, path, func(c *Config) { changes <- c }, nil))

	updated := []byte(validConfigYAML + "metrics:\n  namespace: reloaded\n")
	require.NoError(t, os.WriteFile(path, updated, 0o644))

	select {
	case cfg := <-changes:
		assert.Equal(t, "reloaded", cfg.Metrics.Namespace)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"), func(*Config) {}, nil)
	assert.ErrorIs(t, err, ErrConfigFileNotFound)
}

//Personal.AI order the ending
