package isolate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1024, cfg.QueueSize)
	assert.Equal(t, 16, cfg.MaxIsolates)
	assert.Equal(t, CompressionNone, cfg.Compression)
	assert.Equal(t, 128, cfg.FunctionCacheSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"queue size", func(c *Config) { c.QueueSize = -1 }},
		{"max isolates", func(c *Config) { c.MaxIsolates = -1 }},
		{"compression", func(c *Config) { c.Compression = "zstd" }},
		{"function cache", func(c *Config) { c.FunctionCacheSize = -1 }},
		{"logging", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("CORELIB_QUEUE_SIZE", "7")
	t.Setenv("CORELIB_COMPRESSION", "lz4")
	t.Setenv("CORELIB_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.QueueSize)
	assert.Equal(t, CompressionLz4, cfg.Compression)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 16, cfg.MaxIsolates)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corelib.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
queue_size: 64
compression: lz4
max_isolates: 4
logging:
  level: warn
  format: console
`), 0o600))
	t.Setenv("CORELIB_MAX_ISOLATES", "3")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.QueueSize)
	assert.Equal(t, CompressionLz4, cfg.Compression)
	assert.Equal(t, 3, cfg.MaxIsolates)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 128, cfg.FunctionCacheSize)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("compression: zstd\n"), 0o600))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}
