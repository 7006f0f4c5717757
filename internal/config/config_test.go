package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("INSTANCE_ID", "admin-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "admin-1", cfg.InstanceID)
	assert.Equal(t, 8082, cfg.Server.Port)
	assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
	assert.Equal(t, ModeHTTP, cfg.API.Mode)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, CacheBackendRedis, cfg.Redis.Backend)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Features.EnableListCaching)
	assert.Equal(t, 100, cfg.Query.MaxPageSize)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("API_URL", "http://orders-api:3000")
	t.Setenv("API_TIMEOUT", "2s")
	t.Setenv("API_MODE", ModeMemory)
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("FEATURES_ENABLE_LIST_CACHING", "true")
	t.Setenv("REDIS_BACKEND", CacheBackendMemory)
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "http://orders-api:3000", cfg.API.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.API.Timeout)
	assert.Equal(t, ModeMemory, cfg.API.Mode)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Features.EnableListCaching)
	assert.Equal(t, CacheBackendMemory, cfg.Redis.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 7070
redis:
  host: cache
  ttl: 1m
features:
  enable_order_events: true
query:
  max_page_size: 25
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.True(t, cfg.Features.EnableOrderEvents)
	assert.Equal(t, 25, cfg.Query.MaxPageSize)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
