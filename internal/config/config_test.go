package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	for _, key := range []string{"PUBLIC_URL", "REDIS_ADDR", "REDIS_DB", "LOG_LEVEL", "QUIZ_CATALOG", "SESSION_TTL"} {
		t.Setenv(key, "")
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
  public_url: https://quiz.example.com/
redis:
  addr: localhost:6379
  db: 2
quiz:
  catalog: dice
  session_ttl: 5m
share:
  qr_size: 300
log:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "https://quiz.example.com/", cfg.Server.PublicURL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "dice", cfg.Quiz.Catalog)
	assert.Equal(t, "5m", cfg.Quiz.SessionTTL)
	assert.Equal(t, "10m", cfg.Quiz.TTL, "unset keys keep defaults")
	assert.Equal(t, 300, cfg.Share.QRSize)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("LOG_LEVEL", "warn")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "probability", cfg.Quiz.Catalog)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
redis:
  addr: localhost:6379
  db: 1
log:
  level: debug
`), 0o600))
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "4")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SESSION_TTL", "90s")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, 4, cfg.Redis.DB)
	assert.Equal(t, "debug", cfg.Log.Level, "empty env keeps the file value")
	assert.Equal(t, "90s", cfg.Quiz.SessionTTL)
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	t.Setenv("REDIS_DB", "abc")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env config")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestTTLDuration(t *testing.T) {
	assert.Equal(t, 2*time.Minute, TTLDuration("2m", time.Second))
	assert.Equal(t, time.Second, TTLDuration("", time.Second))
	assert.Equal(t, time.Second, TTLDuration("soon", time.Second))
}
