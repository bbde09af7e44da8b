package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("From file with defaults", func(t *testing.T) {
		// Given: a config file with a few keys
		path := writeConfig(t, `
log-level: debug
socket-port: "7070"
allowed-origins:
  - https://tictactoe.example
redis:
  enabled: true
  host: redis
archive:
  ttl: 1h
`)

		// When: the config is loaded
		conf, err := Load(path)

		// Then: file values win and the rest is defaulted
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "7070", conf.SocketPort)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, []string{"https://tictactoe.example"}, conf.AllowedOrigins)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "redis:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, time.Hour, conf.Archive.TTL)
		assert.Equal(t, 100, conf.Archive.HistorySize)
		assert.Equal(t, int64(4096), conf.WebSocket.ReadLimit)
		assert.Equal(t, 60*time.Second, conf.WebSocket.PongWait)
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, "http-port: \"9000\"\n")
		t.Setenv("HTTP_PORT", "9191")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "9191", conf.HTTPPort)
	})

	t.Run("Environment only when there is no file", func(t *testing.T) {
		t.Setenv("SOCKET_PORT", "6060")
		t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.NoError(t, err)
		assert.Equal(t, "6060", conf.SocketPort)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, conf.AllowedOrigins)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, 64, conf.WebSocket.SendBuffer)
	})

	t.Run("Broken file", func(t *testing.T) {
		path := writeConfig(t, "log-level: [unclosed\n")

		_, err := Load(path)

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(path) })
	})
}
