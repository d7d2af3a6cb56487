package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Log
	Log = zap.New(core)
	t.Cleanup(func() { Log = prev })
	return logs
}

func TestLogHTTPRequest_LevelByStatus(t *testing.T) {
	tests := []struct {
		status  int
		level   zapcore.Level
		message string
	}{
		{200, zapcore.InfoLevel, "HTTP request"},
		{405, zapcore.WarnLevel, "HTTP request client error"},
		{500, zapcore.ErrorLevel, "HTTP request failed"},
	}

	for _, tt := range tests {
		logs := observe(t)
		LogHTTPRequest("POST", "/send_email.php", tt.status, 0.01, zap.String("request_id", "abc"))

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, tt.level, entry.Level)
		assert.Equal(t, tt.message, entry.Message)
		assert.Equal(t, "/send_email.php", entry.ContextMap()["path"])
		assert.Equal(t, int64(tt.status), entry.ContextMap()["status"])
		assert.Equal(t, "abc", entry.ContextMap()["request_id"])
	}
}

func TestLogError(t *testing.T) {
	logs := observe(t)
	LogError(errors.New("relay down"), "Dispatch failed", zap.String("driver", "smtp"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "relay down", entry.ContextMap()["error"])
	assert.Equal(t, "smtp", entry.ContextMap()["driver"])
}

func TestInitialize(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	t.Run("rejects unknown level", func(t *testing.T) {
		err := Initialize(Config{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("development console", func(t *testing.T) {
		require.NoError(t, Initialize(Config{Level: "debug", Environment: "development"}))
		assert.True(t, Log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("production writes rotated files", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")
		require.NoError(t, Initialize(Config{Level: "info", LogDir: dir, Environment: "production", ServiceName: "contact-relay"}))
		assert.False(t, Log.Core().Enabled(zapcore.DebugLevel))

		Error("boom")
		Sync()

		_, err := os.Stat(filepath.Join(dir, "app.log"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "error.log"))
		assert.NoError(t, err)
	})
}
