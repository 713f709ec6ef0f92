package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{
			name: "console logger",
			cfg:  &Config{Level: "debug", Format: "console", Output: "stdout"},
		},
		{
			name: "json logger",
			cfg:  &Config{Level: "info", Format: "json", Output: "stderr"},
		},
		{
			name: "empty config falls back to defaults",
			cfg:  &Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, logger)
			logger.Info("startup check")
		})
	}
}

func TestNew_FileOutputRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")
	logger, err := New(&Config{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("catalog degraded")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "catalog degraded")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "catalog degraded", entry["msg"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNewSink_UnwritablePathFallsBackToStdout(t *testing.T) {
	sink := newSink(filepath.Join(t.TempDir(), "missing", "nested", "console.log"))
	assert.NotNil(t, sink)
}

func TestSync(t *testing.T) {
	logger, err := New(&Config{Level: "info", Format: "json", Output: filepath.Join(t.TempDir(), "console.log")})
	require.NoError(t, err)
	logger.Info("flushed")
	assert.NoError(t, Sync(logger))
}
