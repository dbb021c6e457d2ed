package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   string
	}{
		{name: "text format", format: FormatText, want: "level=INFO"},
		{name: "json format", format: FormatJSON, want: `"level":"INFO"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(Config{Level: slog.LevelDebug, Format: tt.format, Output: &buf})
			logger.Info("test message")

			assert.Contains(t, buf.String(), tt.want)
			assert.NotContains(t, buf.String(), "time=")
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		debugShown bool
		infoShown  bool
		errorShown bool
	}{
		{"info", slog.LevelInfo, false, true, true},
		{"debug", slog.LevelDebug, true, true, true},
		{"error", slog.LevelError, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(Config{Level: tt.level, Output: &buf})

			logger.Debug("debug message")
			logger.Info("info message")
			logger.Error("error message")

			out := buf.String()
			assert.Equal(t, tt.debugShown, bytes.Contains([]byte(out), []byte("debug message")))
			assert.Equal(t, tt.infoShown, bytes.Contains([]byte(out), []byte("info message")))
			assert.Equal(t, tt.errorShown, bytes.Contains([]byte(out), []byte("error message")))
		})
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: slog.LevelError, Output: &buf})

	logger.Info("hidden")
	logger.SetLevel(slog.LevelInfo)
	logger.Info("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "visible")
}

func TestLoggerWithAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: slog.LevelInfo, Output: &buf})

	logger.With("component", "dispatcher").Info("dispatched")
	logger.WithGroup("remote").Info("posted", "endpoint", "/api/scan")

	assert.Contains(t, buf.String(), "component=dispatcher")
	assert.Contains(t, buf.String(), "remote.endpoint=/api/scan")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG", slog.LevelError))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning", slog.LevelError))
	assert.Equal(t, slog.LevelError, ParseLevel("", slog.LevelError))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense", slog.LevelInfo))
}

func TestComponentLoggers(t *testing.T) {
	var buf bytes.Buffer
	original := GetGlobalLogger()
	SetGlobalLogger(NewLogger(Config{Level: slog.LevelInfo, Output: &buf}))
	defer SetGlobalLogger(original)

	NewComponentLogger("history").Info("recorded")
	NewAPILogger("toolkit").Info("served")
	Info("global")

	out := buf.String()
	assert.Contains(t, out, "component=history")
	assert.Contains(t, out, "service=toolkit")
	assert.Contains(t, out, "global")
}

func TestNewFileLoggerFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netterm-debug.log")
	t.Setenv(envDebugFile, path)
	t.Setenv(envDebugLevel, "info")

	logger := NewFileLoggerFromEnv("unused.log")
	logger.Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), "time=")
}
