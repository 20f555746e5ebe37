package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestSetLoggerRoutesPackageFunctions(t *testing.T) {
	prev := defaultLogger
	t.Cleanup(func() { defaultLogger = prev })

	var buf bytes.Buffer
	SetLogger(New(&buf, slog.LevelDebug))

	Debug("received CLI input", "input", "{}")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "received CLI input", rec["msg"])
	assert.Equal(t, "{}", rec["input"])
}

func TestLevelFiltersDebug(t *testing.T) {
	prev := defaultLogger
	t.Cleanup(func() { defaultLogger = prev })

	var buf bytes.Buffer
	SetLogger(New(&buf, slog.LevelInfo))

	Debug("hidden")
	assert.Zero(t, buf.Len())

	Info("shown", "n", 1)
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestGetLogFilePathHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	p, err := getLogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "interactive-choice", "app.log"), p)
}

func TestSetupLoggingCreatesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	l := setupLogging(Options{ToFile: true, Level: slog.LevelInfo})
	l.Info("hello")

	data, err := os.ReadFile(filepath.Join(dir, "interactive-choice", "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
