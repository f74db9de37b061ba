package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poachwatch/internal/config"
)

func readLog(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestLogger_WritesPerLevelFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := NewLogger(&config.Config{LogDirectory: dir})
	require.NoError(t, err)
	defer l.Close()

	l.Info("run %d started", 1)
	l.Warning("Error loading image: %s", "b.jpg")
	l.Error("detector failed")
	l.Debug("hidden")

	info := readLog(t, dir, "info.log")
	assert.Contains(t, info, "run 1 started")
	assert.Contains(t, info, "logger_test.go", "call site is reported, not the logger")
	assert.NotContains(t, info, "hidden")
	assert.Contains(t, readLog(t, dir, "warning.log"), "b.jpg")
	assert.Contains(t, readLog(t, dir, "error.log"), "detector failed")
}

func TestLogger_DebugWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(&config.Config{LogDirectory: dir, Debug: true})
	require.NoError(t, err)
	defer l.Close()

	l.Debug("state %s", "scored")
	assert.Contains(t, readLog(t, dir, "info.log"), "DEBUG")
}

func TestLogger_CleanLogs(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(&config.Config{LogDirectory: dir})
	require.NoError(t, err)
	defer l.Close()

	l.Warning("something")
	require.NoError(t, l.CleanLogs("warning.log"))
	assert.Empty(t, readLog(t, dir, "warning.log"))

	assert.Error(t, l.CleanLogs("missing.log"))
}
