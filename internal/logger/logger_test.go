package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/noor/internal/constants"
)

func TestInitWritesUnderConfigDir(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "noor")

	require.NoError(t, Init(Config{ConfigDir: configDir}))
	require.NotNil(t, Logger)

	Warn("remote push failed", "user", "42", "error", "connection refused")
	Error("cache write failed", "op", "update_progress")

	data, err := os.ReadFile(filepath.Join(configDir, constants.LogDirName, "noor.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "remote push failed")
}

func TestInitUsesExplicitDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "elsewhere")

	require.NoError(t, Init(Config{Dir: dir, Debug: true}))
	Debug("cache written", "users", 2)

	_, err := os.Stat(filepath.Join(dir, "noor.log"))
	assert.NoError(t, err)
}

func TestRotationSettings(t *testing.T) {
	w := Config{ConfigDir: "/tmp/noor"}.rotation()
	assert.Equal(t, constants.DefaultLogMaxSizeMB, w.MaxSize)
	assert.Equal(t, constants.DefaultLogMaxBackups, w.MaxBackups)
	assert.Equal(t, constants.DefaultLogMaxAgeDays, w.MaxAge)

	w = Config{ConfigDir: "/tmp/noor", MaxSizeMB: 2, MaxBackups: 9, MaxAgeDays: 60}.rotation()
	assert.Equal(t, 2, w.MaxSize)
	assert.Equal(t, 9, w.MaxBackups)
	assert.Equal(t, 60, w.MaxAge)
	assert.Equal(t, filepath.Join("/tmp/noor", constants.LogDirName, "noor.log"), w.Filename)
}

func TestHelpersWithoutInit(t *testing.T) {
	Logger = nil

	Debug("dropped")
	Info("dropped")
	Warn("dropped")
	Error("dropped")
}
