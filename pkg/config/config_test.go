package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := loadConfigFrom(filepath.Join(t.TempDir(), "Config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 15, cfg.ProcessTimeoutMinutes)
	assert.Empty(t, cfg.IntuneWinUtilPath)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "Config.yaml")

	saved := &Configuration{
		IntuneWinUtilPath:     `C:\Tools\IntuneWinAppUtil.exe`,
		LogLevel:              "DEBUG",
		ProcessTimeoutMinutes: 30,
	}
	require.NoError(t, saveConfigTo(path, saved))

	loaded, err := loadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, saved.IntuneWinUtilPath, loaded.IntuneWinUtilPath)
	assert.Equal(t, "DEBUG", loaded.LogLevel)
	assert.Equal(t, 30, loaded.ProcessTimeoutMinutes)
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("IntuneWinUtilPath: [not: valid"), 0644))

	_, err := loadConfigFrom(path)
	assert.Error(t, err)
}

func TestProcessTimeout(t *testing.T) {
	cfg := &Configuration{ProcessTimeoutMinutes: 5}
	assert.Equal(t, 5*time.Minute, cfg.ProcessTimeout())

	cfg.ProcessTimeoutMinutes = 0
	assert.Equal(t, time.Duration(0), cfg.ProcessTimeout())
}
