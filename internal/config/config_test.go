package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abstat/abstat/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "abstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "alpha: 0.1\ndb_path: /tmp/tests.db\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Alpha)
	assert.Equal(t, "/tmp/tests.db", cfg.DBPath)
	// Unset keys keep the defaults.
	assert.Equal(t, 0.8, cfg.Power)
}

func TestLoad_InvalidAlpha(t *testing.T) {
	path := writeConfig(t, "alpha: 1.5\n")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alpha")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 0.05, cfg.Alpha)
	assert.Equal(t, 0.8, cfg.Power)
	assert.Equal(t, "./abstat.db", cfg.DBPath)
}
