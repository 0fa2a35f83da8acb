package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "/tmp/faasm", cfg.SharedRoot)
	require.Equal(t, 1, cfg.Executors)
	require.False(t, cfg.ObjectStoreConfigured())
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sharedRoot: /var/lib/faasm
executors: 4
objectStoreEndpoint: http://minio:9000
objectStoreBucket: functions
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/faasm", cfg.SharedRoot)
	require.Equal(t, 4, cfg.Executors)
	require.True(t, cfg.ObjectStoreConfigured())
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)
	require.Equal(t, defaults(), cfg)
}

func TestLoadRejectsZeroExecutors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("executors: 0\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("FAASM_EXECUTORS", "7")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Executors)
}
