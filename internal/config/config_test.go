package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contentcore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Storage.Driver)
	require.Equal(t, "contentcore.db", cfg.Storage.SQLitePath)
	require.Equal(t, "fs", cfg.Media.Driver)
	require.Equal(t, "./mediadata", cfg.Media.FSRoot)
	require.False(t, cfg.Logging.Verbose)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: postgres
  postgres_dsn: postgres://localhost/portfolio
media:
  driver: memory
logging:
  verbose: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "postgres", cfg.Storage.Driver)
	require.Equal(t, "postgres://localhost/portfolio", cfg.Storage.PostgresDSN)
	require.Equal(t, "memory", cfg.Media.Driver)
	require.True(t, cfg.Logging.Verbose)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONTENTCORE_STORAGE_DRIVER", "memory")
	t.Setenv("CONTENTCORE_GENTEXT_API_KEY", "test-key")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "memory", cfg.Storage.Driver)
	require.Equal(t, "test-key", cfg.Gentext.APIKey)
}

func TestLoadRejectsUnknownDrivers(t *testing.T) {
	path := writeConfig(t, "storage:\n  driver: etcd\n")
	_, err := Load(path)
	require.ErrorContains(t, err, "storage.driver")

	path = writeConfig(t, "media:\n  driver: carrier-pigeon\n")
	_, err = Load(path)
	require.ErrorContains(t, err, "media.driver")
}

func TestLoadRequiresS3Bucket(t *testing.T) {
	path := writeConfig(t, "media:\n  driver: s3\n")
	_, err := Load(path)
	require.ErrorContains(t, err, "s3_bucket")
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
