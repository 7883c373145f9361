package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"plant-sync/internal/core/plants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OSS_API_HOST", "https://oss.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "plant-sync.db", cfg.DatabaseDSN)
	assert.Equal(t, 5*time.Second, cfg.PublishTimeout)
	assert.Equal(t, 12*time.Hour, cfg.OSSTokenTTL)
	assert.Equal(t, plants.DefaultSerialPattern, cfg.SerialPattern)
	assert.Empty(t, cfg.NATSURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OSS_API_HOST", "https://oss.example.com")
	t.Setenv("DATABASE_DSN", "postgres://u:p@db/plants")
	t.Setenv("NATS_URL", "nats://nats:4222")
	t.Setenv("PUBLISH_TIMEOUT", "250ms")
	t.Setenv("OSS_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db/plants", cfg.DatabaseDSN)
	assert.Equal(t, "nats://nats:4222", cfg.NATSURL)
	assert.Equal(t, 250*time.Millisecond, cfg.PublishTimeout)
	assert.Equal(t, "secret", cfg.OSSPassword)
}

func TestLoad_RequiresOSSHost(t *testing.T) {
	t.Setenv("OSS_API_HOST", "")
	os.Unsetenv("OSS_API_HOST")

	_, err := Load()
	require.Error(t, err)
	assert.Panics(t, func() { MustLoad() })
}

func TestLoad_BadDuration(t *testing.T) {
	t.Setenv("OSS_API_HOST", "https://oss.example.com")
	t.Setenv("OSS_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeFile(t, `
items:
  - item_code: MIN-5000-2
    item_name: MIN 5000TL-X
    mppt: "2"
  - item_code: MIN-5000-3
    item_name: MIN 5000TL-X
    mppt: "3"
`)
	items, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []plants.Item{
		{ItemCode: "MIN-5000-2", ItemName: "MIN 5000TL-X", MPPT: "2"},
		{ItemCode: "MIN-5000-3", ItemName: "MIN 5000TL-X", MPPT: "3"},
	}, items)
}

func TestLoadCatalog_Errors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = LoadCatalog(writeFile(t, "items: [this is: not valid"))
	require.Error(t, err)

	_, err = LoadCatalog(writeFile(t, "items:\n  - item_name: nameless\n"))
	require.ErrorContains(t, err, "item 0")
}
