package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mmwp.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "mmwp.db", cfg.Store.Path)
	assert.Equal(t, 0, cfg.Transform.Workers)
	assert.False(t, cfg.Transform.Overwrite)
}

func TestLoadYAMLAndEnv(t *testing.T) {
	path := writeYAML(t, `
log:
  level: debug
  format: json
store:
  path: /srv/mmwp
transform:
  workers: 4
  overwrite: true
`)
	cfg, err := LoadFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/srv/mmwp", cfg.Store.Path)
	assert.Equal(t, 4, cfg.Transform.Workers)
	assert.True(t, cfg.Transform.Overwrite)

	t.Setenv("MMWP_STORE", "/tmp/other")
	cfg, err = LoadFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other", cfg.Store.Path)
}

func TestLoadFromEnvPath(t *testing.T) {
	path := writeYAML(t, "transform:\n  workers: 2\n")
	t.Setenv("MMWP_CONFIG", path)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Transform.Workers)
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), true)
	assert.ErrorContains(t, err, "config: file ")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Log:   LogConfig{Level: "info", Format: "text"},
			Store: StoreConfig{Path: "x"},
		}
	}

	c := valid()
	assert.NoError(t, c.Validate())

	c = valid()
	c.Log.Level = "loud"
	assert.EqualError(t, c.Validate(), `log.level must be one of debug, info, warn, error (got "loud")`)

	c = valid()
	c.Log.Format = "xml"
	assert.ErrorContains(t, c.Validate(), "log.format")

	c = valid()
	c.Store.Path = " "
	assert.EqualError(t, c.Validate(), "store.path must not be empty")

	c = valid()
	c.Transform.Workers = -1
	assert.EqualError(t, c.Validate(), "transform.workers must be >= 0 (got -1)")

	path := writeYAML(t, "log:\n  level: loud\n")
	_, err := LoadFile(path, true)
	assert.ErrorContains(t, err, "config: validate: log.level")
}
