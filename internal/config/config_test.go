package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.False(t, cfg.All)
	assert.True(t, cfg.Header)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.Exclude)
	assert.Equal(t, byte(0), cfg.SeparatorByte())
	assert.NotEmpty(t, cfg.DBPath)
}

func TestLoadFile(t *testing.T) {
	path := writeConfigFile(t, "uloc.yaml", "all: true\nseparator: /\nformat: CSV\nheader: false\nexclude:\n  - vendor\n  - \"*.min.js\"\n")

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.True(t, cfg.All)
	assert.False(t, cfg.Header)
	assert.Equal(t, "csv", cfg.Format)
	assert.Equal(t, byte('/'), cfg.SeparatorByte())
	assert.Equal(t, []string{"vendor", "*.min.js"}, cfg.Exclude)
}

func TestLoadDiscoversDotFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".uloc.yaml"), []byte("name: true\n"), 0o600))
	t.Chdir(dir)

	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.True(t, cfg.Name)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "uloc.yaml", "format: csv\n")
	t.Setenv("ULOC_FORMAT", "json")
	t.Setenv("ULOC_EXCLUDE", "a, b")
	t.Setenv("ULOC_DB_PATH", "/tmp/x.db")

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, []string{"a", "b"}, cfg.Exclude)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestInvalidSeparator(t *testing.T) {
	path := writeConfigFile(t, "uloc.yaml", "separator: \":\"\n")
	_, err := Load(NewViper(), path)
	assert.ErrorContains(t, err, "invalid separator")
}
