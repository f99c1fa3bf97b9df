package viper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codecConfig struct {
	MaxDepth       int  `mapstructure:"maxdepth"`
	LegacyFraction bool `mapstructure:"legacyfraction"`
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dson:\n  maxdepth: 32\n  legacyfraction: true\n"), 0o600))

	c := New()
	require.NoError(t, c.LoadFile(path))
	assert.True(t, c.IsSet("dson.maxdepth"))

	var cfg codecConfig
	require.NoError(t, c.UnmarshalKey("dson", &cfg))
	assert.Equal(t, codecConfig{MaxDepth: 32, LegacyFraction: true}, cfg)
}

func TestLoadBytesJSON(t *testing.T) {
	c := New()
	require.NoError(t, c.LoadBytes([]byte(`{"dson":{"maxdepth":8}}`), "json"))

	cfg := codecConfig{MaxDepth: 256}
	require.NoError(t, c.UnmarshalKey("dson", &cfg))
	assert.Equal(t, 8, cfg.MaxDepth)
	assert.False(t, cfg.LegacyFraction)
}

func TestUnmarshalKeyMissing(t *testing.T) {
	c := New()
	cfg := codecConfig{MaxDepth: 256}
	require.NoError(t, c.UnmarshalKey("dson", &cfg))
	assert.Equal(t, 256, cfg.MaxDepth)
}

func TestLoadFileMissing(t *testing.T) {
	c := New()
	assert.Error(t, c.LoadFile(filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestConfigType(t *testing.T) {
	assert.Equal(t, "yaml", configType("a.yml"))
	assert.Equal(t, "json", configType("a.json"))
	assert.Equal(t, "", configType("a.toml"))
}
