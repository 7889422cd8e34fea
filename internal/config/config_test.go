package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/rpick/internal/keyseq"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Picker, cfg.Picker)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
picker:
  page_size: 200
  max_visible_items: 15
keys:
  sequence_timeout_ms: 750
  bindings:
    cancel: "Q"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Picker.PageSize)
	assert.Equal(t, 15, cfg.Picker.MaxVisibleItems)
	assert.Equal(t, 5, cfg.Picker.PrefetchThreshold, "untouched fields keep defaults")

	b := cfg.Bindings()
	assert.Equal(t, 750*time.Millisecond, b.Timeout)
	assert.Equal(t, "Q", b.Sequences[keyseq.ActionCancel])
	assert.Equal(t, "gg", b.Sequences[keyseq.ActionTop], "default bindings survive the overlay")
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "picker: [not a mapping")
	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadRejectsAmbiguousBindings(t *testing.T) {
	path := writeConfig(t, `
keys:
  bindings:
    top: "q"
`)
	// "q" is already the default cancel sequence.
	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bound to both")
}

func TestValidateRejectsBadValues(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"zero page size":     func(c *Config) { c.Picker.PageSize = 0 },
		"zero window":        func(c *Config) { c.Picker.MaxVisibleItems = 0 },
		"zero threshold":     func(c *Config) { c.Picker.PrefetchThreshold = 0 },
		"unknown log level":  func(c *Config) { c.Log.Level = "verbose" },
		"negative page size": func(c *Config) { c.Picker.PageSize = -5 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("RPICK_CATALOG_DB", "/tmp/override.db")
	t.Setenv("RPICK_LOG_LEVEL", "debug")

	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.Picker.CatalogDB)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestPathsUseRpickDirectories(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	p := DefaultPaths()
	assert.Equal(t, "/xdg/config/rpick/config.yaml", p.ConfigFile())
	assert.Equal(t, "/xdg/data/rpick/catalog.db", p.CatalogFile())
}
