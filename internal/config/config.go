package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runger/rpick/internal/keyseq"
)

// Config represents the rpick configuration.
type Config struct {
	Picker PickerConfig `yaml:"picker"`
	Keys   KeysConfig   `yaml:"keys"`
	Log    LogConfig    `yaml:"log"`
}

// PickerConfig holds selection-session settings.
type PickerConfig struct {
	PageSize          int    `yaml:"page_size"`          // Items requested per fetch
	MaxVisibleItems   int    `yaml:"max_visible_items"`  // Rendered window height
	PrefetchThreshold int    `yaml:"prefetch_threshold"` // Rows from the loaded end that trigger the next fetch
	FuzzyDisabled     bool   `yaml:"fuzzy_disabled"`     // Plain windowed list, no query filtering
	CatalogDB         string `yaml:"catalog_db"`         // Catalog database path (overrides default)
}

// KeysConfig maps logical actions to literal key sequences.
type KeysConfig struct {
	SequenceTimeoutMs int               `yaml:"sequence_timeout_ms"` // Multi-key sequence timeout
	Bindings          map[string]string `yaml:"bindings"`            // action name -> key sequence
}

// LogConfig holds logging settings. Logging is off unless a file is set;
// the TUI owns the terminal.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Picker: PickerConfig{
			PageSize:          50,
			MaxVisibleItems:   10,
			PrefetchThreshold: 5,
		},
		Keys: KeysConfig{
			SequenceTimeoutMs: int(keyseq.DefaultTimeout / time.Millisecond),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFromFile(DefaultPaths().ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies RPICK_* environment overrides on top of the
// loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("RPICK_CATALOG_DB"); v != "" {
		c.Picker.CatalogDB = v
	}
	if v := os.Getenv("RPICK_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("RPICK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks the configuration, including eager validation of the key
// bindings: an ambiguous binding set must be rejected before any
// interactive session starts.
func (c *Config) Validate() error {
	if c.Picker.PageSize <= 0 {
		return fmt.Errorf("picker.page_size must be positive, got %d", c.Picker.PageSize)
	}
	if c.Picker.MaxVisibleItems <= 0 {
		return fmt.Errorf("picker.max_visible_items must be positive, got %d", c.Picker.MaxVisibleItems)
	}
	if c.Picker.PrefetchThreshold <= 0 {
		return fmt.Errorf("picker.prefetch_threshold must be positive, got %d", c.Picker.PrefetchThreshold)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	return c.Bindings().Validate()
}

// Bindings materializes the key bindings, overlaying configured sequences
// on the defaults.
func (c *Config) Bindings() keyseq.Bindings {
	b := keyseq.DefaultBindings()
	if c.Keys.SequenceTimeoutMs > 0 {
		b.Timeout = time.Duration(c.Keys.SequenceTimeoutMs) * time.Millisecond
	}
	for action, seq := range c.Keys.Bindings {
		b.Sequences[keyseq.Action(action)] = seq
	}
	return b
}
