// Package config holds the reasoner's YAML-driven configuration,
// following the same nested-struct-with-DefaultConfig convention the
// rest of the corpus uses for its own top-level config.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all reter configuration.
type Config struct {
	// Name/Version identify the running instance in logs and snapshots.
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Network    NetworkConfig    `yaml:"network"`
	Query      QueryConfig      `yaml:"query"`
	Durability DurabilityConfig `yaml:"durability"`
	Watch      WatchConfig      `yaml:"watch"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// NetworkConfig tunes the RETE discrimination network.
type NetworkConfig struct {
	// MaxPrivilegedAttrs records how many attributes per fact type the
	// alpha dispatcher enumerates subsets of. The dispatcher itself checks
	// the internal/alpha.MaxPrivilegedAttrs constant; this value is not
	// read by the network.
	MaxPrivilegedAttrs int `yaml:"max_privileged_attrs"`
}

// QueryConfig sets REQL's default execution limits.
type QueryConfig struct {
	// DefaultTimeout bounds reql()/pattern() calls that don't specify
	// their own timeout_ms. Zero means unbounded, matching spec.md's
	// reql(text, timeout_ms=0) default.
	DefaultTimeout time.Duration `yaml:"default_timeout"`
}

// DurabilityConfig controls the optional sqlite mirror of the source
// registry.
type DurabilityConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// WatchConfig controls fsnotify-based source file watching.
type WatchConfig struct {
	Enabled bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig mirrors the shape the rest of the pack uses for its own
// logging config block.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	JSON  bool   `yaml:"json"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "reter",
		Version: "0.1.0",

		Network: NetworkConfig{
			MaxPrivilegedAttrs: 4,
		},

		Query: QueryConfig{
			DefaultTimeout: 30 * time.Second,
		},

		Durability: DurabilityConfig{
			Enabled:      false,
			DatabasePath: "data/reter.db",
		},

		Watch: WatchConfig{
			Enabled:  false,
			Debounce: 250 * time.Millisecond,
		},

		Logging: LoggingConfig{
			Debug: false,
			JSON:  true,
			Level: "info",
		},
	}
}

// Load reads a YAML config file, falling back to DefaultConfig's values
// for anything the file omits.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
