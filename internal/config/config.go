// Package config loads rgrep's optional YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the config file location.
const EnvPath = "RGREP_CONFIG"

// Config holds defaults for command-line flags and diagnostic logging.
type Config struct {
	// Color selects when to colorize output (auto, always, never)
	Color string `yaml:"color"`

	// Hyperlink turns path prefixes into terminal hyperlinks
	Hyperlink bool `yaml:"hyperlink"`

	// Includes and Excludes are basename globs for recursively found files
	Includes []string `yaml:"include"`
	Excludes []string `yaml:"exclude"`

	// MaxFileSize skips larger files (e.g. "1M"; empty = no limit)
	MaxFileSize string `yaml:"max_filesize"`

	// NoFollow stops recursion from following symlinked directories
	NoFollow bool `yaml:"no_follow"`

	// DecodeBOM honors UTF-8 and UTF-16 byte-order marks when reading files
	DecodeBOM bool `yaml:"bom"`

	// LogLevel enables diagnostics at the given level (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogFile sends diagnostics to a rotating file instead of stderr
	LogFile string `yaml:"log_file"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Color: "auto",
	}
}

// Path returns the config file location: override if non-empty, then
// $RGREP_CONFIG, then rgrep/config.yaml under the user config directory.
// It returns "" when no location can be determined.
func Path(override string) string {
	if override != "" {
		return override
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rgrep", "config.yaml")
}

// Load loads configuration from path.
// A missing file yields the default configuration without error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
