// Package config manages tidy configuration and filesystem paths.
//
// The default data root is ~/.tidy/, overridable with the TIDY_ROOT
// environment variable. An optional config.yaml inside the root tunes
// history limits and execution defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Paths contains the filesystem paths used by tidy.
type Paths struct {
	// Root is the base directory for all tidy data (default: ~/.tidy)
	Root string

	// HistoryFile is the path to the operation journal
	HistoryFile string

	// ConfigFile is the path to the optional config file
	ConfigFile string
}

// DefaultPaths returns the default paths for tidy.
// The root can be overridden with the TIDY_ROOT environment variable.
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("TIDY_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".tidy")
	}

	return &Paths{
		Root:        root,
		HistoryFile: filepath.Join(root, "history.json"),
		ConfigFile:  filepath.Join(root, "config.yaml"),
	}, nil
}

// EnsureDirectories creates the data root if it doesn't exist.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.Root, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.Root, err)
	}
	return nil
}

// Config holds the tunable settings read from config.yaml.
type Config struct {
	// History limits; zero disables the corresponding cap
	History struct {
		MaxEntries int `yaml:"maxEntries"`
		MaxAgeDays int `yaml:"maxAgeDays"`
	} `yaml:"history"`

	// CreateDirectories is the default for directory provisioning
	CreateDirectories bool `yaml:"createDirectories"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	cfg := &Config{CreateDirectories: true}
	cfg.History.MaxEntries = 500
	return cfg
}

// Load reads config.yaml from the given path, falling back to defaults
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
