// Package config holds tunables for the tooling that sits around the core
// piece tree — never the tree algorithm itself, which has no tunables (see
// the module overview). It governs things like how the dump CLI groups runs
// of inserted text into Added-buffer pieces before handing them to the tree.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultChunkSize is the default number of units the CLI packs into each
// Added-buffer Piece; the input is split at fixed ChunkSize offsets.
const DefaultChunkSize = 4096

// Config is the configuration for the surrounding tooling.
type Config struct {
	// ChunkSize bounds how many units the dump CLI packs into one
	// Added-buffer Piece per insert.
	ChunkSize int `yaml:"chunkSize"`

	// LogRotations enables the tree's rebalance diagnostic log
	// (Tree.SetLogger) in the dump CLI.
	LogRotations bool `yaml:"logRotations"`
}

// DefaultConfig constructs a configuration with default values.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    DefaultChunkSize,
		LogRotations: false,
	}
}

// Apply overrides the base config values with values from overlay.
func (c *Config) Apply(overlay Config) {
	if overlay.ChunkSize > 0 {
		c.ChunkSize = overlay.ChunkSize
	}
	if overlay.LogRotations {
		c.LogRotations = overlay.LogRotations
	}
}

// Path returns the path to the default configuration file.
func Path() (string, error) {
	return xdg.ConfigFile(filepath.Join("piecetree", "config.yaml"))
}

// Load reads and unmarshals a Config from path, applied as an overlay on
// top of DefaultConfig.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Returned directly so callers can check os.IsNotExist(err).
		return Config{}, err
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Config{}, errors.Wrapf(err, "yaml.Unmarshal")
	}
	// Apply ignores a non-positive overlay ChunkSize, so a negative value is
	// rejected here, before the overlay is applied. An explicit 0 cannot be
	// told apart from an absent field and leaves the default.
	if overlay.ChunkSize < 0 {
		return Config{}, errors.Errorf("chunkSize must be positive, got %d", overlay.ChunkSize)
	}

	cfg := DefaultConfig()
	cfg.Apply(overlay)
	return cfg, nil
}

// LoadOrDefault loads the config file at path if it exists, and returns
// DefaultConfig otherwise.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrapf(err, "yaml.Marshal")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "os.MkdirAll")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "os.WriteFile")
	}
	return nil
}
