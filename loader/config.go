package loader

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidUseNScans is returned for a configuration with a negative
// scan limit.
var ErrInvalidUseNScans = errors.New("use_n_scans must be non-negative")

// Config holds the process-level ingestion settings.
type Config struct {
	// UseNScans caps how many point cloud frames are loaded from a
	// bag. Zero means no limit.
	UseNScans int `yaml:"use_n_scans"`
}

// DefaultConfig returns a configuration that loads every frame.
func DefaultConfig() Config {
	return Config{}
}

// ConfigFromFile reads a YAML configuration file.
func ConfigFromFile(path string) (Config, error) {
	cfg := DefaultConfig()
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "unable to read config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "unable to parse config file")
	}
	if cfg.UseNScans < 0 {
		return cfg, ErrInvalidUseNScans
	}
	return cfg, nil
}
