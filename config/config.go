// Package config holds the settings of the mmwp command.
package config

import (
	"fmt"
	"slices"
	"strings"
)

// Config is the root configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Store     StoreConfig     `yaml:"store"`
	Transform TransformConfig `yaml:"transform"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"MMWP_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"MMWP_LOG_FORMAT" env-default:"text"`
}

// StoreConfig locates the artifact store. A directory path selects the
// filesystem store, anything else a sqlite database file.
type StoreConfig struct {
	Path string `yaml:"path" env:"MMWP_STORE" env-default:"mmwp.db"`
}

// TransformConfig tunes the transforms.
type TransformConfig struct {
	// Workers bounds the titles converted at once. Zero means one per
	// CPU.
	Workers int `yaml:"workers" env:"MMWP_WORKERS" env-default:"0"`

	// Overwrite makes cleanup replace its input.
	Overwrite bool `yaml:"overwrite" env:"MMWP_OVERWRITE" env-default:"false"`
}

var (
	levels  = []string{"debug", "info", "warn", "error"}
	formats = []string{"text", "json"}
)

// Validate checks the values cleanenv cannot check.
func (c *Config) Validate() error {
	if !slices.Contains(levels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("log.level must be one of %s (got %q)", strings.Join(levels, ", "), c.Log.Level)
	}
	if !slices.Contains(formats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("log.format must be one of %s (got %q)", strings.Join(formats, ", "), c.Log.Format)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if c.Transform.Workers < 0 {
		return fmt.Errorf("transform.workers must be >= 0 (got %d)", c.Transform.Workers)
	}
	return nil
}
