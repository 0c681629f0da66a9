// Package config loads the optional per-project watlangc.toml file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the project-level settings a watlangc.toml file may
// override.
type Config struct {
	OutputDir     string `toml:"output_dir"`
	DefaultExport bool   `toml:"default_export"`
}

// Default returns the configuration used when no watlangc.toml is
// present or supplied.
func Default() Config {
	return Config{OutputDir: "dist", DefaultExport: false}
}

// Load reads and parses path, returning Default() merged over by
// whatever fields the file sets. A missing path is not an error; the
// caller decides whether a config file is required.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("checking config file %s: %w", path, err)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}
