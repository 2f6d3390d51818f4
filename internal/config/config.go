// Package config loads .docmetrics.toml, the CLI's optional configuration
// file, the same way the teacher's cmd/sift/main.go loads .sift.toml: read
// the file if present, unmarshal with go-toml/v2, and let zero-valued
// fields fall back to in-code defaults.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the CLI's optional settings. Any field left at its zero
// value keeps the built-in default.
type Config struct {
	StoreDB       string `toml:"store-db"`
	WatchDebounce int    `toml:"watch-debounce-ms"`
	Workers       int    `toml:"workers"`
}

// Default returns the built-in defaults used when no config file is
// present or a field is left unset in it.
func Default() Config {
	return Config{
		StoreDB:       ".docmetrics/evals.db",
		WatchDebounce: 500,
		Workers:       0, // 0 means runtime.NumCPU()
	}
}

// Load reads path (".docmetrics.toml" style) if it exists and overlays any
// set fields onto the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var file Config
	if err := toml.Unmarshal(b, &file); err != nil {
		return cfg, err
	}
	if file.StoreDB != "" {
		cfg.StoreDB = file.StoreDB
	}
	if file.WatchDebounce > 0 {
		cfg.WatchDebounce = file.WatchDebounce
	}
	if file.Workers > 0 {
		cfg.Workers = file.Workers
	}
	return cfg, nil
}
