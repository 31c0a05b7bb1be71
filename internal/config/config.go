// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

// Package config loads host configuration from a YAML file layered under
// command-line flags.
package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/modhost/modhost/internal/xdg"
)

// Config holds host configuration.
type Config struct {
	// PluginsDir is the directory scanned for plugin modules.
	PluginsDir string `koanf:"plugins-dir"`

	// Ignore lists glob patterns of plugin filenames to skip during scans.
	Ignore []string `koanf:"ignore"`

	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log-format"`

	// MetricsAddr is the metrics/health HTTP listen address. Empty disables
	// the observability server.
	MetricsAddr string `koanf:"metrics-addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PluginsDir: xdg.PluginsDir(),
		LogFormat:  "json",
	}
}

// BindFlags registers config flags on fs. Flag names match config file keys.
func BindFlags(fs *pflag.FlagSet) {
	def := Default()
	fs.String("plugins-dir", def.PluginsDir, "directory scanned for plugin modules")
	fs.StringSlice("ignore", nil, "glob patterns of plugin filenames to skip")
	fs.String("log-format", def.LogFormat, "log format (json or text)")
	fs.String("metrics-addr", "", "metrics/health HTTP address (empty = disabled)")
}

// Load builds the configuration: file values (if path is non-empty) are
// overridden by changed flags; flag defaults fill whatever remains unset.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.With("path", path).Wrapf(err, "load config file")
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Wrapf(err, "load flags")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Wrapf(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration constraints.
func (c *Config) Validate() error {
	if c.PluginsDir == "" {
		return oops.Errorf("plugins-dir is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Errorf("log-format must be 'json' or 'text', got %q", c.LogFormat)
	}
	return nil
}
