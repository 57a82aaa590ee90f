// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and defaults the extractor's project
// configuration file, .cie-extract/project.yaml. It follows the same
// shape as the indexer's own config layer — a versioned YAML document
// with environment-variable overrides — trimmed to what a standalone
// extraction pipeline needs: no Primary Hub address, no embedding
// provider, no TLS.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/cie-extract/internal/errors"
)

const (
	defaultConfigDir  = ".cie-extract"
	defaultConfigFile = "project.yaml"
	configVersion     = "1"
)

// Config is the on-disk project configuration.
type Config struct {
	Version string         `yaml:"version"`
	Extract ExtractConfig  `yaml:"extract"`
	Store   StoreConfig    `yaml:"store"`
}

// ExtractConfig controls parsing and extraction behavior.
type ExtractConfig struct {
	// Workers is the number of files processed concurrently. A batch
	// smaller than 10 files always runs sequentially regardless of
	// this setting.
	Workers int `yaml:"workers"`

	// PerFileTimeoutSeconds bounds one file's parse+extract wall-clock
	// time; zero disables the timeout.
	PerFileTimeoutSeconds int `yaml:"per_file_timeout_seconds"`

	// MaxFileSizeBytes skips files larger than this (default 1MB).
	MaxFileSizeBytes int64 `yaml:"max_file_size_bytes"`

	// Exclude lists doublestar glob patterns for files/directories to
	// skip during directory walks.
	Exclude []string `yaml:"exclude"`

	// Languages holds a list of language tags. The extract command does
	// not read it: every registered language is extracted.
	Languages []string `yaml:"languages,omitempty"`
}

// StoreConfig controls the SQLite output sink.
type StoreConfig struct {
	// Path names a SQLite database file; Default() sets it to
	// .cie-extract/extract.db. The extract command does not read it and
	// writes only to the path given with --store.
	Path string `yaml:"path"`
}

// Default returns a Config with sensible defaults for local use.
func Default() *Config {
	return &Config{
		Version: configVersion,
		Extract: ExtractConfig{
			Workers:               4,
			PerFileTimeoutSeconds: 30,
			MaxFileSizeBytes:      1048576,
			Exclude: []string{
				".git/**",
				"node_modules/**",
				"vendor/**",
				"dist/**",
				"build/**",
				"bin/**",
				"**/bin/**",
				".cie-extract/**",
				"*.min.js",
				"*.min.css",
				"package-lock.json",
				"yarn.lock",
				"pnpm-lock.yaml",
				"go.sum",
			},
		},
		Store: StoreConfig{
			Path: filepath.Join(defaultConfigDir, "extract.db"),
		},
	}
}

// Load reads configuration from configPath, or auto-discovers
// .cie-extract/project.yaml by walking up from the current directory
// when configPath is empty. When auto-discovery finds no file, Load
// returns Default() unchanged; a configPath (or CIE_EXTRACT_CONFIG_PATH)
// naming a file that cannot be read is an error.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = os.Getenv("CIE_EXTRACT_CONFIG_PATH")
	}
	if configPath == "" {
		found, err := findConfigFile()
		if err != nil {
			return Default(), nil
		}
		configPath = found
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path comes from user config or discovery
	if err != nil {
		return nil, errors.NewConfigError(
			"Cannot read configuration file",
			fmt.Sprintf("Failed to read %s", configPath),
			"Check file permissions and ensure the file exists",
			err,
		)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(
			"Invalid configuration format",
			"YAML parsing failed — the config file contains syntax errors",
			fmt.Sprintf("Edit %s to fix syntax errors, or delete it to fall back to defaults", configPath),
			err,
		)
	}

	if cfg.Version != "" && cfg.Version != configVersion {
		return nil, errors.NewConfigError(
			"Unsupported configuration version",
			fmt.Sprintf("Config version %q is not supported (expected %q)", cfg.Version, configVersion),
			"Update the version field or regenerate the configuration file",
			nil,
		)
	}
	cfg.Version = configVersion

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes cfg to configPath as YAML, creating its parent
// directory if needed.
func Save(cfg *Config, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewInternalError(
			"Cannot encode configuration",
			"YAML marshaling failed unexpectedly",
			"This is a bug — please report it with your configuration details",
			err,
		)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return errors.NewPermissionError(
			"Cannot create configuration directory",
			fmt.Sprintf("Permission denied creating %s", dir),
			"Check directory permissions",
			err,
		)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.NewPermissionError(
			"Cannot write configuration file",
			fmt.Sprintf("Permission denied writing to %s", configPath),
			"Check file permissions and ensure sufficient disk space",
			err,
		)
	}
	return nil
}

// DefaultPath returns the conventional config path under dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, defaultConfigDir, defaultConfigFile)
}

func findConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := DefaultPath(dir)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CIE_EXTRACT_WORKERS"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil && n > 0 {
			cfg.Extract.Workers = n
		}
	}
	if v := os.Getenv("CIE_EXTRACT_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
}
