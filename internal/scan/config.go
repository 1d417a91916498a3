// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"fillmore-labs.com/closeguard/internal/catalog"
)

// DefaultConfigFile is read when no configuration file is given.
const DefaultConfigFile = ".closeguard.yaml"

// ErrInvalidConfig is returned for configuration values that can't be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config configures a [Scanner].
type Config struct {
	// AllowInsideTry accepts acquisitions placed directly in a try block.
	AllowInsideTry bool `yaml:"allow-inside-try"`
	// Owners lists methods taking ownership of a channel argument, as pkg.Class.method.
	Owners []string `yaml:"owners"`
	// Factories lists additional methods returning a channel, as pkg.Class.method.
	Factories []string `yaml:"factories"`
	// Exclude lists doublestar patterns of paths to skip, relative to the scanned directory.
	Exclude []string `yaml:"exclude"`
	// Workers limits the number of files processed concurrently, 0 for the number of CPUs.
	Workers int `yaml:"workers"`
}

// LoadConfig reads a YAML configuration from fsys.
// A missing [DefaultConfigFile] is not an error.
func LoadConfig(fsys afero.Fs, path string) (Config, error) {
	var cfg Config

	name := path
	if name == "" {
		name = DefaultConfigFile
	}

	data, err := afero.ReadFile(fsys, name)
	switch {
	case path == "" && errors.Is(err, fs.ErrNotExist):
		return cfg, nil

	case err != nil:
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", name, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", name, err)
	}

	return cfg, nil
}

// Validate checks exclude patterns and factory entries.
func (c Config) Validate() error {
	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: exclude pattern %q", ErrInvalidConfig, p)
		}
	}

	if _, err := c.factories(); err != nil {
		return err
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}

	return nil
}

func (c Config) factories() ([]catalog.Entry, error) {
	entries := make([]catalog.Entry, 0, len(c.Factories))
	for _, f := range c.Factories {
		e, err := catalog.ParseEntry(f)
		if err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, nil
}

// LogValue implements [slog.LogValuer].
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("allow-inside-try", c.AllowInsideTry),
		slog.Any("owners", c.Owners),
		slog.Any("factories", c.Factories),
		slog.Any("exclude", c.Exclude),
		slog.Int("workers", c.Workers),
	)
}
