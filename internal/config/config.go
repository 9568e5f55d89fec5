// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	apperrors "promptsets/internal/errors"
)

// MaxSeed is the largest seed a host may pass.
const MaxSeed = 1<<32 - 1

// Config represents the application configuration
type Config struct {
	PromptSetsDir string  `json:"prompt_sets_dir"`
	DefaultSeed   *uint64 `json:"default_seed,omitempty"`
	HistoryFile   string  `json:"history_file,omitempty"`
	LogLevel      string  `json:"log_level,omitempty"`
	Preload       bool    `json:"preload,omitempty"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	defaultSeed := uint64(42)
	return &Config{
		PromptSetsDir: "prompt_sets",
		DefaultSeed:   &defaultSeed,
		HistoryFile:   ".promptsets_history",
		LogLevel:      "info",
	}
}

// LoadConfig loads configuration from a JSON file and applies env overrides.
// A missing file yields the defaults.
func LoadConfig(filepath string) (*Config, error) {
	config := DefaultConfig()

	// If config file exists, load it
	if _, err := os.Stat(filepath); err == nil {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeConfig, "failed to read "+filepath, err)
		}
		normalized, err := normalizeConfigJSON(data)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeConfig, "invalid "+filepath, err)
		}
		if err := json.Unmarshal(normalized, config); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeConfig, "invalid "+filepath, err)
		}
	}

	// Env overrides (apply regardless of whether config file exists)
	if val := os.Getenv("PROMPTSETS_DIR"); val != "" {
		config.PromptSetsDir = val
	}
	if val := os.Getenv("PROMPTSETS_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	if config.PromptSetsDir == "" {
		config.PromptSetsDir = "prompt_sets"
	}

	return config, nil
}

// Seed returns the configured default seed.
func (c *Config) Seed() uint64 {
	if c.DefaultSeed == nil {
		return 42
	}
	return *c.DefaultSeed
}

// ValidationWarning represents a non-fatal configuration issue
type ValidationWarning struct {
	Field   string
	Message string
}

// Validate checks the configuration for common issues and returns warnings
func (c *Config) Validate() []ValidationWarning {
	var warnings []ValidationWarning

	if c.DefaultSeed != nil && *c.DefaultSeed > MaxSeed {
		warnings = append(warnings, ValidationWarning{
			Field:   "default_seed",
			Message: fmt.Sprintf("default_seed %d exceeds maximum %d", *c.DefaultSeed, uint64(MaxSeed)),
		})
	}

	if info, err := os.Stat(c.PromptSetsDir); err != nil {
		warnings = append(warnings, ValidationWarning{
			Field:   "prompt_sets_dir",
			Message: fmt.Sprintf("prompt set directory %q is not accessible: %v", c.PromptSetsDir, err),
		})
	} else if !info.IsDir() {
		warnings = append(warnings, ValidationWarning{
			Field:   "prompt_sets_dir",
			Message: fmt.Sprintf("prompt set directory %q is not a directory", c.PromptSetsDir),
		})
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		warnings = append(warnings, ValidationWarning{
			Field:   "log_level",
			Message: fmt.Sprintf("unknown log_level %q, using info", c.LogLevel),
		})
	}

	return warnings
}
