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

// Package promptset exposes each table file in a directory as a prompt
// set: a selection node configured by the table's path, with the input
// description a host needs to drive it.

package promptset

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"promptsets/internal/config"
	apperrors "promptsets/internal/errors"
	"promptsets/internal/paths"
)

// CategoryPrefix groups every set under one host menu.
const CategoryPrefix = "Prompt Nodes"

const maxFilenameLen = 255

// Set describes one prompt set discovered on disk.
type Set struct {
	Name       string
	Category   string
	Dir        string
	ConfigPath string
	// Filename is the table file, relative to Dir. The set config may point
	// it at a different file than the one the set was discovered from.
	Filename string
}

// NewSet describes the set backed by filename inside dir.
func NewSet(dir, filename string) *Set {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return &Set{
		Name:       stem,
		Category:   CategoryPrefix + "/" + stem,
		Dir:        dir,
		ConfigPath: filepath.Join(dir, stem+"_config.json"),
		Filename:   filename,
	}
}

// Discover returns a set for every .csv file in dir, sorted by name, with
// each set's config applied.
func Discover(dir string) ([]*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.CodeNotFound, "prompt set directory "+dir+" not found", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "failed to read prompt set directory "+dir, err)
	}

	var sets []*Set
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		set := NewSet(dir, entry.Name())
		if err := set.LoadConfig(); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })
	return sets, nil
}

// LoadConfig applies the set's config file, if any.
func (s *Set) LoadConfig() error {
	cfg, exists, err := config.LoadSetConfig(s.ConfigPath)
	if err != nil || !exists {
		return err
	}
	if cfg.CSVFile != "" {
		s.Filename = cfg.CSVFile
	}
	return nil
}

// SaveConfig persists the set's current table file choice.
func (s *Set) SaveConfig() error {
	return config.SaveSetConfig(s.ConfigPath, config.SetConfig{CSVFile: s.Filename})
}

// Path resolves the set's table file, which must stay inside Dir.
func (s *Set) Path() (string, error) {
	if err := paths.ValidateName(s.Filename, maxFilenameLen); err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "invalid table file for set "+s.Name, err)
	}
	resolved, err := paths.ResolveInDir(s.Filename, s.Dir)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "invalid table file for set "+s.Name, err)
	}
	return resolved, nil
}
