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

// Package paths resolves prompt-set file names against their directory.

package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateName checks a raw file name from a set config before resolution.
func ValidateName(name string, maxLen int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if strings.IndexByte(name, 0) != -1 {
		return fmt.Errorf("file name contains null byte")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("file name is not valid UTF-8")
	}
	for _, r := range name {
		if unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Me, r) {
			return fmt.Errorf("file name contains unsupported unicode combining mark")
		}
	}
	if maxLen > 0 && len(filepath.Clean(name)) > maxLen {
		return fmt.Errorf("file name exceeds maximum length of %d characters", maxLen)
	}
	return nil
}

// ResolveInDir resolves a relative file name under dir, following symlinks,
// and rejects anything that ends up outside dir. The file itself need not
// exist; its parent must.
func ResolveInDir(name, dir string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("absolute paths are not allowed")
	}

	dirAbs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("invalid directory: %v", err)
	}
	dirResolved, err := filepath.EvalSymlinks(dirAbs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory: %v", err)
	}

	candidate := filepath.Join(dirResolved, filepath.Clean(name))
	if !Within(candidate, dirResolved) {
		return "", fmt.Errorf("%s escapes %s", name, dir)
	}

	resolved, err := resolveSymlinks(candidate)
	if err != nil {
		return "", err
	}
	if !Within(resolved, dirResolved) {
		return "", fmt.Errorf("%s escapes %s", name, dir)
	}
	return resolved, nil
}

func resolveSymlinks(path string) (string, error) {
	if _, err := os.Lstat(path); err == nil {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve path: %v", err)
		}
		return resolved, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat path: %v", err)
	}

	parent, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve parent path: %v", err)
	}
	return filepath.Join(parent, filepath.Base(path)), nil
}

// Within returns true when path is dir or inside it.
func Within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, ".."+string(os.PathSeparator)) && rel != "..")
}
