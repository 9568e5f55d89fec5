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

// Package cycle keeps per-column cursors for Cycle-mode selection.
//
// Cursors are keyed by column name only. Two tables that share a column
// name advance the same cursor.

package cycle

import (
	"slices"
	"sync"

	apperrors "promptsets/internal/errors"
)

// None is the sentinel value meaning "no configured value".
const None = "None"

// Store maps column names to their next row index. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	cursors map[string]int
}

// NewStore creates an empty cursor store.
func NewStore() *Store {
	return &Store{cursors: make(map[string]int)}
}

// Next returns the value under column's cursor and advances the cursor,
// wrapping at len(values). On first use the cursor starts at the index of
// start in values, or 0 when start is missing or None.
func (s *Store) Next(column string, values []string, start string) (string, error) {
	if len(values) == 0 {
		return "", apperrors.Newf(apperrors.CodeEmptyCategory, "category %q has no values to cycle", column)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.cursors[column]
	if !ok {
		idx = startIndex(values, start)
	}
	// A cursor shared with a longer column can point past this one.
	idx %= len(values)

	s.cursors[column] = (idx + 1) % len(values)
	return values[idx], nil
}

// Position returns the index the next call to Next will read, and whether the
// cursor has been initialised.
func (s *Store) Position(column string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.cursors[column]
	return idx, ok
}

// Reset forgets column's cursor so the next call re-reads its start value.
func (s *Store) Reset(column string) {
	s.mu.Lock()
	delete(s.cursors, column)
	s.mu.Unlock()
}

// ResetAll forgets every cursor.
func (s *Store) ResetAll() {
	s.mu.Lock()
	s.cursors = make(map[string]int)
	s.mu.Unlock()
}

// Snapshot returns a copy of all cursors.
func (s *Store) Snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.cursors))
	for k, v := range s.cursors {
		out[k] = v
	}
	return out
}

func startIndex(values []string, start string) int {
	if start == "" || start == None {
		return 0
	}
	if idx := slices.Index(values, start); idx >= 0 {
		return idx
	}
	return 0
}
