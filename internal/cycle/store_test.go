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

package cycle

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "promptsets/internal/errors"
)

func next(t *testing.T, s *Store, column string, values []string, start string) string {
	t.Helper()
	v, err := s.Next(column, values, start)
	require.NoError(t, err)
	return v
}

func TestNextWrapsFromConfiguredStart(t *testing.T) {
	s := NewStore()
	values := []string{"v0", "v1", "v2"}

	var got []string
	for range 4 {
		got = append(got, next(t, s, "Color", values, "v1"))
	}

	assert.Equal(t, []string{"v1", "v2", "v0", "v1"}, got)
}

func TestNextStartsAtZeroWithoutMatch(t *testing.T) {
	for _, start := range []string{None, "", "missing"} {
		s := NewStore()
		assert.Equal(t, "a", next(t, s, "X", []string{"a", "b"}, start), "start %q", start)
	}
}

func TestStartIgnoredAfterFirstUse(t *testing.T) {
	s := NewStore()
	values := []string{"a", "b", "c"}

	assert.Equal(t, "a", next(t, s, "X", values, "a"))
	assert.Equal(t, "b", next(t, s, "X", values, "c"))
}

func TestCursorSharedByColumnName(t *testing.T) {
	s := NewStore()

	assert.Equal(t, "a", next(t, s, "Style", []string{"a", "b", "c"}, None))
	assert.Equal(t, "y", next(t, s, "Style", []string{"x", "y"}, None))
	pos, ok := s.Position("Style")
	assert.True(t, ok)
	assert.Equal(t, 0, pos)
}

func TestCursorClampedToShorterColumn(t *testing.T) {
	s := NewStore()
	values := []string{"a", "b", "c", "d"}
	next(t, s, "Style", values, "c")

	assert.Equal(t, "y", next(t, s, "Style", []string{"x", "y"}, None))
}

func TestResetRestartsCursor(t *testing.T) {
	s := NewStore()
	values := []string{"a", "b", "c"}

	next(t, s, "X", values, "b")
	next(t, s, "Y", values, None)
	s.Reset("X")
	_, ok := s.Position("X")
	assert.False(t, ok)
	assert.Equal(t, "b", next(t, s, "X", values, "b"))

	s.ResetAll()
	assert.Empty(t, s.Snapshot())
}

func TestNextRejectsEmptyValues(t *testing.T) {
	_, err := NewStore().Next("X", nil, None)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCategory)
}

func TestConcurrentAdvancesAreNotLost(t *testing.T) {
	s := NewStore()
	values := []string{"a", "b", "c", "d", "e"}

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Next("X", values, None)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	pos, _ := s.Position("X")
	assert.Equal(t, 0, pos)
}
