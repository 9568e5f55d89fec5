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

// Package table loads delimited prompt-set files into column-oriented
// tables and caches them by absolute path for the life of the process.

package table

import (
	"slices"
)

// Table is an immutable column-oriented view of a delimited file. Headers
// keep the file's column order; each column keeps row order.
type Table struct {
	Path    string
	Headers []string
	columns map[string][]string
}

// Values returns a copy of the values of the named column.
func (t *Table) Values(header string) []string {
	return slices.Clone(t.columns[header])
}

// Len returns the number of values held by the named column.
func (t *Table) Len(header string) int {
	return len(t.columns[header])
}

// Has reports whether the table defines the named column.
func (t *Table) Has(header string) bool {
	_, ok := t.columns[header]
	return ok
}

// Columns returns a copy of every column keyed by header.
func (t *Table) Columns() map[string][]string {
	out := make(map[string][]string, len(t.columns))
	for name, values := range t.columns {
		out[name] = slices.Clone(values)
	}
	return out
}

// IndexOf returns the first row index holding value in the named column, or -1.
func (t *Table) IndexOf(header, value string) int {
	return slices.Index(t.columns[header], value)
}
