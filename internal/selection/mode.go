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

package selection

import "strings"

// Mode selects how a column's value is chosen for one build.
type Mode string

const (
	ModeFixed     Mode = "Fixed"
	ModeRandomize Mode = "Randomize"
	ModeFollow    Mode = "Follow"
	ModeCycle     Mode = "Cycle"
)

// Modes lists the modes in the order they are offered to the host.
var Modes = []Mode{ModeFixed, ModeRandomize, ModeFollow, ModeCycle}

// ParseMode returns the mode named s. Unknown names report false and
// select Fixed.
func ParseMode(s string) (Mode, bool) {
	for _, m := range Modes {
		if strings.EqualFold(s, string(m)) {
			return m, true
		}
	}
	return ModeFixed, false
}

// None is the sentinel value that leaves a Fixed column out of the prompt.
const None = "None"

// DefaultSeparator is placed between columns when none is configured.
const DefaultSeparator = ", "

const (
	MinWeight     = 0.0
	MaxWeight     = 5.0
	DefaultWeight = 1.0
)

// ColumnConfig holds the caller's choices for one column.
type ColumnConfig struct {
	Mode   Mode
	Value  string
	Weight float64
	// Separator follows this column's text. Unused on the last column.
	Separator string
}

// DefaultColumnConfig is used for columns the caller did not configure.
func DefaultColumnConfig() ColumnConfig {
	return ColumnConfig{
		Mode:      ModeFixed,
		Value:     None,
		Weight:    DefaultWeight,
		Separator: DefaultSeparator,
	}
}
