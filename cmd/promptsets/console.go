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

package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// colorScheme holds the console styles used by the REPL and listings.
type colorScheme struct {
	Header  *pterm.Style
	Prompt  *color.Color
	Value   *color.Color
	Error   *color.Color
	Success *color.Color
}

// newColorScheme respects the NO_COLOR environment variable.
func newColorScheme() *colorScheme {
	if os.Getenv("NO_COLOR") != "" {
		return disabledColorScheme()
	}
	return &colorScheme{
		Header:  pterm.NewStyle(pterm.FgLightMagenta, pterm.Bold),
		Prompt:  color.New(color.FgGreen),
		Value:   color.New(color.FgCyan),
		Error:   color.New(color.FgRed, color.Bold),
		Success: color.New(color.FgGreen),
	}
}

func disabledColorScheme() *colorScheme {
	color.NoColor = true
	pterm.DisableStyling()

	return &colorScheme{
		Header:  pterm.NewStyle(),
		Prompt:  color.New(),
		Value:   color.New(),
		Error:   color.New(),
		Success: color.New(),
	}
}
