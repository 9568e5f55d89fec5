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

package promptset

import (
	"promptsets/internal/config"
	"promptsets/internal/selection"
	"promptsets/internal/table"
)

// InputKind is the widget type a host renders for an input.
type InputKind string

const (
	KindInt    InputKind = "INT"
	KindFloat  InputKind = "FLOAT"
	KindString InputKind = "STRING"
	KindChoice InputKind = "CHOICE"
)

// SeedKey names the seed input.
const SeedKey = "seed"

// DefaultSeed is the seed offered to hosts before any is chosen.
const DefaultSeed = 42

// Input describes one host-facing input of a prompt set.
type Input struct {
	Name      string    `json:"name"`
	Kind      InputKind `json:"type"`
	Label     string    `json:"label,omitempty"`
	Options   []string  `json:"options,omitempty"`
	Default   any       `json:"default"`
	Min       *float64  `json:"min,omitempty"`
	Max       *float64  `json:"max,omitempty"`
	Step      float64   `json:"step,omitempty"`
	Precision int       `json:"precision,omitempty"`
}

func ModeKey(header string) string   { return header + "_mode" }
func ValueKey(header string) string  { return header + "_val" }
func WeightKey(header string) string { return header + "_weight" }

// SeparatorKey names the separator placed between header and next.
func SeparatorKey(header, next string) string { return header + "_to_" + next }

// DefaultMode is Cycle for the first column, Randomize for the second and
// Fixed for the rest.
func DefaultMode(position int) selection.Mode {
	switch position {
	case 0:
		return selection.ModeCycle
	case 1:
		return selection.ModeRandomize
	default:
		return selection.ModeFixed
	}
}

// Inputs describes every input a host must supply to build from tbl.
func Inputs(tbl *table.Table) []Input {
	minSeed, maxSeed := 0.0, float64(config.MaxSeed)
	minWeight, maxWeight := selection.MinWeight, selection.MaxWeight

	modes := make([]string, len(selection.Modes))
	for i, m := range selection.Modes {
		modes[i] = string(m)
	}

	inputs := []Input{{
		Name:    SeedKey,
		Kind:    KindInt,
		Default: DefaultSeed,
		Min:     &minSeed,
		Max:     &maxSeed,
	}}

	for i, header := range tbl.Headers {
		options := append([]string{selection.None}, tbl.Values(header)...)
		inputs = append(inputs,
			Input{
				Name:    ModeKey(header),
				Kind:    KindChoice,
				Options: modes,
				Default: string(DefaultMode(i)),
			},
			Input{
				Name:    ValueKey(header),
				Kind:    KindChoice,
				Label:   header,
				Options: options,
				Default: selection.None,
			},
			Input{
				Name:      WeightKey(header),
				Kind:      KindFloat,
				Default:   selection.DefaultWeight,
				Min:       &minWeight,
				Max:       &maxWeight,
				Step:      0.01,
				Precision: 2,
			},
		)
		if i < len(tbl.Headers)-1 {
			inputs = append(inputs, Input{
				Name:    SeparatorKey(header, tbl.Headers[i+1]),
				Kind:    KindString,
				Default: selection.DefaultSeparator,
			})
		}
	}
	return inputs
}

// Defaults returns the option map a host starts from, keyed like Inputs.
// The seed is left out.
func Defaults(tbl *table.Table) map[string]any {
	opts := make(map[string]any)
	for _, in := range Inputs(tbl) {
		if in.Name == SeedKey {
			continue
		}
		opts[in.Name] = in.Default
	}
	return opts
}
