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

// Package selection builds prompts by choosing one value per column of a
// table according to each column's mode.

package selection

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	apperrors "promptsets/internal/errors"
	"promptsets/internal/table"
)

// Cursors advances Cycle-mode positions. *cycle.Store implements it.
type Cursors interface {
	Next(column string, values []string, start string) (string, error)
}

// Engine builds prompts from loaded tables.
type Engine struct {
	cursors Cursors
	logger  zerolog.Logger
}

// NewEngine creates an engine that advances Cycle columns through cursors.
func NewEngine(cursors Cursors, logger zerolog.Logger) *Engine {
	return &Engine{cursors: cursors, logger: logger}
}

// fragment is the text chosen for one column. part2 is only set by a
// Randomize split and is only written after a weighted choice.
type fragment struct {
	choice   string
	part2    string
	hasPart2 bool
}

// Build walks tbl's headers in order, picks a value for each column and
// joins the picks with the configured separators.
//
// The random generator is seeded with seed on every call, so identical
// inputs reproduce identical draws. Randomize columns consume the generator
// in header order. Follow columns read the index of the most recent
// Randomize draw from their own values. Cycle columns advance the engine's
// cursors, which is the only state that outlives the call. Cursors are
// advanced only after every Follow column has been range checked, so a
// failed build leaves them where they were.
func (e *Engine) Build(seed uint64, tbl *table.Table, cfg map[string]ColumnConfig) (string, error) {
	rng := rand.New(rand.NewPCG(seed, seed))
	currentRandomIdx := 0

	picks := make([]pick, 0, len(tbl.Headers))
	for _, header := range tbl.Headers {
		col, ok := cfg[header]
		if !ok {
			col = DefaultColumnConfig()
		}
		values := tbl.Values(header)
		p := pick{header: header, col: col}

		switch col.Mode {
		case ModeRandomize:
			currentRandomIdx = rng.IntN(len(values))
			p.frag = splitChoice(values[currentRandomIdx])
			e.logger.Debug().
				Str("column", header).
				Int("index", currentRandomIdx).
				Msg("Randomized value")

		case ModeFollow:
			if currentRandomIdx >= len(values) {
				return "", apperrors.Newf(apperrors.CodeIndexOutOfRange,
					"column %q cannot follow index %d: it has %d values", header, currentRandomIdx, len(values))
			}
			p.frag = fragment{choice: values[currentRandomIdx]}

		case ModeCycle:
			p.values = values
			p.cycle = true

		default:
			p.skip = col.Value == None
			p.frag = fragment{choice: col.Value}
		}
		picks = append(picks, p)
	}

	for i := range picks {
		p := &picks[i]
		if !p.cycle {
			continue
		}
		v, err := e.cursors.Next(p.header, p.values, p.col.Value)
		if err != nil {
			return "", err
		}
		p.frag = fragment{choice: v}
		e.logger.Debug().Str("column", p.header).Str("value", v).Msg("Cycled value")
	}

	out := getBuilder()
	defer putBuilder(out)

	last := len(picks) - 1
	for i, p := range picks {
		if p.skip {
			continue
		}
		writeFragment(out, p.frag, p.col.Weight)
		if i < last {
			out.WriteString(p.col.Separator)
		}
	}

	return out.String(), nil
}

// pick is one column's resolved selection. Cycle picks are filled in once
// every other column has been resolved.
type pick struct {
	header string
	col    ColumnConfig
	frag   fragment
	values []string
	cycle  bool
	skip   bool
}

// splitChoice splits a value on its first comma into two trimmed parts.
func splitChoice(value string) fragment {
	choice, part2, found := strings.Cut(value, ",")
	if !found {
		return fragment{choice: strings.TrimSpace(value)}
	}
	return fragment{
		choice:   strings.TrimSpace(choice),
		part2:    strings.TrimSpace(part2),
		hasPart2: true,
	}
}

func writeFragment(out *strings.Builder, frag fragment, weight float64) {
	if weight == DefaultWeight {
		out.WriteString(frag.choice)
		return
	}
	out.WriteString(FormatWeighted(frag.choice, weight))
	if frag.hasPart2 {
		out.WriteString(", ")
		out.WriteString(frag.part2)
	}
}

// FormatWeighted renders text with a weight annotation, e.g. "(red:2.50)".
func FormatWeighted(text string, weight float64) string {
	return "(" + text + ":" + strconv.FormatFloat(weight, 'f', 2, 64) + ")"
}
