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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*replSession, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s := newREPLSession(newTestApp(t), &out)
	require.NoError(t, s.use("portrait"))
	return s, &out
}

func send(t *testing.T, s *replSession, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	assert.False(t, s.handleLine(line), "line %q should not quit", line)
	return out.String()
}

func TestREPLBuildsWithEditedOptions(t *testing.T) {
	s, out := newTestSession(t)

	send(t, s, out, "/mode Color Fixed")
	send(t, s, out, "/val Color red")
	send(t, s, out, "/val Style oil")
	send(t, s, out, "/weight Style 1.5")
	assert.Contains(t, send(t, s, out, `/sep Subject " + "`), "✓")

	assert.Equal(t, "cat + red, (oil:1.50)\n", send(t, s, out, ""))
	assert.Equal(t, "dog + red, (oil:1.50)\n", send(t, s, out, ""))

	send(t, s, out, "/reset Subject")
	assert.Equal(t, "cat + red, (oil:1.50)\n", send(t, s, out, ""))

	send(t, s, out, "/reset")
	send(t, s, out, "/val Subject fox")
	assert.Equal(t, "fox + red, (oil:1.50)\n", send(t, s, out, ""))
}

func TestREPLValueWithComma(t *testing.T) {
	s, out := newTestSession(t)

	send(t, s, out, "/mode Subject Fixed")
	send(t, s, out, "/mode Color Fixed")
	send(t, s, out, "/val Color blue, light")
	send(t, s, out, "/sep Color \"\"")

	assert.Equal(t, "blue, light\n", send(t, s, out, ""))
}

func TestREPLRejectsInvalidEdits(t *testing.T) {
	s, out := newTestSession(t)

	for line, want := range map[string]string{
		"/val Color purple":  "not a value",
		"/mode Nope Fixed":   "unknown column",
		"/mode Color Wobble": "unknown mode",
		"/sep Style x":       "has no separator",
		"/weight Color 7":    "weight must be",
		"/weight Color":      "usage: /weight",
		"/seed abc":          "seed must be",
		"/use absent":        "unknown prompt set",
		"/use broken":        "empty",
		"/frobnicate":        "unknown command",
		"hello":              "Commands start with /",
	} {
		assert.Contains(t, send(t, s, out, line), want, line)
	}

	// A failed /use keeps the current set.
	assert.Equal(t, "portrait", s.node.Set.Name)
}

func TestREPLSeed(t *testing.T) {
	s, out := newTestSession(t)

	send(t, s, out, "/seed 12")
	assert.Equal(t, "Seed: 12\n", send(t, s, out, "/seed"))

	send(t, s, out, "/next")
	assert.Equal(t, uint64(13), s.seed)

	send(t, s, out, "/seed 4294967295")
	send(t, s, out, "/next")
	assert.Equal(t, uint64(0), s.seed)
}

func TestREPLSameSeedRepeatsRandomPicks(t *testing.T) {
	s, out := newTestSession(t)
	send(t, s, out, "/mode Subject Fixed")

	first := send(t, s, out, "")
	second := send(t, s, out, "")
	assert.Equal(t, first, second)
}

func TestREPLInformationalCommands(t *testing.T) {
	s, out := newTestSession(t)

	assert.Contains(t, send(t, s, out, "/help"), "/mode <column> <mode>")
	assert.Contains(t, send(t, s, out, "/list"), "portrait")

	send(t, s, out, `/sep Subject " + "`)
	shown := send(t, s, out, "/show")
	assert.Contains(t, shown, "portrait (seed 42)")
	assert.Contains(t, shown, `" + "`)
	assert.Contains(t, shown, "Randomize")
}

func TestREPLWithoutSet(t *testing.T) {
	var out bytes.Buffer
	s := newREPLSession(newTestApp(t), &out)

	assert.Contains(t, send(t, s, &out, ""), "no prompt set selected")
	assert.Contains(t, send(t, s, &out, "/mode Color Fixed"), "no prompt set selected")
	assert.Contains(t, send(t, s, &out, "/show"), "no prompt set selected")
}

func TestREPLQuit(t *testing.T) {
	s, _ := newTestSession(t)
	assert.True(t, s.handleLine("/quit"))
	assert.True(t, s.handleLine("  /EXIT "))
}
