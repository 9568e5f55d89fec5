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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"

	"promptsets/internal/config"
	"promptsets/internal/cycle"
	apperrors "promptsets/internal/errors"
	"promptsets/internal/selection"
	"promptsets/internal/table"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const portraitCSV = "Subject,Color,Style\ncat,red,oil\ndog,\"blue, light\",sketch\nfox,green,watercolor\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newRegistry(t *testing.T, dir string) *Registry {
	t.Helper()
	reg, err := NewRegistry(dir, table.NewCache(zerolog.Nop()), cycle.NewStore(), zerolog.Nop())
	require.NoError(t, err)
	return reg
}

func TestDiscoverFindsCSVFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "portrait.csv", portraitCSV)
	writeFile(t, dir, "Animals.CSV", "Animal\ncat\n")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, "portrait_config.json", `{"csv_file":"portrait.csv"}`)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	sets, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, sets, 2)

	assert.Equal(t, "Animals", sets[0].Name)
	assert.Equal(t, "portrait", sets[1].Name)
	assert.Equal(t, "Prompt Nodes/portrait", sets[1].Category)
	assert.Equal(t, filepath.Join(dir, "portrait_config.json"), sets[1].ConfigPath)
}

func TestDiscoverMissingDirectory(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSetConfigOverridesTableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "portrait.csv", portraitCSV)
	writeFile(t, dir, "portrait_v2.data", "ignored")
	writeFile(t, dir, "portrait_config.json", `{"csv_file":"other.csv"}`)

	sets, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "other.csv", sets[0].Filename)

	sets[0].Filename = "portrait.csv"
	require.NoError(t, sets[0].SaveConfig())
	cfg, exists, err := config.LoadSetConfig(sets[0].ConfigPath)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "portrait.csv", cfg.CSVFile)
}

func TestSetPathStaysInsideDirectory(t *testing.T) {
	set := NewSet(t.TempDir(), "../escape.csv")
	_, err := set.Path()
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	set.Filename = "/etc/passwd"
	_, err = set.Path()
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestInputsDescribeEveryColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "portrait.csv", portraitCSV)
	node, err := newRegistry(t, dir).Node("portrait")
	require.NoError(t, err)

	inputs, err := node.Inputs()
	require.NoError(t, err)

	byName := map[string]Input{}
	var order []string
	for _, in := range inputs {
		byName[in.Name] = in
		order = append(order, in.Name)
	}

	assert.Equal(t, []string{
		"seed",
		"Subject_mode", "Subject_val", "Subject_weight", "Subject_to_Color",
		"Color_mode", "Color_val", "Color_weight", "Color_to_Style",
		"Style_mode", "Style_val", "Style_weight",
	}, order)

	assert.Equal(t, DefaultSeed, byName["seed"].Default)
	assert.Equal(t, float64(config.MaxSeed), *byName["seed"].Max)
	assert.Equal(t, "Cycle", byName["Subject_mode"].Default)
	assert.Equal(t, "Randomize", byName["Color_mode"].Default)
	assert.Equal(t, "Fixed", byName["Style_mode"].Default)
	assert.Equal(t, []string{"None", "red", "blue, light", "green"}, byName["Color_val"].Options)
	assert.Equal(t, "Color", byName["Color_val"].Label)
	assert.Equal(t, 5.0, *byName["Color_weight"].Max)
	assert.Equal(t, ", ", byName["Color_to_Style"].Default)
}

func TestParseOptions(t *testing.T) {
	tbl, err := table.NewCache(zerolog.Nop()).Load(writeFile(t, t.TempDir(), "p.csv", portraitCSV))
	require.NoError(t, err)

	cfg, err := ParseOptions(tbl, map[string]any{
		"Subject_mode":     "cycle",
		"Subject_val":      "dog",
		"Subject_weight":   2,
		"Subject_to_Color": " | ",
		"Color_mode":       "Bogus",
		"Color_weight":     "1.5",
	})
	require.NoError(t, err)

	assert.Equal(t, selection.ColumnConfig{
		Mode: selection.ModeCycle, Value: "dog", Weight: 2, Separator: " | ",
	}, cfg["Subject"])
	assert.Equal(t, selection.ColumnConfig{
		Mode: selection.ModeFixed, Value: selection.None, Weight: 1.5, Separator: ", ",
	}, cfg["Color"])
	assert.Equal(t, selection.DefaultColumnConfig(), cfg["Style"])
}

func TestParseOptionsAcceptsDecodedScalars(t *testing.T) {
	tbl, err := table.NewCache(zerolog.Nop()).Load(writeFile(t, t.TempDir(), "years.csv", "Year,Size,Flag\n1990,2.5,true\n2000,10,false\n"))
	require.NoError(t, err)

	var opts map[string]any
	require.NoError(t, yaml.Unmarshal([]byte("Year_val: 1990\nSize_val: 2.5\nFlag_val: true\nYear_to_Size: 7\n"), &opts))

	cfg, err := ParseOptions(tbl, opts)
	require.NoError(t, err)
	assert.Equal(t, "1990", cfg["Year"].Value)
	assert.Equal(t, "7", cfg["Year"].Separator)
	assert.Equal(t, "2.5", cfg["Size"].Value)
	assert.Equal(t, "true", cfg["Flag"].Value)

	prompt, err := selection.NewEngine(cycle.NewStore(), zerolog.Nop()).Build(1, tbl, cfg)
	require.NoError(t, err)
	assert.Equal(t, "199072.5, true", prompt)
}

func TestParseOptionsRejectsBadInput(t *testing.T) {
	tbl, err := table.NewCache(zerolog.Nop()).Load(writeFile(t, t.TempDir(), "p.csv", portraitCSV))
	require.NoError(t, err)

	for name, opts := range map[string]map[string]any{
		"weight too high": {"Color_weight": 5.01},
		"negative weight": {"Color_weight": -0.5},
		"weight type":     {"Color_weight": true},
		"weight text":     {"Color_weight": "heavy"},
		"mode type":       {"Color_mode": []any{"Cycle"}},
		"value type":      {"Color_val": []string{"red"}},
		"separator type":  {"Subject_to_Color": map[string]any{"sep": ","}},
	} {
		_, err := ParseOptions(tbl, opts)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, name)
	}
}

func TestNodeBuild(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "portrait.csv", portraitCSV)
	node, err := newRegistry(t, dir).Node("portrait")
	require.NoError(t, err)

	opts := map[string]any{
		"Subject_mode":     "Cycle",
		"Subject_val":      "dog",
		"Subject_to_Color": " and ",
		"Color_mode":       "Fixed",
		"Color_val":        "None",
		"Color_to_Style":   " in ",
		"Style_mode":       "Fixed",
		"Style_val":        "oil",
		"Style_weight":     1.2,
	}

	var got []string
	for range 3 {
		prompt, err := node.Build(DefaultSeed, opts)
		require.NoError(t, err)
		got = append(got, prompt)
	}
	assert.Equal(t, []string{
		"dog and (oil:1.20)",
		"fox and (oil:1.20)",
		"cat and (oil:1.20)",
	}, got)

	_, err = node.Build(config.MaxSeed+1, opts)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestNodesShareCursorsByColumnName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "Style\noil\nsketch\n")
	writeFile(t, dir, "b.csv", "Style\noil\nsketch\n")
	reg := newRegistry(t, dir)
	a, err := reg.Node("a")
	require.NoError(t, err)
	b, err := reg.Node("b")
	require.NoError(t, err)

	opts := map[string]any{"Style_mode": "Cycle"}
	first, err := a.Build(1, opts)
	require.NoError(t, err)
	second, err := b.Build(1, opts)
	require.NoError(t, err)

	assert.Equal(t, "oil", first)
	assert.Equal(t, "sketch", second)
}

func TestNodeBuildSurfacesLoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.csv", "A,B\nx,\n")
	reg := newRegistry(t, dir)

	node, err := reg.Node("broken")
	require.NoError(t, err)
	_, err = node.Build(1, nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCategory)

	_, err = reg.Node("missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRegistryWarm(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", "A\n1\n")
	writeFile(t, dir, "b.csv", "B\n2\n")
	cache := table.NewCache(zerolog.Nop())
	reg, err := NewRegistry(dir, cache, cycle.NewStore(), zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, reg.Warm(context.Background()))
	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, []string{"a", "b"}, reg.Names())
}
