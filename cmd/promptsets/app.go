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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"promptsets/internal/config"
	"promptsets/internal/cycle"
	"promptsets/internal/promptset"
	"promptsets/internal/table"
)

type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	registry *promptset.Registry
	colors   *colorScheme
}

func newApp(cfg *config.Config, logger zerolog.Logger) (*app, error) {
	cache := table.NewCache(logger)
	registry, err := promptset.NewRegistry(cfg.PromptSetsDir, cache, cycle.NewStore(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt sets: %w", err)
	}

	if cfg.Preload {
		start := time.Now()
		if err := registry.Warm(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("Failed to preload prompt sets")
		} else {
			logger.Debug().Dur("duration_ms", time.Since(start)).Msg("Preloaded prompt sets")
		}
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		colors:   newColorScheme(),
	}, nil
}

func runList(a *app, out io.Writer) error {
	names := a.registry.Names()
	if len(names) == 0 {
		a.colors.Error.Fprintf(out, "No prompt sets found in %s\n", a.cfg.PromptSetsDir)
		return nil
	}

	data := pterm.TableData{{"Set", "Category", "File", "Columns"}}
	for _, name := range names {
		node, err := a.registry.Node(name)
		if err != nil {
			return err
		}
		var columns string
		if tbl, err := node.Table(); err != nil {
			a.logger.Warn().Err(err).Str("set", name).Msg("Failed to load prompt set")
			columns = "error: " + err.Error()
		} else {
			columns = fmt.Sprint(len(tbl.Headers))
		}
		data = append(data, []string{name, node.Set.Category, node.Set.Filename, columns})
	}

	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, rendered)
	return nil
}

func runInputs(a *app, name string, out io.Writer) error {
	node, err := a.registry.Node(name)
	if err != nil {
		return err
	}
	inputs, err := node.Inputs()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(inputs, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return nil
}
