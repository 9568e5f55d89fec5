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
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"promptsets/internal/config"
)

// buildRequest is the batch input document. JSON is accepted as well,
// being valid YAML.
type buildRequest struct {
	Seed    *uint64        `yaml:"seed"`
	Count   int            `yaml:"count"`
	Options map[string]any `yaml:"options"`
}

func decodeRequest(r io.Reader) (*buildRequest, error) {
	req := &buildRequest{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(req); err != nil && err != io.EOF {
		return nil, fmt.Errorf("invalid build request: %w", err)
	}
	if req.Count < 0 {
		return nil, fmt.Errorf("invalid build request: count %d must not be negative", req.Count)
	}
	if req.Count == 0 {
		req.Count = 1
	}
	return req, nil
}

// runBuild prints one prompt per line. With count > 1 the seed increases
// by one per prompt and Cycle columns keep advancing.
func runBuild(a *app, name, source string, stdin io.Reader, out io.Writer) error {
	a.logger.Debug().Str("set", name).Str("source", source).Msg("Running in batch mode")

	node, err := a.registry.Node(name)
	if err != nil {
		return err
	}

	in := stdin
	if source != "-" {
		file, err := os.Open(source)
		if err != nil {
			return fmt.Errorf("failed to open request: %w", err)
		}
		defer file.Close()
		in = file
	}

	req, err := decodeRequest(in)
	if err != nil {
		return err
	}
	seed := a.cfg.Seed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	for i := 0; i < req.Count; i++ {
		current := seed + uint64(i)
		if seed <= config.MaxSeed && current > config.MaxSeed {
			current -= config.MaxSeed + 1
		}
		start := time.Now()
		prompt, err := node.Build(current, req.Options)
		if err != nil {
			return fmt.Errorf("failed to build prompt: %w", err)
		}
		a.logger.Info().
			Str("set", name).
			Uint64("seed", current).
			Dur("duration_ms", time.Since(start)).
			Msg("Prompt built")
		fmt.Fprintln(out, prompt)
	}
	return nil
}
