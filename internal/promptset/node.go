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
	"sort"

	"github.com/rs/zerolog"

	"promptsets/internal/config"
	"promptsets/internal/cycle"
	apperrors "promptsets/internal/errors"
	"promptsets/internal/selection"
	"promptsets/internal/table"
)

// Node builds prompts for one set. Nodes created by the same Registry share
// a table cache and cycle cursors.
type Node struct {
	Set    *Set
	cache  *table.Cache
	engine *selection.Engine
	logger zerolog.Logger
}

// NewNode binds set to a cache and cursor store.
func NewNode(set *Set, cache *table.Cache, cursors *cycle.Store, logger zerolog.Logger) *Node {
	return &Node{
		Set:    set,
		cache:  cache,
		engine: selection.NewEngine(cursors, logger),
		logger: logger,
	}
}

// Table loads the set's table through the cache.
func (n *Node) Table() (*table.Table, error) {
	path, err := n.Set.Path()
	if err != nil {
		return nil, err
	}
	return n.cache.Load(path)
}

// Inputs describes the inputs a host must supply to Build.
func (n *Node) Inputs() ([]Input, error) {
	tbl, err := n.Table()
	if err != nil {
		return nil, err
	}
	return Inputs(tbl), nil
}

// Build produces a prompt from a seed and a flat option map.
func (n *Node) Build(seed uint64, opts map[string]any) (string, error) {
	if seed > config.MaxSeed {
		return "", apperrors.Newf(apperrors.CodeInvalidInput, "seed %d exceeds maximum %d", seed, uint64(config.MaxSeed))
	}
	tbl, err := n.Table()
	if err != nil {
		return "", err
	}
	cfg, err := ParseOptions(tbl, opts)
	if err != nil {
		return "", err
	}
	prompt, err := n.engine.Build(seed, tbl, cfg)
	if err != nil {
		n.logger.Warn().Err(err).Uint64("seed", seed).Msg("Prompt build failed")
		return "", err
	}
	n.logger.Debug().Uint64("seed", seed).Str("prompt", prompt).Msg("Prompt built")
	return prompt, nil
}

// Registry holds a node per discovered set.
type Registry struct {
	Dir     string
	nodes   map[string]*Node
	cache   *table.Cache
	cursors *cycle.Store
}

// NewRegistry discovers every set in dir and creates its node.
func NewRegistry(dir string, cache *table.Cache, cursors *cycle.Store, logger zerolog.Logger) (*Registry, error) {
	sets, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	r := &Registry{
		Dir:     dir,
		nodes:   make(map[string]*Node, len(sets)),
		cache:   cache,
		cursors: cursors,
	}
	for _, set := range sets {
		r.nodes[set.Name] = NewNode(set, cache, cursors, logger.With().Str("set", set.Name).Logger())
	}
	logger.Info().Str("dir", dir).Int("sets", len(sets)).Msg("Discovered prompt sets")
	return r, nil
}

// Names returns the set names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.nodes))
	for name := range r.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Node returns the named set's node.
func (r *Registry) Node(name string) (*Node, error) {
	node, ok := r.nodes[name]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "unknown prompt set %q", name)
	}
	return node, nil
}

// Cursors returns the cursor store shared by every node.
func (r *Registry) Cursors() *cycle.Store {
	return r.cursors
}

// Warm loads every set's table ahead of the first build.
func (r *Registry) Warm(ctx context.Context) error {
	paths := make([]string, 0, len(r.nodes))
	for _, name := range r.Names() {
		path, err := r.nodes[name].Set.Path()
		if err != nil {
			return err
		}
		paths = append(paths, path)
	}
	return r.cache.Warm(ctx, paths...)
}
