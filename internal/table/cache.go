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

package table

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	apperrors "promptsets/internal/errors"
)

// Cache memoizes loaded tables by absolute path. Entries are never
// invalidated automatically: a file edited after its first load is only
// re-read after Clear or ClearAll. Safe for concurrent use.
type Cache struct {
	mu     sync.RWMutex
	tables map[string]*Table
	group  singleflight.Group
	loads  atomic.Int64
	logger zerolog.Logger
}

// NewCache creates an empty table cache.
func NewCache(logger zerolog.Logger) *Cache {
	return &Cache{
		tables: make(map[string]*Table),
		logger: logger,
	}
}

// Load returns the table stored at path, reading it on first use.
// Concurrent first loads of the same path share a single read. Failed loads
// are not cached.
func (c *Cache) Load(path string) (*Table, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "invalid table path "+path, err)
	}

	if tbl, ok := c.Get(abs); ok {
		return tbl, nil
	}

	v, err, shared := c.group.Do(abs, func() (interface{}, error) {
		if tbl, ok := c.Get(abs); ok {
			return tbl, nil
		}
		tbl, err := c.read(abs)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.tables[abs] = tbl
		c.mu.Unlock()
		return tbl, nil
	})
	if err != nil {
		c.logger.Debug().Err(err).Str("path", abs).Msg("Table load failed")
		return nil, err
	}
	if shared {
		c.logger.Debug().Str("path", abs).Msg("Shared in-flight table load")
	}
	return v.(*Table), nil
}

// Get returns a cached table without touching the disk.
func (c *Cache) Get(path string) (*Table, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	tbl, ok := c.tables[abs]
	return tbl, ok
}

// Clear drops the cached entry for path.
func (c *Cache) Clear(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	c.mu.Lock()
	delete(c.tables, abs)
	c.mu.Unlock()
}

// ClearAll drops every cached entry.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	c.tables = make(map[string]*Table)
	c.mu.Unlock()
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables)
}

// Loads returns how many times a file has been read from disk.
func (c *Cache) Loads() int64 {
	return c.loads.Load()
}

// Warm loads every path concurrently and returns the first failure.
func (c *Cache) Warm(ctx context.Context, paths ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := c.Load(path)
			return err
		})
	}
	return g.Wait()
}

func (c *Cache) read(abs string) (*Table, error) {
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.CodeNotFound,
				"file '"+abs+"' cannot be found; make sure the prompt set exists", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "failed to stat "+abs, err)
	}
	if info.IsDir() {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "file '%s' is a directory", abs)
	}

	delim, err := DelimiterFor(abs)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(abs)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "failed to open "+abs, err)
	}
	defer file.Close()

	c.loads.Add(1)
	tbl, err := Parse(file, abs, delim, c.logger)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("path", abs).
		Int("columns", len(tbl.Headers)).
		Msg("Loaded prompt table")
	return tbl, nil
}
