package dataset

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hupe1980/pokedash/internal/logging"
	"github.com/hupe1980/pokedash/internal/pokedex"
)

// LoadFunc produces a fresh table.
type LoadFunc func(ctx context.Context) (*pokedex.Table, error)

// FileLoader returns a LoadFunc reading path with Load.
func FileLoader(path string, opts ...Option) LoadFunc {
	return func(ctx context.Context) (*pokedex.Table, error) {
		all := append([]Option{WithLogger(logging.FromContext(ctx))}, opts...)
		return Load(path, all...)
	}
}

// Cache memoizes the result of a LoadFunc. The first Get loads the table;
// later calls return the same immutable table until Invalidate or Reload.
// Failed loads are not memoized. Cache is safe for concurrent use.
type Cache struct {
	load LoadFunc

	mu       sync.RWMutex
	table    *pokedex.Table
	loadedAt time.Time
}

// NewCache creates an empty cache around load.
func NewCache(load LoadFunc) *Cache {
	return &Cache{load: load}
}

// Get returns the memoized table, loading it if necessary.
func (c *Cache) Get(ctx context.Context) (*pokedex.Table, error) {
	c.mu.RLock()
	if c.table != nil {
		t := c.table
		c.mu.RUnlock()

		return t, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have loaded while we waited for the write lock.
	if c.table != nil {
		return c.table, nil
	}

	return c.loadLocked(ctx)
}

// Invalidate drops the memoized table. The next Get reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.table = nil
	c.loadedAt = time.Time{}
}

// Reload invalidates and loads eagerly. On failure the cache stays empty.
func (c *Cache) Reload(ctx context.Context) (*pokedex.Table, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.table = nil
	c.loadedAt = time.Time{}

	return c.loadLocked(ctx)
}

// Loaded reports whether a table is currently memoized.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.table != nil
}

// LoadedAt returns when the memoized table was loaded, or the zero time.
func (c *Cache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.loadedAt
}

func (c *Cache) loadLocked(ctx context.Context) (*pokedex.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	start := time.Now()

	t, err := c.load(ctx)
	if err != nil {
		logger.Error("dataset load failed", slog.String("error", err.Error()))
		return nil, err
	}

	c.table = t
	c.loadedAt = time.Now()

	logger.Info("dataset loaded",
		slog.Int("rows", t.Len()),
		slog.Duration("took", time.Since(start)),
	)

	return t, nil
}
