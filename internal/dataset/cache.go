package dataset

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CachedLoader memoizes datasets by source location for the lifetime of the
// process. Datasets are immutable, so cached entries are never invalidated.
// Failed loads are not cached. Concurrent first loads of one source share a
// single underlying call, run with the context of the caller that started it.
type CachedLoader struct {
	loader Loader
	logger *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]*Dataset
}

// NewCachedLoader wraps loader with a per-source memo.
func NewCachedLoader(loader Loader, logger *zap.Logger) *CachedLoader {
	return &CachedLoader{
		loader: loader,
		logger: logger,
		cache:  make(map[string]*Dataset),
	}
}

// Load returns the cached dataset for source, loading it on first use.
func (c *CachedLoader) Load(ctx context.Context, source string) (*Dataset, error) {
	if ds, ok := c.cached(source); ok {
		return ds, nil
	}

	v, err, shared := c.group.Do(source, func() (any, error) {
		if ds, ok := c.cached(source); ok {
			return ds, nil
		}
		ds, err := c.loader.Load(ctx, source)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[source] = ds
		c.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("Dataset load shared with concurrent caller", zap.String("source", source))
	}
	return v.(*Dataset), nil
}

func (c *CachedLoader) cached(source string) (*Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.cache[source]
	return ds, ok
}
