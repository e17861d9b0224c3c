// Package casecache keeps recently used summary cases open.
package casecache

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/brimdata/summary/pkg/storage"
	"github.com/brimdata/summary/sio"
	"github.com/brimdata/summary/sio/anyio"
	arc "github.com/hashicorp/golang-lru/arc/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Cache maps case paths to open readers with ARC eviction.  Readers
// evicted from the cache may still be in use by callers, so they are
// closed only when the cache is closed.
type Cache struct {
	engine storage.Engine
	opts   anyio.ReaderOpts
	logger *zap.Logger

	mu      sync.Mutex
	arc     *arc.ARCCache[string, sio.ReadCloser]
	open    map[string]sio.ReadCloser
	retired []io.Closer

	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
}

func New(engine storage.Engine, size int, opts anyio.ReaderOpts, registerer prometheus.Registerer, logger *zap.Logger) (*Cache, error) {
	cache, err := arc.NewARC[string, sio.ReadCloser](size)
	if err != nil {
		return nil, err
	}
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(registerer)
	return &Cache{
		engine: engine,
		opts:   opts,
		logger: logger,
		arc:    cache,
		open:   make(map[string]sio.ReadCloser),
		hits: factory.NewCounter(prometheus.CounterOpts{
			Name: "summary_case_cache_hits_total",
			Help: "Number of case lookups served from the cache.",
		}),
		misses: factory.NewCounter(prometheus.CounterOpts{
			Name: "summary_case_cache_misses_total",
			Help: "Number of case lookups that opened the case.",
		}),
		evictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "summary_case_cache_evictions_total",
			Help: "Number of cases evicted from the cache.",
		}),
	}, nil
}

// Get returns the reader of the case at path, opening it on a miss.
func (c *Cache) Get(ctx context.Context, path string) (sio.Reader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.arc.Get(path); ok {
		c.hits.Inc()
		return r, nil
	}
	c.misses.Inc()
	r, err := anyio.Open(ctx, c.engine, path, c.opts)
	if err != nil {
		return nil, err
	}
	c.arc.Add(path, r)
	c.open[path] = r
	for p, reader := range c.open {
		if !c.arc.Contains(p) {
			c.logger.Debug("case evicted", zap.String("path", p))
			c.evictions.Inc()
			c.retired = append(c.retired, reader)
			delete(c.open, p)
		}
	}
	return r, nil
}

// Remove drops path from the cache.  Its reader is closed with the
// cache.
func (c *Cache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.open[path]; ok {
		c.arc.Remove(path)
		c.retired = append(c.retired, r)
		delete(c.open, path)
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.arc.Len()
}

func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for _, r := range c.retired {
		errs = append(errs, r.Close())
	}
	for _, r := range c.open {
		errs = append(errs, r.Close())
	}
	c.arc.Purge()
	c.open = make(map[string]sio.ReadCloser)
	c.retired = nil
	return errors.Join(errs...)
}
