package template

import (
	"go.uber.org/zap"

	"github.com/Faultbox/tickframe/internal/engine/resource"
	"github.com/Faultbox/tickframe/internal/logger"
)

// LoadFunc builds the owning template for a cache entry. It is called at
// most once per live entry.
type LoadFunc func(arena *resource.Arena) (Template, error)

// Cache creates each named template exactly once and hands out derivatives.
// Entries are kept until Collect finds that only the cache references them.
type Cache struct {
	arena       *resource.Arena
	entries     map[string]Template
	placeholder Template
	log         *zap.Logger

	hits, misses, failures int
}

// NewCache returns an empty cache. placeholder is served when a load fails;
// the cache takes ownership of it.
func NewCache(arena *resource.Arena, placeholder Template) *Cache {
	return &Cache{
		arena:       arena,
		entries:     make(map[string]Template),
		placeholder: placeholder,
		log:         logger.Named("templates"),
	}
}

// Arena returns the arena owning templates are registered in.
func (c *Cache) Arena() *resource.Arena { return c.arena }

// Acquire returns a derivative of the named template, loading it on first
// use. A failed load logs a warning and returns a derivative of the
// placeholder; the failure is not cached so a later Acquire retries.
func (c *Cache) Acquire(name string, load LoadFunc) Template {
	if t, ok := c.entries[name]; ok {
		c.hits++
		return t.CreateDerivative()
	}
	c.misses++

	t, err := load(c.arena)
	if err != nil {
		c.failures++
		c.log.Warn("template load failed, using placeholder", zap.String("name", name), zap.Error(err))
		return c.placeholder.CreateDerivative()
	}
	c.entries[name] = t
	return t.CreateDerivative()
}

// Has reports whether name is cached.
func (c *Cache) Has(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return len(c.entries) }

// Stats returns hit, miss and failed-load counts.
func (c *Cache) Stats() (hits, misses, failures int) {
	return c.hits, c.misses, c.failures
}

// Collect releases entries that nothing outside the cache references and
// returns how many were evicted. Entries without an owner are never evicted.
func (c *Cache) Collect() int {
	n := 0
	for name, t := range c.entries {
		owner, ok := OwnerOf(t)
		if !ok || owner.Refs() != 1 {
			continue
		}
		t.Release()
		delete(c.entries, name)
		n++
	}
	if n > 0 {
		c.log.Debug("collected templates", zap.Int("evicted", n), zap.Int("remaining", len(c.entries)))
	}
	return n
}

// Close drops the cache's own references, including the placeholder's.
// Resources still referenced by live derivatives are freed when those are
// released.
func (c *Cache) Close() {
	for name, t := range c.entries {
		t.Release()
		delete(c.entries, name)
	}
	if c.placeholder != nil {
		c.placeholder.Release()
		c.placeholder = nil
	}
	if live := c.arena.Live(); live > 0 {
		c.log.Debug("templates still referenced after cache close", zap.Int("live", live))
	}
}
