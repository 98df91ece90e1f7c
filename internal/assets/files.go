// Package assets loads textures and models from disk, caching what it loads
// and substituting placeholders for anything that fails.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when no search path holds a file.
var ErrNotFound = errors.New("asset not found")

// Files resolves asset names against an ordered list of directories. Later
// directories take priority, so mods and overrides can be layered on top.
type Files struct {
	mu    sync.RWMutex
	roots []string
	cache *Cache
}

// NewFiles returns a resolver with no search paths.
func NewFiles() *Files {
	return &Files{cache: NewCache()}
}

// AddSearchPath appends dir. It must exist.
func (f *Files) AddSearchPath(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding search path %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding search path %s: not a directory", dir)
	}

	f.mu.Lock()
	f.roots = append(f.roots, dir)
	f.mu.Unlock()
	return nil
}

// SearchPaths returns the directories in priority order, lowest first.
func (f *Files) SearchPaths() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.roots...)
}

// Resolve returns the on-disk path of name.
func (f *Files) Resolve(name string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	clean := filepath.Clean(filepath.FromSlash(name))
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf("%s: outside search paths: %w", name, ErrNotFound)
	}
	for i := len(f.roots) - 1; i >= 0; i-- {
		p := filepath.Join(f.roots[i], clean)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrNotFound)
}

// Load returns the contents of name, from cache when possible.
func (f *Files) Load(name string) ([]byte, error) {
	if data, ok := f.cache.Get(name); ok {
		return data, nil
	}
	p, err := f.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	f.cache.Set(name, data)
	return data, nil
}

// Forget drops name from the byte cache.
func (f *Files) Forget(name string) { f.cache.Delete(name) }

// CacheStats returns byte cache hits and misses.
func (f *Files) CacheStats() (hits, misses int) { return f.cache.Stats() }

// Close clears the cache.
func (f *Files) Close() {
	f.mu.Lock()
	f.roots = nil
	f.mu.Unlock()
	f.cache.Clear()
}
