package texture

import (
	"fmt"
	"image"
	"sync"
)

// Resolver resolves a texture name or path to a decoded image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

// cacheEntry also records failed loads so they are not retried.
type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a texture cache. index may be nil, in which case only
// literal file paths resolve.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve loads and caches a texture by name. Returns nil if it cannot be
// found or decoded; Err reports why.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := LoadTexture(path)

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[path]; exists {
		c.mu.Unlock()
		return entry.img
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	c.mu.Unlock()

	return img
}

// Err returns the load error recorded for texName, if any.
func (c *Cache) Err(texName string) error {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return fmt.Errorf("texture: %q not found", texName)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, exists := c.items[path]; exists {
		return entry.err
	}
	return nil
}
