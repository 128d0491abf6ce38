package texture

import (
	"fmt"
	"image"
	"strconv"
	"strings"
	"sync"

	"assbin-loader/internal/assbin"
)

// Resolver resolves a material texture reference to a decoded image.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// EmbeddedIndex parses an embedded reference of the form "*N".
func EmbeddedIndex(texName string) (int, bool) {
	if !strings.HasPrefix(texName, "*") {
		return 0, false
	}
	n, err := strconv.Atoi(texName[1:])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Cache is a concurrency-safe texture cache for one scene. Embedded
// references decode the scene's own textures; anything else is looked up
// in the on-disk index.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	scene *assbin.Scene
	index *Index
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a cache over scene's embedded textures, falling back to
// index for external files. index may be nil.
func NewCache(scene *assbin.Scene, index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		scene: scene,
		index: index,
	}
}

// Resolve loads and caches a texture by reference. Returns nil if not found
// or undecodable.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	img, _ := c.Lookup(texName)
	return img
}

// Lookup is Resolve with the failure reason.
func (c *Cache) Lookup(texName string) (*image.NRGBA, error) {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[texName]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	// Slow path: decode
	img, err := c.load(texName)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[texName]; exists {
		return entry.img, entry.err
	}
	c.items[texName] = &cacheEntry{img: img, err: err}
	return img, err
}

func (c *Cache) load(texName string) (*image.NRGBA, error) {
	if n, ok := EmbeddedIndex(texName); ok {
		if c.scene == nil || n >= len(c.scene.Textures) {
			return nil, fmt.Errorf("texture: embedded %s out of range", texName)
		}
		return Decode(&c.scene.Textures[n])
	}
	if c.index == nil {
		return nil, fmt.Errorf("texture: %s: no index", texName)
	}
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil, fmt.Errorf("texture: %s not found", texName)
	}
	return LoadFile(path)
}
