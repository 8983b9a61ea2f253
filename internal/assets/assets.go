// Package assets loads height map images from a set of root directories and
// keeps the decoded pixels for the lifetime of the level.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/seacraft/internal/logger"
	"github.com/Faultbox/seacraft/internal/ocean/heightmap"
)

// ErrNotFound is returned when no root contains the requested file.
var ErrNotFound = errors.New("asset not found")

// Manager resolves asset names against its roots.
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
	log   *zap.Logger
}

// NewManager creates a new asset manager.
func NewManager(roots ...string) *Manager {
	m := &Manager{
		cache: NewCache(),
		log:   logger.Named("assets"),
	}
	for _, r := range roots {
		m.AddRoot(r)
	}
	return m
}

// AddRoot adds a directory to search.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) {
	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
}

// Resolve returns the path of name under the highest-priority root that has it.
// Absolute names are returned as is when they exist.
func (m *Manager) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return name, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		path := filepath.Join(m.roots[i], name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("checking %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// LoadHeightMap decodes the named image once and returns the cached copy afterwards.
func (m *Manager) LoadHeightMap(name string, srgb bool) (*heightmap.Image, error) {
	key := cacheKey(name, srgb)
	if img, ok := m.cache.Get(key); ok {
		return img, nil
	}

	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}
	img, err := heightmap.Load(path, srgb)
	if err != nil {
		return nil, err
	}

	m.cache.Set(key, img)
	m.log.Info("heightmap loaded",
		zap.String("path", path),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Bool("srgb", srgb),
	)
	return img, nil
}

// Close drops every cached image, e.g. on level unload.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots = nil
	m.cache.Clear()
}

// Cache returns the decoded image cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

func cacheKey(name string, srgb bool) string {
	if srgb {
		return name + "#srgb"
	}
	return name
}

// Cache is a simple in-memory cache for decoded images.
type Cache struct {
	data map[string]*heightmap.Image
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*heightmap.Image),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (*heightmap.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	img, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return img, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, img *heightmap.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = img
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*heightmap.Image)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
