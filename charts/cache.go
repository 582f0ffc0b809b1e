package charts

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/YuminosukeSato/irisboard/pkg/errors"
)

// DefaultCacheSize fits every feature histogram plus one pie per highlight.
const DefaultCacheSize = 32

// Cache keeps rendered charts keyed by name. Rendering inputs must be
// immutable for a given key.
type Cache struct {
	entries *lru.Cache[string, []byte]
}

// NewCache creates a cache holding at most size charts.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, errors.Wrap(err, "charts: cache")
	}
	return &Cache{entries: entries}, nil
}

// Get returns the cached chart for key, rendering and storing it on a miss.
// Render errors are not cached.
func (c *Cache) Get(key string, render func() ([]byte, error)) ([]byte, error) {
	if svg, ok := c.entries.Get(key); ok {
		return svg, nil
	}
	svg, err := render()
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, svg)
	return svg, nil
}

// Len returns the number of cached charts.
func (c *Cache) Len() int {
	return c.entries.Len()
}
