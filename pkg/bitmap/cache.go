package bitmap

import (
	"fmt"

	"github.com/hashicorp/golang-lru/arc/v2"
)

// DefaultCacheSize is the number of decoded bitmaps kept by NewCache callers
// that have no better estimate.
const DefaultCacheSize = 256

// Cache shares decoded bitmaps between builders. Palette builders read the
// same color channels the sprite builders crop later, so one rebuild reads
// each file once. Safe for concurrent use.
type Cache struct {
	images *arc.ARCCache[string, *Image]
}

// NewCache returns a cache holding at most size bitmaps.
func NewCache(size int) (*Cache, error) {
	images, err := arc.NewARC[string, *Image](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create bitmap cache: %w", err)
	}
	return &Cache{images: images}, nil
}

// Load returns the decoded bitmap at path, reading it on a miss. A nil
// cache loads without caching.
func (c *Cache) Load(path string) (*Image, error) {
	if c == nil {
		return Load(path)
	}
	if img, ok := c.images.Get(path); ok {
		return img, nil
	}
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.images.Add(path, img)
	return img, nil
}

// Len returns the number of cached bitmaps.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.images.Len()
}
