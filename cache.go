package iconus

import (
	"image"
	"sync"

	"github.com/bluele/gcache"
)

// DefaultCacheSize is the decoded-image cache capacity used by NewParser
const DefaultCacheSize = 16

// cacheKey identifies a decoded image by request shape, not content: two
// visually distinct icons sharing width, height and bit depth collide
// and the cache will serve whichever was decoded first. Known risk,
// preserved deliberately - see the package documentation.
type cacheKey struct {
	width    int
	height   int
	bitDepth int
}

// iconCache memoizes decoded images. A positive capacity gives a
// least-recently-used cache (every hit refreshes recency); capacity 0
// means unbounded. Safe for concurrent use from parallel decodes.
type iconCache struct {
	lru gcache.Cache // nil when unbounded

	mu  sync.Mutex
	all map[cacheKey]image.Image // unbounded fallback
}

func newIconCache(capacity int) *iconCache {
	if capacity > 0 {
		return &iconCache{lru: gcache.New(capacity).LRU().Build()}
	}
	return &iconCache{all: make(map[cacheKey]image.Image)}
}

func (c *iconCache) get(key cacheKey) (image.Image, bool) {
	if c.lru != nil {
		v, err := c.lru.Get(key)
		if err != nil {
			return nil, false
		}
		return v.(image.Image), true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.all[key]
	return img, ok
}

func (c *iconCache) put(key cacheKey, img image.Image) {
	if c.lru != nil {
		_ = c.lru.Set(key, img)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all[key] = img
}

func (c *iconCache) clear() {
	if c.lru != nil {
		c.lru.Purge()
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = make(map[cacheKey]image.Image)
}
