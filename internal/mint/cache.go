package mint

import lru "github.com/hashicorp/golang-lru/v2"

const defaultCacheSize = 128

// ResponseCache stores raw server responses keyed by resource id. The cache
// holds undecoded bytes, not constructed entities: callers re-deserialize on
// every read, so decoded objects never go stale independently of the cache.
// Eviction and staleness policy belong to the cache implementation.
type ResponseCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte)
}

// lruResponseCache is the default ResponseCache, backed by a fixed-size LRU
type lruResponseCache struct {
	inner *lru.Cache[string, []byte]
}

// NewLRUResponseCache creates a ResponseCache holding up to size raw responses
func NewLRUResponseCache(size int) ResponseCache {
	// lru.New only fails for a non-positive size
	inner, err := lru.New[string, []byte](size)
	if err != nil {
		panic(err)
	}
	return &lruResponseCache{inner: inner}
}

func (c *lruResponseCache) Get(key string) ([]byte, bool) {
	return c.inner.Get(key)
}

func (c *lruResponseCache) Set(key string, data []byte) {
	c.inner.Add(key, data)
}
