package geocode

import (
	"github.com/coocood/freecache"
)

// Cache хранит результаты геокодирования
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

type freeCache struct {
	cache *freecache.Cache
	ttl   int
}

// NewCache создает кеш размером sizeMB. При sizeMB <= 0 кеш отключен.
func NewCache(sizeMB int, ttlSeconds int) Cache {
	if sizeMB <= 0 {
		return noopCache{}
	}
	return &freeCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   max(ttlSeconds, 1),
	}
}

func (c *freeCache) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *freeCache) Set(key string, value []byte) {
	_ = c.cache.Set([]byte(key), value, c.ttl)
}

type noopCache struct{}

func (noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (noopCache) Set(_ string, _ []byte)      {}
