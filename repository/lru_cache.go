package repository

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultLRUSize = 512

// LRUCache is an in-process CacheRepository bounded by entry count.
type LRUCache struct {
	cache *lru.Cache[string, string]
}

func NewLRUCache(size int) *LRUCache {
	if size <= 0 {
		size = defaultLRUSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		cache, _ = lru.New[string, string](defaultLRUSize)
	}
	return &LRUCache{cache: cache}
}

func (c *LRUCache) Get(key string) (string, bool) {
	return c.cache.Get(key)
}

func (c *LRUCache) Set(key string, value string) error {
	c.cache.Add(key, value)
	return nil
}

// Len is the number of cached entries.
func (c *LRUCache) Len() int {
	return c.cache.Len()
}
