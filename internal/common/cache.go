package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache struct {
	*cache.Cache
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{cache.New(expirationTime, cleanupTime)}
}

// GetOrSet returns the value stored under key. When the key is missing, the value built by fn is stored and returned.
// Every call resets the expiration of the key, so only idle entries are evicted.
func (c *Cache) GetOrSet(key string, fn func() interface{}) interface{} {
	value, ok := c.Cache.Get(key)
	if !ok {
		value = fn()
		if err := c.Cache.Add(key, value, cache.DefaultExpiration); err != nil {
			// another request stored it first
			if existing, found := c.Cache.Get(key); found {
				value = existing
			}
		}
	}

	c.Cache.Set(key, value, cache.DefaultExpiration)

	return value
}

func CacheKeyClientLimiter(ip string) string {
	return "limiter:" + ip
}
