package caching

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

type memoryCache struct {
	memory *cache.Cache
}

func (c *memoryCache) Store(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.memory.Set(key, value, ttl)
	return nil
}

func (c *memoryCache) Fetch(_ context.Context, key string) ([]byte, error) {
	value, found := c.memory.Get(key)
	if !found {
		return nil, nil
	}

	bytes, _ := value.([]byte)
	return bytes, nil
}
