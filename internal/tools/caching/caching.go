package caching

import (
	"bytes"
	"compress/flate"
	"context"
	"encoding/json"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

type Engine interface {
	Store(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Fetch returns nil without error on a miss.
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// Cacher keeps JSON values deflated in an Engine.
type Cacher struct {
	engine Engine
	prefix string
}

func NewRedisCache(redisClient *redis.Client, prefix string) *Cacher {
	return &Cacher{
		engine: &redisCache{
			redis: redisClient,
		},
		prefix: prefix,
	}
}

func NewMemoryCache(memory *cache.Cache, prefix string) *Cacher {
	return &Cacher{
		engine: &memoryCache{
			memory: memory,
		},
		prefix: prefix,
	}
}

func deflate(uncompressed []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer, _ := flate.NewWriter(&buffer, flate.BestSpeed)

	_, err := writer.Write(uncompressed)
	if err != nil {
		return nil, err
	}

	err = writer.Close()
	if err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

func inflate(compressed []byte) ([]byte, error) {
	buffer := bytes.NewReader(compressed)
	reader := flate.NewReader(buffer)
	defer reader.Close()

	var out bytes.Buffer
	_, err := out.ReadFrom(reader)
	if err != nil {
		return []byte{}, err
	}

	return out.Bytes(), nil
}

func (c *Cacher) Key(key string) string {
	return c.prefix + key
}

func (c *Cacher) Store(ctx context.Context, key string, value any, ttl time.Duration) error {
	bytes, err := json.Marshal(value)
	if err != nil {
		return err
	}

	compressed, err := deflate(bytes)
	if err != nil {
		return err
	}

	return c.engine.Store(ctx, c.Key(key), compressed, ttl)
}

// Fetch reports whether key was found and decoded into destination.
func (c *Cacher) Fetch(ctx context.Context, key string, destination any) bool {
	found, err := c.Lookup(ctx, key, destination)
	return err == nil && found
}

// Lookup is Fetch with the engine and decoding errors surfaced. A miss is false without error.
func (c *Cacher) Lookup(ctx context.Context, key string, destination any) (bool, error) {
	value, err := c.engine.Fetch(ctx, c.Key(key))
	if err != nil {
		return false, err
	}

	if value == nil {
		return false, nil
	}

	uncompressed, err := inflate(value)
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(uncompressed, destination); err != nil {
		return false, err
	}

	return true, nil
}
