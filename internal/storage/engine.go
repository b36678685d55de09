package storage

import (
	"context"
	"errors"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Engine is a flat key-value store of JSON snapshots.
type Engine interface {
	// Get reports found false for a missing key.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type redisEngine struct {
	redis *redis.Client
}

func NewRedisEngine(redisClient *redis.Client) Engine {
	return &redisEngine{redis: redisClient}
}

func (e *redisEngine) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := e.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return value, true, nil
}

func (e *redisEngine) Set(ctx context.Context, key string, value []byte) error {
	return e.redis.Set(ctx, key, value, 0).Err()
}

func (e *redisEngine) Delete(ctx context.Context, key string) error {
	return e.redis.Del(ctx, key).Err()
}

type memoryEngine struct {
	memory *cache.Cache
}

// NewMemoryEngine keeps snapshots in process, without expiry.
func NewMemoryEngine() Engine {
	return &memoryEngine{memory: cache.New(cache.NoExpiration, 0)}
}

func (e *memoryEngine) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, found := e.memory.Get(key)
	if !found {
		return nil, false, nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), bytes...), true, nil
}

func (e *memoryEngine) Set(_ context.Context, key string, value []byte) error {
	e.memory.Set(key, append([]byte(nil), value...), cache.NoExpiration)
	return nil
}

func (e *memoryEngine) Delete(_ context.Context, key string) error {
	e.memory.Delete(key)
	return nil
}
