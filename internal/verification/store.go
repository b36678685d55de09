package verification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	challengeTTL = 24 * time.Hour
	keyPrefix    = "verification:"
)

type memoryStore struct {
	memory *cache.Cache
}

func NewMemoryStore() Store {
	return &memoryStore{memory: cache.New(challengeTTL, time.Hour)}
}

func (s *memoryStore) Load(_ context.Context, target string) (*Challenge, error) {
	value, found := s.memory.Get(keyPrefix + target)
	if !found {
		return nil, nil
	}

	challenge := value.(Challenge)
	return &challenge, nil
}

func (s *memoryStore) Save(_ context.Context, challenge Challenge) error {
	s.memory.SetDefault(keyPrefix+challenge.Target, challenge)
	return nil
}

type redisStore struct {
	redis *redis.Client
	log   *zerolog.Logger
}

func NewRedisStore(redisClient *redis.Client, log *zerolog.Logger) Store {
	return &redisStore{redis: redisClient, log: log}
}

func (s *redisStore) Load(ctx context.Context, target string) (*Challenge, error) {
	raw, err := s.redis.Get(ctx, keyPrefix+target).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var challenge Challenge
	if err := json.Unmarshal(raw, &challenge); err != nil {
		s.log.Warn().
			Err(err).
			Str("label", "verification").
			Str("key", keyPrefix+target).
			Msg("Malformed challenge, treating as not issued")

		return nil, nil
	}

	return &challenge, nil
}

func (s *redisStore) Save(ctx context.Context, challenge Challenge) error {
	raw, err := json.Marshal(challenge)
	if err != nil {
		return err
	}

	return s.redis.Set(ctx, keyPrefix+challenge.Target, raw, challengeTTL).Err()
}
