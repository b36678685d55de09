package grouping

import (
	"context"
	"time"

	"bitbucket.org/sportshop/storefront/internal/tools/caching"
	"bitbucket.org/sportshop/storefront/internal/tools/slowlog"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	lockPrefix     = "grouping:lock:"
	snapshotPrefix = "grouping:snapshot:"
)

// Snapshot is the upstream answer for a resource, shared with every instance
// waiting on the same fetch.
type Snapshot struct {
	Code      int                 `json:"code"`
	Headers   map[string][]string `json:"headers,omitempty"`
	Body      string              `json:"body"`
	FetchedAt time.Time           `json:"fetchedAt"`
}

func (s *Snapshot) response() *Response {
	headers := s.Headers
	if headers == nil {
		headers = make(map[string][]string)
	}

	return &Response{
		Code:    s.Code,
		Headers: headers,
		Body:    s.Body,
	}
}

type redisStorage struct {
	redis     *redis.Client
	snapshots *caching.Cacher
	log       *zerolog.Logger
	slowLog   slowlog.Logger
	now       func() time.Time
}

func newRedisStorage(redisClient *redis.Client, log *zerolog.Logger, slowLog slowlog.Logger) *redisStorage {
	return &redisStorage{
		redis:     redisClient,
		snapshots: caching.NewRedisCache(redisClient, snapshotPrefix),
		log:       log,
		slowLog:   slowLog,
		now:       time.Now,
	}
}

// Claim takes the fetch lock of resource. Only the holder calls the upstream.
func (s *redisStorage) Claim(ctx context.Context, resource string) (bool, error) {
	return s.redis.SetNX(ctx, lockPrefix+resource, s.now().UnixMilli(), lockTTL).Result()
}

// Release drops the lock even when the request that held it was cancelled.
func (s *redisStorage) Release(ctx context.Context, resource string) {
	if err := s.redis.Del(context.WithoutCancel(ctx), lockPrefix+resource).Err(); err != nil {
		s.log.Warn().
			Err(err).
			Str("label", "grouping").
			Str("resource", resource).
			Msg("Unable to release fetch lock")
	}
}

func (s *redisStorage) Save(ctx context.Context, resource string, response *Response, ttl time.Duration) {
	s.slowLog.Start("grouping:save")
	defer s.slowLog.Stop("grouping:save")

	snapshot := Snapshot{
		Code:      response.Code,
		Headers:   response.Headers,
		Body:      response.Body,
		FetchedAt: s.now(),
	}

	if err := s.snapshots.Store(ctx, resource, snapshot, ttl); err != nil {
		s.log.Warn().
			Err(err).
			Str("label", "grouping").
			Str("resource", resource).
			Dur("ttl", ttl).
			Msg("Unable to save snapshot")
	}
}

// Load returns nil without error when no snapshot is stored for resource.
func (s *redisStorage) Load(ctx context.Context, resource string) (*Snapshot, error) {
	s.slowLog.Start("grouping:load")
	defer s.slowLog.Stop("grouping:load")

	var snapshot Snapshot
	found, err := s.snapshots.Lookup(ctx, resource, &snapshot)
	if err != nil || !found {
		return nil, err
	}

	return &snapshot, nil
}
