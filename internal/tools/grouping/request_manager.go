package grouping

import (
	"context"
	"time"

	"bitbucket.org/sportshop/storefront/internal/tools/slowlog"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	DefaultSuccessTTL = 1 * time.Minute
	DefaultFailureTTL = 5 * time.Second
	DefaultWait       = 400 * time.Millisecond
	lockTTL           = 1 * time.Minute
	hitHeader         = "x-grouping-hit"
)

type Response struct {
	Code    int
	Headers map[string][]string
	Body    string
}

type RequestManager interface {
	HandleRequest(context.Context, func() (*Response, error)) (*Response, error)
}

// Storage holds the fetch lock and the latest snapshot of each resource.
type Storage interface {
	Claim(ctx context.Context, resource string) (bool, error)
	Release(ctx context.Context, resource string)
	Save(ctx context.Context, resource string, response *Response, ttl time.Duration)
	Load(ctx context.Context, resource string) (*Snapshot, error)
}

type Options struct {
	SuccessTTL time.Duration
	FailureTTL time.Duration
	Wait       time.Duration
}

func (o Options) withDefaults() Options {
	if o.SuccessTTL <= 0 {
		o.SuccessTTL = DefaultSuccessTTL
	}
	if o.FailureTTL <= 0 {
		o.FailureTTL = DefaultFailureTTL
	}
	if o.Wait <= 0 {
		o.Wait = DefaultWait
	}
	return o
}

type requestManager struct {
	storage  Storage
	log      *zerolog.Logger
	slowLog  slowlog.Logger
	resource string
	options  Options
}

func isStatusCodeAcceptable(code int) bool {
	return code >= 200 && code < 300
}

func (m *requestManager) fetchAndSave(ctx context.Context, requester func() (*Response, error)) (*Response, error) {
	m.slowLog.Start("grouping:fetchAndSave")
	defer m.slowLog.Stop("grouping:fetchAndSave")
	defer m.storage.Release(ctx, m.resource)

	response, err := requester()
	if err != nil {
		m.log.Err(err).Str("resource", m.resource).Msg("Unable to request upstream")
		return nil, err
	}

	ttl := m.options.SuccessTTL
	if !isStatusCodeAcceptable(response.Code) {
		ttl = m.options.FailureTTL
	}

	m.storage.Save(context.WithoutCancel(ctx), m.resource, response, ttl)

	return response, nil
}

func (m *requestManager) fetchOrWait(ctx context.Context, requester func() (*Response, error)) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, context.Canceled
	default:
	}

	snapshot, err := m.storage.Load(ctx, m.resource)
	if err != nil {
		m.log.Err(err).
			Str("label", "grouping").
			Bool("hit", false).
			Str("resource", m.resource).
			Msg("Unable to load snapshot, requesting upstream")

		return requester()
	}

	if snapshot != nil {
		m.log.Info().
			Str("label", "grouping").
			Bool("hit", true).
			Str("resource", m.resource).
			Time("fetchedAt", snapshot.FetchedAt).
			Msg("Used shared snapshot")

		response := snapshot.response()
		response.Headers[hitHeader] = []string{"hit"}

		return response, nil
	}

	claimed, err := m.storage.Claim(ctx, m.resource)
	if err != nil || claimed {
		return m.fetchAndSave(ctx, requester)
	}

	time.Sleep(m.options.Wait)

	return m.fetchOrWait(ctx, requester)
}

// HandleRequest runs requester once per resource across all instances sharing redis.
// Concurrent callers wait for the saved snapshot instead of calling the upstream.
func (m *requestManager) HandleRequest(ctx context.Context, requester func() (*Response, error)) (*Response, error) {
	m.slowLog.Start("grouping:HandleRequest")
	defer m.slowLog.Stop("grouping:HandleRequest")
	return m.fetchOrWait(ctx, requester)
}

func NewRequestManager(
	redis *redis.Client,
	log *zerolog.Logger,
	resource string,
	options Options,
) RequestManager {
	logWithGroupingId := log.With().Str("groupingId", uuid.New().String()).Logger()
	slowLog := slowlog.CreateLogger(&logWithGroupingId)

	return &requestManager{
		storage:  newRedisStorage(redis, &logWithGroupingId, slowLog),
		resource: resource,
		log:      &logWithGroupingId,
		slowLog:  slowLog,
		options:  options.withDefaults(),
	}
}
