package redisfactory

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Factory owns the redis client shared by storage, caches, challenges and grouping.
// Without an uri every consumer falls back to its in-process engine.
type Factory struct {
	client *redis.Client
}

func New(uri string) (*Factory, error) {
	if uri == "" {
		return &Factory{}, nil
	}

	opt, err := redis.ParseURL(uri)
	if err != nil {
		return nil, err
	}

	opt.DialTimeout = 4 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	return &Factory{
		client: redis.NewClient(opt),
	}, nil
}

func NewWithClient(client *redis.Client) *Factory {
	return &Factory{client: client}
}

// Client returns nil when redis is not configured.
func (f *Factory) Client() *redis.Client {
	return f.client
}

func (f *Factory) Enabled() bool {
	return f.client != nil
}

func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
