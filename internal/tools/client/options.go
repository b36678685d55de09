package client

import (
	"net/http"
	"strings"
	"time"

	"bitbucket.org/sportshop/storefront/internal/tools/requesting"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout   = 3 * time.Second
	DefaultUserAgent = "sportshop-storefront"
)

type OptionFunc func(o *Options)

type Options struct {
	// Name of the upstream, used for logging
	name string

	// BaseURL - full URL to the upstream (including protocol)
	baseURL string

	// Timeout - if not set, then default timeout is used
	timeout time.Duration

	// Transport - defaults to http.DefaultTransport
	transport http.RoundTripper

	userAgent string
}

func WithName(name string) OptionFunc {
	return func(o *Options) {
		o.name = name
	}
}

func WithBaseURL(baseURL string) OptionFunc {
	return func(o *Options) {
		o.baseURL = baseURL
	}
}

func WithTimeout(timeout time.Duration) OptionFunc {
	return func(o *Options) {
		o.timeout = timeout
	}
}

func WithTransport(transport http.RoundTripper) OptionFunc {
	return func(o *Options) {
		o.transport = transport
	}
}

func WithUserAgent(userAgent string) OptionFunc {
	return func(o *Options) {
		o.userAgent = userAgent
	}
}

func NewOptions(optionFuncs ...OptionFunc) *Options {
	options := &Options{
		name:      "upstream",
		userAgent: DefaultUserAgent,
	}

	for _, optionFunc := range optionFuncs {
		optionFunc(options)
	}

	return options
}

func (o *Options) Name() string {
	return o.name
}

// BaseURL returns the configured base url, or fallback, without trailing slash.
func (o *Options) BaseURL(fallback string) string {
	baseURL := o.baseURL
	if baseURL == "" {
		baseURL = fallback
	}

	return strings.TrimRight(baseURL, "/")
}

func (o *Options) Timeout() time.Duration {
	if o.timeout > 0 {
		return o.timeout
	}
	return DefaultTimeout
}

// HTTPClient builds a client logging every outgoing request under the upstream name.
func (o *Options) HTTPClient(log *zerolog.Logger) *http.Client {
	transport := o.transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &http.Client{
		Timeout: o.Timeout(),
		Transport: &requesting.InterceptorTransport{
			Transport: transport,
			Middlewares: []requesting.TransportMiddleware{
				requesting.NewHeaderTransportMiddleware(http.Header{
					"Accept":     {"application/json"},
					"User-Agent": {o.userAgent},
				}),
				requesting.NewLoggingTransportMiddleware(log, o.name),
			},
		},
	}
}
