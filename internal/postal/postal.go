package postal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bitbucket.org/sportshop/storefront/internal/schema"
	"bitbucket.org/sportshop/storefront/internal/tools/caching"
	"bitbucket.org/sportshop/storefront/internal/tools/client"
	"bitbucket.org/sportshop/storefront/internal/tools/requesting"
	"bitbucket.org/sportshop/storefront/internal/tools/slowlog"
	"bitbucket.org/sportshop/storefront/internal/validation"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://viacep.com.br"
	cacheTTL       = 24 * time.Hour
)

var (
	ErrNotFound          = errors.New("postal code not found")
	ErrInvalidPostalCode = errors.New("invalid postal code")
	ErrLookupFailed      = errors.New("postal code lookup failed")
)

type Resolver interface {
	Resolve(ctx context.Context, code string) (schema.Address, error)
}

// ViaCEP answers {"erro": true} for unknown codes, newer deployments send the string "true".
type errorFlag bool

func (f *errorFlag) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	*f = errorFlag(value == "true")
	return nil
}

type viaCEPResponse struct {
	Cep         string    `json:"cep"`
	Logradouro  string    `json:"logradouro"`
	Complemento string    `json:"complemento"`
	Bairro      string    `json:"bairro"`
	Localidade  string    `json:"localidade"`
	Uf          string    `json:"uf"`
	Erro        errorFlag `json:"erro"`
}

func (r viaCEPResponse) address(code string) schema.Address {
	return schema.Address{
		PostalCode: code,
		Street:     r.Logradouro,
		Complement: r.Complemento,
		District:   r.Bairro,
		City:       r.Localidade,
		State:      r.Uf,
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *caching.Cacher
	log        *zerolog.Logger
}

// NewClient builds a ViaCEP resolver. cache may be nil.
func NewClient(log *zerolog.Logger, cache *caching.Cacher, optionFuncs ...client.OptionFunc) *Client {
	options := client.NewOptions(append([]client.OptionFunc{client.WithName("viacep")}, optionFuncs...)...)

	return &Client{
		baseURL:    options.BaseURL(DefaultBaseURL),
		httpClient: options.HTTPClient(log),
		cache:      cache,
		log:        log,
	}
}

func (c *Client) Resolve(ctx context.Context, code string) (schema.Address, error) {
	normalized := validation.NormalizePostalCode(code)
	if !validation.ValidatePostalCodeLocal(normalized) {
		return schema.Address{}, ErrInvalidPostalCode
	}

	slowLog := slowlog.CreateLogger(c.log)
	slowLog.Start("postal:resolve")
	defer slowLog.Stop("postal:resolve")

	var address schema.Address
	if c.cache != nil && c.cache.Fetch(ctx, normalized, &address) {
		return address, nil
	}

	address, err := c.lookup(ctx, normalized)
	if err != nil {
		return schema.Address{}, err
	}

	if c.cache != nil {
		if err := c.cache.Store(ctx, normalized, address, cacheTTL); err != nil {
			c.log.Warn().Err(err).Str("postalCode", normalized).Msg("Unable to cache address")
		}
	}

	return address, nil
}

func (c *Client) lookup(ctx context.Context, code string) (schema.Address, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, code)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return schema.Address{}, fmt.Errorf("%w: %s", ErrLookupFailed, err)
	}

	response, err := requesting.RequestErrors(c.httpClient.Do(request))
	if err != nil {
		return schema.Address{}, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	defer response.Body.Close()

	var body viaCEPResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		return schema.Address{}, fmt.Errorf("%w: decoding response: %s", ErrLookupFailed, err)
	}

	if body.Erro {
		return schema.Address{}, ErrNotFound
	}

	return body.address(code), nil
}
