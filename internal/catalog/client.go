package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"bitbucket.org/sportshop/storefront/internal/schema"
	"bitbucket.org/sportshop/storefront/internal/tools/client"
	"bitbucket.org/sportshop/storefront/internal/tools/grouping"
	"bitbucket.org/sportshop/storefront/internal/tools/requesting"
	"github.com/google/go-querystring/query"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL  = "http://localhost:3000/api"
	DefaultAssetURL = "http://localhost:3000"
)

// Source provides the active catalog. Failures degrade to empty lists.
type Source interface {
	Products(ctx context.Context) []schema.Product
	Categories(ctx context.Context) []schema.Category
}

type listParams struct {
	Active bool `url:"active"`
}

type apiProduct struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Price       decimal.Decimal  `json:"price"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	Images      []string         `json:"images"`
	Variants    []schema.Variant `json:"variants"`
}

type apiCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon"`
}

type Client struct {
	baseURL    string
	assetURL   string
	httpClient *http.Client
	redis      *redis.Client
	grouping   grouping.Options
	log        *zerolog.Logger
}

type ClientOption func(c *Client)

func WithAssetURL(assetURL string) ClientOption {
	return func(c *Client) {
		if assetURL != "" {
			c.assetURL = assetURL
		}
	}
}

// WithGrouping coalesces identical fetches across instances through redis.
func WithGrouping(redisClient *redis.Client, options grouping.Options) ClientOption {
	return func(c *Client) {
		c.redis = redisClient
		c.grouping = options
	}
}

func NewClient(log *zerolog.Logger, clientOptions []client.OptionFunc, options ...ClientOption) *Client {
	httpOptions := client.NewOptions(append([]client.OptionFunc{client.WithName("catalog")}, clientOptions...)...)

	c := &Client{
		baseURL:    httpOptions.BaseURL(DefaultBaseURL),
		assetURL:   DefaultAssetURL,
		httpClient: httpOptions.HTTPClient(log),
		log:        log,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

func (c *Client) Products(ctx context.Context) []schema.Product {
	var raw []apiProduct
	if err := c.fetch(ctx, "products", &raw); err != nil {
		c.log.Error().Err(err).Str("resource", "products").Msg("Unable to fetch catalog, serving empty list")
		return []schema.Product{}
	}

	products := make([]schema.Product, 0, len(raw))
	for _, product := range raw {
		products = append(products, c.normalizeProduct(product))
	}

	return products
}

func (c *Client) Categories(ctx context.Context) []schema.Category {
	var raw []apiCategory
	if err := c.fetch(ctx, "categories", &raw); err != nil {
		c.log.Error().Err(err).Str("resource", "categories").Msg("Unable to fetch categories, serving empty list")
		return []schema.Category{}
	}

	categories := make([]schema.Category, 0, len(raw))
	for _, category := range raw {
		icon := category.Icon
		if icon == "" {
			icon = CategoryIcon(category.Slug)
		}

		categories = append(categories, schema.Category{
			ID:   category.ID,
			Name: category.Name,
			Slug: category.Slug,
			Icon: icon,
		})
	}

	return categories
}

// Product looks a single product up in the active catalog.
func Product(ctx context.Context, source Source, id int) (schema.Product, bool) {
	for _, product := range source.Products(ctx) {
		if product.ID == id {
			return product, true
		}
	}
	return schema.Product{}, false
}

func (c *Client) normalizeProduct(product apiProduct) schema.Product {
	image := product.Image
	images := product.Images
	if len(images) > 0 {
		image = c.assetURL + images[0]
	} else if product.Image != "" {
		images = []string{product.Image}
	}

	variants := product.Variants
	if variants == nil {
		variants = []schema.Variant{}
	}

	return schema.Product{
		ID:          product.ID,
		Name:        product.Name,
		Category:    product.Category,
		Price:       product.Price,
		Description: product.Description,
		Image:       image,
		Images:      images,
		Icon:        CategoryIcon(product.Category),
		Variants:    variants,
	}
}

func (c *Client) fetch(ctx context.Context, resource string, destination any) error {
	values, err := query.Values(listParams{Active: true})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s?%s", c.baseURL, resource, values.Encode())

	requester := func() (*grouping.Response, error) {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return nil, err
		}

		response, err := c.httpClient.Do(request)
		if err != nil {
			return nil, err
		}
		defer response.Body.Close()

		body, err := io.ReadAll(response.Body)
		if err != nil {
			return nil, err
		}

		return &grouping.Response{
			Code:    response.StatusCode,
			Headers: response.Header,
			Body:    string(body),
		}, nil
	}

	var response *grouping.Response
	if c.redis != nil {
		manager := grouping.NewRequestManager(c.redis, c.log, "catalog:"+resource, c.grouping)
		response, err = manager.HandleRequest(ctx, requester)
	} else {
		response, err = requester()
	}

	if err != nil {
		return err
	}

	if err := requesting.CheckStatus(response.Code); err != nil {
		return err
	}

	return json.Unmarshal([]byte(response.Body), destination)
}
