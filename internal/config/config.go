package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPort            = "8080"
	defaultCatalogAPIURL   = "http://localhost:3000/api"
	defaultCatalogAssetURL = "http://localhost:3000"
	defaultViaCEPURL       = "https://viacep.com.br"
	defaultOpenAPILocation = "./api/openapi.json"
	defaultHTTPTimeout     = 3000 * time.Millisecond
	developmentSecret      = "sportshop-development-secret"
)

type Config struct {
	Port            string
	LogLevel        string
	Env             string
	RedisURI        string
	CatalogAPIURL   string
	CatalogAssetURL string
	ViaCEPURL       string
	HTTPTimeout     time.Duration
	CheckoutSecret  string
	AsynqRedisAddr  string
	AsynqPassword   string
	OpenAPILocation string
	BcryptCost      int
}

// Load reads the environment. Call godotenv before it so .env values are visible.
func Load() Config {
	return Config{
		Port:            getenv("PORT", defaultPort),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		Env:             os.Getenv("ENV"),
		RedisURI:        os.Getenv("REDIS_URI"),
		CatalogAPIURL:   getenv("CATALOG_API_URL", defaultCatalogAPIURL),
		CatalogAssetURL: getenv("CATALOG_ASSET_URL", defaultCatalogAssetURL),
		ViaCEPURL:       getenv("VIACEP_URL", defaultViaCEPURL),
		HTTPTimeout:     getMilliseconds("HTTP_TIMEOUT_MS", defaultHTTPTimeout),
		CheckoutSecret:  getenv("CHECKOUT_SECRET", developmentSecret),
		AsynqRedisAddr:  os.Getenv("ASYNQ_REDIS_ADDR"),
		AsynqPassword:   os.Getenv("ASYNQ_REDIS_PASSWORD"),
		OpenAPILocation: getenv("OPENAPI_LOCATION", defaultOpenAPILocation),
		BcryptCost:      getBcryptCost("BCRYPT_COST"),
	}
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getenv(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func getMilliseconds(name string, fallback time.Duration) time.Duration {
	value, err := strconv.Atoi(os.Getenv(name))
	if err != nil || value <= 0 {
		return fallback
	}
	return time.Duration(value) * time.Millisecond
}

func getBcryptCost(name string) int {
	value, err := strconv.Atoi(os.Getenv(name))
	if err != nil || value < bcrypt.MinCost || value > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return value
}
