//go:build !integration

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitbucket.org/sportshop/storefront/internal/account"
	"bitbucket.org/sportshop/storefront/internal/catalog"
	"bitbucket.org/sportshop/storefront/internal/checkout"
	"bitbucket.org/sportshop/storefront/internal/config"
	"bitbucket.org/sportshop/storefront/internal/postal"
	"bitbucket.org/sportshop/storefront/internal/storage"
	"bitbucket.org/sportshop/storefront/internal/tools/caching"
	"bitbucket.org/sportshop/storefront/internal/tools/client"
	"bitbucket.org/sportshop/storefront/internal/tools/grouping"
	"bitbucket.org/sportshop/storefront/internal/tools/logger"
	"bitbucket.org/sportshop/storefront/internal/tools/redisfactory"
	"bitbucket.org/sportshop/storefront/internal/verification"
	"bitbucket.org/sportshop/storefront/internal/web"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

func serverApp(httpServer *http.Server, logger *zerolog.Logger) int {
	shutdown := false
	done := make(chan error, 1)
	stop := make(chan os.Signal, 1)
	go func() {
		logger.
			Info().
			Msg("Listening on address " + httpServer.Addr)
		done <- httpServer.ListenAndServe()
	}()
	go func() {
		// Wait for stop
		<-stop
		shutdown = true
		logger.Info().Msg("Shutting down server...")
		_ = httpServer.Shutdown(context.Background())
	}()

	// Notify stop channel if SIGINT or SIGTERM is received
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	err := <-done
	if err != nil && !shutdown {
		logger.
			Error().
			Err(err).
			Msg("Server failed")
		return 1
	}
	return 0
}

// verificationSender queues deliveries through asynq when a broker is configured,
// otherwise codes are only logged. The returned func releases what was started.
func verificationSender(cfg config.Config, log *zerolog.Logger) (verification.Sender, func(), error) {
	if cfg.AsynqRedisAddr == "" {
		return verification.NewLogSender(log), func() {}, nil
	}

	connection := asynq.RedisClientOpt{Addr: cfg.AsynqRedisAddr, Password: cfg.AsynqPassword}

	worker := verification.NewWorker(connection, log)
	if err := worker.Start(); err != nil {
		return nil, nil, fmt.Errorf("starting verification worker: %w", err)
	}

	queue := asynq.NewClient(connection)

	return verification.NewAsynqSender(queue), func() {
		worker.Shutdown()
		_ = queue.Close()
	}, nil
}

func run() int {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	redisFactory, err := redisfactory.New(cfg.RedisURI)
	if err != nil {
		log.Error().Err(err).Msg("Invalid redis configuration")
		return 1
	}
	defer redisFactory.Close()

	var (
		engine      storage.Engine
		postalCache *caching.Cacher
		challenges  verification.Store
		catalogOpts []catalog.ClientOption
	)

	if redisFactory.Enabled() {
		engine = storage.NewRedisEngine(redisFactory.Client())
		postalCache = caching.NewRedisCache(redisFactory.Client(), "postal:")
		challenges = verification.NewRedisStore(redisFactory.Client(), log)
		catalogOpts = append(catalogOpts, catalog.WithGrouping(redisFactory.Client(), grouping.Options{}))
	} else {
		log.Warn().Msg("REDIS_URI not set, client state lives in memory")
		engine = storage.NewMemoryEngine()
		postalCache = caching.NewMemoryCache(cache.New(cache.NoExpiration, 10*time.Minute), "postal:")
		challenges = verification.NewMemoryStore()
	}

	resolver := postal.NewClient(log, postalCache,
		client.WithBaseURL(cfg.ViaCEPURL),
		client.WithTimeout(cfg.HTTPTimeout),
	)

	catalogClient := catalog.NewClient(log,
		[]client.OptionFunc{
			client.WithBaseURL(cfg.CatalogAPIURL),
			client.WithTimeout(cfg.HTTPTimeout),
		},
		append(catalogOpts, catalog.WithAssetURL(cfg.CatalogAssetURL))...,
	)

	sender, release, err := verificationSender(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Unable to set up verification delivery")
		return 1
	}
	defer release()

	signer, err := checkout.NewSigner(cfg.CheckoutSecret)
	if err != nil {
		log.Error().Err(err).Msg("Invalid checkout secret")
		return 1
	}

	document, err := os.ReadFile(cfg.OpenAPILocation)
	if err != nil {
		log.Warn().Err(err).Str("location", cfg.OpenAPILocation).Msg("Unable to read API document")
	}

	appRouter := web.SetupRouter(log, web.Dependencies{
		Storage:    engine,
		Postal:     resolver,
		Catalog:    catalogClient,
		Accounts:   account.NewService(resolver, verification.NewVerifier(challenges, sender, log), cfg.BcryptCost, log),
		Signer:     signer,
		OpenAPI:    document,
		Production: cfg.IsProduction(),
	})

	var host string
	if os.Getenv("TEST") == "true" {
		host = "localhost"
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", host, cfg.Port),
		Handler: appRouter,
	}

	return serverApp(httpServer, log)
}

func main() {
	os.Exit(run())
}
