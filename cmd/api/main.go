package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/hotel-pricing/internal/cache"
	"github.com/fairyhunter13/hotel-pricing/internal/clock"
	"github.com/fairyhunter13/hotel-pricing/internal/config"
	"github.com/fairyhunter13/hotel-pricing/internal/handler"
	"github.com/fairyhunter13/hotel-pricing/internal/metrics"
	"github.com/fairyhunter13/hotel-pricing/internal/repository"
	"github.com/fairyhunter13/hotel-pricing/internal/service"
	"github.com/fairyhunter13/hotel-pricing/internal/validator"
	"github.com/fairyhunter13/hotel-pricing/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	// Money is rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(pool); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	m := metrics.New()
	clk := clock.NewRealClock()
	validate := validator.New()

	discountRepo := repository.NewDiscountRepository(pool)
	usageRepo := repository.NewUsageRepository(pool)

	// Catalog reads go through Redis when enabled
	var (
		catalog     service.CandidateLister = discountRepo
		invalidator service.CacheInvalidator
		redisClient *redis.Client
		cachePinger handler.Pinger
	)
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		catalogCache := cache.NewCatalogCache(redisClient, discountRepo, cfg.Redis.CacheTTL())
		catalog = catalogCache
		invalidator = catalogCache
		cachePinger = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL()).Msg("catalog cache enabled")
	}

	discountService := service.NewDiscountService(discountRepo, usageRepo, invalidator, clk)
	pricingService := service.NewPricingService(catalog, clk, cfg.Pricing.Location(), cfg.Pricing.Order(), m)
	ledgerService := service.NewLedgerService(pool, usageRepo, invalidator, clk, m, service.RetryPolicy{
		MaxRetries: cfg.Ledger.MaxRetries,
		Backoff:    cfg.Ledger.RetryBackoff(),
	})

	discountHandler := handler.NewDiscountHandler(discountService, validate)
	pricingHandler := handler.NewPricingHandler(pricingService, validate, cfg.Pricing.Location())
	usageHandler := handler.NewUsageHandler(ledgerService, validate)
	healthHandler := handler.NewHealthHandler(pool, cachePinger)

	app := fiber.New(fiber.Config{
		AppName:      "Hotel Pricing",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	api := app.Group("/api")

	discounts := api.Group("/discounts")
	discounts.Post("/", discountHandler.Create)
	discounts.Get("/", discountHandler.List)
	discounts.Get("/:id", discountHandler.Get)
	discounts.Put("/:id", discountHandler.Update)
	discounts.Patch("/:id/active", discountHandler.SetActive)
	discounts.Delete("/:id", discountHandler.Delete)
	discounts.Get("/:id/stats", discountHandler.Stats)
	discounts.Post("/:id/usages", usageHandler.Record)
	discounts.Delete("/:id/usages/:bookingId", usageHandler.Cancel)

	pricingRoutes := api.Group("/pricing")
	pricingRoutes.Post("/quote", pricingHandler.Quote)
	pricingRoutes.Post("/discounts", pricingHandler.ListApplicable)

	log.Info().
		Str("stacking_order", string(cfg.Pricing.Order())).
		Str("timezone", cfg.Pricing.Timezone).
		Msg("pricing configured")

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close backing stores AFTER server shutdown (even if shutdown timed out)
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis client")
		}
	}
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
