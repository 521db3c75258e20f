package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cartapp "github.com/marketplace/storefront/internal/application/cart"
	currencyapp "github.com/marketplace/storefront/internal/application/currency"
	shippingapp "github.com/marketplace/storefront/internal/application/shipping"
	"github.com/marketplace/storefront/internal/infrastructure/cache"
	"github.com/marketplace/storefront/internal/infrastructure/config"
	"github.com/marketplace/storefront/internal/infrastructure/currencyapi"
	"github.com/marketplace/storefront/internal/infrastructure/logger"
	"github.com/marketplace/storefront/internal/infrastructure/persistence"
	"github.com/marketplace/storefront/internal/interfaces/http/handler"
	"github.com/marketplace/storefront/internal/interfaces/http/middleware"
	"github.com/marketplace/storefront/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("State store ready", zap.String("driver", cfg.Database.Driver))

	stateStore := persistence.NewStateStore(db)

	// Rate cache: Redis when configured, in-memory otherwise
	var rateCache cache.RateCache
	if cfg.Redis.RedisEnabled() {
		redisCache, err := cache.NewRedisRateCache(context.Background(),
			cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB, cfg.Currency.RefreshInterval)
		if err != nil {
			log.Warn("Redis unavailable, using in-memory rate cache", zap.Error(err))
			rateCache = cache.NewMemoryRateCache(cfg.Currency.RefreshInterval)
		} else {
			defer func() {
				_ = redisCache.Close()
			}()
			rateCache = redisCache
			log.Info("Redis rate cache connected", zap.String("addr", cfg.Redis.Addr()))
		}
	} else {
		rateCache = cache.NewMemoryRateCache(cfg.Currency.RefreshInterval)
	}

	currencyClient := currencyapi.NewClient(cfg.Currency.UpstreamURL, cfg.Currency.FetchTimeout)
	if currencyClient.Enabled() {
		log.Info("Currency upstream configured", zap.String("url", cfg.Currency.UpstreamURL))
	} else {
		log.Info("No currency upstream configured, using built-in rates")
	}

	// Application services
	currencyService := currencyapp.NewService(currencyClient, rateCache, stateStore,
		cfg.Currency.RefreshInterval, log.Named("currency"))
	gateway := currencyapp.NewCartGateway(currencyService)

	cartService := cartapp.NewService(stateStore, gateway,
		currencyService.Preference(context.Background()), log.Named("cart"))
	defer cartService.Wait()

	shippingService := shippingapp.NewService(cartService, gateway, log.Named("shipping"))

	// Changing the currency preference recomputes cart display prices
	currencyService.Subscribe(func(code string) {
		cartService.SetDisplayCurrency(context.Background(), code)
	})

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORS(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	systemHandler := handler.NewSystemHandler(db)
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewCurrencyHandler(currencyService))
	r.Register(handler.NewCartHandler(cartService))
	r.Register(handler.NewShippingHandler(shippingService))
	r.Setup()
	engine.GET("/api/v1/ping", systemHandler.Ping)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	// Let in-flight cart recomputation batches land before exit
	cartService.Wait()
	log.Info("Server stopped")
}
