package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hankjoberg-netizen/voltstore/internal/cart"
	"github.com/hankjoberg-netizen/voltstore/internal/catalog"
	"github.com/hankjoberg-netizen/voltstore/internal/checkout"
	"github.com/hankjoberg-netizen/voltstore/internal/events"
	vshttp "github.com/hankjoberg-netizen/voltstore/internal/http"
	"github.com/hankjoberg-netizen/voltstore/internal/payment"
	"github.com/hankjoberg-netizen/voltstore/internal/repository"
	"github.com/hankjoberg-netizen/voltstore/internal/session"
	"github.com/hankjoberg-netizen/voltstore/pkg/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	// Catalog: a load failure degrades to an empty catalog, it never stops
	// the store from serving.
	store, err := catalog.Load(cfg.ProductsPath)
	if err != nil {
		logger.Warn("catalog load failed, serving an empty catalog", zap.Error(err))
	}
	logger.Info("catalog loaded", zap.String("path", cfg.ProductsPath), zap.Int("products", store.Len()))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Fatal("failed to create data directory", zap.Error(err))
	}
	repo, err := repository.NewRepository(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open order store", zap.Error(err))
	}
	defer repo.Close()
	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	var sessions session.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal("redis connection failed", zap.Error(err))
		}
		sessions = session.NewRedisStore(redisClient, cfg.SessionTTL)
		logger.Info("using redis session store", zap.String("addr", cfg.RedisAddr))
	} else {
		sessions = session.NewMemoryStore()
		logger.Info("using in-memory session store")
	}

	var provider payment.Provider
	if cfg.StripeSecretKey != "" {
		provider = payment.NewStripeClient(cfg.StripeSecretKey)
		logger.Info("stripe checkout enabled")
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, checkout is disabled")
	}

	var publisher *events.Publisher
	if cfg.KafkaBrokers != "" {
		publisher = events.NewPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer publisher.Close()
		logger.Info("order events enabled", zap.String("brokers", cfg.KafkaBrokers))
	}

	engine := cart.NewEngine(store)
	coordinator := checkout.NewCoordinator(engine, repo, sessions, provider, publisher, logger, cfg.BaseURL)

	productHandler := vshttp.NewProductHandler(store)
	cartHandler := vshttp.NewCartHandler(engine, sessions, logger)
	checkoutHandler := vshttp.NewCheckoutHandler(coordinator, sessions, logger)

	router := vshttp.NewRouter(productHandler, cartHandler, checkoutHandler, logger, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("voltstore listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func newLogger(level string) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		zapCfg.Level = lvl
	}
	return zapCfg.Build()
}
