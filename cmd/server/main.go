package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/shelflens/backend/config"
	httpDelivery "github.com/shelflens/backend/internal/delivery/http"
	"github.com/shelflens/backend/internal/infrastructure/cache"
	"github.com/shelflens/backend/internal/infrastructure/gemini"
	"github.com/shelflens/backend/internal/logger"
	"github.com/shelflens/backend/internal/usecase"
)

func main() {
	// A local .env is a development convenience; absence is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	log.Info("starting shelflens backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("model", cfg.Inference.Model),
		zap.Bool("cache", cfg.Cache.Enabled))

	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()

	inferenceClient := gemini.NewClient(
		cfg.Inference.APIKey,
		cfg.Inference.BaseURL,
		cfg.Inference.Model,
		gemini.BackoffPolicy{
			BaseDelay:   cfg.Retry.BaseDelay,
			MaxAttempts: cfg.Retry.MaxAttempts,
		},
		log,
	)

	productService := usecase.NewProductService(
		memoryCache,
		inferenceClient,
		usecase.ProductServiceConfig{
			CacheEnabled: cfg.Cache.Enabled,
			CacheTTL:     cfg.Cache.TTL,
		},
		log,
	)

	handler := httpDelivery.NewHandler(productService, log)
	router := httpDelivery.SetupRouter(cfg, handler, log)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
