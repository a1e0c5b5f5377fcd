package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/productcatalog/internal/bootstrap"
	"anoa.com/productcatalog/internal/config"
	categoryRepo "anoa.com/productcatalog/internal/modules/category/repository"
	productRepo "anoa.com/productcatalog/internal/modules/product/repository"
	searchService "anoa.com/productcatalog/internal/modules/search/service"
	"anoa.com/productcatalog/internal/server"
	"anoa.com/productcatalog/pkg/database"
	"anoa.com/productcatalog/pkg/logger"
	"anoa.com/productcatalog/pkg/ratelimiter"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.Database(), log)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer sqlDB.Close()

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if cfg.SeedData || cfg.IsDevelopment() {
		if err := bootstrap.SeedCatalog(db, log); err != nil {
			log.Fatalf("failed to seed catalog: %v", err)
		}
	}

	deps := server.Dependencies{
		Categories: categoryRepo.NewCategoryRepository(db),
		Products:   productRepo.NewProductRepository(db),
		DB:         sqlDB,
		Log:        log,
	}

	if rdb := connectRedis(cfg, log); rdb != nil {
		defer rdb.Close()
		deps.Limiter = ratelimiter.NewRedisLimiter(rdb, "writes", cfg.WriteRateLimit, cfg.WriteRateSpan)
	}

	if index := connectMeili(cfg, log); index != nil {
		deps.SearchIndex = index
	}

	srv, err := server.NewServer(cfg, deps)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, ":"+cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// connectRedis returns nil when REDIS_URL is unset or the server does not
// answer; writes are then not throttled.
func connectRedis(cfg *config.Config, log *logrus.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("invalid REDIS_URL, write throttling disabled")
		return nil
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unreachable, write throttling disabled")
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// connectMeili returns nil when MEILISEARCH_HOST is unset or the index cannot
// be configured; product search then answers 503.
func connectMeili(cfg *config.Config, log *logrus.Logger) *searchService.MeiliIndex {
	if cfg.MeiliSearchHost == "" {
		return nil
	}

	client := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	index, err := searchService.NewMeiliIndex(ctx, client, searchService.ProductsIndex)
	if err != nil {
		log.WithError(err).Warn("meilisearch unavailable, product search disabled")
		return nil
	}
	return index
}
