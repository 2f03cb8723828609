package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bilgisen/newscast/internal/ai"
	"github.com/bilgisen/newscast/internal/api"
	"github.com/bilgisen/newscast/internal/cache"
	"github.com/bilgisen/newscast/internal/config"
	"github.com/bilgisen/newscast/internal/logger"
	"github.com/bilgisen/newscast/internal/middleware"
	"github.com/bilgisen/newscast/internal/news"
	"github.com/bilgisen/newscast/internal/pipeline"
	"github.com/bilgisen/newscast/internal/publish"
	"github.com/bilgisen/newscast/internal/rank"
	"github.com/bilgisen/newscast/internal/scheduler"
	"github.com/bilgisen/newscast/internal/social"
	"github.com/bilgisen/newscast/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: true,
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().
		Str("mode", cfg.RunMode).
		Str("topic", cfg.Topic).
		Msg("Starting newscast")

	// Dedupe cache: Redis when configured, in-process otherwise
	var dedupe cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis cache")
		}
		dedupe = redisCache
	} else {
		log.Warn().Msg("REDIS_URL not set, using in-process dedupe cache")
		dedupe = cache.NewMemoryCache()
	}
	defer func() {
		if err := dedupe.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing cache")
		}
	}()

	// Run report archive
	store, err := storage.NewStorage(cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	// Optional R2 mirror for run reports
	var mirror pipeline.Mirror
	r2cfg := storage.R2Config{
		Endpoint:  cfg.R2Endpoint,
		AccessKey: cfg.R2AccessKey,
		SecretKey: cfg.R2SecretKey,
		Bucket:    cfg.R2Bucket,
	}
	if r2cfg.Enabled() {
		r2, err := storage.NewR2Mirror(context.Background(), r2cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 mirror")
		}
		mirror = r2
	}

	// Platform client is a hard precondition only when auto-post is on
	var socialClient publish.SocialClient
	if cfg.SocialConfigured() {
		client, err := social.NewClient(social.Config{
			APIKey:       cfg.TwitterAPIKey,
			APISecret:    cfg.TwitterAPISecret,
			AccessToken:  cfg.TwitterAccessToken,
			AccessSecret: cfg.TwitterAccessSecret,
			Handle:       cfg.TwitterHandle,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize platform client")
		}
		socialClient = client
	} else if cfg.AutoPost {
		log.Fatal().Msg("Auto-post enabled but platform credentials are incomplete")
	}

	pipe := pipeline.New(pipeline.Deps{
		Fetcher: news.NewClient(cfg.NewsBaseURL, cfg.NewsAPIKey),
		Ranker:  rank.NewRanker(),
		Rewriter: ai.NewRewriter(ai.NewChatClient(
			cfg.AIEndpoint,
			cfg.AIModel,
			cfg.AIApiKey,
			time.Duration(cfg.AITimeout)*time.Second,
		)),
		Publisher: publish.NewPublisher(socialClient),
		Cache:     dedupe,
		Archiver:  store,
		Mirror:    mirror,
	})

	opts := pipeline.Options{
		Topic:    cfg.Topic,
		AutoPost: cfg.AutoPost,
		MaxPosts: cfg.MaxPosts,
		CacheTTL: cfg.CacheTTL,
	}

	if cfg.RunMode == config.ModeOnce {
		if _, err := pipe.Run(context.Background(), opts); err != nil {
			log.Fatal().Err(err).Msg("Pipeline run failed")
		}
		return
	}

	// Serve mode: admin API plus optional interval scheduling
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	api.SetupRoutes(app, cfg, pipe, store)

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunInterval > 0 {
		sched := scheduler.New(cfg.RunInterval)
		sched.Start(rootCtx, func(ctx context.Context) {
			if _, err := pipe.Run(ctx, opts); err != nil {
				log.Error().Err(err).Msg("Scheduled run failed")
			}
		})
		defer sched.Stop()
		log.Info().Dur("interval", cfg.RunInterval).Msg("Interval scheduler started")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
