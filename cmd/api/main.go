package main

import (
	"log"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/techhubafrica/tech-news-tips/internal/api"
	"github.com/techhubafrica/tech-news-tips/internal/collector"
	"github.com/techhubafrica/tech-news-tips/internal/config"
	"github.com/techhubafrica/tech-news-tips/internal/logging"
	"github.com/techhubafrica/tech-news-tips/internal/middleware"
	"github.com/techhubafrica/tech-news-tips/internal/processor"
	"github.com/techhubafrica/tech-news-tips/internal/scheduler"
	"github.com/techhubafrica/tech-news-tips/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := logging.Init(cfg.LogLevel, cfg.LogFile)

	// Without a data layer there is nothing to serve.
	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	newsSource := collector.NewNewsAPISource(cfg.NewsAPIKey, cfg.NewsAPIBaseURL)
	tipSource, err := collector.NewDevToSource(cfg.DevToBaseURL, cfg.ScrapeUserAgent, logger)
	if err != nil {
		log.Fatalf("init devto source failed: %v", err)
	}

	sched, err := scheduler.New(cfg.CronSpec,
		[]collector.ArticleSource{newsSource},
		[]collector.TipSource{tipSource},
		processor.NewClassifier(), store, logger)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	// Starts the cron schedule and an initial ingestion shortly after
	// boot, so a fresh deployment has content before the first tick.
	sched.Start()

	r := gin.Default()
	r.Use(middleware.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax).Middleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	api.NewServer(store, sched, logger).RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
