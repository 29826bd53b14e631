package main

import (
	"log"

	"github.com/techhubafrica/tech-news-tips/internal/collector"
	"github.com/techhubafrica/tech-news-tips/internal/config"
	"github.com/techhubafrica/tech-news-tips/internal/logging"
	"github.com/techhubafrica/tech-news-tips/internal/processor"
	"github.com/techhubafrica/tech-news-tips/internal/scheduler"
	"github.com/techhubafrica/tech-news-tips/internal/storage"
)

// One-shot ingestion entry point for manual runs and cron-less
// deployments.
func main() {
	cfg := config.Load()
	logger := logging.Init(cfg.LogLevel, cfg.LogFile)

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

	sched.RunOnce()
}
