package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	PostgresDSN string
	RedisAddr   string

	// CronSpec is the recurring ingestion schedule; the default fires
	// every 6 hours on the hour.
	CronSpec string

	NewsAPIKey      string
	NewsAPIBaseURL  string
	DevToBaseURL    string
	ScrapeUserAgent string

	RateLimitWindow time.Duration
	RateLimitMax    int

	LogLevel string
	LogFile  string
}

func Load() *Config {
	// Same convention as the original deployment: a .env file is
	// optional, real env vars win.
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:         getEnv("APP_PORT", "5000"),
		PostgresDSN:     getEnv("POSTGRES_DSN", "host=localhost user=technews password=technews dbname=technews port=5432 sslmode=disable TimeZone=UTC"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		CronSpec:        getEnv("CRON_SPEC", "0 */6 * * *"),
		NewsAPIKey:      getEnv("NEWS_API_KEY", ""),
		NewsAPIBaseURL:  getEnv("NEWS_API_BASE_URL", "https://newsapi.org"),
		DevToBaseURL:    getEnv("DEVTO_BASE_URL", "https://dev.to"),
		ScrapeUserAgent: getEnv("SCRAPE_USER_AGENT", "TechTipsBot/1.0"),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 100),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", "combined.log"),
	}

	log.Printf("config loaded: port=%s cron=%s", cfg.AppPort, cfg.CronSpec)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
