package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Scrape   ScrapeConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type ScrapeConfig struct {
	MaxImagesCeiling int           // hard cap on per-request max_images
	DefaultMaxImages int           // used when the request omits max_images
	Concurrency      int           // default engine fan-out
	FetchTimeout     time.Duration // per-candidate probe timeout
	SearchDelayMin   time.Duration // polite delay between vendor search-page hits
	SearchDelayMax   time.Duration
}

type RedisConfig struct {
	Addr     string // empty disables the response cache
	Password string
	DB       int
	TTL      time.Duration
}

type DatabaseConfig struct {
	URL string // empty falls back to the seeded in-memory lookup table
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Local dev convenience; missing .env is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Scrape: ScrapeConfig{
			MaxImagesCeiling: getIntOrDefault("SCRAPE_MAX_IMAGES_CEILING", 5),
			DefaultMaxImages: getIntOrDefault("SCRAPE_DEFAULT_MAX_IMAGES", 5),
			Concurrency:      getIntOrDefault("SCRAPE_CONCURRENCY", 10),
			FetchTimeout:     getDurationOrDefault("SCRAPE_FETCH_TIMEOUT", 10*time.Second),
			SearchDelayMin:   getDurationOrDefault("SCRAPE_SEARCH_DELAY_MIN", 500*time.Millisecond),
			SearchDelayMax:   getDurationOrDefault("SCRAPE_SEARCH_DELAY_MAX", 1500*time.Millisecond),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", ""),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       getIntOrDefault("REDIS_DB", 0),
			TTL:      getDurationOrDefault("CACHE_TTL", 6*time.Hour),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scrape.MaxImagesCeiling < 1 {
		return fmt.Errorf("SCRAPE_MAX_IMAGES_CEILING must be at least 1")
	}
	if c.Scrape.DefaultMaxImages < 1 || c.Scrape.DefaultMaxImages > c.Scrape.MaxImagesCeiling {
		return fmt.Errorf("SCRAPE_DEFAULT_MAX_IMAGES must be between 1 and the ceiling")
	}
	if c.Scrape.Concurrency < 1 {
		return fmt.Errorf("SCRAPE_CONCURRENCY must be at least 1")
	}
	if c.Scrape.SearchDelayMin > c.Scrape.SearchDelayMax {
		return fmt.Errorf("SCRAPE_SEARCH_DELAY_MIN cannot be greater than SCRAPE_SEARCH_DELAY_MAX")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
