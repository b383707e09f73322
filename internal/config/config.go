// Package config содержит логику чтения конфигурации клиента Stellar Burgers.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mmeshcher/stellar-burgers/internal/api"
)

// Хранилища токенов.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

const (
	defaultRunAddress       = "localhost:8080"
	defaultFeedPollInterval = 5 * time.Second
)

// Config содержит параметры конфигурации клиента.
type Config struct {
	RunAddress       string        `env:"RUN_ADDRESS" envDefault:"localhost:8080"`
	APIURL           string        `env:"BURGER_API_URL" envDefault:"https://norma.nomoreparties.space/api"`
	Storage          string        `env:"STORAGE" envDefault:"memory"`
	DatabaseURI      string        `env:"DATABASE_URI"`
	RedisAddr        string        `env:"REDIS_ADDR"`
	FeedPollInterval time.Duration `env:"FEED_POLL_INTERVAL" envDefault:"5s"`
	APIRetryMax      int           `env:"API_RETRY_MAX" envDefault:"0"`
}

// envOverrides содержит только заданные переменные окружения: они важнее флагов.
type envOverrides struct {
	RunAddress       *string        `env:"RUN_ADDRESS"`
	APIURL           *string        `env:"BURGER_API_URL"`
	Storage          *string        `env:"STORAGE"`
	DatabaseURI      *string        `env:"DATABASE_URI"`
	RedisAddr        *string        `env:"REDIS_ADDR"`
	FeedPollInterval *time.Duration `env:"FEED_POLL_INTERVAL"`
	APIRetryMax      *int           `env:"API_RETRY_MAX"`
}

// Parse считывает конфигурацию из файла .env, флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.APIURL, "u", api.DefaultBaseURL, "Stellar Burgers API base URL")
	flag.StringVar(&cfg.Storage, "s", StorageMemory, "token storage: memory, redis or postgres")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.RedisAddr, "r", "", "redis address")
	flag.DurationVar(&cfg.FeedPollInterval, "f", defaultFeedPollInterval, "feed poll interval, 0 disables polling")
	flag.IntVar(&cfg.APIRetryMax, "m", 0, "retries of failed idempotent (GET) API requests")

	flag.Parse()

	if overrides.RunAddress != nil && *overrides.RunAddress != "" {
		cfg.RunAddress = *overrides.RunAddress
	}
	if overrides.APIURL != nil && *overrides.APIURL != "" {
		cfg.APIURL = *overrides.APIURL
	}
	if overrides.Storage != nil && *overrides.Storage != "" {
		cfg.Storage = *overrides.Storage
	}
	if overrides.DatabaseURI != nil && *overrides.DatabaseURI != "" {
		cfg.DatabaseURI = *overrides.DatabaseURI
	}
	if overrides.RedisAddr != nil && *overrides.RedisAddr != "" {
		cfg.RedisAddr = *overrides.RedisAddr
	}
	if overrides.FeedPollInterval != nil {
		cfg.FeedPollInterval = *overrides.FeedPollInterval
	}
	if overrides.APIRetryMax != nil {
		cfg.APIRetryMax = *overrides.APIRetryMax
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv считывает конфигурацию только из .env и переменных окружения.
func FromEnv() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate проверяет согласованность параметров хранилища.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StorageRedis:
		if c.RedisAddr == "" {
			return errors.New("redis storage requires REDIS_ADDR")
		}
	case StoragePostgres:
		if c.DatabaseURI == "" {
			return errors.New("postgres storage requires DATABASE_URI")
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}

	if c.APIRetryMax < 0 {
		return errors.New("API_RETRY_MAX must not be negative")
	}
	return nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
