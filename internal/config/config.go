// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr     string        `env:"LISTEN_ADDR" envDefault:"0.0.0.0:9001"`
	LedgerCapacity int           `env:"LEDGER_CAPACITY" envDefault:"100"`
	FeedEnabled    bool          `env:"FEED_ENABLED" envDefault:"true"`
	FeedInterval   time.Duration `env:"FEED_INTERVAL" envDefault:"1s"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	// A missing .env is fine, the environment wins either way.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
