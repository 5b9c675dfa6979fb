package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the service settings. Every field comes from the
// environment, optionally seeded from a .env file.
type Config struct {
	Port            int    `env:"PORT" envDefault:"8080"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	DefaultLanguage string `env:"DEFAULT_LANGUAGE" envDefault:"en"`

	// Metal rate registry; empty runs offline on the fallback rates.
	MetalRatesURL     string          `env:"METAL_RATES_URL"`
	GoldRatePerGram   decimal.Decimal `env:"GOLD_RATE_PER_GRAM"`
	SilverRatePerGram decimal.Decimal `env:"SILVER_RATE_PER_GRAM"`
	RateCacheTTL      time.Duration   `env:"RATE_CACHE_TTL" envDefault:"10m"`

	ResultCacheTTL time.Duration `env:"RESULT_CACHE_TTL" envDefault:"5m"`
	RateLimitRPS   float64       `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"40"`
}

// Load reads the given .env files (".env" when none are named), then parses
// the environment. Missing .env files are not an error; variables already
// set in the environment win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.GoldRatePerGram.IsNegative() {
		errs = append(errs, errors.New("GOLD_RATE_PER_GRAM must not be negative"))
	}
	if c.SilverRatePerGram.IsNegative() {
		errs = append(errs, errors.New("SILVER_RATE_PER_GRAM must not be negative"))
	}
	if c.RateLimitRPS <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
	}
	if c.RateLimitBurst < 1 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be at least 1"))
	}
	return errors.Join(errs...)
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
