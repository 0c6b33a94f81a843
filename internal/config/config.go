package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Log     LogConfig     `yaml:"log"`
	Billing BillingConfig `yaml:"billing"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// BillingConfig holds the billing defaults the engine needs at runtime.
type BillingConfig struct {
	DefaultHourlyRate float64 `yaml:"default_hourly_rate"`
	TaxRate           float64 `yaml:"tax_rate"`
	DueDays           int     `yaml:"due_days"`
	DiscountMinutes   int     `yaml:"discount_minutes"`
}

// DefaultRate returns the fallback hourly rate as a decimal.
func (b BillingConfig) DefaultRate() decimal.Decimal {
	return decimal.NewFromFloat(b.DefaultHourlyRate)
}

// Tax returns the flat tax rate as a decimal.
func (b BillingConfig) Tax() decimal.Decimal {
	return decimal.NewFromFloat(b.TaxRate)
}

// Load reads configuration from an optional .env file, an optional YAML
// file, and environment variables, in that order.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "fieldbill.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Billing: BillingConfig{
			DefaultHourlyRate: 75.0,
			TaxRate:           0.08,
			DueDays:           30,
			DiscountMinutes:   60,
		},
	}

	if path := os.Getenv("FIELDBILL_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("FIELDBILL_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("FIELDBILL_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FIELDBILL_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("FIELDBILL_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("FIELDBILL_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if rateStr := os.Getenv("FIELDBILL_DEFAULT_HOURLY_RATE"); rateStr != "" {
		rate, err := strconv.ParseFloat(rateStr, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FIELDBILL_DEFAULT_HOURLY_RATE: %w", err)
		}
		cfg.Billing.DefaultHourlyRate = rate
	}
	if taxStr := os.Getenv("FIELDBILL_TAX_RATE"); taxStr != "" {
		tax, err := strconv.ParseFloat(taxStr, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FIELDBILL_TAX_RATE: %w", err)
		}
		cfg.Billing.TaxRate = tax
	}
	if daysStr := os.Getenv("FIELDBILL_DUE_DAYS"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FIELDBILL_DUE_DAYS: %w", err)
		}
		cfg.Billing.DueDays = days
	}
	if minutesStr := os.Getenv("FIELDBILL_DISCOUNT_MINUTES"); minutesStr != "" {
		minutes, err := strconv.Atoi(minutesStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FIELDBILL_DISCOUNT_MINUTES: %w", err)
		}
		cfg.Billing.DiscountMinutes = minutes
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
