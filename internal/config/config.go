package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"TwoDBook/internal/period"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		AdminID  int64  `yaml:"admin_id"`
		ChatID   int64  `yaml:"chat_id"` // announcement chat for scheduled tasks
	} `yaml:"telegram"`
	Betting struct {
		Timezone      string `yaml:"timezone"`
		DefaultAmount int    `yaml:"default_amount"`
	} `yaml:"betting"`
	Defaults struct {
		CommissionPercent int `yaml:"commission_percent"`
		PayoutMultiplier  int `yaml:"payout_multiplier"`
	} `yaml:"defaults"`
	Schedule struct {
		RolloverCron  string `yaml:"rollover_cron"`
		RetentionCron string `yaml:"retention_cron"`
		AutoOpen      bool   `yaml:"auto_open"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_ADMIN_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.AdminID = id
		}
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("BOOK_TIMEZONE"); v != "" {
		cfg.Betting.Timezone = v
	}
	if v := os.Getenv("DEFAULT_AMOUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Betting.DefaultAmount = n
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Betting.Timezone == "" {
		cfg.Betting.Timezone = period.DefaultTimezone
	}
	if cfg.Betting.DefaultAmount == 0 {
		cfg.Betting.DefaultAmount = 500
	}
	if cfg.Defaults.PayoutMultiplier == 0 {
		cfg.Defaults.PayoutMultiplier = 80
	}
	if cfg.Schedule.RolloverCron == "" {
		// Segment boundaries: midnight and noon, book-local time.
		cfg.Schedule.RolloverCron = "0 0 0,12 * * *"
	}
	if cfg.Schedule.RetentionCron == "" {
		cfg.Schedule.RetentionCron = "0 30 3 * * *"
	}
	if cfg.Schedule.RetentionDays == 0 {
		cfg.Schedule.RetentionDays = 30
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/twodbook.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.AdminID == 0 {
		return fmt.Errorf("telegram.admin_id is required")
	}
	if c.Defaults.CommissionPercent < 0 || c.Defaults.CommissionPercent > 100 {
		return fmt.Errorf("defaults.commission_percent must be 0..100")
	}
	if c.Defaults.PayoutMultiplier < 0 {
		return fmt.Errorf("defaults.payout_multiplier must not be negative")
	}
	if c.Betting.DefaultAmount <= 0 {
		return fmt.Errorf("betting.default_amount must be positive")
	}
	return nil
}
