package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Betting.Timezone != "Asia/Yangon" {
		t.Errorf("timezone default: %s", cfg.Betting.Timezone)
	}
	if cfg.Betting.DefaultAmount != 500 {
		t.Errorf("default amount: %d", cfg.Betting.DefaultAmount)
	}
	if cfg.Defaults.PayoutMultiplier != 80 {
		t.Errorf("payout multiplier default: %d", cfg.Defaults.PayoutMultiplier)
	}
	if cfg.Schedule.RetentionDays != 30 {
		t.Errorf("retention days default: %d", cfg.Schedule.RetentionDays)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `telegram:
  bot_token: from-file
  admin_id: 42
betting:
  default_amount: 1000
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.BotToken != "from-env" {
		t.Errorf("env must override file, got %s", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.AdminID != 42 {
		t.Errorf("admin id: %d", cfg.Telegram.AdminID)
	}
	if cfg.Betting.DefaultAmount != 1000 {
		t.Errorf("default amount: %d", cfg.Betting.DefaultAmount)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Betting.DefaultAmount = 500
	cfg.Defaults.PayoutMultiplier = 80
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing bot_token error")
	}
	cfg.Telegram.BotToken = "token"
	if err := cfg.Validate(); err == nil {
		t.Error("expected missing admin_id error")
	}
	cfg.Telegram.AdminID = 42
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg.Defaults.CommissionPercent = 101
	if err := cfg.Validate(); err == nil {
		t.Error("expected commission range error")
	}
}
