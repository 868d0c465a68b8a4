package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail load: %v", err)
	}
	if cfg.Capital.Initial != 45 {
		t.Errorf("expected default initial capital 45, got %.2f", cfg.Capital.Initial)
	}
	if cfg.Scalp.MaxHold != "2m" {
		t.Errorf("expected default scalp max_hold 2m, got %q", cfg.Scalp.MaxHold)
	}
	if cfg.Whale.MaxHold != "4h" {
		t.Errorf("expected default whale max_hold 4h, got %q", cfg.Whale.MaxHold)
	}
	if cfg.Scalp.ConfidenceThreshold != 0.3 || cfg.Whale.ConfidenceThreshold != 0.6 {
		t.Errorf("unexpected default thresholds: scalp=%.2f whale=%.2f",
			cfg.Scalp.ConfidenceThreshold, cfg.Whale.ConfidenceThreshold)
	}
	if cfg.Binance.RequestsPerSec != 10 {
		t.Errorf("expected default 10 req/s, got %d", cfg.Binance.RequestsPerSec)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
capital:
  initial: 200
scalp:
  enabled: true
  confidence_threshold: 0.45
  max_hold: 90s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Capital.Initial != 200 {
		t.Errorf("expected initial 200, got %.2f", cfg.Capital.Initial)
	}
	if cfg.Scalp.ConfidenceThreshold != 0.45 {
		t.Errorf("expected threshold 0.45, got %.2f", cfg.Scalp.ConfidenceThreshold)
	}
	if got := cfg.Scalp.HoldDuration(); got != 90*time.Second {
		t.Errorf("expected 90s hold, got %s", got)
	}
	// untouched fields still pick up defaults
	if cfg.Scalp.StopLossPct != 0.5 {
		t.Errorf("expected default stop 0.5, got %.2f", cfg.Scalp.StopLossPct)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
binance:
  api_key: from-file
capital:
  initial: 100
`)
	t.Setenv("BINANCE_API_KEY", "from-env")
	t.Setenv("INITIAL_CAPITAL", "250")
	t.Setenv("BINANCE_TESTNET", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Binance.APIKey != "from-env" {
		t.Errorf("env must override file, got %q", cfg.Binance.APIKey)
	}
	if cfg.Capital.Initial != 250 {
		t.Errorf("expected env capital 250, got %.2f", cfg.Capital.Initial)
	}
	if !cfg.Binance.Testnet {
		t.Error("expected testnet enabled via env")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, _ := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		cfg.Binance.APIKey = "k"
		cfg.Binance.SecretKey = "s"
		cfg.Scalp.Enabled = true
		return cfg
	}

	if err := base().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg := base()
	cfg.Binance.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing api key")
	}

	cfg = base()
	cfg.Scalp.Enabled = false
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when no strategy is enabled")
	}

	cfg = base()
	cfg.Scalp.MaxHold = "two minutes"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unparseable max_hold")
	}

	cfg = base()
	cfg.Scalp.StopLossPct = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero stop loss")
	}

	cfg = base()
	cfg.Capital.Initial = -5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative capital")
	}
}
