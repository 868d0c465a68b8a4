package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// StrategyConfig holds the per-strategy trading parameters. Percentages are
// expressed the way operators write them: stop_loss_pct 0.5 means 0.5%.
type StrategyConfig struct {
	Enabled             bool    `yaml:"enabled"`
	BasePositionSize    float64 `yaml:"base_position_size"`
	MinTradeSize        float64 `yaml:"min_trade_size"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	MaxConcurrent       int     `yaml:"max_concurrent"`
	StopLossPct         float64 `yaml:"stop_loss_pct"`
	TakeProfitPct       float64 `yaml:"take_profit_pct"`
	MaxHold             string  `yaml:"max_hold"`
	ScanIntervalSec     int     `yaml:"scan_interval_sec"`
	SymbolDelayMs       int     `yaml:"symbol_delay_ms"`
	MaxSymbols          int     `yaml:"max_symbols"`

	// Scalp-only knobs.
	Compounding          bool    `yaml:"compounding"`
	PriceMoveThreshold   float64 `yaml:"price_move_threshold"`
	VolumeRatioThreshold float64 `yaml:"volume_ratio_threshold"`

	// Whale-only knobs.
	Aggressive           bool    `yaml:"aggressive"`
	VolumeSpikeThreshold float64 `yaml:"volume_spike_threshold"`
	PriceSpikeThreshold  float64 `yaml:"price_spike_threshold"`
}

// HoldDuration parses MaxHold; defaults are applied in Load so this only
// fails on operator typos caught by Validate.
func (s *StrategyConfig) HoldDuration() time.Duration {
	d, _ := time.ParseDuration(s.MaxHold)
	return d
}

// Config holds all application configuration.
type Config struct {
	Binance struct {
		APIKey         string `yaml:"api_key"`
		SecretKey      string `yaml:"secret_key"`
		Testnet        bool   `yaml:"testnet"`
		RequestsPerSec int    `yaml:"requests_per_sec"`
	} `yaml:"binance"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Capital struct {
		Initial  float64 `yaml:"initial"`
		StateDir string  `yaml:"state_dir"`
	} `yaml:"capital"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		DailySummaryCron string `yaml:"daily_summary_cron"`
		DailyResetCron   string `yaml:"daily_reset_cron"`
	} `yaml:"schedule"`
	Scalp StrategyConfig `yaml:"scalp"`
	Whale StrategyConfig `yaml:"whale"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.Binance.APIKey = v
	}
	if v := os.Getenv("BINANCE_SECRET_KEY"); v != "" {
		cfg.Binance.SecretKey = v
	}
	if v := os.Getenv("BINANCE_TESTNET"); v != "" {
		cfg.Binance.Testnet = v == "true"
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("INITIAL_CAPITAL"); v != "" {
		if c, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Capital.Initial = c
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.Binance.RequestsPerSec == 0 {
		cfg.Binance.RequestsPerSec = 10
	}
	if cfg.Capital.Initial == 0 {
		cfg.Capital.Initial = 45
	}
	if cfg.Capital.StateDir == "" {
		cfg.Capital.StateDir = "data"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/trading_data.db"
	}
	if cfg.Schedule.DailySummaryCron == "" {
		cfg.Schedule.DailySummaryCron = "0 55 23 * * *"
	}
	if cfg.Schedule.DailyResetCron == "" {
		cfg.Schedule.DailyResetCron = "0 0 0 * * *"
	}

	applyScalpDefaults(&cfg.Scalp)
	applyWhaleDefaults(&cfg.Whale)

	return cfg, nil
}

func applyScalpDefaults(s *StrategyConfig) {
	if s.BasePositionSize == 0 {
		s.BasePositionSize = 0.1
	}
	if s.MinTradeSize == 0 {
		s.MinTradeSize = 0.1
	}
	if s.ConfidenceThreshold == 0 {
		s.ConfidenceThreshold = 0.3
	}
	if s.MaxConcurrent == 0 {
		s.MaxConcurrent = 100
	}
	if s.StopLossPct == 0 {
		s.StopLossPct = 0.5
	}
	if s.TakeProfitPct == 0 {
		s.TakeProfitPct = 1.0
	}
	if s.MaxHold == "" {
		s.MaxHold = "2m"
	}
	if s.ScanIntervalSec == 0 {
		s.ScanIntervalSec = 5
	}
	if s.SymbolDelayMs == 0 {
		s.SymbolDelayMs = 10
	}
	if s.MaxSymbols == 0 {
		s.MaxSymbols = 100
	}
	if s.PriceMoveThreshold == 0 {
		s.PriceMoveThreshold = 0.002
	}
	if s.VolumeRatioThreshold == 0 {
		s.VolumeRatioThreshold = 1.2
	}
}

func applyWhaleDefaults(s *StrategyConfig) {
	if s.BasePositionSize == 0 {
		s.BasePositionSize = 10
	}
	if s.MinTradeSize == 0 {
		s.MinTradeSize = 10
	}
	if s.ConfidenceThreshold == 0 {
		s.ConfidenceThreshold = 0.6
	}
	if s.MaxConcurrent == 0 {
		s.MaxConcurrent = 10
	}
	if s.StopLossPct == 0 {
		s.StopLossPct = 0.5
	}
	if s.TakeProfitPct == 0 {
		s.TakeProfitPct = 1.0
	}
	if s.MaxHold == "" {
		s.MaxHold = "4h"
	}
	if s.ScanIntervalSec == 0 {
		s.ScanIntervalSec = 5
	}
	if s.SymbolDelayMs == 0 {
		s.SymbolDelayMs = 100
	}
	if s.MaxSymbols == 0 {
		s.MaxSymbols = 100
	}
	if s.VolumeSpikeThreshold == 0 {
		s.VolumeSpikeThreshold = 1.5
	}
	if s.PriceSpikeThreshold == 0 {
		s.PriceSpikeThreshold = 0.005
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Binance.APIKey == "" {
		return fmt.Errorf("binance.api_key is required")
	}
	if c.Binance.SecretKey == "" {
		return fmt.Errorf("binance.secret_key is required")
	}
	if c.Capital.Initial <= 0 {
		return fmt.Errorf("capital.initial must be positive")
	}
	if !c.Scalp.Enabled && !c.Whale.Enabled {
		return fmt.Errorf("at least one strategy must be enabled")
	}
	for name, s := range map[string]*StrategyConfig{"scalp": &c.Scalp, "whale": &c.Whale} {
		if !s.Enabled {
			continue
		}
		if _, err := time.ParseDuration(s.MaxHold); err != nil {
			return fmt.Errorf("%s.max_hold: %w", name, err)
		}
		if s.StopLossPct <= 0 || s.TakeProfitPct <= 0 {
			return fmt.Errorf("%s: stop_loss_pct and take_profit_pct must be positive", name)
		}
	}
	return nil
}
