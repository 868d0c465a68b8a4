package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ScalpSentinel/internal/collector"
	"ScalpSentinel/internal/config"
	"ScalpSentinel/internal/exchange"
	"ScalpSentinel/internal/notifier"
	"ScalpSentinel/internal/recorder"
	"ScalpSentinel/internal/scheduler"
	"ScalpSentinel/internal/strategy"
	"ScalpSentinel/internal/stream"
	"ScalpSentinel/internal/trader"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ScalpSentinel starting...")

	// Load .env before config so env overrides pick it up
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	if err := os.MkdirAll(cfg.Capital.StateDir, 0755); err != nil {
		log.Fatalf("[FATAL] create state dir: %v", err)
	}

	// Init exchange client
	client := exchange.NewClient(cfg.Binance.APIKey, cfg.Binance.SecretKey, cfg.Binance.Testnet, cfg.Binance.RequestsPerSec)
	if cfg.Binance.Testnet {
		log.Println("[INFO] using Binance spot testnet")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier (optional)
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	} else {
		log.Println("[WARN] telegram not configured, alerts disabled")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Live price feed for position monitoring
	feed := stream.NewPriceFeed(cfg.Binance.Testnet)
	go feed.Run(ctx)

	var runners []*trader.Runner

	if cfg.Scalp.Enabled {
		r, err := buildScalpRunner(cfg, client, rec, feed, tn)
		if err != nil {
			log.Fatalf("[FATAL] init scalp strategy: %v", err)
		}
		runners = append(runners, r)
	}
	if cfg.Whale.Enabled {
		r, err := buildWhaleRunner(cfg, client, rec, feed, tn)
		if err != nil {
			log.Fatalf("[FATAL] init whale strategy: %v", err)
		}
		runners = append(runners, r)
	}

	for _, r := range runners {
		if err := r.Start(); err != nil {
			log.Fatalf("[FATAL] start strategy: %v", err)
		}
	}

	// Init scheduler for daily housekeeping
	sched := scheduler.NewScheduler(runners, rec, tn)
	if err := sched.RegisterAll(cfg.Schedule.DailySummaryCron, cfg.Schedule.DailyResetCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Operator command surface over Telegram
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
	}

	log.Println("[INFO] ScalpSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	for _, r := range runners {
		r.Stop()
	}
	cancel()
	log.Println("[INFO] ScalpSentinel stopped")
}

func buildScalpRunner(cfg *config.Config, client *exchange.Client, rec recorder.Recorder, feed *stream.PriceFeed, tn *notifier.TelegramNotifier) (*trader.Runner, error) {
	sc := cfg.Scalp
	scoring := strategy.NewScalpPolicy()
	scoring.PriceMoveThreshold = sc.PriceMoveThreshold
	scoring.VolumeRatioThreshold = sc.VolumeRatioThreshold

	sizing := &strategy.ScalpSizer{BaseSize: sc.BasePositionSize, Compounding: sc.Compounding}

	inst, err := trader.NewInstance(trader.Config{
		Strategy:      "scalp",
		StopLossPct:   sc.StopLossPct / 100,
		TakeProfitPct: sc.TakeProfitPct / 100,
		MaxHold:       sc.HoldDuration(),
		MinTradeSize:  sc.MinTradeSize,
		Gate: strategy.GateConfig{
			ConfidenceThreshold: sc.ConfidenceThreshold,
			MaxConcurrent:       sc.MaxConcurrent,
			MinPositionSize:     sc.MinTradeSize,
		},
		StateFile: filepath.Join(cfg.Capital.StateDir, "scalp_state.json"),
	}, client, rec, sizing, feed, notifierOrNil(tn), cfg.Capital.Initial)
	if err != nil {
		return nil, err
	}

	// Short 1m lookback, 5-bar volume window, no order book: the scalp policy
	// only needs momentum and volume.
	builder := collector.NewBuilder(client, "1m", 30, 5, false)

	universe := func(ctx context.Context) ([]string, error) {
		return client.TradeablePairs(ctx, sc.MaxSymbols)
	}

	return trader.NewRunner(inst, builder, scoring, universe, rec,
		time.Duration(sc.ScanIntervalSec)*time.Second,
		time.Duration(sc.SymbolDelayMs)*time.Millisecond), nil
}

func buildWhaleRunner(cfg *config.Config, client *exchange.Client, rec recorder.Recorder, feed *stream.PriceFeed, tn *notifier.TelegramNotifier) (*trader.Runner, error) {
	wh := cfg.Whale
	scoring := strategy.NewWhalePolicy()
	scoring.VolumeSpikeThreshold = wh.VolumeSpikeThreshold
	scoring.PriceSpikeThreshold = wh.PriceSpikeThreshold

	sizing := &strategy.WhaleSizer{BaseSize: wh.BasePositionSize, Aggressive: wh.Aggressive}

	inst, err := trader.NewInstance(trader.Config{
		Strategy:      "whale",
		StopLossPct:   wh.StopLossPct / 100,
		TakeProfitPct: wh.TakeProfitPct / 100,
		MaxHold:       wh.HoldDuration(),
		MinTradeSize:  wh.MinTradeSize,
		Gate: strategy.GateConfig{
			ConfidenceThreshold: wh.ConfidenceThreshold,
			MaxConcurrent:       wh.MaxConcurrent,
			MinPositionSize:     wh.MinTradeSize,
		},
		StateFile: filepath.Join(cfg.Capital.StateDir, "whale_state.json"),
	}, client, rec, sizing, feed, notifierOrNil(tn), cfg.Capital.Initial)
	if err != nil {
		return nil, err
	}

	// Longer lookback with the order book: whale detection wants Bollinger
	// bands, the 20-bar volume average, and depth features.
	builder := collector.NewBuilder(client, "1m", 100, 20, true)

	universe := func(ctx context.Context) ([]string, error) {
		leaders, err := client.VolumeLeaders(ctx, wh.MaxSymbols)
		if err != nil {
			return nil, err
		}
		gainers, err := client.TopGainers(ctx, wh.MaxSymbols)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool)
		symbols := make([]string, 0, wh.MaxSymbols)
		for _, t := range append(leaders, gainers...) {
			if seen[t.Symbol] {
				continue
			}
			seen[t.Symbol] = true
			symbols = append(symbols, t.Symbol)
			if len(symbols) >= wh.MaxSymbols {
				break
			}
		}
		return symbols, nil
	}

	return trader.NewRunner(inst, builder, scoring, universe, rec,
		time.Duration(wh.ScanIntervalSec)*time.Second,
		time.Duration(wh.SymbolDelayMs)*time.Millisecond), nil
}

// notifierOrNil avoids handing the trader a non-nil interface wrapping a nil
// pointer.
func notifierOrNil(tn *notifier.TelegramNotifier) trader.Notifier {
	if tn == nil {
		return nil
	}
	return tn
}
