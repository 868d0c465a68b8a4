package trader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"ScalpSentinel/internal/collector"
	"ScalpSentinel/internal/exchange"
	"ScalpSentinel/internal/model"
	"ScalpSentinel/internal/recorder"
	"ScalpSentinel/internal/strategy"
)

// UniverseFunc returns the symbols to scan this cycle, already capped.
type UniverseFunc func(ctx context.Context) ([]string, error)

// Status is the externally visible state of a running strategy.
type Status struct {
	Strategy      string
	Running       bool
	OpenPositions int
	Positions     []PositionStatus
	Capital       float64
	RealizedPnL   float64
	DailyProfit   float64
	TradeCount    int
	WinRate       float64
}

// PositionStatus is one open position, shaped for status replies.
type PositionStatus struct {
	Symbol     string
	EntryPrice float64
	Quantity   float64
	StopLoss   float64
	TakeProfit float64
	HeldFor    time.Duration
}

// Runner drives the scan loop of one strategy instance: refresh the universe,
// score unheld symbols, attempt entries, monitor open positions, snapshot the
// wallet, sleep, repeat. The loop is strictly sequential; stopping takes
// effect between cycles so no cycle is ever left half-applied.
type Runner struct {
	Instance *Instance

	builder     *collector.Builder
	scoring     strategy.ScoringPolicy
	universe    UniverseFunc
	rec         recorder.Recorder
	interval    time.Duration
	symbolDelay time.Duration

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewRunner wires a scan loop for one instance.
func NewRunner(inst *Instance, builder *collector.Builder, scoring strategy.ScoringPolicy, universe UniverseFunc, rec recorder.Recorder, interval, symbolDelay time.Duration) *Runner {
	return &Runner{
		Instance:    inst,
		builder:     builder,
		scoring:     scoring,
		universe:    universe,
		rec:         rec,
		interval:    interval,
		symbolDelay: symbolDelay,
	}
}

// Start launches the scan loop. It rejects a second call while running.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return errors.New("strategy already running")
	}
	r.running = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.loop(r.stop, r.done)
	log.Printf("[INFO] %s: scan loop started (interval %s)", r.Instance.cfg.Strategy, r.interval)
	return nil
}

// Stop halts the loop after the current cycle finishes. Safe to call twice.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stop)
	done := r.done
	r.mu.Unlock()
	<-done
	log.Printf("[INFO] %s: scan loop stopped", r.Instance.cfg.Strategy)
}

// Running reports whether the loop is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Status reports the instance state for the control surface.
func (r *Runner) Status() Status {
	capital := r.Instance.Capital()
	positions := r.Instance.OpenPositions()
	out := Status{
		Strategy:      r.Instance.cfg.Strategy,
		Running:       r.Running(),
		OpenPositions: len(positions),
		Capital:       capital.AvailableCapital,
		RealizedPnL:   capital.RealizedPnL,
		DailyProfit:   capital.DailyProfit,
		TradeCount:    capital.TradeCount,
		WinRate:       capital.WinRate(),
	}
	for _, p := range positions {
		out.Positions = append(out.Positions, PositionStatus{
			Symbol:     p.Symbol,
			EntryPrice: p.EntryPrice,
			Quantity:   p.Quantity,
			StopLoss:   p.StopLoss,
			TakeProfit: p.TakeProfit,
			HeldFor:    time.Since(p.EntryTime),
		})
	}
	return out
}

// loop runs cycles until stop closes. Cycles use a background context on
// purpose: a stop request must not abort in-flight exchange calls, it waits
// for the cycle boundary instead. Consecutive cycle failures back off
// exponentially instead of hammering a broken exchange.
func (r *Runner) loop(stop, done chan struct{}) {
	defer close(done)

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = 10 * time.Second
	retry.MaxInterval = 60 * time.Second
	retry.MaxElapsedTime = 0 // never give up, only slow down

	for {
		select {
		case <-stop:
			return
		default:
		}

		wait := r.interval
		if err := r.runCycle(context.Background()); err != nil {
			wait = retry.NextBackOff()
			log.Printf("[ERROR] %s: scan cycle failed: %v (backing off %s)", r.Instance.cfg.Strategy, err, wait)
		} else {
			retry.Reset()
		}

		select {
		case <-stop:
			return
		case <-time.After(wait):
		}
	}
}

// runCycle performs one full scan. Per-symbol failures are logged and
// skipped; only a universe-level failure aborts the cycle.
func (r *Runner) runCycle(ctx context.Context) error {
	symbols, err := r.universe(ctx)
	if err != nil {
		return fmt.Errorf("refresh universe: %w", err)
	}
	log.Printf("[INFO] %s: scanning %d symbols, %d open positions",
		r.Instance.cfg.Strategy, len(symbols), len(r.Instance.OpenPositions()))

	for _, symbol := range symbols {
		if r.Instance.AtCapacity() {
			break
		}
		if r.Instance.HasPosition(symbol) {
			continue
		}

		sig := r.scoreSymbol(ctx, symbol)
		if sig.Tradeable() && sig.CurrentPrice > 0 {
			if err := r.rec.RecordMarketData(symbol, sig.CurrentPrice, 0); err != nil {
				log.Printf("[WARN] %s: record market data for %s: %v", r.Instance.cfg.Strategy, symbol, err)
			}
		}

		if _, err := r.Instance.TryEnter(ctx, sig); err != nil {
			log.Printf("[WARN] %s: entry attempt for %s: %v", r.Instance.cfg.Strategy, symbol, err)
		}

		time.Sleep(r.symbolDelay) // stay under the exchange's request weight
	}

	r.Instance.MonitorPass(ctx)

	capital := r.Instance.Capital()
	if err := r.rec.RecordWalletBalance(r.Instance.cfg.Strategy, capital.AvailableCapital); err != nil {
		log.Printf("[WARN] %s: record wallet balance: %v", r.Instance.cfg.Strategy, err)
	}
	return nil
}

// scoreSymbol builds features and scores them. Missing market data maps to a
// no-data signal, any other build failure to an error signal; both are
// zero-confidence and never tradeable.
func (r *Runner) scoreSymbol(ctx context.Context, symbol string) *model.Signal {
	fs, err := r.builder.Build(ctx, symbol)
	if err != nil {
		log.Printf("[WARN] %s: %v", r.Instance.cfg.Strategy, err)
		if errors.Is(err, exchange.ErrNoData) {
			return strategy.NoDataSignal(symbol)
		}
		return strategy.ErrorSignal(symbol)
	}
	return r.scoring.Score(fs)
}
