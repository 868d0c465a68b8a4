package trader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"ScalpSentinel/internal/exchange"
	"ScalpSentinel/internal/model"
	"ScalpSentinel/internal/recorder"
	"ScalpSentinel/internal/strategy"
)

// OrderExecutor is the trade side of the exchange client.
type OrderExecutor interface {
	GetPrice(ctx context.Context, symbol string) (float64, error)
	GetLotStep(ctx context.Context, symbol string) (float64, error)
	PlaceMarketOrder(ctx context.Context, symbol string, side exchange.Side, quantity float64) (*exchange.OrderResult, error)
	GetOrderByClientID(ctx context.Context, symbol, clientOrderID string) (*exchange.OrderResult, error)
}

// PriceSource serves cached live prices; a miss means "read over REST instead".
type PriceSource interface {
	Price(symbol string) (float64, bool)
	Subscribe(symbol string)
	Unsubscribe(symbol string)
}

// Notifier delivers human-facing trade alerts. May be nil.
type Notifier interface {
	Notify(text string)
}

// Config holds one strategy instance's lifecycle parameters.
type Config struct {
	Strategy      string // name used in persisted records and logs
	StopLossPct   float64
	TakeProfitPct float64
	MaxHold       time.Duration
	MinTradeSize  float64
	Gate          strategy.GateConfig
	StateFile     string
}

// Instance owns the open-position set and capital state of one running
// strategy. All mutation happens from the single scan-loop goroutine; the
// mutex only guards concurrent Status reads.
type Instance struct {
	mu        sync.Mutex
	cfg       Config
	exec      OrderExecutor
	rec       recorder.Recorder
	sizing    strategy.SizingPolicy
	feed      PriceSource
	notifier  Notifier
	positions map[string]*model.Position
	capital   *model.CapitalState
}

// NewInstance creates an instance, restoring capital state from disk when a
// state file exists.
func NewInstance(cfg Config, exec OrderExecutor, rec recorder.Recorder, sizing strategy.SizingPolicy, feed PriceSource, notifier Notifier, initialCapital float64) (*Instance, error) {
	capital, err := LoadCapitalState(cfg.StateFile, initialCapital)
	if err != nil {
		return nil, fmt.Errorf("load capital state: %w", err)
	}
	inst := &Instance{
		cfg:       cfg,
		exec:      exec,
		rec:       rec,
		sizing:    sizing,
		feed:      feed,
		notifier:  notifier,
		positions: make(map[string]*model.Position),
		capital:   capital,
	}
	inst.saveState()
	return inst, nil
}

func (in *Instance) saveState() {
	if in.cfg.StateFile == "" {
		return
	}
	if err := SaveCapitalState(in.cfg.StateFile, in.capital); err != nil {
		log.Printf("[ERROR] %s: save capital state: %v", in.cfg.Strategy, err)
	}
}

func (in *Instance) notify(text string) {
	if in.notifier != nil {
		in.notifier.Notify(text)
	}
}

// HasPosition reports whether the symbol already holds an open position.
func (in *Instance) HasPosition(symbol string) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	_, ok := in.positions[symbol]
	return ok
}

// AtCapacity reports whether the concurrent-position cap is reached.
func (in *Instance) AtCapacity() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.positions) >= in.cfg.Gate.MaxConcurrent
}

// OpenPositions returns a copy of the open-position set.
func (in *Instance) OpenPositions() []model.Position {
	in.mu.Lock()
	defer in.mu.Unlock()
	out := make([]model.Position, 0, len(in.positions))
	for _, p := range in.positions {
		out = append(out, *p)
	}
	return out
}

// Capital returns a copy of the capital state.
func (in *Instance) Capital() model.CapitalState {
	in.mu.Lock()
	defer in.mu.Unlock()
	return *in.capital
}

// ResetDailyProfit zeroes the daily profit counter (called at midnight).
func (in *Instance) ResetDailyProfit() {
	in.mu.Lock()
	in.capital.DailyProfit = 0
	in.mu.Unlock()
	in.saveState()
}

// roundToStep rounds a quantity down to the exchange's lot step.
func roundToStep(quantity, step float64) float64 {
	if step <= 0 {
		return quantity
	}
	return math.Floor(quantity/step) * step
}

// TryEnter attempts to open a position for an approved-looking signal. It
// re-checks eligibility, sizes the trade, submits a market buy, and registers
// the position. A false return with nil error means the entry was skipped by
// policy, not that something broke.
func (in *Instance) TryEnter(ctx context.Context, sig *model.Signal) (bool, error) {
	in.mu.Lock()
	openCount := len(in.positions)
	_, held := in.positions[sig.Symbol]
	capital := *in.capital
	in.mu.Unlock()

	ok, reason := strategy.MayEnter(sig, openCount, held, &capital, in.cfg.Gate)
	if !ok {
		if reason != strategy.ReasonNoData && reason != strategy.ReasonLowConfidence {
			log.Printf("[INFO] %s: entry rejected for %s: %s", in.cfg.Strategy, sig.Symbol, reason)
		}
		return false, nil
	}

	size := in.sizing.Size(sig.Confidence, &capital)
	if size < in.cfg.MinTradeSize {
		return false, nil
	}

	price, err := in.exec.GetPrice(ctx, sig.Symbol)
	if err != nil {
		return false, fmt.Errorf("entry price for %s: %w", sig.Symbol, err)
	}
	step, err := in.exec.GetLotStep(ctx, sig.Symbol)
	if err != nil {
		return false, fmt.Errorf("lot step for %s: %w", sig.Symbol, err)
	}
	quantity := roundToStep(size/price, step)
	if quantity <= 0 {
		return false, nil
	}

	order, err := in.exec.PlaceMarketOrder(ctx, sig.Symbol, exchange.SideBuy, quantity)
	if err != nil {
		order, err = in.reconcileOrder(ctx, sig.Symbol, err)
		if err != nil {
			return false, fmt.Errorf("buy %s: %w", sig.Symbol, err)
		}
		if order == nil {
			// Confirmed not placed: state unchanged, next cycle may retry.
			return false, nil
		}
	}

	committed := size
	if order.QuoteQty > 0 {
		committed = order.QuoteQty
	}
	if committed > capital.AvailableCapital {
		committed = capital.AvailableCapital
	}
	filledQty := quantity
	if order.ExecutedQty > 0 {
		filledQty = order.ExecutedQty
	}

	stopLoss := price * (1 - in.cfg.StopLossPct)
	takeProfit := price * (1 + in.cfg.TakeProfitPct)

	tradeID, err := in.rec.SaveTrade(&recorder.TradeRecord{
		Strategy:   in.cfg.Strategy,
		Symbol:     sig.Symbol,
		Side:       "BUY",
		Quantity:   filledQty,
		Price:      price,
		TakeProfit: takeProfit,
		StopLoss:   stopLoss,
	})
	if err != nil {
		log.Printf("[ERROR] %s: save trade for %s: %v", in.cfg.Strategy, sig.Symbol, err)
	}

	pos := &model.Position{
		Symbol:       sig.Symbol,
		TradeID:      tradeID,
		OrderID:      order.OrderID,
		EntryPrice:   price,
		Quantity:     filledQty,
		StopLoss:     stopLoss,
		TakeProfit:   takeProfit,
		EntryTime:    time.Now(),
		PositionSize: committed,
	}

	in.mu.Lock()
	in.positions[sig.Symbol] = pos
	in.capital.AvailableCapital -= committed
	in.mu.Unlock()
	in.saveState()

	if in.feed != nil {
		in.feed.Subscribe(sig.Symbol)
	}

	log.Printf("[INFO] %s: entered %s qty=%.8f @ %.8f size=%.2f stop=%.8f target=%.8f",
		in.cfg.Strategy, sig.Symbol, filledQty, price, committed, stopLoss, takeProfit)
	in.notify(fmt.Sprintf("🟢 <b>%s entry</b> %s\nQty: %.8f @ %.8f\nSize: %.2f USDT\nStop: %.8f | Target: %.8f",
		in.cfg.Strategy, sig.Symbol, filledQty, price, committed, stopLoss, takeProfit))
	return true, nil
}

// reconcileOrder resolves an order submission error. It returns (nil, nil)
// when the exchange confirmed the order never existed, the confirmed result
// when it did, and an error when the outcome stays unknown. Outcomes that stay
// unknown are surfaced loudly: the operator must reconcile against the
// exchange before trusting in-memory state.
func (in *Instance) reconcileOrder(ctx context.Context, symbol string, placeErr error) (*exchange.OrderResult, error) {
	var ambiguous *exchange.AmbiguousOrderError
	if !errors.As(placeErr, &ambiguous) {
		return nil, placeErr
	}
	log.Printf("[WARN] %s: ambiguous order outcome for %s, reconciling via client id %s",
		in.cfg.Strategy, symbol, ambiguous.ClientOrderID)

	res, err := in.exec.GetOrderByClientID(ctx, symbol, ambiguous.ClientOrderID)
	if err != nil {
		if exchange.OrderNotFound(err) {
			log.Printf("[INFO] %s: order for %s confirmed not placed", in.cfg.Strategy, symbol)
			return nil, nil
		}
		in.notify(fmt.Sprintf("⚠️ <b>%s</b>: unreconciled order for %s (client id %s), verify on the exchange",
			in.cfg.Strategy, symbol, ambiguous.ClientOrderID))
		return nil, fmt.Errorf("unreconciled order (client id %s): %w", ambiguous.ClientOrderID, err)
	}
	if !res.Filled() {
		return nil, fmt.Errorf("order %s in unexpected state %s after reconcile", ambiguous.ClientOrderID, res.Status)
	}
	log.Printf("[INFO] %s: reconciled order for %s: filled qty=%.8f", in.cfg.Strategy, symbol, res.ExecutedQty)
	return res, nil
}

// currentPrice prefers the live feed and falls back to a REST read.
func (in *Instance) currentPrice(ctx context.Context, symbol string) (float64, error) {
	if in.feed != nil {
		if price, ok := in.feed.Price(symbol); ok {
			return price, nil
		}
	}
	return in.exec.GetPrice(ctx, symbol)
}

// MonitorPass evaluates exit conditions for every open position. Exactly one
// exit reason can fire per position per pass: stop-loss first, then
// take-profit, then the time limit.
func (in *Instance) MonitorPass(ctx context.Context) {
	for _, pos := range in.OpenPositions() {
		price, err := in.currentPrice(ctx, pos.Symbol)
		if err != nil {
			log.Printf("[WARN] %s: monitor price for %s: %v", in.cfg.Strategy, pos.Symbol, err)
			continue
		}

		var reason model.ExitReason
		switch {
		case price <= pos.StopLoss:
			reason = model.ExitStopLoss
		case price >= pos.TakeProfit:
			reason = model.ExitTakeProfit
		case time.Since(pos.EntryTime) > in.cfg.MaxHold:
			reason = model.ExitTime
		default:
			continue
		}

		if err := in.closePosition(ctx, pos.Symbol, reason, price); err != nil {
			log.Printf("[ERROR] %s: close %s (%s): %v", in.cfg.Strategy, pos.Symbol, reason, err)
		}
	}
}

// closePosition sells the full recorded quantity and realizes the PnL. On a
// failed sell the position stays open and the next pass retries.
func (in *Instance) closePosition(ctx context.Context, symbol string, reason model.ExitReason, exitPrice float64) error {
	in.mu.Lock()
	pos, ok := in.positions[symbol]
	if !ok {
		in.mu.Unlock()
		return nil
	}
	p := *pos
	in.mu.Unlock()

	order, err := in.exec.PlaceMarketOrder(ctx, symbol, exchange.SideSell, p.Quantity)
	if err != nil {
		order, err = in.reconcileOrder(ctx, symbol, err)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("sell order for %s not placed", symbol)
		}
	}

	pnl := (exitPrice - p.EntryPrice) * p.Quantity

	if err := in.rec.UpdateTradeStatus(p.TradeID, "closed", pnl); err != nil {
		log.Printf("[ERROR] %s: update trade %d: %v", in.cfg.Strategy, p.TradeID, err)
	}

	in.mu.Lock()
	in.capital.AvailableCapital += p.PositionSize + pnl
	if in.capital.AvailableCapital < 0 {
		in.capital.AvailableCapital = 0
	}
	in.capital.RealizedPnL += pnl
	in.capital.DailyProfit += pnl
	in.capital.TradeCount++
	if pnl > 0 {
		in.capital.WinCount++
	}
	delete(in.positions, symbol)
	capital := in.capital.AvailableCapital
	in.mu.Unlock()
	in.saveState()

	if in.feed != nil {
		in.feed.Unsubscribe(symbol)
	}

	log.Printf("[INFO] %s: closed %s (%s) pnl=%.4f capital=%.2f",
		in.cfg.Strategy, symbol, reason, pnl, capital)
	in.notify(fmt.Sprintf("🔴 <b>%s exit</b> %s (%s)\nPnL: %+.4f USDT\nCapital: %.2f USDT",
		in.cfg.Strategy, symbol, reason, pnl, capital))
	return nil
}
