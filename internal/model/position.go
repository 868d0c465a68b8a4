package model

import "time"

// ExitReason records why a position was closed.
type ExitReason string

const (
	ExitStopLoss   ExitReason = "stop_loss"
	ExitTakeProfit ExitReason = "take_profit"
	ExitTime       ExitReason = "time_exit"
)

// Position is one active bought-and-not-yet-sold quantity of a symbol.
// At most one position exists per symbol at any time.
type Position struct {
	Symbol       string
	TradeID      int64 // id of the persisted trade record
	OrderID      int64 // exchange order id of the entry fill
	EntryPrice   float64
	Quantity     float64
	StopLoss     float64
	TakeProfit   float64
	EntryTime    time.Time
	PositionSize float64 // notional committed, in quote currency
}

// CapitalState tracks the capital pool of one strategy instance.
// Single writer: only the owning trader instance mutates it.
type CapitalState struct {
	InitialCapital   float64   `json:"initial_capital"`
	AvailableCapital float64   `json:"available_capital"`
	RealizedPnL      float64   `json:"realized_pnl"`
	DailyProfit      float64   `json:"daily_profit"`
	TradeCount       int       `json:"trade_count"`
	WinCount         int       `json:"win_count"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// WinRate returns the fraction of closed trades with positive PnL.
func (c *CapitalState) WinRate() float64 {
	if c.TradeCount == 0 {
		return 0
	}
	return float64(c.WinCount) / float64(c.TradeCount)
}
