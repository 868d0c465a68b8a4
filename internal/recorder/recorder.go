package recorder

// TradeRecord is a persisted trade. ID is assigned by the store on save.
type TradeRecord struct {
	ID         int64
	Strategy   string
	Symbol     string
	Side       string
	Quantity   float64
	Price      float64
	TakeProfit float64
	StopLoss   float64
}

// DailyStats aggregates one strategy's closed trades for the current day.
type DailyStats struct {
	ClosedTrades int
	Wins         int
	TotalPnL     float64
}

// Recorder persists trades, market snapshots, and wallet history.
// Everything except SaveTrade is fire-and-forget for the trading core: a
// persistence failure is logged but never blocks a trade decision.
type Recorder interface {
	SaveTrade(t *TradeRecord) (int64, error)
	UpdateTradeStatus(tradeID int64, status string, pnl float64) error
	RecordMarketData(symbol string, price, volume float64) error
	RecordWalletBalance(strategy string, balance float64) error
	DailyStats(strategy string) (*DailyStats, error)
	Close() error
}
