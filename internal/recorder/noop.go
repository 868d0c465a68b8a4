package recorder

import "sync/atomic"

// NoopRecorder is used when SQLite is not configured. Trade ids are still
// generated so position records stay internally consistent.
type NoopRecorder struct {
	lastID int64
}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) SaveTrade(_ *TradeRecord) (int64, error) {
	return atomic.AddInt64(&n.lastID, 1), nil
}

func (n *NoopRecorder) UpdateTradeStatus(_ int64, _ string, _ float64) error { return nil }
func (n *NoopRecorder) RecordMarketData(_ string, _, _ float64) error        { return nil }
func (n *NoopRecorder) RecordWalletBalance(_ string, _ float64) error        { return nil }
func (n *NoopRecorder) DailyStats(_ string) (*DailyStats, error)             { return &DailyStats{}, nil }
func (n *NoopRecorder) Close() error                                         { return nil }
