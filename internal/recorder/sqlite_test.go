package recorder

import (
	"path/filepath"
	"testing"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSaveTrade_AssignsIDs(t *testing.T) {
	r := openTestRecorder(t)

	id1, err := r.SaveTrade(&TradeRecord{Strategy: "scalp", Symbol: "BTCUSDT", Side: "BUY", Quantity: 0.1, Price: 100})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	id2, err := r.SaveTrade(&TradeRecord{Strategy: "scalp", Symbol: "ETHUSDT", Side: "BUY", Quantity: 1, Price: 3000})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id1 == 0 || id2 <= id1 {
		t.Errorf("expected increasing ids, got %d then %d", id1, id2)
	}
}

func TestDailyStats_CountsOnlyClosedTrades(t *testing.T) {
	r := openTestRecorder(t)

	winID, _ := r.SaveTrade(&TradeRecord{Strategy: "scalp", Symbol: "BTCUSDT", Side: "BUY", Quantity: 0.1, Price: 100})
	lossID, _ := r.SaveTrade(&TradeRecord{Strategy: "scalp", Symbol: "ETHUSDT", Side: "BUY", Quantity: 1, Price: 3000})
	r.SaveTrade(&TradeRecord{Strategy: "scalp", Symbol: "SOLUSDT", Side: "BUY", Quantity: 2, Price: 150}) // stays open
	r.SaveTrade(&TradeRecord{Strategy: "whale", Symbol: "BTCUSDT", Side: "BUY", Quantity: 0.2, Price: 100})

	if err := r.UpdateTradeStatus(winID, "closed", 1.5); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := r.UpdateTradeStatus(lossID, "closed", -0.5); err != nil {
		t.Fatalf("update: %v", err)
	}

	stats, err := r.DailyStats("scalp")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.ClosedTrades != 2 {
		t.Errorf("expected 2 closed scalp trades, got %d", stats.ClosedTrades)
	}
	if stats.Wins != 1 {
		t.Errorf("expected 1 win, got %d", stats.Wins)
	}
	if diff := stats.TotalPnL - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected total pnl 1.0, got %.4f", stats.TotalPnL)
	}

	// no whale trades were closed
	whaleStats, err := r.DailyStats("whale")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if whaleStats.ClosedTrades != 0 {
		t.Errorf("open trades must not count, got %d", whaleStats.ClosedTrades)
	}
}

func TestMarketDataAndWalletHistory(t *testing.T) {
	r := openTestRecorder(t)

	if err := r.RecordMarketData("BTCUSDT", 50000, 123.4); err != nil {
		t.Errorf("record market data: %v", err)
	}
	if err := r.RecordWalletBalance("scalp", 47.5); err != nil {
		t.Errorf("record wallet balance: %v", err)
	}

	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM market_data`).Scan(&count); err != nil || count != 1 {
		t.Errorf("expected 1 market data row, got %d (err %v)", count, err)
	}
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM wallet_history`).Scan(&count); err != nil || count != 1 {
		t.Errorf("expected 1 wallet row, got %d (err %v)", count, err)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	r1, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	r1.SaveTrade(&TradeRecord{Strategy: "scalp", Symbol: "BTCUSDT", Side: "BUY", Quantity: 0.1, Price: 100})
	r1.Close()

	// reopening an existing database must not fail or wipe data
	r2, err := NewSQLiteRecorder(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer r2.Close()
	var count int
	if err := r2.db.QueryRow(`SELECT COUNT(*) FROM trades`).Scan(&count); err != nil || count != 1 {
		t.Errorf("expected surviving trade row, got %d (err %v)", count, err)
	}
}
