package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists trading history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboard readers don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			strategy    TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			side        TEXT NOT NULL,
			quantity    REAL NOT NULL,
			price       REAL NOT NULL,
			status      TEXT DEFAULT 'open',
			take_profit REAL,
			stop_loss   REAL,
			pnl         REAL DEFAULT 0,
			closed_at   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_status ON trades(status)`,

		`CREATE TABLE IF NOT EXISTS market_data (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			price     REAL NOT NULL,
			volume    REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_market_ts ON market_data(timestamp)`,

		`CREATE TABLE IF NOT EXISTS wallet_history (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			strategy  TEXT NOT NULL,
			balance   REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_wallet_ts ON wallet_history(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) SaveTrade(t *TradeRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`INSERT INTO trades
		(timestamp, strategy, symbol, side, quantity, price, take_profit, stop_loss)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), t.Strategy, t.Symbol, t.Side,
		t.Quantity, t.Price, t.TakeProfit, t.StopLoss,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRecorder) UpdateTradeStatus(tradeID int64, status string, pnl float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`UPDATE trades SET status = ?, pnl = ?, closed_at = ? WHERE id = ?`,
		status, pnl, time.Now().Unix(), tradeID)
	return err
}

func (r *SQLiteRecorder) RecordMarketData(symbol string, price, volume float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO market_data (timestamp, symbol, price, volume) VALUES (?,?,?,?)`,
		time.Now().Unix(), symbol, price, volume)
	return err
}

func (r *SQLiteRecorder) RecordWalletBalance(strategy string, balance float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO wallet_history (timestamp, strategy, balance) VALUES (?,?,?)`,
		time.Now().Unix(), strategy, balance)
	return err
}

func (r *SQLiteRecorder) DailyStats(strategy string) (*DailyStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dayStart := time.Now().Truncate(24 * time.Hour).Unix()
	row := r.db.QueryRow(`SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN pnl > 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(pnl), 0)
		FROM trades
		WHERE strategy = ? AND status = 'closed' AND closed_at >= ?`,
		strategy, dayStart)

	stats := &DailyStats{}
	if err := row.Scan(&stats.ClosedTrades, &stats.Wins, &stats.TotalPnL); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
