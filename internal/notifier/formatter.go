package notifier

import (
	"fmt"
	"strings"

	"ScalpSentinel/internal/recorder"
	"ScalpSentinel/internal/trader"
)

// FormatStatus renders a strategy status for a chat reply.
func FormatStatus(s trader.Status) string {
	var b strings.Builder
	state := "stopped"
	if s.Running {
		state = "running"
	}
	fmt.Fprintf(&b, "📊 <b>%s</b> (%s)\n", s.Strategy, state)
	fmt.Fprintf(&b, "Capital: %.2f USDT\n", s.Capital)
	fmt.Fprintf(&b, "Realized PnL: %+.2f USDT (today %+.2f)\n", s.RealizedPnL, s.DailyProfit)
	fmt.Fprintf(&b, "Trades: %d | Win rate: %.1f%%\n", s.TradeCount, s.WinRate*100)
	fmt.Fprintf(&b, "Open positions: %d\n", s.OpenPositions)
	for _, p := range s.Positions {
		fmt.Fprintf(&b, "  • %s %.8f @ %.8f (held %s)\n",
			p.Symbol, p.Quantity, p.EntryPrice, p.HeldFor.Round(1e9))
	}
	return b.String()
}

// FormatDailySummary renders the end-of-day report for one strategy.
func FormatDailySummary(s trader.Status, stats *recorder.DailyStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌙 <b>Daily summary: %s</b>\n\n", s.Strategy)
	fmt.Fprintf(&b, "Closed trades: %d\n", stats.ClosedTrades)
	winRate := 0.0
	if stats.ClosedTrades > 0 {
		winRate = float64(stats.Wins) / float64(stats.ClosedTrades) * 100
	}
	fmt.Fprintf(&b, "Wins: %d (%.1f%%)\n", stats.Wins, winRate)
	fmt.Fprintf(&b, "PnL today: %+.4f USDT\n", stats.TotalPnL)
	fmt.Fprintf(&b, "Capital: %.2f USDT\n", s.Capital)
	fmt.Fprintf(&b, "Still open: %d positions\n", s.OpenPositions)
	return b.String()
}
