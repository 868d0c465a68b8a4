package notifier

import (
	"strings"
	"testing"
	"time"

	"ScalpSentinel/internal/recorder"
	"ScalpSentinel/internal/trader"
)

func TestFormatStatus(t *testing.T) {
	status := trader.Status{
		Strategy:      "scalp",
		Running:       true,
		OpenPositions: 1,
		Positions: []trader.PositionStatus{
			{Symbol: "BTCUSDT", EntryPrice: 50000, Quantity: 0.001, HeldFor: 90 * time.Second},
		},
		Capital:     47.5,
		RealizedPnL: 2.5,
		DailyProfit: 1.1,
		TradeCount:  10,
		WinRate:     0.6,
	}
	out := FormatStatus(status)
	for _, want := range []string{"scalp", "running", "47.50", "+2.50", "60.0%", "BTCUSDT"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDailySummary(t *testing.T) {
	status := trader.Status{Strategy: "whale", Capital: 52.0, OpenPositions: 2}
	stats := &recorder.DailyStats{ClosedTrades: 4, Wins: 3, TotalPnL: 1.25}

	out := FormatDailySummary(status, stats)
	for _, want := range []string{"whale", "Closed trades: 4", "75.0%", "+1.2500", "52.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDailySummary_NoTrades(t *testing.T) {
	out := FormatDailySummary(trader.Status{Strategy: "scalp"}, &recorder.DailyStats{})
	if !strings.Contains(out, "(0.0%)") {
		t.Errorf("zero trades must render a 0%% win rate, got:\n%s", out)
	}
}
