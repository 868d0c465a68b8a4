package trader

import (
	"os"
	"path/filepath"
	"testing"

	"ScalpSentinel/internal/model"
)

func TestLoadCapitalState_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	state, err := LoadCapitalState(path, 45)
	if err != nil {
		t.Fatalf("missing file should yield a fresh state: %v", err)
	}
	if state.InitialCapital != 45 || state.AvailableCapital != 45 {
		t.Errorf("expected fresh state funded with 45: %+v", state)
	}
	if state.TradeCount != 0 || state.RealizedPnL != 0 {
		t.Errorf("fresh state must start clean: %+v", state)
	}
}

func TestCapitalState_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	original := &model.CapitalState{
		InitialCapital:   45,
		AvailableCapital: 52.5,
		RealizedPnL:      7.5,
		DailyProfit:      1.2,
		TradeCount:       12,
		WinCount:         8,
	}
	if err := SaveCapitalState(path, original); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadCapitalState(path, 999)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// persisted values win over the fallback initial capital
	if loaded.InitialCapital != 45 {
		t.Errorf("expected persisted initial 45, got %.2f", loaded.InitialCapital)
	}
	if loaded.AvailableCapital != 52.5 || loaded.RealizedPnL != 7.5 {
		t.Errorf("capital fields lost in round trip: %+v", loaded)
	}
	if loaded.TradeCount != 12 || loaded.WinCount != 8 {
		t.Errorf("counters lost in round trip: %+v", loaded)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Error("save should stamp UpdatedAt")
	}
}

func TestLoadCapitalState_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCapitalState(path, 45); err == nil {
		t.Error("corrupt state file must fail loudly, not silently reset capital")
	}
}

func TestCapitalState_WinRate(t *testing.T) {
	state := &model.CapitalState{TradeCount: 4, WinCount: 3}
	if got := state.WinRate(); got != 0.75 {
		t.Errorf("expected win rate 0.75, got %.4f", got)
	}
	empty := &model.CapitalState{}
	if got := empty.WinRate(); got != 0 {
		t.Errorf("expected zero win rate with no trades, got %.4f", got)
	}
}
