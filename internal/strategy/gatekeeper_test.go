package strategy

import (
	"testing"
	"time"

	"ScalpSentinel/internal/model"
)

func buySignal(confidence float64) *model.Signal {
	return &model.Signal{
		Symbol:     "BTCUSDT",
		Kind:       model.SignalMomentumUp,
		Confidence: confidence,
		Direction:  model.DirectionBuy,
		Timestamp:  time.Now(),
	}
}

func TestMayEnter_Accepts(t *testing.T) {
	cfg := GateConfig{ConfidenceThreshold: 0.3, MaxConcurrent: 5, MinPositionSize: 0.1}
	capital := &model.CapitalState{AvailableCapital: 45}
	ok, reason := MayEnter(buySignal(0.5), 0, false, capital, cfg)
	if !ok {
		t.Fatalf("expected acceptance, got reason %q", reason)
	}
}

func TestMayEnter_RejectionReasons(t *testing.T) {
	cfg := GateConfig{ConfidenceThreshold: 0.3, MaxConcurrent: 5, MinPositionSize: 0.1}
	capital := &model.CapitalState{AvailableCapital: 45}
	broke := &model.CapitalState{AvailableCapital: 0.05}

	sellSig := buySignal(0.9)
	sellSig.Direction = model.DirectionSell

	tests := []struct {
		name       string
		sig        *model.Signal
		open       int
		symbolHeld bool
		capital    *model.CapitalState
		want       RejectReason
	}{
		{"no data", NoDataSignal("BTCUSDT"), 0, false, capital, ReasonNoData},
		{"analysis error", ErrorSignal("BTCUSDT"), 0, false, capital, ReasonNoData},
		{"low confidence", buySignal(0.2), 0, false, capital, ReasonLowConfidence},
		{"max positions", buySignal(0.5), 5, false, capital, ReasonMaxPositions},
		{"duplicate symbol", buySignal(0.5), 1, true, capital, ReasonDuplicateSymbol},
		{"insufficient capital", buySignal(0.5), 0, false, broke, ReasonInsufficientCapital},
		{"sell direction", sellSig, 0, false, capital, ReasonNotBuy},
	}
	for _, tt := range tests {
		ok, reason := MayEnter(tt.sig, tt.open, tt.symbolHeld, tt.capital, cfg)
		if ok {
			t.Errorf("%s: expected rejection", tt.name)
			continue
		}
		if reason != tt.want {
			t.Errorf("%s: expected reason %q, got %q", tt.name, tt.want, reason)
		}
	}
}

func TestMayEnter_DuplicateBeatsCapacityOnlyWhenSlotsRemain(t *testing.T) {
	// With max_concurrent=1 and the single slot held by this same symbol,
	// the capacity rule fires first.
	cfg := GateConfig{ConfidenceThreshold: 0.3, MaxConcurrent: 1, MinPositionSize: 0.1}
	capital := &model.CapitalState{AvailableCapital: 45}
	ok, reason := MayEnter(buySignal(0.5), 1, true, capital, cfg)
	if ok {
		t.Fatal("expected rejection")
	}
	if reason != ReasonMaxPositions {
		t.Errorf("expected max_positions to win over duplicate_symbol, got %q", reason)
	}
}

func TestMayEnter_CapacityRejectsOtherSymbols(t *testing.T) {
	// single slot held by some other symbol: rejection is about capacity,
	// not about this symbol being held
	cfg := GateConfig{ConfidenceThreshold: 0.3, MaxConcurrent: 1, MinPositionSize: 0.1}
	capital := &model.CapitalState{AvailableCapital: 45}
	sig := buySignal(0.9)
	sig.Symbol = "ETHUSDT"
	ok, reason := MayEnter(sig, 1, false, capital, cfg)
	if ok {
		t.Fatal("expected rejection")
	}
	if reason != ReasonMaxPositions {
		t.Errorf("expected max_positions, got %q", reason)
	}
}

func TestMayEnter_ThresholdBoundary(t *testing.T) {
	cfg := GateConfig{ConfidenceThreshold: 0.3, MaxConcurrent: 5, MinPositionSize: 0.1}
	capital := &model.CapitalState{AvailableCapital: 45}

	// exactly at the threshold is accepted
	if ok, _ := MayEnter(buySignal(0.3), 0, false, capital, cfg); !ok {
		t.Error("expected acceptance at exact threshold")
	}
	if ok, _ := MayEnter(buySignal(0.29999), 0, false, capital, cfg); ok {
		t.Error("expected rejection just below threshold")
	}
}
