package strategy

import "ScalpSentinel/internal/model"

// RejectReason says why the gatekeeper refused an entry. Distinct reasons keep
// "another symbol holds the last slot" apart from "this symbol already holds
// a position" in logs and tests.
type RejectReason string

const (
	ReasonNone                RejectReason = ""
	ReasonNoData              RejectReason = "no_data"
	ReasonLowConfidence       RejectReason = "low_confidence"
	ReasonMaxPositions        RejectReason = "max_positions"
	ReasonDuplicateSymbol     RejectReason = "duplicate_symbol"
	ReasonInsufficientCapital RejectReason = "insufficient_capital"
	ReasonNotBuy              RejectReason = "not_buy"
)

// GateConfig holds the entry eligibility rules of one strategy instance.
type GateConfig struct {
	ConfidenceThreshold float64
	MaxConcurrent       int
	MinPositionSize     float64
}

// MayEnter is the pure entry predicate: it reports whether a signal is
// eligible to open a position, and the first rule that rejected it.
func MayEnter(sig *model.Signal, openPositions int, symbolHeld bool, capital *model.CapitalState, cfg GateConfig) (bool, RejectReason) {
	if !sig.Tradeable() {
		return false, ReasonNoData
	}
	if sig.Confidence < cfg.ConfidenceThreshold {
		return false, ReasonLowConfidence
	}
	if openPositions >= cfg.MaxConcurrent {
		return false, ReasonMaxPositions
	}
	if symbolHeld {
		return false, ReasonDuplicateSymbol
	}
	if capital.AvailableCapital < cfg.MinPositionSize {
		return false, ReasonInsufficientCapital
	}
	if sig.Direction != model.DirectionBuy {
		return false, ReasonNotBuy
	}
	return true, ReasonNone
}
