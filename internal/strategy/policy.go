package strategy

import (
	"time"

	"ScalpSentinel/internal/model"
)

// ScoringPolicy turns a feature set into a scored signal. Implementations are
// pure: same features in, same signal out, no I/O.
type ScoringPolicy interface {
	Name() string
	Score(fs *model.FeatureSet) *model.Signal
}

// SizingPolicy computes the notional to commit for an approved signal. The
// returned size never exceeds the available capital; the caller treats any
// result below its minimum trade size as "do not trade".
type SizingPolicy interface {
	Size(confidence float64, capital *model.CapitalState) float64
}

// NoDataSignal is the zero-confidence signal emitted when no usable market
// data exists for a symbol.
func NoDataSignal(symbol string) *model.Signal {
	return &model.Signal{
		Symbol:    symbol,
		Kind:      model.SignalNoData,
		Direction: model.DirectionNeutral,
		Timestamp: time.Now(),
	}
}

// ErrorSignal is the zero-confidence signal emitted when analysis itself failed.
func ErrorSignal(symbol string) *model.Signal {
	return &model.Signal{
		Symbol:    symbol,
		Kind:      model.SignalError,
		Direction: model.DirectionNeutral,
		Timestamp: time.Now(),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
