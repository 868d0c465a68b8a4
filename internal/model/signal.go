package model

import "time"

// SignalKind classifies what fired the signal.
type SignalKind string

const (
	SignalNone          SignalKind = "neutral"
	SignalMomentumUp    SignalKind = "momentum_up"
	SignalMomentumDown  SignalKind = "momentum_down"
	SignalVolumeSpike   SignalKind = "volume_spike"
	SignalPriceSpike    SignalKind = "price_spike"
	SignalWhaleActivity SignalKind = "whale_activity"
	SignalNoData        SignalKind = "no_data"
	SignalError         SignalKind = "error"
)

// Direction is the trade direction a signal suggests.
type Direction string

const (
	DirectionBuy     Direction = "buy"
	DirectionSell    Direction = "sell"
	DirectionNeutral Direction = "neutral"
)

// Signal is the scored output of a scoring policy for one symbol.
// Confidence is always within [0, 1].
type Signal struct {
	Symbol       string
	Kind         SignalKind
	Confidence   float64
	Direction    Direction
	CurrentPrice float64
	Timestamp    time.Time
}

// Tradeable reports whether the signal is based on usable data.
func (s *Signal) Tradeable() bool {
	return s.Kind != SignalNoData && s.Kind != SignalError
}
