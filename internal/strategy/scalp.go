package strategy

import (
	"math"
	"time"

	"ScalpSentinel/internal/model"
)

// ScalpPolicy is the fast-scalp scorer: it reacts to single-period price
// momentum, short-window volume spikes, price acceleration, and RSI extremes.
// Weights are deliberately aggressive; the entry threshold lives in the
// gatekeeper config, not here.
type ScalpPolicy struct {
	PriceMoveThreshold   float64 // fraction, default 0.002 (0.2%)
	VolumeRatioThreshold float64 // default 1.2
}

// NewScalpPolicy returns a ScalpPolicy with the default thresholds.
func NewScalpPolicy() *ScalpPolicy {
	return &ScalpPolicy{
		PriceMoveThreshold:   0.002,
		VolumeRatioThreshold: 1.2,
	}
}

func (p *ScalpPolicy) Name() string { return "scalp" }

// Score sums the weighted contributions and reports confidence as the clamped
// absolute sum. A missing indicator contributes zero.
func (p *ScalpPolicy) Score(fs *model.FeatureSet) *model.Signal {
	strength := 0.0
	kind := model.SignalNone

	switch {
	case fs.PriceChangePct > p.PriceMoveThreshold:
		strength += 0.4
		kind = model.SignalMomentumUp
	case fs.PriceChangePct < -p.PriceMoveThreshold:
		strength -= 0.4
		kind = model.SignalMomentumDown
	}

	if fs.VolumeRatio > p.VolumeRatioThreshold {
		strength += 0.3
		kind = model.SignalVolumeSpike
	}

	if fs.HasAccel && fs.AccelUp {
		strength += 0.2
	}

	if fs.HasRSI {
		if fs.RSI < 30 {
			strength += 0.2
		} else if fs.RSI > 70 {
			strength -= 0.2
		}
	}

	direction := model.DirectionNeutral
	if strength > 0 {
		direction = model.DirectionBuy
	} else if strength < 0 {
		direction = model.DirectionSell
	}

	return &model.Signal{
		Symbol:       fs.Symbol,
		Kind:         kind,
		Confidence:   clamp01(math.Abs(strength)),
		Direction:    direction,
		CurrentPrice: fs.CurrentPrice,
		Timestamp:    time.Now(),
	}
}

// ScalpSizer grows the base position size with realized capital growth when
// compounding is on, capped at 10x growth and at 10% of current capital.
type ScalpSizer struct {
	BaseSize    float64
	Compounding bool
}

func (s *ScalpSizer) Size(confidence float64, capital *model.CapitalState) float64 {
	size := s.BaseSize
	if s.Compounding && capital.InitialCapital > 0 {
		growth := capital.AvailableCapital / capital.InitialCapital
		if growth > 10 {
			growth = 10
		}
		size = s.BaseSize * growth
		if cap10 := capital.AvailableCapital * 0.10; size > cap10 {
			size = cap10
		}
	}
	if size > capital.AvailableCapital {
		size = capital.AvailableCapital
	}
	return size
}
