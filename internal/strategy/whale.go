package strategy

import (
	"time"

	"ScalpSentinel/internal/model"
)

// WhalePolicy scores volume/price spikes combined with order-book whale
// detection: heavy bid-side imbalance, clusters of unusually large resting
// orders, and price pressed against the edge of visible liquidity.
type WhalePolicy struct {
	VolumeSpikeThreshold float64 // volume ratio trigger, default 1.5
	PriceSpikeThreshold  float64 // fraction, default 0.005 (0.5%)
}

// NewWhalePolicy returns a WhalePolicy with the default thresholds.
func NewWhalePolicy() *WhalePolicy {
	return &WhalePolicy{
		VolumeSpikeThreshold: 1.5,
		PriceSpikeThreshold:  0.005,
	}
}

func (p *WhalePolicy) Name() string { return "whale" }

// whaleConfidence computes the order-book sub-confidence in [0, 1].
func (p *WhalePolicy) whaleConfidence(fs *model.FeatureSet) float64 {
	if !fs.HasBookFeatures {
		return 0
	}
	confidence := 0.0
	if fs.BookImbalance > 0.2 && fs.LargeBidCount > fs.LargeAskCount {
		confidence += 0.4 // strong buying pressure
	}
	if fs.LargeBidCount > 5 || fs.LargeAskCount > 5 {
		confidence += 0.3 // large order presence
	}
	if fs.BookPosition < 0.1 || fs.BookPosition > 0.9 {
		confidence += 0.3 // price near the book's edge
	}
	return confidence
}

func (p *WhalePolicy) priceSpike(fs *model.FeatureSet) bool {
	change := fs.PriceChangePct
	if change < 0 {
		change = -change
	}
	if change > p.PriceSpikeThreshold {
		return true
	}
	if fs.HasBollinger && fs.CurrentPrice > fs.BollingerUpper*1.02 {
		return true
	}
	return fs.HasRSI && fs.RSI > 70
}

// Score sums the weighted contributions. Negative contributions reduce the
// total; the final confidence is clamped to [0, 1].
func (p *WhalePolicy) Score(fs *model.FeatureSet) *model.Signal {
	strength := 0.0
	kind := model.SignalNone

	if fs.VolumeRatio > p.VolumeSpikeThreshold {
		strength += 0.3
		kind = model.SignalVolumeSpike
	}

	if p.priceSpike(fs) {
		strength += 0.3
		kind = model.SignalPriceSpike
	}

	if whale := p.whaleConfidence(fs); whale > 0.5 {
		strength += whale * 0.4
		kind = model.SignalWhaleActivity
	}

	if fs.HasSMA20 {
		if fs.CurrentPrice > fs.SMA20*1.02 {
			strength += 0.2
		} else if fs.CurrentPrice < fs.SMA20*0.98 {
			strength -= 0.2
		}
	}

	if fs.HasRSI {
		if fs.RSI < 30 {
			strength += 0.1
		} else if fs.RSI > 70 {
			strength -= 0.1
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
		Confidence:   clamp01(strength),
		Direction:    direction,
		CurrentPrice: fs.CurrentPrice,
		Timestamp:    time.Now(),
	}
}

// WhaleSizer scales the base size by signal confidence (0.5x to 1x) times the
// risk-mode multiplier, capped at 95% of current balance.
type WhaleSizer struct {
	BaseSize   float64
	Aggressive bool // doubles the size when set
}

func (s *WhaleSizer) Size(confidence float64, capital *model.CapitalState) float64 {
	confidenceMult := 0.5 + confidence*0.5
	riskMult := 1.0
	if s.Aggressive {
		riskMult = 2.0
	}
	size := s.BaseSize * confidenceMult * riskMult
	if cap95 := capital.AvailableCapital * 0.95; size > cap95 {
		size = cap95
	}
	if size > capital.AvailableCapital {
		size = capital.AvailableCapital
	}
	return size
}
