package model

// FeatureSet holds the indicators derived for one symbol in one scan cycle.
// It is rebuilt every cycle and discarded after scoring. Optional indicators
// carry a Has* flag: when the candle history is too short for an indicator it
// is omitted, never fabricated.
type FeatureSet struct {
	Symbol       string
	CurrentPrice float64

	// Always present when at least two candles exist.
	PriceChangePct float64 // vs previous close, fraction (0.002 = 0.2%)
	VolumeRatio    float64 // current volume / volume SMA

	AccelUp  bool // price change is accelerating upward
	HasAccel bool

	RSI    float64
	HasRSI bool

	SMA20    float64
	HasSMA20 bool

	EMA12    float64
	HasEMA12 bool

	BollingerUpper float64
	BollingerLower float64
	HasBollinger   bool

	// Order-book features, present only when depth access succeeded.
	BookImbalance   float64 // (bidVol-askVol)/(bidVol+askVol)
	LargeBidCount   int     // bids above the 90th percentile of bid size
	LargeAskCount   int
	BookPosition    float64 // price position within the book's price range, 0..1
	HasBookFeatures bool
}
