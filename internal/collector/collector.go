package collector

import (
	"context"
	"fmt"
	"log"

	"ScalpSentinel/internal/calculator"
	"ScalpSentinel/internal/exchange"
	"ScalpSentinel/internal/model"
)

// MarketData is the read side of the exchange needed to build a feature set.
type MarketData interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error)
	GetOrderBook(ctx context.Context, symbol string, depth int) (*model.OrderBook, error)
	GetPrice(ctx context.Context, symbol string) (float64, error)
}

// Builder derives a FeatureSet for one symbol from fresh market data.
// Indicators whose minimum history is not met are omitted from the result
// (their Has* flag stays false), never fabricated.
type Builder struct {
	Data          MarketData
	Interval      string
	Lookback      int
	VolumePeriod  int
	WithOrderBook bool
	BookDepth     int
}

// NewBuilder creates a Builder with sane indicator windows.
func NewBuilder(data MarketData, interval string, lookback, volumePeriod int, withBook bool) *Builder {
	if lookback < 2 {
		lookback = 2
	}
	if volumePeriod < 2 {
		volumePeriod = 5
	}
	return &Builder{
		Data:          data,
		Interval:      interval,
		Lookback:      lookback,
		VolumePeriod:  volumePeriod,
		WithOrderBook: withBook,
		BookDepth:     100,
	}
}

// Build fetches candles (and the order book when enabled) and computes the
// feature set. It fails only when no usable candle series exists; a failed
// order-book read just omits the book features.
func (b *Builder) Build(ctx context.Context, symbol string) (*model.FeatureSet, error) {
	candles, err := b.Data.GetKlines(ctx, symbol, b.Interval, b.Lookback)
	if err != nil {
		return nil, fmt.Errorf("build features %s: %w", symbol, err)
	}
	if len(candles) < 2 {
		return nil, fmt.Errorf("build features %s: series too short (%d candles): %w", symbol, len(candles), exchange.ErrNoData)
	}

	closes := calculator.ExtractCloses(candles)
	volumes := calculator.ExtractVolumes(candles)
	n := len(closes)

	fs := &model.FeatureSet{
		Symbol:       symbol,
		CurrentPrice: closes[n-1],
		VolumeRatio:  1, // neutral when the volume average is unavailable
	}
	// A zero close would make the change infinite; leave it at zero instead.
	if closes[n-2] != 0 {
		fs.PriceChangePct = (closes[n-1] - closes[n-2]) / closes[n-2]
	}

	if ratio, err := calculator.CalculateVolumeRatio(volumes, b.VolumePeriod); err == nil {
		fs.VolumeRatio = ratio
	}

	if n >= 3 {
		accel := (closes[n-1] - closes[n-2]) - (closes[n-2] - closes[n-3])
		fs.AccelUp = accel > 0
		fs.HasAccel = true
	}

	if rsi, err := calculator.CalculateRSI(closes, 14); err == nil {
		fs.RSI = rsi
		fs.HasRSI = true
	}
	if sma, err := calculator.CalculateSMA(closes, 20); err == nil {
		fs.SMA20 = sma
		fs.HasSMA20 = true
	}
	if ema, err := calculator.CalculateEMA(closes, 12); err == nil {
		fs.EMA12 = ema
		fs.HasEMA12 = true
	}
	if upper, _, lower, err := calculator.CalculateBollinger(closes, 20, 2); err == nil {
		fs.BollingerUpper = upper
		fs.BollingerLower = lower
		fs.HasBollinger = true
	}

	if b.WithOrderBook {
		b.addBookFeatures(ctx, symbol, fs)
	}

	return fs, nil
}

func (b *Builder) addBookFeatures(ctx context.Context, symbol string, fs *model.FeatureSet) {
	book, err := b.Data.GetOrderBook(ctx, symbol, b.BookDepth)
	if err != nil {
		log.Printf("[WARN] order book fetch failed for %s, skipping book features: %v", symbol, err)
		return
	}
	imbalance, err := calculator.CalculateBookImbalance(book)
	if err != nil {
		log.Printf("[WARN] book imbalance for %s: %v", symbol, err)
		return
	}
	position, err := calculator.CalculateBookPosition(book, fs.CurrentPrice)
	if err != nil {
		log.Printf("[WARN] book position for %s: %v", symbol, err)
		return
	}
	fs.BookImbalance = imbalance
	fs.LargeBidCount = calculator.CountLargeOrders(book.Bids)
	fs.LargeAskCount = calculator.CountLargeOrders(book.Asks)
	fs.BookPosition = position
	fs.HasBookFeatures = true
}
