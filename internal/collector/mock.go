package collector

import (
	"context"
	"time"

	"ScalpSentinel/internal/model"
)

// MockMarketData returns controllable fixed data for development and testing.
type MockMarketData struct {
	Candles   []model.Candle
	Book      *model.OrderBook
	Price     float64
	KlinesErr error
	BookErr   error
	PriceErr  error
}

func (m *MockMarketData) GetKlines(_ context.Context, _, _ string, _ int) ([]model.Candle, error) {
	if m.KlinesErr != nil {
		return nil, m.KlinesErr
	}
	return m.Candles, nil
}

func (m *MockMarketData) GetOrderBook(_ context.Context, symbol string, _ int) (*model.OrderBook, error) {
	if m.BookErr != nil {
		return nil, m.BookErr
	}
	if m.Book != nil {
		return m.Book, nil
	}
	return &model.OrderBook{Symbol: symbol}, nil
}

func (m *MockMarketData) GetPrice(_ context.Context, _ string) (float64, error) {
	if m.PriceErr != nil {
		return 0, m.PriceErr
	}
	return m.Price, nil
}

// GenerateCandles builds a deterministic drifting series around basePrice,
// useful for exercising indicator windows.
func GenerateCandles(basePrice float64, count int) []model.Candle {
	candles := make([]model.Candle, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		candles[i] = model.Candle{
			OpenTime: time.Now().Add(-time.Duration(count-i) * time.Minute),
			Open:     p * 0.999,
			High:     p * 1.005,
			Low:      p * 0.995,
			Close:    p,
			Volume:   1000000,
		}
	}
	return candles
}
