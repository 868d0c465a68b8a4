package calculator

import (
	"math"
	"testing"

	"ScalpSentinel/internal/model"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCalculateSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	sma, err := CalculateSMA(values, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sma != 3.0 {
		t.Errorf("expected SMA 3.0, got %.4f", sma)
	}

	// window shorter than the slice uses only the tail
	sma, err = CalculateSMA(values, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sma != 4.5 {
		t.Errorf("expected SMA 4.5 over last 2, got %.4f", sma)
	}
}

func TestCalculateSMA_InsufficientData(t *testing.T) {
	if _, err := CalculateSMA([]float64{1, 2}, 5); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, err := CalculateSMA([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestCalculateEMA_ConstantSeries(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 100
	}
	ema, err := CalculateEMA(values, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(ema, 100, 1e-9) {
		t.Errorf("EMA of constant series should be the constant, got %.4f", ema)
	}
}

func TestCalculateEMA_TracksRecentValues(t *testing.T) {
	// rising series: EMA should sit above SMA of the full window
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	ema, err := CalculateEMA(values, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sma, _ := CalculateSMA(values, len(values))
	if ema <= sma {
		t.Errorf("EMA %.4f should weigh recent values above full SMA %.4f", ema, sma)
	}
}

func TestCalculateRSI_Extremes(t *testing.T) {
	// monotonically rising: no losses, RSI = 100
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(100 + i)
	}
	rsi, err := CalculateRSI(rising, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100 {
		t.Errorf("expected RSI 100 for pure gains, got %.2f", rsi)
	}

	// monotonically falling: RSI near 0
	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = float64(200 - i)
	}
	rsi, err = CalculateRSI(falling, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi > 1e-9 {
		t.Errorf("expected RSI near 0 for pure losses, got %.2f", rsi)
	}
}

func TestCalculateRSI_FlatSeries(t *testing.T) {
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 100
	}
	// no gains and no losses: avgLoss is zero, convention is 100
	rsi, err := CalculateRSI(flat, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsi != 100 {
		t.Errorf("expected RSI 100 for flat series, got %.2f", rsi)
	}
}

func TestCalculateRSI_InsufficientData(t *testing.T) {
	if _, err := CalculateRSI(make([]float64, 14), 14); err == nil {
		t.Error("expected error: RSI needs period+1 values")
	}
}

func TestCalculateBollinger(t *testing.T) {
	values := []float64{2, 4, 6, 8, 10}
	upper, middle, lower, err := CalculateBollinger(values, 5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if middle != 6.0 {
		t.Errorf("expected middle 6.0, got %.4f", middle)
	}
	// population stddev of {2,4,6,8,10} = sqrt(8)
	want := 2 * math.Sqrt(8)
	if !almostEqual(upper-middle, want, 1e-9) {
		t.Errorf("expected band half-width %.4f, got %.4f", want, upper-middle)
	}
	if !almostEqual(middle-lower, want, 1e-9) {
		t.Errorf("bands should be symmetric, got lower gap %.4f", middle-lower)
	}
}

func TestCalculateVolumeRatio(t *testing.T) {
	volumes := []float64{10, 10, 10, 10, 20}
	ratio, err := CalculateVolumeRatio(volumes, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// avg = 12, last = 20
	if !almostEqual(ratio, 20.0/12.0, 1e-9) {
		t.Errorf("expected ratio %.4f, got %.4f", 20.0/12.0, ratio)
	}
}

func TestCalculateVolumeRatio_ZeroAverage(t *testing.T) {
	ratio, err := CalculateVolumeRatio([]float64{0, 0, 0}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ratio != 1 {
		t.Errorf("expected neutral ratio 1 for zero average, got %.4f", ratio)
	}
}

func TestCalculateBookImbalance(t *testing.T) {
	book := &model.OrderBook{
		Bids: []model.BookLevel{{Price: 99, Quantity: 30}, {Price: 98, Quantity: 30}},
		Asks: []model.BookLevel{{Price: 101, Quantity: 20}, {Price: 102, Quantity: 20}},
	}
	imb, err := CalculateBookImbalance(book)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (60-40)/100 = 0.2
	if !almostEqual(imb, 0.2, 1e-9) {
		t.Errorf("expected imbalance 0.2, got %.4f", imb)
	}

	if _, err := CalculateBookImbalance(&model.OrderBook{}); err == nil {
		t.Error("expected error for empty book")
	}
}

func TestCountLargeOrders(t *testing.T) {
	// nine small orders and one whale; only the whale clears the 90th percentile
	levels := make([]model.BookLevel, 10)
	for i := 0; i < 9; i++ {
		levels[i] = model.BookLevel{Price: float64(100 - i), Quantity: 1}
	}
	levels[9] = model.BookLevel{Price: 91, Quantity: 500}
	if got := CountLargeOrders(levels); got != 1 {
		t.Errorf("expected 1 large order, got %d", got)
	}

	if got := CountLargeOrders(nil); got != 0 {
		t.Errorf("expected 0 for empty side, got %d", got)
	}
}

func TestCalculateBookPosition(t *testing.T) {
	book := &model.OrderBook{
		Bids: []model.BookLevel{{Price: 100, Quantity: 1}, {Price: 90, Quantity: 1}},
		Asks: []model.BookLevel{{Price: 101, Quantity: 1}, {Price: 110, Quantity: 1}},
	}
	// range 90..110, price 100 sits at 0.5
	pos, err := CalculateBookPosition(book, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(pos, 0.5, 1e-9) {
		t.Errorf("expected position 0.5, got %.4f", pos)
	}

	// price outside the range clamps
	pos, _ = CalculateBookPosition(book, 200)
	if pos != 1 {
		t.Errorf("expected clamp to 1, got %.4f", pos)
	}
	pos, _ = CalculateBookPosition(book, 10)
	if pos != 0 {
		t.Errorf("expected clamp to 0, got %.4f", pos)
	}

	if _, err := CalculateBookPosition(&model.OrderBook{Bids: book.Bids}, 100); err == nil {
		t.Error("expected error for book missing a side")
	}
}
