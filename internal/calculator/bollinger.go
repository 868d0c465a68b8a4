package calculator

import (
	"errors"
	"math"
)

// CalculateBollinger computes Bollinger bands (middle SMA ± k standard deviations)
// over the last `period` values.
func CalculateBollinger(closes []float64, period int, k float64) (upper, middle, lower float64, err error) {
	if period <= 0 {
		return 0, 0, 0, errors.New("period must be positive")
	}
	if len(closes) < period {
		return 0, 0, 0, errors.New("not enough data for Bollinger calculation")
	}
	middle, err = CalculateSMA(closes, period)
	if err != nil {
		return 0, 0, 0, err
	}
	var variance float64
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - middle
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(period))
	return middle + k*stddev, middle, middle - k*stddev, nil
}
