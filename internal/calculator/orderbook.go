package calculator

import (
	"errors"
	"math"
	"sort"

	"ScalpSentinel/internal/model"
)

// CalculateBookImbalance returns (bidVolume-askVolume)/(bidVolume+askVolume).
// Positive values indicate buying pressure.
func CalculateBookImbalance(book *model.OrderBook) (float64, error) {
	var bidVol, askVol float64
	for _, l := range book.Bids {
		bidVol += l.Quantity
	}
	for _, l := range book.Asks {
		askVol += l.Quantity
	}
	total := bidVol + askVol
	if total == 0 {
		return 0, errors.New("empty order book")
	}
	return (bidVol - askVol) / total, nil
}

// CountLargeOrders counts the orders on one side whose quantity exceeds the
// side's 90th percentile of order size.
func CountLargeOrders(levels []model.BookLevel) int {
	if len(levels) == 0 {
		return 0
	}
	threshold := quantile(levels, 0.9)
	count := 0
	for _, l := range levels {
		if l.Quantity > threshold {
			count++
		}
	}
	return count
}

// CalculateBookPosition returns where the current price sits within the book's
// full price range (lowest bid to highest ask), clamped to [0, 1]. Values near
// 0 or 1 mean the price presses against one edge of visible liquidity.
func CalculateBookPosition(book *model.OrderBook, currentPrice float64) (float64, error) {
	if len(book.Bids) == 0 || len(book.Asks) == 0 {
		return 0, errors.New("order book missing a side")
	}
	low := math.Inf(1)
	for _, l := range book.Bids {
		if l.Price < low {
			low = l.Price
		}
	}
	high := math.Inf(-1)
	for _, l := range book.Asks {
		if l.Price > high {
			high = l.Price
		}
	}
	if high <= low {
		return 0, errors.New("degenerate book price range")
	}
	pos := (currentPrice - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// quantile returns the q-quantile of order quantities using linear interpolation.
func quantile(levels []model.BookLevel, q float64) float64 {
	qtys := make([]float64, len(levels))
	for i, l := range levels {
		qtys[i] = l.Quantity
	}
	sort.Float64s(qtys)
	if len(qtys) == 1 {
		return qtys[0]
	}
	rank := q * float64(len(qtys)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return qtys[lo]
	}
	frac := rank - float64(lo)
	return qtys[lo]*(1-frac) + qtys[hi]*frac
}
