package model

import "time"

// Candle represents a single candlestick bar. Never mutated after ingestion.
type Candle struct {
	OpenTime time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// BookLevel is one price level of an order book side.
type BookLevel struct {
	Price    float64
	Quantity float64
}

// OrderBook is a depth snapshot for a symbol.
type OrderBook struct {
	Symbol string
	Bids   []BookLevel
	Asks   []BookLevel
}

// Ticker24h carries the subset of 24-hour statistics used for universe selection.
type Ticker24h struct {
	Symbol         string
	LastPrice      float64
	Volume         float64
	PriceChangePct float64
}
