package exchange

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"ScalpSentinel/internal/model"
)

// GetKlines fetches up to `limit` candles for the symbol at the given interval
// (e.g. "1m"). Candles are returned oldest first.
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))

	// Binance klines come back as arrays of mixed types:
	// [openTime, "open", "high", "low", "close", "volume", closeTime, ...]
	var raw [][]any
	if err := c.get(ctx, "/api/v3/klines", params, &raw); err != nil {
		return nil, fmt.Errorf("fetch klines %s: %w", symbol, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("fetch klines %s: %w: empty series", symbol, ErrNoData)
	}

	candles := make([]model.Candle, 0, len(raw))
	for _, row := range raw {
		if len(row) < 6 {
			return nil, fmt.Errorf("fetch klines %s: %w: malformed row", symbol, ErrNoData)
		}
		openTime, ok := row[0].(float64)
		if !ok {
			return nil, fmt.Errorf("fetch klines %s: %w: bad open time", symbol, ErrNoData)
		}
		fields := make([]float64, 5)
		for i := 1; i <= 5; i++ {
			s, ok := row[i].(string)
			if !ok {
				return nil, fmt.Errorf("fetch klines %s: %w: bad field %d", symbol, ErrNoData, i)
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("fetch klines %s: %w: parse field %d: %v", symbol, ErrNoData, i, err)
			}
			fields[i-1] = v
		}
		candles = append(candles, model.Candle{
			OpenTime: time.UnixMilli(int64(openTime)),
			Open:     fields[0],
			High:     fields[1],
			Low:      fields[2],
			Close:    fields[3],
			Volume:   fields[4],
		})
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].OpenTime.Before(candles[j].OpenTime) })
	return candles, nil
}

// GetPrice fetches the latest trade price for a symbol.
func (c *Client) GetPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	var result struct {
		Price string `json:"price"`
	}
	if err := c.get(ctx, "/api/v3/ticker/price", params, &result); err != nil {
		return 0, fmt.Errorf("fetch price %s: %w", symbol, err)
	}
	price, err := strconv.ParseFloat(result.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("fetch price %s: %w: parse: %v", symbol, ErrNoData, err)
	}
	return price, nil
}

// GetOrderBook fetches a depth snapshot with up to `depth` levels per side.
func (c *Client) GetOrderBook(ctx context.Context, symbol string, depth int) (*model.OrderBook, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("limit", strconv.Itoa(depth))
	var raw struct {
		Bids [][]string `json:"bids"`
		Asks [][]string `json:"asks"`
	}
	if err := c.get(ctx, "/api/v3/depth", params, &raw); err != nil {
		return nil, fmt.Errorf("fetch order book %s: %w", symbol, err)
	}
	book := &model.OrderBook{Symbol: symbol}
	var parseErr error
	parseSide := func(rows [][]string) []model.BookLevel {
		levels := make([]model.BookLevel, 0, len(rows))
		for _, r := range rows {
			if len(r) < 2 {
				parseErr = fmt.Errorf("fetch order book %s: %w: malformed level", symbol, ErrNoData)
				return nil
			}
			price, err1 := strconv.ParseFloat(r[0], 64)
			qty, err2 := strconv.ParseFloat(r[1], 64)
			if err1 != nil || err2 != nil {
				parseErr = fmt.Errorf("fetch order book %s: %w: parse level", symbol, ErrNoData)
				return nil
			}
			levels = append(levels, model.BookLevel{Price: price, Quantity: qty})
		}
		return levels
	}
	book.Bids = parseSide(raw.Bids)
	book.Asks = parseSide(raw.Asks)
	if parseErr != nil {
		return nil, parseErr
	}
	return book, nil
}

// GetLotStep returns the exchange's LOT_SIZE step for the symbol. Results are
// cached for the process lifetime since exchange filters change rarely.
func (c *Client) GetLotStep(ctx context.Context, symbol string) (float64, error) {
	c.mu.Lock()
	if step, ok := c.lotSteps[symbol]; ok {
		c.mu.Unlock()
		return step, nil
	}
	c.mu.Unlock()

	params := url.Values{}
	params.Set("symbol", symbol)
	var info exchangeInfo
	if err := c.get(ctx, "/api/v3/exchangeInfo", params, &info); err != nil {
		return 0, fmt.Errorf("fetch exchange info %s: %w", symbol, err)
	}
	for _, s := range info.Symbols {
		if s.Symbol != symbol {
			continue
		}
		for _, f := range s.Filters {
			if f.FilterType == "LOT_SIZE" {
				step, err := strconv.ParseFloat(f.StepSize, 64)
				if err != nil || step <= 0 {
					return 0, fmt.Errorf("fetch exchange info %s: %w: bad step size %q", symbol, ErrNoData, f.StepSize)
				}
				c.mu.Lock()
				c.lotSteps[symbol] = step
				c.mu.Unlock()
				return step, nil
			}
		}
	}
	return 0, fmt.Errorf("fetch exchange info %s: %w: no LOT_SIZE filter", symbol, ErrNoData)
}

type exchangeInfo struct {
	Symbols []struct {
		Symbol               string `json:"symbol"`
		Status               string `json:"status"`
		IsSpotTradingAllowed bool   `json:"isSpotTradingAllowed"`
		Filters              []struct {
			FilterType string `json:"filterType"`
			StepSize   string `json:"stepSize"`
		} `json:"filters"`
	} `json:"symbols"`
}

// TradeablePairs returns all spot USDT pairs currently open for trading,
// capped at `limit`.
func (c *Client) TradeablePairs(ctx context.Context, limit int) ([]string, error) {
	var info exchangeInfo
	if err := c.get(ctx, "/api/v3/exchangeInfo", url.Values{}, &info); err != nil {
		return nil, fmt.Errorf("fetch exchange info: %w", err)
	}
	pairs := make([]string, 0, limit)
	for _, s := range info.Symbols {
		if !strings.HasSuffix(s.Symbol, "USDT") || s.Status != "TRADING" || !s.IsSpotTradingAllowed {
			continue
		}
		pairs = append(pairs, s.Symbol)
		if len(pairs) >= limit {
			break
		}
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("tradeable pairs: %w: no USDT pairs", ErrNoData)
	}
	return pairs, nil
}

type ticker24hRaw struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	Volume             string `json:"volume"`
	PriceChangePercent string `json:"priceChangePercent"`
}

func (c *Client) get24hTickers(ctx context.Context) ([]model.Ticker24h, error) {
	var raw []ticker24hRaw
	if err := c.get(ctx, "/api/v3/ticker/24hr", url.Values{}, &raw); err != nil {
		return nil, fmt.Errorf("fetch 24h tickers: %w", err)
	}
	tickers := make([]model.Ticker24h, 0, len(raw))
	for _, t := range raw {
		if !strings.HasSuffix(t.Symbol, "USDT") {
			continue
		}
		price, err1 := strconv.ParseFloat(t.LastPrice, 64)
		volume, err2 := strconv.ParseFloat(t.Volume, 64)
		change, err3 := strconv.ParseFloat(t.PriceChangePercent, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		tickers = append(tickers, model.Ticker24h{
			Symbol:         t.Symbol,
			LastPrice:      price,
			Volume:         volume,
			PriceChangePct: change,
		})
	}
	return tickers, nil
}

// VolumeLeaders returns the USDT pairs with the highest 24h volume.
func (c *Client) VolumeLeaders(ctx context.Context, limit int) ([]model.Ticker24h, error) {
	tickers, err := c.get24hTickers(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(tickers, func(i, j int) bool { return tickers[i].Volume > tickers[j].Volume })
	if len(tickers) > limit {
		tickers = tickers[:limit]
	}
	return tickers, nil
}

// TopGainers returns the USDT pairs with the highest positive 24h price change.
func (c *Client) TopGainers(ctx context.Context, limit int) ([]model.Ticker24h, error) {
	tickers, err := c.get24hTickers(ctx)
	if err != nil {
		return nil, err
	}
	gainers := tickers[:0]
	for _, t := range tickers {
		if t.PriceChangePct > 0 {
			gainers = append(gainers, t)
		}
	}
	sort.Slice(gainers, func(i, j int) bool { return gainers[i].PriceChangePct > gainers[j].PriceChangePct })
	if len(gainers) > limit {
		gainers = gainers[:limit]
	}
	return gainers, nil
}
