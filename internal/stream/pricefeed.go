package stream

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	mainnetWS = "wss://stream.binance.com:9443/ws"
	testnetWS = "wss://testnet.binance.vision/ws"

	// Cached prices older than this are treated as missing so the monitor
	// falls back to a REST price read.
	maxPriceAge = 5 * time.Second
)

type tickedPrice struct {
	price float64
	at    time.Time
}

// miniTicker is the payload of a <symbol>@miniTicker stream event.
type miniTicker struct {
	Event  string `json:"e"`
	Symbol string `json:"s"`
	Close  string `json:"c"`
}

// PriceFeed maintains a websocket subscription to per-symbol mini-ticker
// streams and caches the latest price for each subscribed symbol. It exists so
// the position monitor does not burn REST quota polling prices every pass; a
// missing or stale cache entry simply means "use REST this time".
//
// All outbound frames are funneled through sendCh to a per-connection writer
// goroutine; gorilla/websocket permits at most one concurrent writer.
type PriceFeed struct {
	url    string
	sendCh chan []byte

	mu        sync.Mutex
	connected bool
	symbols   map[string]bool
	prices    map[string]tickedPrice
	nextID    int64
}

// NewPriceFeed creates a feed. Run must be called before prices appear.
func NewPriceFeed(testnet bool) *PriceFeed {
	url := mainnetWS
	if testnet {
		url = testnetWS
	}
	return &PriceFeed{
		url:     url,
		sendCh:  make(chan []byte, 64),
		symbols: make(map[string]bool),
		prices:  make(map[string]tickedPrice),
		nextID:  1,
	}
}

// Run connects and pumps ticker events until ctx is cancelled, reconnecting
// with a short pause after any connection failure.
func (f *PriceFeed) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := f.connectAndPump(ctx); err != nil && ctx.Err() == nil {
			log.Printf("[WARN] price feed disconnected: %v, reconnecting", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func (f *PriceFeed) connectAndPump(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Frames queued for a previous connection are stale; drop them before
	// accepting new ones. Nothing enqueues while connected is false.
drain:
	for {
		select {
		case <-f.sendCh:
		default:
			break drain
		}
	}

	f.mu.Lock()
	f.connected = true
	resub := make([]string, 0, len(f.symbols))
	for s := range f.symbols {
		resub = append(resub, s)
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.connected = false
		f.mu.Unlock()
	}()

	// Single writer for this connection.
	writerStop := make(chan struct{})
	defer close(writerStop)
	go func() {
		for {
			select {
			case <-writerStop:
				return
			case frame := <-f.sendCh:
				if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
					log.Printf("[WARN] price feed write: %v", err)
				}
			}
		}
	}()

	if len(resub) > 0 {
		f.enqueue(f.frame("SUBSCRIBE", resub))
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var tick miniTicker
		if err := json.Unmarshal(raw, &tick); err != nil || tick.Event != "24hrMiniTicker" {
			continue // subscription acks and unknown events
		}
		price, err := strconv.ParseFloat(tick.Close, 64)
		if err != nil {
			continue
		}
		f.mu.Lock()
		f.prices[tick.Symbol] = tickedPrice{price: price, at: time.Now()}
		f.mu.Unlock()
	}
}

// frame builds one subscription control message. The id counter stays unique
// across reconnects as the stream API requires.
func (f *PriceFeed) frame(method string, symbols []string) []byte {
	params := make([]string, 0, len(symbols))
	for _, s := range symbols {
		params = append(params, strings.ToLower(s)+"@miniTicker")
	}
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.mu.Unlock()
	data, err := json.Marshal(map[string]any{
		"method": method,
		"params": params,
		"id":     id,
	})
	if err != nil {
		log.Printf("[ERROR] marshal %s frame: %v", method, err)
		return nil
	}
	return data
}

// enqueue hands a frame to the connection's writer goroutine.
func (f *PriceFeed) enqueue(frame []byte) {
	if frame == nil {
		return
	}
	select {
	case f.sendCh <- frame:
	default:
		log.Printf("[WARN] price feed send queue full, frame dropped")
	}
}

// Subscribe starts tracking a symbol's price.
func (f *PriceFeed) Subscribe(symbol string) {
	f.mu.Lock()
	if f.symbols[symbol] {
		f.mu.Unlock()
		return
	}
	f.symbols[symbol] = true
	connected := f.connected
	f.mu.Unlock()
	if connected {
		f.enqueue(f.frame("SUBSCRIBE", []string{symbol}))
	}
}

// Unsubscribe stops tracking a symbol and drops its cached price.
func (f *PriceFeed) Unsubscribe(symbol string) {
	f.mu.Lock()
	if !f.symbols[symbol] {
		f.mu.Unlock()
		return
	}
	delete(f.symbols, symbol)
	delete(f.prices, symbol)
	connected := f.connected
	f.mu.Unlock()
	if connected {
		f.enqueue(f.frame("UNSUBSCRIBE", []string{symbol}))
	}
}

// Price returns the cached price for a symbol if it is fresh enough.
func (f *PriceFeed) Price(symbol string) (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tick, ok := f.prices[symbol]
	if !ok || time.Since(tick.at) > maxPriceAge {
		return 0, false
	}
	return tick.price, true
}
