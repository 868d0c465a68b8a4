package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// Side is an order side.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderResult is the confirmed outcome of an order placement or status query.
type OrderResult struct {
	OrderID       int64
	ClientOrderID string
	Status        string
	ExecutedQty   float64
	QuoteQty      float64
}

// Filled reports whether the order fully executed.
func (o *OrderResult) Filled() bool { return o.Status == "FILLED" }

type orderResponse struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Status        string `json:"status"`
	ExecutedQty   string `json:"executedQty"`
	QuoteQty      string `json:"cummulativeQuoteQty"`
}

func (r *orderResponse) toResult() *OrderResult {
	executed, _ := strconv.ParseFloat(r.ExecutedQty, 64)
	quote, _ := strconv.ParseFloat(r.QuoteQty, 64)
	return &OrderResult{
		OrderID:       r.OrderID,
		ClientOrderID: r.ClientOrderID,
		Status:        r.Status,
		ExecutedQty:   executed,
		QuoteQty:      quote,
	}
}

// PlaceMarketOrder submits a market order for the given quantity. Every order
// carries a generated client order id so that a lost response can be
// reconciled afterwards: a transport failure after submission returns an
// AmbiguousOrderError holding that id, and the caller must query
// GetOrderByClientID before assuming the order does or does not exist.
func (c *Client) PlaceMarketOrder(ctx context.Context, symbol string, side Side, quantity float64) (*OrderResult, error) {
	clientOrderID := "ss-" + uuid.NewString()

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", string(side))
	params.Set("type", "MARKET")
	params.Set("quantity", strconv.FormatFloat(quantity, 'f', -1, 64))
	params.Set("newClientOrderId", clientOrderID)

	var resp orderResponse
	if err := c.signedRequest(ctx, "POST", "/api/v3/order", params, &resp); err != nil {
		if _, rejected := err.(*RejectionError); rejected {
			// The exchange answered: the order was refused, nothing to reconcile.
			return nil, err
		}
		return nil, &AmbiguousOrderError{Symbol: symbol, ClientOrderID: clientOrderID, Err: err}
	}
	return resp.toResult(), nil
}

// GetOrderByClientID queries the status of an order by its client order id.
// A RejectionError with code -2013 means the exchange never saw the order.
func (c *Client) GetOrderByClientID(ctx context.Context, symbol, clientOrderID string) (*OrderResult, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("origClientOrderId", clientOrderID)

	var resp orderResponse
	if err := c.signedRequest(ctx, "GET", "/api/v3/order", params, &resp); err != nil {
		return nil, fmt.Errorf("query order %s/%s: %w", symbol, clientOrderID, err)
	}
	return resp.toResult(), nil
}

// OrderNotFound reports whether an error from GetOrderByClientID means the
// exchange has no record of the order.
func OrderNotFound(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej) && rej.Code == -2013
}
