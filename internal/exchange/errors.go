package exchange

import (
	"errors"
	"fmt"
)

// ErrNoData indicates a read returned no usable market data (transport failure,
// timeout, or an empty/malformed response). Callers treat all of these the same
// way: the symbol is skipped this cycle with zero confidence.
var ErrNoData = errors.New("market data unavailable")

// RejectionError is returned when the exchange explicitly refused an order
// (below minimum notional, bad precision, invalid symbol). The order was not
// placed; in-memory state is unchanged.
type RejectionError struct {
	Symbol  string
	Code    int
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("order rejected for %s: code=%d %s", e.Symbol, e.Code, e.Message)
}

// AmbiguousOrderError is returned when an order submission timed out after the
// request may have reached the exchange. The order may or may not exist; the
// caller must reconcile via the client order id before assuming either outcome.
type AmbiguousOrderError struct {
	Symbol        string
	ClientOrderID string
	Err           error
}

func (e *AmbiguousOrderError) Error() string {
	return fmt.Sprintf("ambiguous order outcome for %s (client id %s): %v", e.Symbol, e.ClientOrderID, e.Err)
}

func (e *AmbiguousOrderError) Unwrap() error { return e.Err }
