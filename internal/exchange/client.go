package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	mainnetURL = "https://api.binance.com"
	testnetURL = "https://testnet.binance.vision"
)

// Client talks to the Binance spot REST API. All reads that fail with a
// transport error, a timeout, or a malformed body are reported as ErrNoData so
// the caller can skip the symbol without special-casing the failure mode.
type Client struct {
	BaseURL   string
	APIKey    string
	SecretKey string
	HTTP      *http.Client
	Limiter   *rate.Limiter

	mu       sync.Mutex
	lotSteps map[string]float64
}

// NewClient creates a client. Testnet redirects all traffic to the Binance
// spot testnet so the bot can run against play money.
func NewClient(apiKey, secretKey string, testnet bool, requestsPerSec int) *Client {
	baseURL := mainnetURL
	if testnet {
		baseURL = testnetURL
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 10
	}
	return &Client{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		SecretKey: secretKey,
		HTTP: &http.Client{
			Timeout: 15 * time.Second,
		},
		Limiter:  rate.NewLimiter(rate.Every(time.Second/time.Duration(requestsPerSec)), requestsPerSec),
		lotSteps: make(map[string]float64),
	}
}

// apiError is the JSON error shape Binance returns on non-2xx responses.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
}

func (c *Client) sign(query string) string {
	mac := hmac.New(sha256.New, []byte(c.SecretKey))
	mac.Write([]byte(query))
	return hex.EncodeToString(mac.Sum(nil))
}

// get performs an unsigned GET and decodes the response into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.Limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	u := c.BaseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.APIKey != "" {
		req.Header.Set("X-MBX-APIKEY", c.APIKey)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoData, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d, body: %s", ErrNoData, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrNoData, err)
	}
	return nil
}

// signedRequest performs a signed request. It does NOT wrap transport failures
// in ErrNoData: order placement callers must distinguish "request never left"
// from "response lost after the exchange may have acted".
func (c *Client) signedRequest(ctx context.Context, method, endpoint string, params url.Values, out any) error {
	if err := c.Limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	params.Set("timestamp", fmt.Sprintf("%d", time.Now().UnixMilli()))
	query := params.Encode()
	query += "&signature=" + c.sign(query)

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint+"?"+query, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-MBX-APIKEY", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Code != 0 {
			return &RejectionError{Symbol: params.Get("symbol"), Code: apiErr.Code, Message: apiErr.Message}
		}
		return &RejectionError{Symbol: params.Get("symbol"), Code: resp.StatusCode, Message: string(body)}
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
