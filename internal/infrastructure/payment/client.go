package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gigbay/marketplace-api/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Client implements ports.PaymentGateway against the payment processor's
// HTTP API. Amounts are converted to the processor's minor currency unit.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type intentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type intentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// CreateIntent requests a payment intent for the given amount. The ctx
// deadline bounds the call; a processor failure of any kind is returned to
// the caller, which must not persist an order.
func (c *Client) CreateIntent(ctx context.Context, amount float64, currency string) (*ports.PaymentIntent, error) {
	body, err := json.Marshal(intentRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: currency,
	})
	if err != nil {
		return nil, fmt.Errorf("payment intent: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("payment intent: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment intent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(snippet)).
			Msg("payment processor rejected intent")
		return nil, fmt.Errorf("payment intent: processor returned %d", resp.StatusCode)
	}

	var out intentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("payment intent: decode response: %w", err)
	}
	if out.ID == "" || out.ClientSecret == "" {
		return nil, fmt.Errorf("payment intent: incomplete processor response")
	}

	return &ports.PaymentIntent{Ref: out.ID, ClientSecret: out.ClientSecret}, nil
}
