package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront_backend/internal/logger"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

type Config struct {
	KeyID     string
	KeySecret string
	Currency  string
	BaseURL   string
	Timeout   time.Duration
}

// RazorpayClient - REST-клиент Razorpay Orders API
type RazorpayClient struct {
	cfg        Config
	httpClient *http.Client
}

type razorpayError struct {
	Error *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

func NewRazorpayClient(cfg Config) *RazorpayClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &RazorpayClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *RazorpayClient) Configured() bool {
	return c.cfg.KeyID != "" && c.cfg.KeySecret != ""
}

func (c *RazorpayClient) KeyID() string    { return c.cfg.KeyID }
func (c *RazorpayClient) Currency() string { return c.cfg.Currency }

// CreateOrder создает заказ на стороне провайдера (POST /orders)
func (c *RazorpayClient) CreateOrder(ctx context.Context, input CreateOrderInput) (*GatewayOrder, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	if input.AmountMinor <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrGatewayFailure)
	}

	currency := input.Currency
	if currency == "" {
		currency = c.cfg.Currency
	}
	payload := map[string]interface{}{
		"amount":   input.AmountMinor,
		"currency": currency,
		"receipt":  input.Receipt,
	}
	if len(input.Notes) > 0 {
		payload["notes"] = input.Notes
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrGatewayFailure, err)
	}
	logger.CtxDebug(ctx, "Razorpay create order", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		var apiErr razorpayError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != nil {
			return nil, fmt.Errorf("%w (%d): %s", ErrGatewayFailure, resp.StatusCode, apiErr.Error.Description)
		}
		return nil, fmt.Errorf("%w (%d)", ErrGatewayFailure, resp.StatusCode)
	}

	var order GatewayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrGatewayFailure, err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("%w: empty order id", ErrGatewayFailure)
	}
	return &order, nil
}

func (c *RazorpayClient) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return VerifySignature(c.cfg.KeySecret, gatewayOrderID, paymentID, signature)
}
