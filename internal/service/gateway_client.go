package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// GatewayClientConfig содержит настройки клиента платежного шлюза
type GatewayClientConfig struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

// HTTPGatewayClient реализует domain.GatewayClient поверх REST API
// шлюза. Транспорт повторяет неуспешные запросы с экспоненциальной
// задержкой; шлюз идемпотентен по собственным идентификаторам.
type HTTPGatewayClient struct {
	cfg        GatewayClientConfig
	httpClient *retryablehttp.Client
}

// NewGatewayClient создает новый клиент платежного шлюза
func NewGatewayClient(cfg GatewayClientConfig) *HTTPGatewayClient {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = cfg.Timeout
	client.Logger = nil

	return &HTTPGatewayClient{
		cfg:        cfg,
		httpClient: client,
	}
}

type gatewayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type gatewayOrderResponse struct {
	ID string `json:"id"`
}

type gatewayRefundRequest struct {
	Amount int64 `json:"amount"`
}

type gatewayRefundResponse struct {
	ID string `json:"id"`
}

// CreateOrder регистрирует заказ в шлюзе и возвращает его идентификатор
func (c *HTTPGatewayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	body := gatewayOrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}

	var resp gatewayOrderResponse
	if err := c.post(ctx, "/v1/orders", body, &resp); err != nil {
		return "", fmt.Errorf("gateway client: failed to create order: %w", err)
	}

	return resp.ID, nil
}

// RefundPayment запрашивает возврат платежа в шлюзе
func (c *HTTPGatewayClient) RefundPayment(ctx context.Context, gatewayPaymentID string, amount int64) (string, error) {
	body := gatewayRefundRequest{Amount: amount}

	var resp gatewayRefundResponse
	path := "/v1/payments/" + gatewayPaymentID + "/refund"
	if err := c.post(ctx, path, body, &resp); err != nil {
		return "", fmt.Errorf("gateway client: failed to refund payment %s: %w", gatewayPaymentID, err)
	}

	return resp.ID, nil
}

// post выполняет POST с basic-авторизацией ключами шлюза
func (c *HTTPGatewayClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil

	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		seconds, _ := strconv.Atoi(retryAfter)
		return NewRateLimitError(time.Duration(seconds) * time.Second)

	default:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}
