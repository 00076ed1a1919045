package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillmint/marketplace-core/internal/domain"
	"github.com/skillmint/marketplace-core/internal/utils/signature"
)

const (
	testWebhookSecret = "webhook-secret"
	testPaymentSecret = "payment-secret"
)

type gatewayEventStub struct {
	handle func(ctx context.Context, event *domain.GatewayEvent) error
}

func (s *gatewayEventStub) HandleGatewayEvent(ctx context.Context, event *domain.GatewayEvent) error {
	return s.handle(ctx, event)
}

// signedWebhook собирает запрос вебхука с корректной подписью тела
func signedWebhook(t *testing.T, payload map[string]any) *http.Request {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/gateway", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", signature.Sign(testWebhookSecret, body))
	return req
}

func TestWebhookHandler_HandleGateway(t *testing.T) {
	t.Run("Captured payment with valid signatures", func(t *testing.T) {
		var got *domain.GatewayEvent
		stub := &gatewayEventStub{
			handle: func(_ context.Context, event *domain.GatewayEvent) error {
				got = event
				return nil
			},
		}
		handler := NewWebhookHandler(stub, testWebhookSecret, testPaymentSecret, zap.NewNop())

		req := signedWebhook(t, map[string]any{
			"event":              domain.GatewayEventPaymentCaptured,
			"gateway_order_id":   "gw_order_123",
			"gateway_payment_id": "gw_pay_55",
			"signature":          signature.SignPayment(testPaymentSecret, "gw_order_123", "gw_pay_55"),
		})
		rec := httptest.NewRecorder()
		handler.HandleGateway(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, domain.GatewayEventPaymentCaptured, got.Event)
		assert.Equal(t, "gw_order_123", got.GatewayOrderID)
		assert.Equal(t, "gw_pay_55", got.GatewayPaymentID)
	})

	t.Run("Body signature mismatch", func(t *testing.T) {
		handler := NewWebhookHandler(&gatewayEventStub{}, testWebhookSecret, testPaymentSecret, zap.NewNop())

		body := `{"event": "payment.captured"}`
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/gateway", strings.NewReader(body))
		req.Header.Set("X-Webhook-Signature", "deadbeef")
		rec := httptest.NewRecorder()
		handler.HandleGateway(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, decodeEnvelope(t, rec).Success)
	})

	t.Run("Missing body signature", func(t *testing.T) {
		handler := NewWebhookHandler(&gatewayEventStub{}, testWebhookSecret, testPaymentSecret, zap.NewNop())

		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/gateway",
			strings.NewReader(`{"event": "payment.captured"}`))
		rec := httptest.NewRecorder()
		handler.HandleGateway(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Captured payment with bad pair signature", func(t *testing.T) {
		handler := NewWebhookHandler(&gatewayEventStub{}, testWebhookSecret, testPaymentSecret, zap.NewNop())

		req := signedWebhook(t, map[string]any{
			"event":              domain.GatewayEventPaymentCaptured,
			"gateway_order_id":   "gw_order_123",
			"gateway_payment_id": "gw_pay_55",
			"signature":          signature.SignPayment(testPaymentSecret, "gw_order_123", "gw_pay_66"),
		})
		rec := httptest.NewRecorder()
		handler.HandleGateway(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Failed payment needs no pair signature", func(t *testing.T) {
		var got *domain.GatewayEvent
		stub := &gatewayEventStub{
			handle: func(_ context.Context, event *domain.GatewayEvent) error {
				got = event
				return nil
			},
		}
		handler := NewWebhookHandler(stub, testWebhookSecret, testPaymentSecret, zap.NewNop())

		req := signedWebhook(t, map[string]any{
			"event":            domain.GatewayEventPaymentFailed,
			"gateway_order_id": "gw_order_123",
		})
		rec := httptest.NewRecorder()
		handler.HandleGateway(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, domain.GatewayEventPaymentFailed, got.Event)
	})

	t.Run("Refund event carries amount", func(t *testing.T) {
		var got *domain.GatewayEvent
		stub := &gatewayEventStub{
			handle: func(_ context.Context, event *domain.GatewayEvent) error {
				got = event
				return nil
			},
		}
		handler := NewWebhookHandler(stub, testWebhookSecret, testPaymentSecret, zap.NewNop())

		req := signedWebhook(t, map[string]any{
			"event":              domain.GatewayEventRefundProcessed,
			"gateway_payment_id": "gw_pay_55",
			"amount":             40000,
		})
		rec := httptest.NewRecorder()
		handler.HandleGateway(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, int64(40000), got.Amount)
	})

	t.Run("Unknown order from dispatch", func(t *testing.T) {
		stub := &gatewayEventStub{
			handle: func(context.Context, *domain.GatewayEvent) error {
				return domain.ErrOrderNotFound
			},
		}
		handler := NewWebhookHandler(stub, testWebhookSecret, testPaymentSecret, zap.NewNop())

		req := signedWebhook(t, map[string]any{
			"event":            domain.GatewayEventPaymentFailed,
			"gateway_order_id": "gw_order_999",
		})
		rec := httptest.NewRecorder()
		handler.HandleGateway(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Malformed signed payload", func(t *testing.T) {
		handler := NewWebhookHandler(&gatewayEventStub{}, testWebhookSecret, testPaymentSecret, zap.NewNop())

		body := []byte(`{"event": `)
		req := httptest.NewRequest(http.MethodPost, "/api/webhooks/gateway", strings.NewReader(string(body)))
		req.Header.Set("X-Webhook-Signature", signature.Sign(testWebhookSecret, body))
		rec := httptest.NewRecorder()
		handler.HandleGateway(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
