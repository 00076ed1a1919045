package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/skillmint/marketplace-core/internal/domain"
	"github.com/skillmint/marketplace-core/internal/utils/signature"
)

// webhookBodyLimit ограничивает размер тела вебхука
const webhookBodyLimit = 1 << 20

// GatewayEventHandler применяет событие платежного шлюза
type GatewayEventHandler interface {
	HandleGatewayEvent(ctx context.Context, event *domain.GatewayEvent) error
}

// WebhookHandler принимает вебхуки платежного шлюза. Подпись тела
// проверяется до разбора JSON; для подтверждений платежа дополнительно
// проверяется подпись пары идентификаторов.
type WebhookHandler struct {
	payments      GatewayEventHandler
	webhookSecret string
	paymentSecret string
	logger        *zap.Logger
}

func NewWebhookHandler(payments GatewayEventHandler, webhookSecret, paymentSecret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		payments:      payments,
		webhookSecret: webhookSecret,
		paymentSecret: paymentSecret,
		logger:        logger,
	}
}

type gatewayWebhook struct {
	Event            string `json:"event"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	Amount           int64  `json:"amount"`
	Signature        string `json:"signature"`
}

// HandleGateway обрабатывает POST /api/webhooks/gateway
func (h *WebhookHandler) HandleGateway(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, webhookBodyLimit))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	received := r.Header.Get("X-Webhook-Signature")
	if !signature.VerifyWebhook(h.webhookSecret, body, received) {
		h.logger.Warn("webhook signature mismatch")
		writeError(w, http.StatusUnauthorized, domain.ErrSignatureInvalid.Error())
		return
	}

	var payload gatewayWebhook
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	if payload.Event == domain.GatewayEventPaymentCaptured {
		if !signature.VerifyPayment(h.paymentSecret, payload.GatewayOrderID, payload.GatewayPaymentID, payload.Signature) {
			h.logger.Warn("payment signature mismatch",
				zap.String("gateway_order_id", payload.GatewayOrderID),
			)
			writeError(w, http.StatusUnauthorized, domain.ErrSignatureInvalid.Error())
			return
		}
	}

	event := &domain.GatewayEvent{
		Event:            payload.Event,
		GatewayOrderID:   payload.GatewayOrderID,
		GatewayPaymentID: payload.GatewayPaymentID,
		Amount:           payload.Amount,
	}

	if err := h.payments.HandleGatewayEvent(r.Context(), event); err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "event processed", nil)
}
