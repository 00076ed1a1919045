package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skillmint/marketplace-core/internal/authz"
	"github.com/skillmint/marketplace-core/internal/domain"
	"github.com/skillmint/marketplace-core/internal/service"
)

var validate = validator.New()

// OrderService определяет операции жизненного цикла заказа
type OrderService interface {
	CreateOrder(ctx context.Context, p service.CreateOrderParams) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID, userID int64) (*domain.Order, error)
	ConfirmWalletPayment(ctx context.Context, orderID, userID int64) (*domain.Order, error)
	ConfirmGatewayByBuyer(ctx context.Context, orderID, userID int64, gatewayPaymentID, signature string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID, userID int64) error
	Refund(ctx context.Context, orderID, amount int64) error
}

type OrderHandler struct {
	orderService OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

type createOrderRequest struct {
	CourseID      int64  `json:"course_id" validate:"required,gt=0"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=gateway wallet"`
	ReferralCode  string `json:"referral_code" validate:"omitempty,len=8"`
}

// Create обрабатывает POST /api/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", validationErrors(err)...)
		return
	}

	order, err := h.orderService.CreateOrder(r.Context(), service.CreateOrderParams{
		UserID:        userID,
		CourseID:      req.CourseID,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		ReferralCode:  req.ReferralCode,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "order created", order)
}

// Get обрабатывает GET /api/orders/{orderID}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), orderID, userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "order", order)
}

type confirmOrderRequest struct {
	GatewayPaymentID string `json:"gateway_payment_id"`
	Signature        string `json:"signature"`
}

// Confirm обрабатывает POST /api/orders/{orderID}/confirm. Тело с парой
// платеж-подпись подтверждает оплату через шлюз; пустое тело завершает
// заказ, оплаченный кошельком.
func (h *OrderHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req confirmOrderRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var order *domain.Order
	if req.GatewayPaymentID != "" {
		order, err = h.orderService.ConfirmGatewayByBuyer(r.Context(), orderID, userID, req.GatewayPaymentID, req.Signature)
	} else {
		order, err = h.orderService.ConfirmWalletPayment(r.Context(), orderID, userID)
	}
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "order completed", order)
}

// Cancel обрабатывает POST /api/orders/{orderID}/cancel
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.orderService.Cancel(r.Context(), orderID, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "order cancelled", nil)
}

type refundRequest struct {
	Amount int64 `json:"amount" validate:"gte=0"`
}

// Refund обрабатывает POST /api/admin/orders/{orderID}/refund.
// Нулевая или отсутствующая сумма означает полный возврат.
func (h *OrderHandler) Refund(w http.ResponseWriter, r *http.Request) {
	role, _ := GetRole(r.Context())
	if !authz.Can(role, authz.CapProcessRefund) {
		writeError(w, http.StatusForbidden, "operation not permitted")
		return
	}

	orderID, err := pathID(r, "orderID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req refundRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.orderService.Refund(r.Context(), orderID, req.Amount); err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "refund applied", nil)
}

// pathID извлекает числовой идентификатор из пути запроса
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// validationErrors превращает ошибку валидатора в список сообщений
func validationErrors(err error) []string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fe.Field()+" failed on "+fe.Tag())
	}
	return messages
}
