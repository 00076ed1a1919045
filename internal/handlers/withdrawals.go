package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/skillmint/marketplace-core/internal/authz"
	"github.com/skillmint/marketplace-core/internal/domain"
)

// WithdrawalService определяет операции с заявками на вывод
type WithdrawalService interface {
	Request(ctx context.Context, userID, amount int64, method, accountDetails string) (*domain.Withdrawal, error)
	Get(ctx context.Context, withdrawalID, userID int64) (*domain.Withdrawal, error)
	Cancel(ctx context.Context, withdrawalID, userID int64) error
	Approve(ctx context.Context, withdrawalID int64, note string) error
	Reject(ctx context.Context, withdrawalID int64, note string) error
	BeginSettlement(ctx context.Context, withdrawalID int64) error
	CompleteSettlement(ctx context.Context, withdrawalID int64, externalRef string) error
	FailSettlement(ctx context.Context, withdrawalID int64, reason string) error
}

type WithdrawalHandler struct {
	withdrawalService WithdrawalService
	logger            *zap.Logger
}

func NewWithdrawalHandler(withdrawalService WithdrawalService, logger *zap.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
		logger:            logger,
	}
}

type withdrawalRequest struct {
	Amount         int64  `json:"amount" validate:"required,gt=0"`
	Method         string `json:"method" validate:"required,oneof=bank_transfer upi"`
	AccountDetails string `json:"account_details" validate:"required"`
}

// Create обрабатывает POST /api/withdrawals
func (h *WithdrawalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var req withdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", validationErrors(err)...)
		return
	}

	withdrawal, err := h.withdrawalService.Request(r.Context(), userID, req.Amount, req.Method, req.AccountDetails)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "withdrawal requested", withdrawal)
}

// Get обрабатывает GET /api/withdrawals/{withdrawalID}
func (h *WithdrawalHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	withdrawalID, err := pathID(r, "withdrawalID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid withdrawal id")
		return
	}

	withdrawal, err := h.withdrawalService.Get(r.Context(), withdrawalID, userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "withdrawal", withdrawal)
}

// Cancel обрабатывает POST /api/withdrawals/{withdrawalID}/cancel
func (h *WithdrawalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	withdrawalID, err := pathID(r, "withdrawalID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid withdrawal id")
		return
	}

	if err := h.withdrawalService.Cancel(r.Context(), withdrawalID, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "withdrawal cancelled", nil)
}

type reviewRequest struct {
	Note string `json:"note"`
}

// Approve обрабатывает POST /api/admin/withdrawals/{withdrawalID}/approve
func (h *WithdrawalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	role, _ := GetRole(r.Context())
	if !authz.Can(role, authz.CapApproveWithdrawal) {
		writeError(w, http.StatusForbidden, "operation not permitted")
		return
	}

	withdrawalID, err := pathID(r, "withdrawalID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid withdrawal id")
		return
	}

	var req reviewRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.withdrawalService.Approve(r.Context(), withdrawalID, req.Note); err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "withdrawal approved", nil)
}

// Reject обрабатывает POST /api/admin/withdrawals/{withdrawalID}/reject
func (h *WithdrawalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	role, _ := GetRole(r.Context())
	if !authz.Can(role, authz.CapApproveWithdrawal) {
		writeError(w, http.StatusForbidden, "operation not permitted")
		return
	}

	withdrawalID, err := pathID(r, "withdrawalID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid withdrawal id")
		return
	}

	var req reviewRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.withdrawalService.Reject(r.Context(), withdrawalID, req.Note); err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "withdrawal rejected", nil)
}

type settleRequest struct {
	Action      string `json:"action" validate:"required,oneof=begin complete fail"`
	ExternalRef string `json:"external_ref" validate:"required_if=Action complete"`
	Reason      string `json:"reason"`
}

// Settle обрабатывает POST /api/admin/withdrawals/{withdrawalID}/settle.
// Тело выбирает шаг расчета: begin забирает заявку в обработку,
// complete фиксирует внешний перевод, fail возвращает резерв.
func (h *WithdrawalHandler) Settle(w http.ResponseWriter, r *http.Request) {
	role, _ := GetRole(r.Context())
	if !authz.Can(role, authz.CapProcessWithdrawal) {
		writeError(w, http.StatusForbidden, "operation not permitted")
		return
	}

	withdrawalID, err := pathID(r, "withdrawalID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid withdrawal id")
		return
	}

	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", validationErrors(err)...)
		return
	}

	var message string
	switch req.Action {
	case "begin":
		err = h.withdrawalService.BeginSettlement(r.Context(), withdrawalID)
		message = "settlement started"
	case "complete":
		err = h.withdrawalService.CompleteSettlement(r.Context(), withdrawalID, req.ExternalRef)
		message = "withdrawal settled"
	case "fail":
		err = h.withdrawalService.FailSettlement(r.Context(), withdrawalID, req.Reason)
		message = "settlement failed, reserve released"
	}
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, message, nil)
}
