package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/skillmint/marketplace-core/internal/authz"
	"github.com/skillmint/marketplace-core/internal/domain"
)

// WalletService определяет операции с кошельком
type WalletService interface {
	GetBalance(ctx context.Context, userID int64) (*domain.Balance, error)
	GetTransactions(ctx context.Context, userID int64, f domain.LedgerFilter) ([]*domain.LedgerEntry, error)
	AdminAdjust(ctx context.Context, userID int64, direction domain.LedgerDirection, amount int64, reference, idempotencyKey string) (*domain.LedgerEntry, error)
}

type WalletHandler struct {
	walletService WalletService
	logger        *zap.Logger
}

func NewWalletHandler(walletService WalletService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		logger:        logger,
	}
}

// GetBalance обрабатывает GET /api/wallet/balance
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	balance, err := h.walletService.GetBalance(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "balance", balance)
}

// GetTransactions обрабатывает GET /api/wallet/transactions.
// Параметры: category, direction, cursor (seq последней записи), limit.
func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var filter domain.LedgerFilter

	if v := r.URL.Query().Get("category"); v != "" {
		category := domain.LedgerCategory(v)
		filter.Category = &category
	}
	if v := r.URL.Query().Get("direction"); v != "" {
		direction := domain.LedgerDirection(v)
		if direction != domain.LedgerDirectionCredit && direction != domain.LedgerDirectionDebit {
			writeError(w, http.StatusBadRequest, "invalid direction")
			return
		}
		filter.Direction = &direction
	}
	if v := r.URL.Query().Get("cursor"); v != "" {
		cursor, err := strconv.ParseInt(v, 10, 64)
		if err != nil || cursor < 0 {
			writeError(w, http.StatusBadRequest, "invalid cursor")
			return
		}
		filter.Cursor = cursor
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	entries, err := h.walletService.GetTransactions(r.Context(), userID, filter)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "transactions", entries)
}

type adjustRequest struct {
	Direction      string `json:"direction" validate:"required,oneof=credit debit"`
	Amount         int64  `json:"amount" validate:"required,gt=0"`
	Reference      string `json:"reference" validate:"required"`
	IdempotencyKey string `json:"idempotency_key" validate:"required"`
}

// Adjust обрабатывает POST /api/admin/wallet/{userID}/adjust
func (h *WalletHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	role, _ := GetRole(r.Context())

	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", validationErrors(err)...)
		return
	}

	capability := authz.CapCreditWallet
	if req.Direction == string(domain.LedgerDirectionDebit) {
		capability = authz.CapDebitWallet
	}
	if !authz.Can(role, capability) {
		writeError(w, http.StatusForbidden, "operation not permitted")
		return
	}

	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	entry, err := h.walletService.AdminAdjust(r.Context(), userID,
		domain.LedgerDirection(req.Direction), req.Amount, req.Reference, req.IdempotencyKey)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "adjustment posted", entry)
}
