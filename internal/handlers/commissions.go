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

// CommissionService определяет операции с комиссиями
type CommissionService interface {
	ListByAffiliate(ctx context.Context, affiliateID int64, limit, offset int) ([]*domain.Commission, error)
	Approve(ctx context.Context, commissionID int64, note string) error
	Reject(ctx context.Context, commissionID int64, note string) error
}

type CommissionHandler struct {
	commissionService CommissionService
	logger            *zap.Logger
}

func NewCommissionHandler(commissionService CommissionService, logger *zap.Logger) *CommissionHandler {
	return &CommissionHandler{
		commissionService: commissionService,
		logger:            logger,
	}
}

// List обрабатывает GET /api/affiliate/commissions
func (h *CommissionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	commissions, err := h.commissionService.ListByAffiliate(r.Context(), userID, limit, offset)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "commissions", commissions)
}

// Approve обрабатывает POST /api/admin/commissions/{commissionID}/approve
func (h *CommissionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	role, _ := GetRole(r.Context())
	if !authz.Can(role, authz.CapApproveCommission) {
		writeError(w, http.StatusForbidden, "operation not permitted")
		return
	}

	commissionID, err := pathID(r, "commissionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid commission id")
		return
	}

	var req reviewRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.commissionService.Approve(r.Context(), commissionID, req.Note); err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "commission approved", nil)
}

// Reject обрабатывает POST /api/admin/commissions/{commissionID}/reject
func (h *CommissionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	role, _ := GetRole(r.Context())
	if !authz.Can(role, authz.CapApproveCommission) {
		writeError(w, http.StatusForbidden, "operation not permitted")
		return
	}

	commissionID, err := pathID(r, "commissionID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid commission id")
		return
	}

	var req reviewRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := h.commissionService.Reject(r.Context(), commissionID, req.Note); err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, "commission rejected", nil)
}
