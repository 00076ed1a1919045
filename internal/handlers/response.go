package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/skillmint/marketplace-core/internal/domain"
	"go.uber.org/zap"
)

// envelope — единый формат ответа API
type envelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Errors    []string  `json:"errors,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	body.Timestamp = time.Now().UTC()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // заголовки уже отправлены
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string, errs ...string) {
	writeJSON(w, status, envelope{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// statusByError сопоставляет доменные ошибки HTTP-статусам
var statusByError = []struct {
	err    error
	status int
}{
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrCourseNotFound, http.StatusNotFound},
	{domain.ErrOrderNotFound, http.StatusNotFound},
	{domain.ErrCommissionNotFound, http.StatusNotFound},
	{domain.ErrWithdrawalNotFound, http.StatusNotFound},
	{domain.ErrEntryNotFound, http.StatusNotFound},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrSignatureInvalid, http.StatusUnauthorized},
	{domain.ErrWalletFrozen, http.StatusLocked},
	{domain.ErrInsufficientFunds, http.StatusPaymentRequired},
	{domain.ErrDuplicatePurchase, http.StatusConflict},
	{domain.ErrInvalidTransition, http.StatusConflict},
	{domain.ErrCourseInactive, http.StatusUnprocessableEntity},
	{domain.ErrInvalidAmount, http.StatusUnprocessableEntity},
	{domain.ErrInvalidReferral, http.StatusUnprocessableEntity},
	{domain.ErrBelowMinPayout, http.StatusUnprocessableEntity},
	{domain.ErrMonthlyCapExceeded, http.StatusUnprocessableEntity},
	{domain.ErrReferralCycleDetected, http.StatusUnprocessableEntity},
}

// respondError отображает ошибку сервиса в ответ API. Недоменные
// ошибки логируются и уходят клиенту как 500 без деталей.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.err.Error())
			return
		}
	}

	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}
