package domain

import "errors"

// Ошибки пользователей и авторизации
var (
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("operation not permitted")
	ErrWalletFrozen = errors.New("wallet is frozen")
)

// Ошибки курсов и заказов
var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrCourseInactive    = errors.New("course is not available for purchase")
	ErrOrderNotFound     = errors.New("order not found")
	ErrDuplicatePurchase = errors.New("course already purchased")
	ErrInvalidReferral   = errors.New("referral code does not resolve")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrSignatureInvalid  = errors.New("payment signature mismatch")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// Ошибки леджера
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEntryNotFound     = errors.New("ledger entry not found")
)

// Ошибки комиссий и выводов
var (
	ErrCommissionNotFound    = errors.New("commission not found")
	ErrWithdrawalNotFound    = errors.New("withdrawal not found")
	ErrBelowMinPayout        = errors.New("amount is below minimum payout")
	ErrMonthlyCapExceeded    = errors.New("monthly withdrawal cap exceeded")
	ErrReferralCycleDetected = errors.New("referral chain contains a cycle")
)
