package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/skillmint/marketplace-core/internal/domain"
)

// LedgerService предоставляет операции с кошельком пользователя.
// Все изменяющие операции выполняются внутри UnitOfWork под блокировкой
// владельца кошелька.
type LedgerService struct {
	uow   domain.UnitOfWork
	repos domain.Repos
}

// NewLedgerService создает новый LedgerService
func NewLedgerService(uow domain.UnitOfWork, repos domain.Repos) *LedgerService {
	return &LedgerService{
		uow:   uow,
		repos: repos,
	}
}

// GetBalance получает баланс кошелька пользователя
func (s *LedgerService) GetBalance(ctx context.Context, userID int64) (*domain.Balance, error) {
	balance, err := s.repos.Ledger.Balance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ledger service: failed to get balance for user %d: %w", userID, err)
	}

	return balance, nil
}

// GetTransactions получает страницу записей леджера пользователя
func (s *LedgerService) GetTransactions(ctx context.Context, userID int64, f domain.LedgerFilter) ([]*domain.LedgerEntry, error) {
	entries, err := s.repos.Ledger.Scan(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("ledger service: failed to scan entries for user %d: %w", userID, err)
	}

	return entries, nil
}

// AdminAdjust добавляет корректирующую запись администратора.
// actorRole проверяется на уровне хендлера; здесь только проверка
// состояния кошелька.
func (s *LedgerService) AdminAdjust(ctx context.Context, userID int64, direction domain.LedgerDirection, amount int64, reference, idempotencyKey string) (*domain.LedgerEntry, error) {
	var entry *domain.LedgerEntry

	err := s.uow.Do(ctx, []int64{userID}, func(r domain.Repos) error {
		user, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.WalletFrozen && direction == domain.LedgerDirectionDebit {
			return domain.ErrWalletFrozen
		}

		entry, err = r.Ledger.Post(ctx, domain.PostParams{
			UserID:         userID,
			Direction:      direction,
			Amount:         amount,
			Category:       domain.LedgerCategoryAdminAdjustment,
			Reference:      reference,
			IdempotencyKey: idempotencyKey,
		})
		return err
	})

	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("ledger service: failed to adjust wallet of user %d: %w", userID, err)
	}

	return entry, nil
}

// isDomainError сообщает, является ли ошибка доменной sentinel-ошибкой,
// которую нельзя оборачивать: хендлеры отображают их в HTTP-статусы.
func isDomainError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrUserNotFound,
		domain.ErrForbidden,
		domain.ErrWalletFrozen,
		domain.ErrCourseNotFound,
		domain.ErrCourseInactive,
		domain.ErrOrderNotFound,
		domain.ErrDuplicatePurchase,
		domain.ErrInvalidReferral,
		domain.ErrInvalidTransition,
		domain.ErrSignatureInvalid,
		domain.ErrInvalidAmount,
		domain.ErrInsufficientFunds,
		domain.ErrEntryNotFound,
		domain.ErrCommissionNotFound,
		domain.ErrWithdrawalNotFound,
		domain.ErrBelowMinPayout,
		domain.ErrMonthlyCapExceeded,
		domain.ErrReferralCycleDetected,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
